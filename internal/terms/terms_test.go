package terms

import (
	"reflect"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"  데이터베이스  ", "데이터베이스", true},
		{"(근본  원인 분석)", "근본 원인 분석", true},
		{"「API」,", "API", true},
		{"( foo )", "foo", true},
		{"C++", "C++", true},
		{"a", "", false},
		{"line\nbreak", "", false},
		{"...", "", false},
		{strings.Repeat("가", 61), "", false},
		{strings.Repeat("가", 60), strings.Repeat("가", 60), true},
	}
	for _, tt := range tests {
		got, ok := Normalize(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Normalize(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"", " ", "x", "ab", "  \"quoted\"  ", "(( nested ))", "a\tb\tc", "-- dash --",
		"데이터베이스는", "Kafka/Zookeeper.", "…말줄임…", "#tag", "한글 (English)",
		"éclair", strings.Repeat("word ", 20),
	}
	for _, s := range inputs {
		once, _ := Normalize(s)
		twice, _ := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", s, once, twice)
		}
	}
}

func TestFilters(t *testing.T) {
	filters := DefaultFilters()
	tests := []struct {
		term    string
		dropped bool
		by      string
	}{
		{"데이터베이스는", true, "particle"},
		{"데이터베이스", false, ""},
		{"는", false, ""},
		{"서버에서", true, "particle"},
		{"에서", false, ""},
		{"세 가지 방법", true, "quantifier"},
		{"가지 이유", true, "quantifier"},
		{"여러 개", true, "quantifier"},
		{"번역", false, ""},
		{"데이터를 위한", true, "dangling"},
		{"성능 관련", true, "dangling"},
		{"보안에 대한", true, "dangling"},
		{"예외 처리", false, ""},
		{"API", false, ""},
	}
	for _, tt := range tests {
		dropped, by := Apply(filters, tt.term)
		if dropped != tt.dropped || by != tt.by {
			t.Errorf("Apply(%q) = %v, %q; want %v, %q", tt.term, dropped, by, tt.dropped, tt.by)
		}
	}
}

func TestFromTocTitles(t *testing.T) {
	got := FromTocTitles([]string{"근본 원인 분석", "Kafka: 분산 로그", "단일"})
	want := []string{
		"근본 원인 분석",
		"근본 원인", "원인 분석",
		"근본 원인 분석",
		"Kafka", "분산 로그",
		"Kafka 분산", "분산 로그",
		"Kafka 분산 로그",
		"단일",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FromTocTitles =\n%q\nwant\n%q", got, want)
	}
}

func TestFromTocTitlesLongTitleSkipsRuns(t *testing.T) {
	got := FromTocTitles([]string{"one two three four five six seven"})
	if len(got) != 1 {
		t.Errorf("expected only the whole title for a 7-word title, got %q", got)
	}
}

func TestFrequencyExtractor(t *testing.T) {
	e := NewFrequencyExtractor()
	e.Add(1, "Kafka is a log. Kafka again. the the the")
	e.Add(2, "Kafka broker, Zookeeper. API-v2.")
	e.Add(3, "API-v2 Zookeeper Zookeeper a.b.c.d.e 12345 x1")
	e.Add(3, "broker")

	got := e.Terms()
	want := []string{"Kafka", "Zookeeper", "broker", "API-v2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Terms() = %q, want %q", got, want)
	}
}

func TestFrequencyExtractorTokenShape(t *testing.T) {
	tests := []struct {
		name  string
		pages []string
		want  []string
	}{
		{
			name:  "function words recur like any other token",
			pages: []string{"with Spring and Kafka", "with Spring and Kafka"},
			want:  []string{"with", "Spring", "and", "Kafka"},
		},
		{
			name:  "token after a leading digit",
			pages: []string{"v2Kafka 3Kafka", "3Kafka"},
			want:  []string{"Kafka"},
		},
		{
			name:  "trailing punctuation is trimmed",
			pages: []string{"see Redis.", "Redis/ and Redis-"},
			want:  []string{"Redis"},
		},
		{
			name:  "runs over thirty characters are skipped whole",
			pages: []string{strings.Repeat("a", 35) + " Go1", strings.Repeat("a", 35) + "999xyz Go1"},
			want:  []string{"Go1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewFrequencyExtractor()
			for i, text := range tt.pages {
				e.Add(i+1, text)
			}
			if got := e.Terms(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Terms() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFrequencyExtractorSampleLimit(t *testing.T) {
	e := NewFrequencyExtractor()
	e.SamplePages = 2
	if !e.Add(1, "Redis") || !e.Add(2, "Redis") {
		t.Fatal("first two pages should be accepted")
	}
	if e.Add(3, "Postgres") {
		t.Fatal("third page should be rejected")
	}
	if e.Sampled() != 2 {
		t.Errorf("Sampled() = %d, want 2", e.Sampled())
	}
	if got := e.Terms(); !reflect.DeepEqual(got, []string{"Redis"}) {
		t.Errorf("Terms() = %q", got)
	}
}

func TestFrequencyExtractorMaxTerms(t *testing.T) {
	e := NewFrequencyExtractor()
	e.MaxTerms = 1
	e.Add(1, "alpha beta beta")
	e.Add(2, "alpha beta")
	if got := e.Terms(); !reflect.DeepEqual(got, []string{"beta"}) {
		t.Errorf("Terms() = %q", got)
	}
}

func TestParentheticalExtractor(t *testing.T) {
	e := NewParentheticalExtractor()
	e.Add(10, true, "관계형 데이터베이스(relational database)는 SQL(구조적 질의 언어)을 쓴다.")
	e.Add(12, true, "다시 데이터베이스(relational database)")
	e.Add(0, false, "색인(index)")

	got := e.Terms()
	want := []string{"데이터베이스", "relational database", "SQL", "구조적 질의 언어", "색인", "index"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Terms() = %q, want %q", got, want)
	}
}

func TestParentheticalExtractorCountRange(t *testing.T) {
	e := NewParentheticalExtractor()
	e.MaxCount = 2
	for i := 0; i < 3; i++ {
		e.Add(i+1, true, "머리글(Header)")
	}
	e.Add(5, true, "본문(Body)")
	got := e.Terms()
	want := []string{"본문", "Body"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Terms() = %q, want %q", got, want)
	}
}

func TestMerge(t *testing.T) {
	res := Merge(DefaultFilters(),
		[]string{"데이터베이스", " 데이터베이스 ", "데이터베이스는", "x"},
		[]string{"API", "세 가지 방법", "데이터베이스"},
	)
	want := []string{"데이터베이스", "API"}
	if !reflect.DeepEqual(res.Terms, want) {
		t.Errorf("Terms = %q, want %q", res.Terms, want)
	}
	if res.Rejected != 1 {
		t.Errorf("Rejected = %d, want 1", res.Rejected)
	}
	if res.Dropped["particle"] != 1 || res.Dropped["quantifier"] != 1 {
		t.Errorf("Dropped = %v", res.Dropped)
	}
}
