package pipeline

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type fakeStage struct {
	name string
	deps []string
}

func (f *fakeStage) Name() string           { return f.name }
func (f *fakeStage) Dependencies() []string { return f.deps }
func (f *fakeStage) Description() string    { return "fake " + f.name }

func (f *fakeStage) Run(ctx context.Context, rc *RunContext) error { return nil }

// graph is a stage list written as name -> dependencies, in registration order.
type graph []struct {
	name string
	deps []string
}

func (g graph) registry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	for _, n := range g {
		if err := r.Register(&fakeStage{name: n.name, deps: n.deps}); err != nil {
			t.Fatalf("Register(%s): %v", n.name, err)
		}
	}
	return r
}

func names(stages []Stage) []string {
	out := make([]string, len(stages))
	for i, s := range stages {
		out[i] = s.Name()
	}
	return out
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&fakeStage{name: "open"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(&fakeStage{name: "open"}); !errors.Is(err, ErrStageAlreadyRegistered) {
		t.Errorf("duplicate Register error = %v, want ErrStageAlreadyRegistered", err)
	}
}

func TestRegistry_GetOrdered(t *testing.T) {
	tests := []struct {
		name    string
		graph   graph
		want    []string
		wantErr error
	}{
		{
			name:  "independent stages keep registration order",
			graph: graph{{"b", nil}, {"a", nil}, {"c", nil}},
			want:  []string{"b", "a", "c"},
		},
		{
			name:  "chain registered backwards",
			graph: graph{{"c", []string{"b"}}, {"b", []string{"a"}}, {"a", nil}},
			want:  []string{"a", "b", "c"},
		},
		{
			name: "diamond breaks ties by registration order",
			graph: graph{
				{"join", []string{"right", "left"}},
				{"right", []string{"root"}},
				{"left", []string{"root"}},
				{"root", nil},
			},
			want: []string{"root", "right", "left", "join"},
		},
		{
			name:    "cycle",
			graph:   graph{{"a", []string{"b"}}, {"b", []string{"a"}}},
			wantErr: ErrDependencyCycle,
		},
		{
			name:    "missing dependency",
			graph:   graph{{"a", []string{"ghost"}}},
			wantErr: ErrStageNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.graph.registry(t)
			ordered, err := r.GetOrdered()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("GetOrdered error = %v, want %v", err, tt.wantErr)
				}
				if vErr := r.Validate(); !errors.Is(vErr, tt.wantErr) {
					t.Errorf("Validate error = %v, want %v", vErr, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetOrdered: %v", err)
			}
			if got := names(ordered); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
			if err := r.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestRegistry_Upstream(t *testing.T) {
	r := graph{
		{"a", nil},
		{"b", []string{"a"}},
		{"c", []string{"b"}},
		{"d", []string{"a"}},
	}.registry(t)

	needed, err := r.Upstream("c")
	if err != nil {
		t.Fatalf("Upstream: %v", err)
	}
	want := map[string]bool{"a": true, "b": true, "c": true}
	if !reflect.DeepEqual(needed, want) {
		t.Errorf("Upstream(c) = %v, want %v", needed, want)
	}

	if _, err := r.Upstream("nope"); !errors.Is(err, ErrStageNotFound) {
		t.Errorf("Upstream(nope) error = %v, want ErrStageNotFound", err)
	}
}

func TestDefaultStages_Order(t *testing.T) {
	p, err := New(nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ordered, err := p.Registry().GetOrdered()
	if err != nil {
		t.Fatalf("GetOrdered: %v", err)
	}
	want := []string{
		StageOpen, StagePageMap, StageLocateTOC, StageParseTOC, StageChapters,
		StageLoadPages, StageCandidates, StageIndex, StageSort,
	}
	if got := names(ordered); !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	for _, s := range ordered {
		if s.Description() == "" {
			t.Errorf("stage %q has no description", s.Name())
		}
	}
}
