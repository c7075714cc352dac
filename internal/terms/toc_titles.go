package terms

import (
	"regexp"
	"strings"
)

// titleSeparators splits a title into sub-phrases. Hyphens only split when
// spaced so that compounds like "Wi-Fi" survive.
var titleSeparators = regexp.MustCompile(`\s+-\s+|[,:;/·–—()\[\]{}<>「」『』《》〈〉"'“”‘’|!?]+`)

// FromTocTitles decomposes TOC titles into candidates: every sub-phrase
// between separators, plus every contiguous 2-3 word run for titles of 2-6 words.
func FromTocTitles(titles []string) []string {
	var out []string
	for _, title := range titles {
		for _, part := range titleSeparators.Split(title, -1) {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}

		words := strings.Fields(titleSeparators.ReplaceAllString(title, " "))
		if len(words) < 2 || len(words) > 6 {
			continue
		}
		for size := 2; size <= 3; size++ {
			for i := 0; i+size <= len(words); i++ {
				out = append(out, strings.Join(words[i:i+size], " "))
			}
		}
	}
	return out
}
