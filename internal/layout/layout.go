// Package layout rebuilds reading-order lines from positioned text fragments.
package layout

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/jackzampolin/bookindex/internal/types"
)

// YTolerance is the maximum vertical distance between a fragment and a line's
// representative y for the fragment to join that line.
const YTolerance = 2.5

var (
	digitsOnly     = regexp.MustCompile(`^\d{1,4}$`)
	trailingDigits = regexp.MustCompile(`\d{1,4}$`)
)

type bucket struct {
	y     float64
	frags []types.Fragment
}

// Reconstruct groups fragments into lines ordered top of page first.
// A line consisting only of a 1-4 digit number is folded into the previous
// line unless that line already ends in digits (detached page numbers in TOCs).
func Reconstruct(frags []types.Fragment) []types.Line {
	var buckets []*bucket
	for _, f := range frags {
		var target *bucket
		for _, b := range buckets {
			if math.Abs(b.y-f.Y) <= YTolerance {
				target = b
				break
			}
		}
		if target == nil {
			target = &bucket{y: f.Y}
			buckets = append(buckets, target)
		}
		target.frags = append(target.frags, f)
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].y > buckets[j].y
	})

	lines := make([]types.Line, 0, len(buckets))
	for _, b := range buckets {
		sort.SliceStable(b.frags, func(i, j int) bool {
			return b.frags[i].X < b.frags[j].X
		})
		parts := make([]string, 0, len(b.frags))
		for _, f := range b.frags {
			parts = append(parts, f.Text)
		}
		text := CollapseSpaces(strings.Join(parts, " "))
		if text == "" {
			continue
		}
		lines = append(lines, types.Line{Y: b.y, Text: text})
	}

	return mergeDetachedNumbers(lines)
}

func mergeDetachedNumbers(lines []types.Line) []types.Line {
	out := make([]types.Line, 0, len(lines))
	for _, line := range lines {
		if len(out) > 0 && digitsOnly.MatchString(line.Text) {
			prev := &out[len(out)-1]
			if !trailingDigits.MatchString(prev.Text) {
				prev.Text = prev.Text + " " + line.Text
				continue
			}
		}
		out = append(out, line)
	}
	return out
}

// CollapseSpaces trims s and replaces every whitespace run with a single space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
