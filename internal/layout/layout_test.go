package layout

import (
	"testing"

	"github.com/jackzampolin/bookindex/internal/types"
)

func TestReconstruct(t *testing.T) {
	t.Run("orders lines top to bottom and fragments left to right", func(t *testing.T) {
		frags := []types.Fragment{
			{Text: "world", X: 60, Y: 700},
			{Text: "second", X: 10, Y: 680},
			{Text: "hello", X: 10, Y: 701.5},
		}
		lines := Reconstruct(frags)
		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %d: %+v", len(lines), lines)
		}
		if lines[0].Text != "hello world" {
			t.Errorf("line 0 = %q, want %q", lines[0].Text, "hello world")
		}
		if lines[1].Text != "second" {
			t.Errorf("line 1 = %q, want %q", lines[1].Text, "second")
		}
	})

	t.Run("collapses internal whitespace", func(t *testing.T) {
		lines := Reconstruct([]types.Fragment{
			{Text: "  1.1   소개 ", X: 0, Y: 100},
			{Text: "12", X: 300, Y: 100},
		})
		if len(lines) != 1 || lines[0].Text != "1.1 소개 12" {
			t.Fatalf("unexpected lines: %+v", lines)
		}
	})

	t.Run("fragments outside tolerance start a new line", func(t *testing.T) {
		lines := Reconstruct([]types.Fragment{
			{Text: "a", X: 0, Y: 100},
			{Text: "b", X: 0, Y: 97},
		})
		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %+v", lines)
		}
	})

	t.Run("merges detached page number into previous line", func(t *testing.T) {
		lines := Reconstruct([]types.Fragment{
			{Text: "1.2 배경", X: 0, Y: 500},
			{Text: "15", X: 400, Y: 490},
		})
		if len(lines) != 1 {
			t.Fatalf("expected merge, got %+v", lines)
		}
		if lines[0].Text != "1.2 배경 15" {
			t.Errorf("got %q", lines[0].Text)
		}
	})

	t.Run("does not merge when previous line already ends in digits", func(t *testing.T) {
		lines := Reconstruct([]types.Fragment{
			{Text: "1.2 배경 15", X: 0, Y: 500},
			{Text: "16", X: 400, Y: 490},
		})
		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %+v", lines)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if lines := Reconstruct(nil); len(lines) != 0 {
			t.Fatalf("expected no lines, got %+v", lines)
		}
	})
}
