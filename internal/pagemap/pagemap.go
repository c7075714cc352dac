// Package pagemap translates physical page numbers into printed (logical) page numbers.
package pagemap

import (
	"strconv"
	"strings"
)

// Map is a read-only physical -> logical page table built once per run.
// Physical pages are 1-indexed.
type Map struct {
	logical []int // index = physical-1; 0 means unmapped
}

// FromLabels builds a map from declared page labels, one per physical page
// (0-indexed). Only purely numeric labels are mapped; roman numerals, prefixed
// labels and empty labels leave that page unmapped. A nil or empty label list
// leaves every page unmapped: there is no offset heuristic.
func FromLabels(labels []string) *Map {
	m := &Map{logical: make([]int, len(labels))}
	for i, label := range labels {
		if n, ok := parseLabel(label); ok {
			m.logical[i] = n
		}
	}
	return m
}

func parseLabel(label string) (int, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return 0, false
	}
	for _, r := range label {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(label)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Logical returns the logical page for a physical page.
func (m *Map) Logical(physical int) (int, bool) {
	if m == nil || physical < 1 || physical > len(m.logical) {
		return 0, false
	}
	n := m.logical[physical-1]
	return n, n > 0
}

// Mapped returns how many physical pages have a logical number.
func (m *Map) Mapped() int {
	if m == nil {
		return 0
	}
	count := 0
	for _, n := range m.logical {
		if n > 0 {
			count++
		}
	}
	return count
}

// Len returns the number of physical pages the map knows about.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.logical)
}
