package document

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	pdftypes "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Page label numbering styles (PDF 32000-1, 12.4.2).
const (
	StyleNone       = ""
	StyleDecimal    = "D"
	StyleUpperRoman = "R"
	StyleLowerRoman = "r"
	StyleUpperAlpha = "A"
	StyleLowerAlpha = "a"
)

// LabelRange is one /PageLabels entry: pages from Index (0-based) onward are
// labelled Prefix followed by a number in Style counting up from Start.
type LabelRange struct {
	Index  int
	Style  string
	Prefix string
	Start  int
}

// readLabelRanges walks the catalog's /PageLabels number tree.
func readLabelRanges(xRefTable *model.XRefTable) ([]LabelRange, error) {
	root, err := xRefTable.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	obj, found := root.Find("PageLabels")
	if !found {
		return nil, nil
	}
	tree, err := xRefTable.DereferenceDict(obj)
	if err != nil {
		return nil, fmt.Errorf("invalid /PageLabels: %w", err)
	}
	if tree == nil {
		return nil, nil
	}

	var ranges []LabelRange
	if err := walkNumberTree(xRefTable, tree, &ranges, 0); err != nil {
		return nil, err
	}
	sort.SliceStable(ranges, func(i, j int) bool { return ranges[i].Index < ranges[j].Index })
	return ranges, nil
}

const maxTreeDepth = 32

func walkNumberTree(xRefTable *model.XRefTable, node pdftypes.Dict, out *[]LabelRange, depth int) error {
	if depth > maxTreeDepth {
		return fmt.Errorf("/PageLabels tree deeper than %d", maxTreeDepth)
	}

	if obj, found := node.Find("Kids"); found {
		kids, err := xRefTable.DereferenceArray(obj)
		if err != nil {
			return fmt.Errorf("invalid /PageLabels kids: %w", err)
		}
		for _, k := range kids {
			kid, err := xRefTable.DereferenceDict(k)
			if err != nil {
				return fmt.Errorf("invalid /PageLabels kid: %w", err)
			}
			if kid == nil {
				continue
			}
			if err := walkNumberTree(xRefTable, kid, out, depth+1); err != nil {
				return err
			}
		}
	}

	obj, found := node.Find("Nums")
	if !found {
		return nil
	}
	nums, err := xRefTable.DereferenceArray(obj)
	if err != nil {
		return fmt.Errorf("invalid /PageLabels nums: %w", err)
	}
	for i := 0; i+1 < len(nums); i += 2 {
		key, err := xRefTable.Dereference(nums[i])
		if err != nil {
			return err
		}
		idx, ok := key.(pdftypes.Integer)
		if !ok {
			continue
		}
		d, err := xRefTable.DereferenceDict(nums[i+1])
		if err != nil {
			return fmt.Errorf("invalid page label for index %d: %w", idx.Value(), err)
		}
		r, err := labelRange(xRefTable, idx.Value(), d)
		if err != nil {
			return err
		}
		*out = append(*out, r)
	}
	return nil
}

func labelRange(xRefTable *model.XRefTable, index int, d pdftypes.Dict) (LabelRange, error) {
	r := LabelRange{Index: index, Start: 1}
	if d == nil {
		return r, nil
	}
	if obj, found := d.Find("S"); found {
		if o, err := xRefTable.Dereference(obj); err == nil {
			if n, ok := o.(pdftypes.Name); ok {
				r.Style = n.Value()
			}
		}
	}
	if obj, found := d.Find("St"); found {
		if o, err := xRefTable.Dereference(obj); err == nil {
			if n, ok := o.(pdftypes.Integer); ok && n.Value() > 0 {
				r.Start = n.Value()
			}
		}
	}
	if obj, found := d.Find("P"); found {
		o, err := xRefTable.Dereference(obj)
		if err != nil {
			return r, err
		}
		switch s := o.(type) {
		case pdftypes.StringLiteral:
			r.Prefix, err = pdftypes.StringLiteralToString(s)
		case pdftypes.HexLiteral:
			r.Prefix, err = pdftypes.HexLiteralToString(s)
		}
		if err != nil {
			return r, fmt.Errorf("invalid page label prefix: %w", err)
		}
	}
	return r, nil
}

// expandLabels produces one label per page. Pages before the first range get
// an empty label. Ranges must be sorted by Index.
func expandLabels(ranges []LabelRange, count int) []string {
	labels := make([]string, count)
	for i, r := range ranges {
		end := count
		if i+1 < len(ranges) && ranges[i+1].Index < end {
			end = ranges[i+1].Index
		}
		for p := max(r.Index, 0); p < end; p++ {
			labels[p] = r.Prefix + FormatLabelNumber(r.Style, r.Start+p-r.Index)
		}
	}
	return labels
}

// FormatLabelNumber renders n in the given numbering style.
// StyleNone and unknown styles render nothing.
func FormatLabelNumber(style string, n int) string {
	switch style {
	case StyleDecimal:
		return strconv.Itoa(n)
	case StyleUpperRoman:
		return roman(n)
	case StyleLowerRoman:
		return strings.ToLower(roman(n))
	case StyleUpperAlpha:
		return alpha(n)
	case StyleLowerAlpha:
		return strings.ToLower(alpha(n))
	default:
		return ""
	}
}

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

func roman(n int) string {
	if n <= 0 {
		return ""
	}
	var b strings.Builder
	for _, r := range romanNumerals {
		for n >= r.value {
			b.WriteString(r.symbol)
			n -= r.value
		}
	}
	return b.String()
}

// alpha renders A..Z, then AA..ZZ, then AAA.. as PDF viewers do.
func alpha(n int) string {
	if n <= 0 {
		return ""
	}
	letter := string(rune('A' + (n-1)%26))
	return strings.Repeat(letter, (n-1)/26+1)
}
