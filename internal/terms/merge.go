package terms

// MergeResult is the outcome of normalizing, filtering and deduplicating candidates.
type MergeResult struct {
	Terms    []string       // surviving terms in first-appearance order
	Rejected int            // candidates rejected by Normalize
	Dropped  map[string]int // filter name -> candidates dropped
}

// Merge normalizes every candidate from every source, applies the filters and
// keeps the first occurrence of each term. Source order is preserved.
func Merge(filters []Filter, sources ...[]string) MergeResult {
	res := MergeResult{Dropped: make(map[string]int)}
	seen := make(map[string]bool)
	for _, src := range sources {
		for _, raw := range src {
			term, ok := Normalize(raw)
			if !ok {
				res.Rejected++
				continue
			}
			if seen[term] {
				continue
			}
			seen[term] = true
			if dropped, by := Apply(filters, term); dropped {
				res.Dropped[by]++
				continue
			}
			res.Terms = append(res.Terms, term)
		}
	}
	return res
}
