package statistics

// KindCount is the number of matching entities of one kind.
type KindCount struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// KindCounts is the entity-type distribution for the current filters.
type KindCounts []KindCount

// CountFor returns the count for kind, 0 if absent.
func (k KindCounts) CountFor(kind string) int {
	for _, kc := range k {
		if kc.Kind == kind {
			return kc.Count
		}
	}
	return 0
}

// Total sums all counts.
func (k KindCounts) Total() int {
	total := 0
	for _, kc := range k {
		total += kc.Count
	}
	return total
}
