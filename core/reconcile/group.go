package reconcile

// Observation is one service's record inside a Group.
type Observation struct {
	Service string
	Record  Record
}

// Group is every observation of one title across the active services.
type Group struct {
	ID           int
	Observations []Observation
}

// Unanimous reports whether every observation agrees on the unlocked count.
func (g Group) Unanimous() bool {
	for _, o := range g.Observations[1:] {
		if o.Record.Unlocked != g.Observations[0].Record.Unlocked {
			return false
		}
	}
	return true
}

// GroupByID partitions all records by title id. Groups are ordered by the
// first time their id appears across the concatenated result lists.
func GroupByID(results []Result) []Group {
	var groups []Group
	index := make(map[int]int)

	for _, res := range results {
		for _, r := range res.Records {
			i, ok := index[r.ID]
			if !ok {
				i = len(groups)
				index[r.ID] = i
				groups = append(groups, Group{ID: r.ID})
			}
			groups[i].Observations = append(groups[i].Observations, Observation{Service: res.Service, Record: r})
		}
	}
	return groups
}

// FindMismatches returns the ids of titles that are either missing from a
// service that returned data, or whose unlocked counts differ.
func FindMismatches(results []Result) []int {
	withData := 0
	for _, res := range results {
		if len(res.Records) > 0 {
			withData++
		}
	}

	var ids []int
	for _, g := range GroupByID(results) {
		if len(g.Observations) != withData || !g.Unanimous() {
			ids = append(ids, g.ID)
		}
	}
	return ids
}
