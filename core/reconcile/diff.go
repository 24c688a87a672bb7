package reconcile

import (
	"fmt"
	"sort"
)

// Side is one service's records as seen by the differ.
type Side struct {
	Name    string
	Records []Record
	// Links builds per-title links for this service. May be nil.
	Links TitleLinker
}

func (s Side) link(r Record) string {
	if s.Links == nil {
		return ""
	}
	return s.Links.TitleLink(r)
}

type joined struct {
	id     int
	source *Record
	target *Record
}

// DiffPair joins both services' titles and lists every title with at least
// one discrepancy, sorted by id.
func DiffPair(source, target Side) PairDiff {
	index := make(map[int]*joined)
	var rows []*joined

	for i := range source.Records {
		r := &source.Records[i]
		j := &joined{id: r.ID, source: r}
		index[r.ID] = j
		rows = append(rows, j)
	}
	for i := range target.Records {
		r := &target.Records[i]
		j, ok := index[r.ID]
		if !ok {
			j = &joined{id: r.ID}
			index[r.ID] = j
			rows = append(rows, j)
		}
		j.target = r
	}

	diffs := []Difference{}
	for _, j := range rows {
		reasons := compareTitle(j, source.Name, target.Name)
		if len(reasons) == 0 {
			continue
		}
		diffs = append(diffs, Difference{
			ID:         j.id,
			Name:       joinedName(j),
			Reasons:    reasons,
			SourceLink: source.link(linkRecord(j.source, j.target, j.id)),
			TargetLink: target.link(linkRecord(j.target, j.source, j.id)),
		})
	}

	sort.Slice(diffs, func(a, b int) bool {
		return diffs[a].ID < diffs[b].ID
	})

	return PairDiff{Source: source.Name, Target: target.Name, Differences: diffs}
}

// DiffAll diffs every unordered pair of sides, in input order.
func DiffAll(sides []Side) []PairDiff {
	pairs := []PairDiff{}
	for i := 0; i < len(sides); i++ {
		for j := i + 1; j < len(sides); j++ {
			pairs = append(pairs, DiffPair(sides[i], sides[j]))
		}
	}
	return pairs
}

func compareTitle(j *joined, sourceName, targetName string) []string {
	switch {
	case j.source == nil:
		return []string{"missing on " + sourceName}
	case j.target == nil:
		return []string{"missing on " + targetName}
	}

	s, t := j.source, j.target
	var reasons []string

	switch {
	case s.Unlocked > t.Unlocked:
		reasons = append(reasons, fmt.Sprintf("+%d unlocked on %s", s.Unlocked-t.Unlocked, sourceName))
	case t.Unlocked > s.Unlocked:
		reasons = append(reasons, fmt.Sprintf("+%d unlocked on %s", t.Unlocked-s.Unlocked, targetName))
	default:
		reasons = appendFlag(reasons, "perfect", s.IsPerfect, t.IsPerfect, sourceName, targetName)
		reasons = appendFlag(reasons, "completed", s.IsCompleted, t.IsCompleted, sourceName, targetName)
		reasons = appendFlag(reasons, "counts", Bool(s.IsCounted), Bool(t.IsCounted), sourceName, targetName)
	}

	return appendFlag(reasons, "trusted", s.IsTrusted, t.IsTrusted, sourceName, targetName)
}

// appendFlag adds "<label> on X but not on Y" when one side is True and the
// other is explicitly False.
func appendFlag(reasons []string, label string, s, t Tristate, sourceName, targetName string) []string {
	switch {
	case s == True && t == False:
		return append(reasons, fmt.Sprintf("%s on %s but not on %s", label, sourceName, targetName))
	case t == True && s == False:
		return append(reasons, fmt.Sprintf("%s on %s but not on %s", label, targetName, sourceName))
	}
	return reasons
}

func joinedName(j *joined) string {
	if j.source != nil && j.source.Name != "" {
		return j.source.Name
	}
	if j.target != nil && j.target.Name != "" {
		return j.target.Name
	}
	return Record{ID: j.id}.DisplayName()
}

// linkRecord prefers the service's own record so service-specific refs survive.
func linkRecord(own, other *Record, id int) Record {
	switch {
	case own != nil:
		return Merge(*own, other)
	case other != nil:
		r := *other
		r.Ref = ""
		return r
	default:
		return Record{ID: id}
	}
}
