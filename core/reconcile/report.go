package reconcile

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// SummaryOptions controls how tracker summaries are built.
type SummaryOptions struct {
	// Host is the name of the ground-truth service, which gets no summary.
	Host string
	// Own enables recovery links.
	Own bool
	// Insufficient marks runs where fewer than two services returned data.
	Insufficient bool
	// Language selects number formatting in headlines. Defaults to English.
	Language language.Tag
}

// Summarize builds one summary per non-host service, ordered by service name
// ignoring case. mismatched gives the order titles are considered in.
func Summarize(results []Result, adapters []Adapter, authoritative map[int]Record, mismatched []int, opts SummaryOptions) []Summary {
	if opts.Language == language.Und {
		opts.Language = language.English
	}
	p := message.NewPrinter(opts.Language)

	byName := make(map[string]Adapter, len(adapters))
	for _, a := range adapters {
		byName[a.Name()] = a
	}

	summaries := []Summary{}
	for _, res := range results {
		if opts.Host != "" && res.Service == opts.Host {
			continue
		}
		summaries = append(summaries, summarize(p, res, byName[res.Service], authoritative, mismatched, opts))
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return strings.ToUpper(summaries[i].Service) < strings.ToUpper(summaries[j].Service)
	})
	return summaries
}

func summarize(p *message.Printer, res Result, adapter Adapter, authoritative map[int]Record, mismatched []int, opts SummaryOptions) Summary {
	s := Summary{Service: res.Service}
	if adapter != nil {
		s.ProfileLink = adapter.ProfileLink()
	}

	switch {
	case res.Status == StatusNeedsSignIn:
		s.State = StateNeedsSignIn
		s.SignIn = res.SignIn
		s.Headline = "Sign in"
		if res.SignIn != nil && res.SignIn.As != "" {
			s.Headline = "Sign in as " + res.SignIn.As
		}
		return s
	case res.Status == StatusError && !res.NoData:
		s.State = StateError
		s.Error = res.Error
		s.Headline = res.Error
		return s
	case !res.HasData():
		s.State = StateNoData
		s.Headline = "No achievements found"
		return s
	case opts.Insufficient:
		s.State = StateNotCompared
		s.Headline = "Not compared, fewer than two services returned data"
		return s
	}

	own := make(map[int]*Record, len(res.Records))
	for i := range res.Records {
		own[res.Records[i].ID] = &res.Records[i]
	}

	var missing, removed []GameDelta
	for _, id := range mismatched {
		auth, ok := authoritative[id]
		if !ok {
			continue
		}
		rec := own[id]
		have := 0
		if rec != nil {
			have = rec.Unlocked
		}
		if auth.Unlocked == have {
			continue
		}

		name := auth.Name
		if name == "" && rec != nil {
			name = rec.Name
		}
		g := GameDelta{
			ID:            id,
			Name:          Record{ID: id, Name: name}.DisplayName(),
			Authoritative: auth.Unlocked,
			Service:       have,
			Total:         auth.Total,
		}
		if adapter != nil {
			g.Link = adapter.TitleLink(linkRecord(rec, &auth, id))
		}

		if auth.Unlocked > have {
			missing = append(missing, g)
		} else {
			removed = append(removed, g)
		}
	}

	if len(missing) == 0 && len(removed) == 0 {
		s.State = StateUpToDate
		s.Headline = "Up to date"
		return s
	}

	s.State = StateBehind
	var headlines []string
	if len(missing) > 0 {
		s.Missing = newDeltaSet(p, "missing", missing)
		headlines = append(headlines, s.Missing.Headline)
		if rc, ok := adapter.(Recoverer); ok && opts.Own {
			s.Recovery = rc.RecoveryLink(recoverRecords(s.Missing.Games))
		}
	}
	if len(removed) > 0 {
		s.Removed = newDeltaSet(p, "removed", removed)
		headlines = append(headlines, s.Removed.Headline)
	}
	s.Headline = strings.Join(headlines, "; ")
	return s
}

func newDeltaSet(p *message.Printer, kind string, games []GameDelta) *DeltaSet {
	sort.SliceStable(games, func(i, j int) bool {
		a, b := strings.ToUpper(games[i].Name), strings.ToUpper(games[j].Name)
		if a != b {
			return a < b
		}
		return games[i].ID < games[j].ID
	})

	sum := 0
	ids := make([]string, len(games))
	for i, g := range games {
		sum += g.Delta()
		ids[i] = strconv.Itoa(g.ID)
	}

	return &DeltaSet{
		Games:        games,
		Achievements: sum,
		Headline: p.Sprintf("%d %s %s in %d %s",
			sum, kind, plural(sum, "achievement"), len(games), plural(len(games), "game")),
		AppIDs: strings.Join(ids, ","),
		JSON:   RecoverJSON(recoverRecords(games)),
	}
}

func recoverRecords(games []GameDelta) []Record {
	out := make([]Record, len(games))
	for i, g := range games {
		out[i] = Record{ID: g.ID, Unlocked: g.Authoritative, Total: g.Total}
	}
	return out
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
