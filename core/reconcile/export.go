package reconcile

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// RecoverVersion is the version tag of the copyable recover payload.
const RecoverVersion = "2.0"

type recoverApp struct {
	AppID    int  `json:"appid"`
	Unlocked int  `json:"unlocked"`
	Total    *int `json:"total,omitempty"`
}

type recoverPayload struct {
	Version string       `json:"version"`
	Apps    []recoverApp `json:"apps"`
}

// RecoverJSON renders records as the payload trackers accept for rescans:
// {"version":"2.0","apps":[{"appid":..,"unlocked":..,"total":..}]}.
func RecoverJSON(records []Record) string {
	payload := recoverPayload{Version: RecoverVersion, Apps: make([]recoverApp, len(records))}
	for i, r := range records {
		payload.Apps[i] = recoverApp{AppID: r.ID, Unlocked: r.Unlocked, Total: r.Total}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(data)
}

// AppIDs joins the record ids with commas.
func AppIDs(records []Record) string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = strconv.Itoa(r.ID)
	}
	return strings.Join(ids, ",")
}

// WriteCSV writes one row per difference:
// App ID,Name,Differences,<source> URL,<target> URL.
func WriteCSV(w io.Writer, pair PairDiff) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"App ID", "Name", "Differences", pair.Source + " URL", pair.Target + " URL"}); err != nil {
		return err
	}
	for _, d := range pair.Differences {
		row := []string{
			strconv.Itoa(d.ID),
			d.Name,
			strings.Join(d.Reasons, "; "),
			d.SourceLink,
			d.TargetLink,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
