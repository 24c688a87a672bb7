package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tracker-comparer/core/reconcile"
	"tracker-comparer/feature/compare"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	compareReq     compare.Request
	compareJSON    bool
	compareCSVDir  string
	compareUpload  bool
	compareTimeout time.Duration
)

// compareCmd runs one comparison from the command line.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare a profile across achievement trackers",
	Long: `Fetches the selected services for a Steam profile, resolves mismatched
titles against Steam and prints a summary per service.

Examples:
  # Compare two trackers
  compare --steamid 76561197960287930 --services steamhunters,completionist

  # Include Steam itself and save every pairwise table as CSV
  compare --steamid 76561197960287930 --services steam,astats,exophase --own --csv-dir ./out

  # TrueSteamAchievements needs the gamer profile once; it is remembered
  compare --steamid 76561197960287930 --services tsa,steamhunters --tsa-url Gordon`,
	RunE: runCompare,
}

func init() {
	f := compareCmd.Flags()
	f.StringVar(&compareReq.SteamID, "steamid", "", "64-bit Steam id of the player")
	f.StringVar(&compareReq.ProfileURL, "profile-url", "", "Steam community profile URL (defaults to /profiles/<steamid>)")
	f.StringVar(&compareReq.Persona, "persona", "", "Persona name used in sign-in prompts")
	f.StringVar(&compareReq.SessionID, "session-id", "", "Steam session id for showcase previews")
	f.BoolVar(&compareReq.Own, "own", false, "The profile belongs to the signed-in user")
	f.StringSliceVar(&compareReq.Services, "services", nil, "Services to compare (see the services command)")
	f.StringVar(&compareReq.TSAProfileURL, "tsa-url", "", "TrueSteamAchievements gamer profile URL or name")
	f.BoolVar(&compareJSON, "json", false, "Print the full report as JSON")
	f.StringVar(&compareCSVDir, "csv-dir", "", "Write one CSV per service pair into this directory")
	f.BoolVar(&compareUpload, "upload", false, "Upload the pairwise CSVs to the export bucket")
	f.DurationVar(&compareTimeout, "timeout", 30*time.Minute, "Give up after this long")
	_ = compareCmd.MarkFlagRequired("steamid")

	RootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	rt, err := loadBootstrap(true, compareUpload)
	if err != nil {
		return err
	}
	l := rt.logger
	defer l.Sync()

	var opts []compare.Option
	if rt.prefs != nil {
		opts = append(opts, compare.WithPreferences(rt.prefs))
	}
	if rt.store != nil {
		opts = append(opts, compare.WithStorage(rt.store, rt.cfg.Storage.Bucket))
	}
	svc := compare.NewService(rt.cfg.Compare, rt.cfg.Fetch, rt.cfg.Cookies, l, opts...)

	ctx, cancel := context.WithTimeout(cmd.Context(), compareTimeout)
	defer cancel()

	l.Info("Comparing trackers (this might take a while)...", zap.Strings("services", compareReq.Services))
	report, err := svc.Compare(ctx, compareReq)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	if compareJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
	} else {
		printReport(report)
	}

	if compareCSVDir != "" {
		if err := writePairCSVs(svc, report, compareCSVDir); err != nil {
			return err
		}
		l.Info("CSV exports written", zap.String("dir", compareCSVDir), zap.Int("pairs", len(report.Pairs)))
	}

	if compareUpload {
		keys, err := svc.Upload(ctx, report)
		if err != nil {
			return fmt.Errorf("upload failed: %w", err)
		}
		l.Info("CSV exports uploaded", zap.Strings("keys", keys))
	}

	return nil
}

func writePairCSVs(svc *compare.Service, report *reconcile.Report, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	for _, pair := range report.Pairs {
		var buf bytes.Buffer
		if err := reconcile.WriteCSV(&buf, pair); err != nil {
			return err
		}
		name := filepath.Join(dir, filepath.Base(svc.ExportKey(report.SteamID, pair)))
		if err := os.WriteFile(name, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to save %s: %w", name, err)
		}
	}
	return nil
}

func printReport(report *reconcile.Report) {
	fmt.Printf("\n=== Comparison for %s ===\n", report.SteamID)
	if report.Insufficient {
		fmt.Println("Fewer than two services returned data; nothing was compared.")
	}

	for _, s := range report.Summaries {
		fmt.Printf("\n%s: %s\n", s.Service, s.Headline)
		if s.SignIn != nil && s.SignIn.Link != "" {
			fmt.Printf("  Sign in: %s\n", s.SignIn.Link)
		}
		for _, set := range []*reconcile.DeltaSet{s.Missing, s.Removed} {
			if set == nil {
				continue
			}
			for _, g := range set.Games {
				fmt.Printf("  %-8d %-40s %d -> %d\n", g.ID, truncate(g.Name, 40), g.Service, g.Authoritative)
			}
			fmt.Printf("  App IDs: %s\n", set.AppIDs)
		}
		if s.Recovery != nil {
			fmt.Printf("  Recover: %s %s\n", s.Recovery.Method, s.Recovery.URL)
		}
	}

	for _, v := range report.Violations {
		fmt.Printf("\n%s %d %s: %s\n", v.Service, v.ID, v.Name, strings.Join(v.Messages, ", "))
	}

	fmt.Printf("\nMismatched titles: %d\n", len(report.Mismatched))
	for _, p := range report.Pairs {
		fmt.Printf("%s vs %s: %d differences\n", p.Source, p.Target, len(p.Differences))
	}
	fmt.Printf("Execution Time: %s\n", report.Duration.String())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
