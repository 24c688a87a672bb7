package cmd

import (
	"fmt"

	"tracker-comparer/core/fetch"
	"tracker-comparer/feature/health"
	"tracker-comparer/feature/health/checks"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// doctorCmd runs the health checks from the command line.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check storage, database and tracker reachability",
	Long:  `Checks that the export bucket exists, that the preferences table has the expected columns and that every tracker site answers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadBootstrap(true, true)
		if err != nil {
			return err
		}
		logg := rt.logger
		ctx := cmd.Context()

		probe := fetch.New(rt.cfg.Fetch, fetch.WithLogger(logg))
		svc := health.NewService(rt.store, rt.cfg.Storage.Bucket, rt.cfg.Storage.Region, rt.db, probe, checks.DefaultTargets(), logg)

		logg.Info("Running health checks...")
		report := svc.Run(ctx)

		if len(report.Storage.Missing) > 0 {
			if fixFlag {
				logg.Info("Creating missing export bucket...")
				if err := svc.FixStorage(ctx); err != nil {
					return fmt.Errorf("failed to create bucket: %w", err)
				}
				logg.Info("Export bucket created.")
			} else {
				logg.Info("Run with --fix to create the export bucket.")
			}
		}

		for _, c := range append([]checks.Check{report.Storage, report.Database}, report.Trackers...) {
			fields := []zap.Field{zap.String("check", c.Name), zap.String("detail", c.Detail)}
			switch c.Status {
			case checks.StatusError:
				logg.Error("Check failed", fields...)
			case checks.StatusWarning:
				logg.Warn("Check warning", fields...)
			default:
				logg.Info("Check "+c.Status, fields...)
			}
		}

		if report.Status != health.StatusHealthy {
			return fmt.Errorf("health is %s", report.Status)
		}
		logg.Info("All checks passed.")
		return nil
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the export bucket when it is missing")
	RootCmd.AddCommand(doctorCmd)
}
