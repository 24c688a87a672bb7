package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errNoPreferences = errors.New("preferences need a database connection")

// prefsCmd is the parent command for stored preferences.
var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Read and write remembered preferences",
	Long: `Preferences remember per-player settings between runs, such as the
TrueSteamAchievements profile stored under <steamid>/tsaProfileUrl.`,
}

var prefsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a stored preference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadBootstrap(true, false)
		if err != nil {
			return err
		}
		if rt.prefs == nil {
			return errNoPreferences
		}

		value, ok, err := rt.prefs.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("preference %s is not set", args[0])
		}
		fmt.Println(value)
		return nil
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a preference",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadBootstrap(true, false)
		if err != nil {
			return err
		}
		if rt.prefs == nil {
			return errNoPreferences
		}

		if err := rt.prefs.Set(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		rt.logger.Info("Preference stored", zap.String("key", args[0]))
		return nil
	},
}

func init() {
	prefsCmd.AddCommand(prefsGetCmd, prefsSetCmd)
	RootCmd.AddCommand(prefsCmd)
}
