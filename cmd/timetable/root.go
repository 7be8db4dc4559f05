package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/timetable-app/timetable/version"
)

var (
	cfgFile string
	homeDir string
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "timetable",
	Short: "Weekly course timetable with AI-assisted schedule import",
	Long: `Timetable manages weekly course schedules laid out on a fixed grid of
8 time slots across Monday through Saturday.

Schedules can be edited by hand, exported to JSON template files, and
imported back. A photo or PDF of a printed schedule can be imported
through an AI vision model; the extracted data goes through a validation
pipeline that normalizes times to the canonical grid and rejects
anything malformed.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.timetable/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "timetable home directory (default: ~/.timetable)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&quiet, "quiet", "q", false, "suppress log output",
	)

	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the process logger, honoring --quiet.
func newLogger() *slog.Logger {
	if quiet {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
