package main

import (
	"errors"
	"io/fs"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"talhoes.dashboard.org/internal/logging"
)

func main() {
	// A missing .env file is fine; the environment and flags still apply.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("error loading .env: %v", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Flag defaults are read from the
// environment when the tree is built.
func newRootCmd() *cobra.Command {
	opts := defaultOptions()

	root := &cobra.Command{
		Use:   "talhoes",
		Short: "Forestry parcel dashboard",
		Long: `talhoes loads a parcel layer (GeoJSON or shapefile), derives the synthetic
per-parcel indicators and serves the interactive dashboard.`,
		SilenceUsage: true,
	}

	opts.bindFlags(root)
	root.AddCommand(newServeCmd(opts), newSummaryCmd(opts), newExportCmd(opts))
	return root
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return logging.NewConsoleLogger(os.Stderr, level)
}
