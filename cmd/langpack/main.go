package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/langpack/pkg/logger"
	"github.com/dmitrymomot/langpack/pkg/project"
)

var (
	// Global flags
	cfgFile string
	verbose bool
	quiet   bool

	log *slog.Logger
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "langpack",
	Short: "Build per-language static assets from translation catalogs",
	Long: `langpack turns translation catalogs and marked-up sources into one
static build per language.

Sources call translation markers (__ and __n by default) with the source
language text; catalogs map that text to translations per language. A build
rewrites every entry file once per language, so the served assets carry
their translations baked in and the browser loads nothing extra at runtime.

A project is described by .langpack.yaml in the working directory; every
setting has a default, so a conventional layout (src/*.js, languages/*.json,
output in dist) needs no configuration at all.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		if quiet {
			level = slog.LevelError
		}
		log = logger.New(
			logger.WithTextFormatter(),
			logger.WithLevel(level),
			logger.WithOutput(cmd.ErrOrStderr()),
		)
		logger.SetAsDefault(log)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "project file (default "+project.DefaultConfigFile+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "errors only")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Check findings were already printed by the command.
		if !errors.Is(err, errFindings) {
			fmt.Fprintln(os.Stderr, "ERROR:", err)
		}
		os.Exit(1)
	}
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
