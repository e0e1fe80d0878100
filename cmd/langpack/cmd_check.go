package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/langpack/pkg/catalog"
	"github.com/dmitrymomot/langpack/pkg/lint"
)

var checkJSON bool

// errFindings signals a clean exit 1 after findings were printed.
var errFindings = errors.New("check found problems")

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Lint sources and catalogs",
	Long: `Check scans the entry sources and catalog files and reports dynamic
marker keys, duplicate and empty catalog entries, missing plural forms,
translation coverage gaps and suspicious unmarked string literals. The exit
code is 1 when any finding is an error.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "machine readable output")
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := loadProject()
	if err != nil {
		return err
	}
	set, err := catalog.LoadSet(cfg.Catalogs)
	if err != nil {
		return err
	}
	markers, err := newScanner(cfg).ScanGlobs(ctx, cfg.Entries)
	if err != nil {
		return err
	}

	report := lint.Run(ctx, cfg, set, markers, lint.WithLogger(log))
	if checkJSON {
		err = report.JSON(cmd.OutOrStdout())
	} else {
		err = report.Text(cmd.OutOrStdout())
	}
	if err != nil {
		return err
	}

	if report.HasErrors() {
		return errFindings
	}
	return nil
}
