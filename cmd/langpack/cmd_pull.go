package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/langpack/pkg/logger"
	"github.com/dmitrymomot/langpack/pkg/tms"
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download catalogs from the translation platform",
	Args:  cobra.NoArgs,
	RunE:  runPull,
}

func runPull(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := loadProject()
	if err != nil {
		return err
	}
	if cfg.TMS == nil {
		return errors.New("no tms section in the project file (or LANGPACK_TMS_* environment)")
	}

	client, err := tms.New(tms.Config{
		BaseURL: cfg.TMS.URL,
		Project: cfg.TMS.Project,
		Token:   cfg.TMS.Token,
		Timeout: cfg.TMS.Timeout.Std(),
	})
	if err != nil {
		return err
	}

	dir := catalogDir(cfg)
	files, err := client.Pull(ctx, dir)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintln(cmd.OutOrStdout(), f)
	}
	log.Info("pulled catalogs", logger.Count(len(files)), logger.Path(dir))
	return nil
}
