package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/langpack/pkg/logger"
)

var (
	buildStrict bool
	buildWatch  bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build per-language bundles from sources and catalogs",
	Args:  cobra.NoArgs,
	RunE:  runBuildCmd,
}

func init() {
	buildCmd.Flags().BoolVar(&buildStrict, "strict", false, "treat missing translations as errors")
	buildCmd.Flags().BoolVar(&buildWatch, "watch", false, "rebuild when sources or catalogs change")
}

func runBuildCmd(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := loadProject()
	if err != nil {
		return err
	}

	rebuild := func(ctx context.Context) error {
		_, man, err := runBuild(ctx, cfg, buildStrict)
		if err != nil {
			return err
		}
		printManifest(cmd, man, cfg.Output)
		return nil
	}

	if err := rebuild(ctx); err != nil {
		if !buildWatch {
			return err
		}
		// In watch mode a broken first build is a finding, not the end.
		log.Error("build failed", logger.Error(err))
	}

	if !buildWatch {
		return nil
	}

	w, err := newRebuildWatcher(cfg, rebuild)
	if err != nil {
		return err
	}
	w.Start(ctx)
	defer w.Stop()

	log.Info("watching for changes")
	<-ctx.Done()
	return nil
}
