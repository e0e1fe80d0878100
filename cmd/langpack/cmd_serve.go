package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/langpack/pkg/preview"
)

var (
	serveAddr  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the built bundles with live reload",
	Long: `Serve builds the project once and serves the output directory with
one URL prefix per language. Connected pages hold an event stream and are
told to reload whenever a rebuild lands; with --watch rebuilds happen
automatically on source and catalog changes.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from the project file)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "rebuild when sources or catalogs change")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := loadProject()
	if err != nil {
		return err
	}
	addr := cfg.Serve.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	set, man, err := runBuild(ctx, cfg, false)
	if err != nil {
		return err
	}
	printManifest(cmd, man, cfg.Output)

	srv, err := preview.New(preview.Config{
		Addr:     addr,
		Dir:      cfg.Output,
		Language: cfg.Serve.Language,
	}, preview.WithLogger(log))
	if err != nil {
		return err
	}
	srv.Update(set, man)

	if serveWatch {
		w, err := newRebuildWatcher(cfg, func(ctx context.Context) error {
			set, man, err := runBuild(ctx, cfg, false)
			if err != nil {
				return err
			}
			srv.Update(set, man)
			return nil
		})
		if err != nil {
			return err
		}
		w.Start(ctx)
		defer w.Stop()
	}

	return srv.Run(ctx)
}
