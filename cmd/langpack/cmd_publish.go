package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/langpack/pkg/build"
	"github.com/dmitrymomot/langpack/pkg/project"
	"github.com/dmitrymomot/langpack/pkg/publish"
)

var publishPrefix string

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload the latest build to the configured storage",
	Long: `Publish reads the manifest of the latest build and uploads its
artifacts to the storage named in the project file. Artifacts whose content
hash matches the previously published manifest are skipped, so republishing
an unchanged build uploads nothing but the manifest.`,
	Args: cobra.NoArgs,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishPrefix, "prefix", "", "remote path prefix (default from the project file)")
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := loadProject()
	if err != nil {
		return err
	}
	if cfg.Publish == nil {
		return errors.New("no publish section in the project file")
	}

	man, err := build.LoadManifest(cfg.Output)
	if err != nil {
		return fmt.Errorf("no build manifest in %s, run langpack build first: %w", cfg.Output, err)
	}

	storage, err := newStorage(ctx, cfg.Publish)
	if err != nil {
		return err
	}

	prefix := cfg.Publish.Prefix
	if publishPrefix != "" {
		prefix = publishPrefix
	}

	result, err := publish.Publish(ctx, storage, man, cfg.Output, prefix)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "published %d artifacts (%d unchanged)\n", result.Uploaded, result.Skipped)
	for _, u := range result.URLs {
		fmt.Fprintln(out, u)
	}
	return nil
}

func newStorage(ctx context.Context, pub *project.PublishConfig) (publish.Storage, error) {
	switch pub.Storage {
	case "local":
		return publish.NewLocalStorage(pub.Local.Dir, pub.Local.BaseURL)
	case "s3":
		return publish.NewS3Storage(ctx, publish.S3Config{
			Bucket:         pub.S3.Bucket,
			Region:         pub.S3.Region,
			AccessKeyID:    pub.S3.AccessKey,
			SecretKey:      pub.S3.SecretKey,
			Endpoint:       pub.S3.Endpoint,
			BaseURL:        pub.S3.BaseURL,
			ForcePathStyle: pub.S3.PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown publish storage %q (want local or s3)", pub.Storage)
	}
}
