package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/langpack/pkg/project"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold a langpack project in the current directory",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = project.DefaultConfigFile
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := os.WriteFile(path, project.Scaffold(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "created", path)

	if err := os.MkdirAll("languages", 0o755); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}
	sample := filepath.Join("languages", "fi.json")
	if _, err := os.Stat(sample); err == nil {
		return nil
	}
	if err := os.WriteFile(sample, []byte("{\n  \"Hello world\": \"Hei maailma\"\n}\n"), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", sample, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "created", sample)
	return nil
}
