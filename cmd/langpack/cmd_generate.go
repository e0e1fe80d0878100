package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/langpack/pkg/catalog"
	"github.com/dmitrymomot/langpack/pkg/codegen"
)

var (
	generatePkg string
	generateOut string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a Go package of catalog keys and translations",
	Args:  cobra.NoArgs,
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generatePkg, "pkg", "", "package name (default "+codegen.DefaultPackage+")")
	generateCmd.Flags().StringVar(&generateOut, "out", "", "output directory (default the package name)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadProject()
	if err != nil {
		return err
	}
	set, err := catalog.LoadSet(cfg.Catalogs)
	if err != nil {
		return err
	}

	out := generateOut
	if out == "" {
		out = generatePkg
		if out == "" {
			out = codegen.DefaultPackage
		}
	}

	path, err := codegen.Generate(set, generatePkg, out)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
	return nil
}
