package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tfdraft/tfdraft-go/internal/hclgen"
	"github.com/tfdraft/tfdraft-go/internal/planner"
)

func newGenerateCmd() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "generate <resources.json>",
		Short: "Generate Terraform sources from resource descriptions",
		Long: `Generate plans the resources and emits Terraform sources:
main.tf, variables.tf and outputs.tf at the root, plus the referenced
module implementations under modules/.

Module blocks appear in apply order, with explicit depends_on between
modules and cross-module references expressed as module outputs.

Examples:
    tfdraft generate resources.json
    tfdraft generate resources.json -o infra/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(args[0], outputDir)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "terraform", "Output directory for .tf files")

	return cmd
}

func runGenerate(path, outputDir string) error {
	c, err := loadCatalog(path)
	if err != nil {
		return err
	}

	plan, g, err := planner.Plan(c)
	if err != nil {
		return err
	}

	files, err := hclgen.Generate(plan, g)
	if err != nil {
		return err
	}

	if err := files.WriteTree(outputDir); err != nil {
		return err
	}

	fmt.Printf("Generated %d modules in %s\n", len(plan.Modules), outputDir)
	return nil
}
