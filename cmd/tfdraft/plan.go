package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	tfdraft "github.com/tfdraft/tfdraft-go"
	"github.com/tfdraft/tfdraft-go/internal/catalog"
	"github.com/tfdraft/tfdraft-go/internal/planner"
	"github.com/tfdraft/tfdraft-go/internal/serialize"
)

func newPlanCmd() *cobra.Command {
	var (
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "plan <resources.json>",
		Short: "Compute a dependency-ordered plan from resource descriptions",
		Long: `Plan reads a JSON file of resource descriptions, infers the dependency
graph and produces an apply-ordered plan grouped into modules.

Examples:
    tfdraft plan resources.json
    tfdraft plan resources.json -o plan.json
    tfdraft plan resources.json --format yaml
    tfdraft plan resources.json --format text`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(args[0], outputFormat, outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format: json, yaml or text")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runPlan(path, format, outputFile string) error {
	c, err := loadCatalog(path)
	if err != nil {
		return err
	}

	plan, _, err := planner.Plan(c)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case "json":
		data, err = serialize.ToJSON(plan)
	case "yaml":
		data, err = serialize.ToYAML(plan)
	case "text":
		data = []byte(serialize.ToText(plan))
	default:
		return fmt.Errorf("unknown format: %s (use 'json', 'yaml' or 'text')", format)
	}
	if err != nil {
		return err
	}

	if outputFile == "" {
		fmt.Print(string(data))
		return nil
	}

	return os.WriteFile(outputFile, data, 0644)
}

// loadCatalog reads a resource description file into a validated catalog.
func loadCatalog(path string) (*catalog.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	resources, err := tfdraft.DecodeResources(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return catalog.FromResources(resources)
}
