package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tfdraft/tfdraft-go/internal/differ"
)

func newDiffCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "diff <before> <after>",
		Short: "Compare two saved plans",
		Long: `Diff compares two serialized plans (JSON or YAML) and reports the
resources that were added, removed or modified between them.

Examples:
    tfdraft diff old-plan.json new-plan.json
    tfdraft diff old-plan.json new-plan.yaml --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(args[0], args[1], jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the diff as JSON")

	return cmd
}

func runDiff(before, after string, jsonOutput bool) error {
	result, err := differ.CompareFiles(before, after)
	if err != nil {
		return err
	}

	if jsonOutput {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	for _, e := range result.Added {
		fmt.Printf("+ %s [%s]\n", e.Resource, e.Type)
	}
	for _, e := range result.Removed {
		fmt.Printf("- %s [%s]\n", e.Resource, e.Type)
	}
	for _, e := range result.Modified {
		fmt.Printf("~ %s [%s]\n", e.Resource, e.Type)
		for _, c := range e.Changes {
			fmt.Printf("    %s\n", c)
		}
	}

	fmt.Printf("%d added, %d removed, %d modified\n",
		result.Summary.Added, result.Summary.Removed, result.Summary.Modified)
	return nil
}
