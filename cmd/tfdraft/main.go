// Command tfdraft plans and generates Terraform from resource descriptions.
//
// Usage:
//
//	tfdraft plan resources.json       Compute a dependency-ordered plan
//	tfdraft graph resources.json      Generate a dependency diagram
//	tfdraft generate resources.json   Generate Terraform sources
//	tfdraft design "intent"           AI-assisted design from natural language
//	tfdraft version                   Show version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tfdraft",
		Short: "Plan and generate Terraform from resource descriptions",
		Long: `tfdraft turns flat resource descriptions into dependency-ordered
infrastructure plans and Terraform sources.

Describe your resources in JSON:

    [{"id": "net1", "type": "network", "attributes": {"cidr": "10.0.0.0/16"}}]

Then compute an apply-ordered plan:

    tfdraft plan resources.json`,
	}

	rootCmd.AddCommand(
		newPlanCmd(),
		newGraphCmd(),
		newGenerateCmd(),
		newDesignCmd(),
		newDiffCmd(),
		newValidateCmd(),
		newWatchCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tfdraft %s\n", getVersion())
		},
	}
}
