package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tfdraft/tfdraft-go/internal/validate"
)

func newValidateCmd() *cobra.Command {
	var runTerraform bool

	cmd := &cobra.Command{
		Use:   "validate <dir>",
		Short: "Validate generated Terraform sources",
		Long: `Validate parses the .tf files in a directory, and in each module
implementation under its modules/ tree, checking that every var. and
module. reference resolves to a declaration. Unused variables are
reported as warnings.

With --terraform, also runs "terraform fmt -check" and
"terraform validate" when the terraform CLI is on PATH.

Examples:
    tfdraft validate output/terraform
    tfdraft validate output/terraform --terraform`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0], runTerraform)
		},
	}

	cmd.Flags().BoolVar(&runTerraform, "terraform", false, "Also run the terraform CLI checks")

	return cmd
}

func runValidate(dir string, runTerraform bool) error {
	result, err := validate.Directory(dir)
	if err != nil {
		return err
	}

	for _, issue := range result.Issues {
		fmt.Printf("%s: %s: %s\n", issue.Severity, issue.File, issue.Message)
	}

	if runTerraform {
		tf, err := validate.RunTerraform(dir)
		if err != nil {
			return err
		}
		if !tf.Ran {
			fmt.Fprintln(os.Stderr, "terraform CLI not found, skipping CLI checks")
		} else if !tf.Passed {
			fmt.Fprintln(os.Stderr, tf.Output)
			return fmt.Errorf("terraform checks failed")
		}
	}

	if !result.Passed {
		return fmt.Errorf("validation failed")
	}

	fmt.Println("Validation passed")
	return nil
}
