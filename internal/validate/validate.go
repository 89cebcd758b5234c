// Package validate checks generated Terraform source trees.
//
// This package validates infrastructure code two ways:
//   - structural checks parsed from the HCL itself (variables declared,
//     module references resolvable)
//   - terraform fmt/validate (shells out when the binary is present)
package validate

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// Issue is a single validation finding.
type Issue struct {
	Severity string `json:"severity"` // "error" or "warning"
	File     string `json:"file"`
	Message  string `json:"message"`
}

// Result contains the structural validation results for a directory.
type Result struct {
	Passed bool    `json:"passed"`
	Issues []Issue `json:"issues"`
}

// TerraformResult contains the result of running the terraform CLI.
type TerraformResult struct {
	Ran    bool   `json:"ran"`
	Passed bool   `json:"passed"`
	Output string `json:"output,omitempty"`
}

// Directory runs the structural checks over every .tf file in dir and,
// recursively, over each module implementation under dir/modules/. Every
// directory is its own variable and module namespace, matching Terraform
// scoping.
func Directory(dir string) (*Result, error) {
	result := &Result{Passed: true}

	if err := validateDir(dir, "", result); err != nil {
		return nil, err
	}

	sort.Slice(result.Issues, func(i, j int) bool {
		if result.Issues[i].Severity != result.Issues[j].Severity {
			return result.Issues[i].Severity < result.Issues[j].Severity
		}
		if result.Issues[i].File != result.Issues[j].File {
			return result.Issues[i].File < result.Issues[j].File
		}
		return result.Issues[i].Message < result.Issues[j].Message
	})

	for _, issue := range result.Issues {
		if issue.Severity == "error" {
			result.Passed = false
			break
		}
	}

	return result, nil
}

// validateDir checks one directory and recurses into its modules/ children.
// prefix is prepended to file names in reported issues.
func validateDir(dir, prefix string, result *Result) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}

	declaredVars := make(map[string]string)  // var name -> declaring file
	declaredModules := make(map[string]bool)
	usedVars := make(map[string][]string)    // var name -> files using it
	usedModules := make(map[string][]string) // module name -> files using it

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tf") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	for _, name := range files {
		path := filepath.Join(dir, name)
		reported := prefix + name

		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		file, diags := hclsyntax.ParseConfig(src, name, hcl.InitialPos)
		if diags.HasErrors() {
			result.Issues = append(result.Issues, Issue{
				Severity: "error",
				File:     reported,
				Message:  fmt.Sprintf("parse error: %s", diags.Error()),
			})
			continue
		}

		body, ok := file.Body.(*hclsyntax.Body)
		if !ok {
			continue
		}

		for _, block := range body.Blocks {
			switch block.Type {
			case "variable":
				if len(block.Labels) == 1 {
					if _, declared := declaredVars[block.Labels[0]]; !declared {
						declaredVars[block.Labels[0]] = reported
					}
				}
			case "module":
				if len(block.Labels) == 1 {
					declaredModules[block.Labels[0]] = true
				}
			}
		}

		collectUsages(body, reported, usedVars, usedModules)
	}

	varNames := make([]string, 0, len(usedVars))
	for name := range usedVars {
		varNames = append(varNames, name)
	}
	sort.Strings(varNames)
	for _, name := range varNames {
		if _, declared := declaredVars[name]; !declared {
			result.Issues = append(result.Issues, Issue{
				Severity: "error",
				File:     usedVars[name][0],
				Message:  fmt.Sprintf("var.%s is used but never declared", name),
			})
		}
	}

	moduleNames := make([]string, 0, len(usedModules))
	for name := range usedModules {
		moduleNames = append(moduleNames, name)
	}
	sort.Strings(moduleNames)
	for _, name := range moduleNames {
		if !declaredModules[name] {
			result.Issues = append(result.Issues, Issue{
				Severity: "error",
				File:     usedModules[name][0],
				Message:  fmt.Sprintf("module.%s is referenced but never declared", name),
			})
		}
	}

	for name, declaredIn := range declaredVars {
		if _, used := usedVars[name]; !used {
			result.Issues = append(result.Issues, Issue{
				Severity: "warning",
				File:     declaredIn,
				Message:  fmt.Sprintf("var.%s is declared but never used", name),
			})
		}
	}

	modulesDir := filepath.Join(dir, "modules")
	children, err := os.ReadDir(modulesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", modulesDir, err)
	}
	for _, child := range children {
		if !child.IsDir() {
			continue
		}
		childPrefix := prefix + "modules/" + child.Name() + "/"
		if err := validateDir(filepath.Join(modulesDir, child.Name()), childPrefix, result); err != nil {
			return err
		}
	}

	return nil
}

// collectUsages walks a body and records var.* and module.* traversals.
func collectUsages(body *hclsyntax.Body, file string, usedVars, usedModules map[string][]string) {
	record := func(traversals []hcl.Traversal) {
		for _, traversal := range traversals {
			if len(traversal) < 2 {
				continue
			}
			root, ok := traversal[0].(hcl.TraverseRoot)
			if !ok {
				continue
			}
			attr, ok := traversal[1].(hcl.TraverseAttr)
			if !ok {
				continue
			}
			switch root.Name {
			case "var":
				usedVars[attr.Name] = append(usedVars[attr.Name], file)
			case "module":
				usedModules[attr.Name] = append(usedModules[attr.Name], file)
			}
		}
	}

	for _, attr := range body.Attributes {
		record(attr.Expr.Variables())
	}
	for _, block := range body.Blocks {
		collectUsages(block.Body, file, usedVars, usedModules)
	}
}

// RunTerraform runs terraform fmt -check and terraform validate in dir.
// When the terraform binary is not installed the result reports Ran=false
// rather than failing: the structural checks above remain authoritative.
func RunTerraform(dir string) (*TerraformResult, error) {
	if _, err := exec.LookPath("terraform"); err != nil {
		return &TerraformResult{Ran: false}, nil
	}

	result := &TerraformResult{Ran: true, Passed: true}

	for _, args := range [][]string{
		{"fmt", "-check", "-recursive"},
		{"validate", "-no-color"},
	} {
		cmd := exec.Command("terraform", args...)
		cmd.Dir = dir

		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			result.Passed = false
			result.Output += stdout.String() + stderr.String()
		}
	}

	return result, nil
}
