// Package hclgen renders deployment plans into Terraform source files.
//
// The generated layout follows the modular convention: a root main.tf with
// one module block per plan module, a variables.tf declaring every input
// with a default taken from the resource attributes, an outputs.tf exposing
// each resource's identifier, and a modules/ tree holding the referenced
// module implementations. Output is deterministic for identical plans.
package hclgen

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	tfdraft "github.com/tfdraft/tfdraft-go"
)

// ModuleFiles holds the sources of one module implementation directory.
type ModuleFiles struct {
	Main      []byte
	Variables []byte
	Outputs   []byte
}

// Files holds the rendered Terraform sources. Callers write them to disk,
// usually via WriteTree.
type Files struct {
	Main      []byte
	Variables []byte
	Outputs   []byte

	// Modules holds the implementation sources referenced by the root
	// module blocks, keyed by module name. Each entry belongs under
	// modules/<name>/.
	Modules map[string]ModuleFiles
}

// variableDef is a single variable block to declare in variables.tf.
type variableDef struct {
	name      string
	typeExpr  hclwrite.Tokens
	defaultTo cty.Value
}

// moduleInput is one input passed from the root to a module block.
type moduleInput struct {
	name     string // input name, e.g. "vm1_size"
	key      string // originating attribute key, e.g. "size"
	resource string // owning resource identifier
	typeExpr hclwrite.Tokens
}

// Generate renders the plan into Terraform sources. The graph supplies the
// references used to wire module inputs to module outputs.
func Generate(plan *tfdraft.Plan, graph *tfdraft.Graph) (*Files, error) {
	moduleOf := make(map[string]string)
	for _, m := range plan.Modules {
		for _, r := range m.Resources {
			moduleOf[r.ID] = m.Name
		}
	}

	// refTargets[from][attr] lists reference targets in graph order.
	refTargets := make(map[string]map[string][]string)
	for _, ref := range graph.References {
		if refTargets[ref.From] == nil {
			refTargets[ref.From] = make(map[string][]string)
		}
		refTargets[ref.From][ref.Attribute] = append(refTargets[ref.From][ref.Attribute], ref.To)
	}

	var variables []variableDef
	variables = append(variables, variableDef{
		name:      "region",
		typeExpr:  hclwrite.TokensForIdentifier("string"),
		defaultTo: cty.StringVal("us-east-1"),
	})
	variables = append(variables, variableDef{
		name:      "common_tags",
		typeExpr:  hclwrite.TokensForFunctionCall("map", hclwrite.TokensForIdentifier("string")),
		defaultTo: commonTags(plan),
	})

	main := hclwrite.NewEmptyFile()
	rootBody := main.Body()

	provider := rootBody.AppendNewBlock("provider", []string{"aws"})
	provider.Body().SetAttributeTraversal("region", hcl.Traversal{
		hcl.TraverseRoot{Name: "var"},
		hcl.TraverseAttr{Name: "region"},
	})
	rootBody.AppendNewline()

	moduleFiles := make(map[string]ModuleFiles, len(plan.Modules))

	for _, m := range plan.Modules {
		block := rootBody.AppendNewBlock("module", []string{m.Name})
		body := block.Body()
		body.SetAttributeValue("source", cty.StringVal("./modules/"+m.Name))

		dependsOn := make(map[string]bool)
		var inputs []moduleInput

		for _, r := range m.Resources {
			keys := make([]string, 0, len(r.Attributes))
			for k := range r.Attributes {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			for _, key := range keys {
				targets := refTargets[r.ID][key]

				for _, target := range targets {
					if other := moduleOf[target]; other != m.Name {
						dependsOn[other] = true
					}
				}

				// depends_on attributes only order modules; they carry
				// no configuration value.
				if key == "depends_on" {
					continue
				}

				input := ident(r.ID + "_" + key)
				if len(targets) > 0 {
					setReferenceInput(body, input, r.Attributes[key], targets, moduleOf, m.Name)
					typeExpr := hclwrite.TokensForIdentifier("string")
					if isListValue(r.Attributes[key]) {
						typeExpr = listOfString()
					}
					inputs = append(inputs, moduleInput{
						name:     input,
						key:      ident(key),
						resource: ident(r.ID),
						typeExpr: typeExpr,
					})
					continue
				}

				value, typeExpr, ok := literalValue(r.Attributes[key])
				if !ok {
					continue
				}
				variables = append(variables, variableDef{
					name:      input,
					typeExpr:  typeExpr,
					defaultTo: value,
				})
				body.SetAttributeTraversal(input, hcl.Traversal{
					hcl.TraverseRoot{Name: "var"},
					hcl.TraverseAttr{Name: input},
				})
				inputs = append(inputs, moduleInput{
					name:     input,
					key:      ident(key),
					resource: ident(r.ID),
					typeExpr: typeExpr,
				})
			}
		}

		body.SetAttributeTraversal("tags", hcl.Traversal{
			hcl.TraverseRoot{Name: "var"},
			hcl.TraverseAttr{Name: "common_tags"},
		})

		if len(dependsOn) > 0 {
			names := make([]string, 0, len(dependsOn))
			for name := range dependsOn {
				names = append(names, name)
			}
			sort.Strings(names)

			elems := make([]hclwrite.Tokens, 0, len(names))
			for _, name := range names {
				elems = append(elems, hclwrite.TokensForTraversal(hcl.Traversal{
					hcl.TraverseRoot{Name: "module"},
					hcl.TraverseAttr{Name: name},
				}))
			}
			body.SetAttributeRaw("depends_on", hclwrite.TokensForTuple(elems))
		}

		rootBody.AppendNewline()

		moduleFiles[m.Name] = moduleSources(m, inputs)
	}

	outputs := hclwrite.NewEmptyFile()
	outBody := outputs.Body()
	seenOutputs := make(map[string]bool)
	for _, m := range plan.Modules {
		for _, r := range m.Resources {
			name := ident(r.ID) + "_id"
			if seenOutputs[name] {
				return nil, fmt.Errorf("duplicate output %q", name)
			}
			seenOutputs[name] = true

			block := outBody.AppendNewBlock("output", []string{name})
			block.Body().SetAttributeTraversal("value", hcl.Traversal{
				hcl.TraverseRoot{Name: "module"},
				hcl.TraverseAttr{Name: m.Name},
				hcl.TraverseAttr{Name: name},
			})
			outBody.AppendNewline()
		}
	}

	varFile, err := renderVariables(variables)
	if err != nil {
		return nil, err
	}

	return &Files{
		Main:      main.Bytes(),
		Variables: varFile,
		Outputs:   outputs.Bytes(),
		Modules:   moduleFiles,
	}, nil
}

// WriteTree writes the root sources to dir and each module implementation
// under dir/modules/<name>/.
func (f *Files) WriteTree(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	if err := writeSources(dir, f.Main, f.Variables, f.Outputs); err != nil {
		return err
	}

	names := make([]string, 0, len(f.Modules))
	for name := range f.Modules {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		moduleDir := filepath.Join(dir, "modules", name)
		if err := os.MkdirAll(moduleDir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", moduleDir, err)
		}
		mod := f.Modules[name]
		if err := writeSources(moduleDir, mod.Main, mod.Variables, mod.Outputs); err != nil {
			return err
		}
	}
	return nil
}

func writeSources(dir string, main, variables, outputs []byte) error {
	for name, data := range map[string][]byte{
		"main.tf":      main,
		"variables.tf": variables,
		"outputs.tf":   outputs,
	} {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", filepath.Join(dir, name), err)
		}
	}
	return nil
}

// moduleSources renders the implementation of one module. Each resource is
// modeled as a local object assembled from the module inputs, with an
// <id>_id local backing the module outputs. Provider resource blocks
// replace the locals when the module gains a real implementation.
func moduleSources(m tfdraft.Module, inputs []moduleInput) ModuleFiles {
	byResource := make(map[string][]moduleInput)
	for _, in := range inputs {
		byResource[in.resource] = append(byResource[in.resource], in)
	}

	main := hclwrite.NewEmptyFile()
	locals := main.Body().AppendNewBlock("locals", nil)

	for _, r := range m.Resources {
		res := ident(r.ID)

		ins := byResource[res]
		sort.Slice(ins, func(i, j int) bool { return ins[i].key < ins[j].key })

		attrs := make([]hclwrite.ObjectAttrTokens, 0, len(ins)+1)
		for _, in := range ins {
			attrs = append(attrs, hclwrite.ObjectAttrTokens{
				Name: hclwrite.TokensForIdentifier(in.key),
				Value: hclwrite.TokensForTraversal(hcl.Traversal{
					hcl.TraverseRoot{Name: "var"},
					hcl.TraverseAttr{Name: in.name},
				}),
			})
		}
		attrs = append(attrs, hclwrite.ObjectAttrTokens{
			Name: hclwrite.TokensForIdentifier("tags"),
			Value: hclwrite.TokensForTraversal(hcl.Traversal{
				hcl.TraverseRoot{Name: "var"},
				hcl.TraverseAttr{Name: "tags"},
			}),
		})

		locals.Body().SetAttributeRaw(res, hclwrite.TokensForObject(attrs))
		locals.Body().SetAttributeValue(res+"_id", cty.StringVal(r.ID))
	}

	declared := make([]moduleInput, len(inputs))
	copy(declared, inputs)
	declared = append(declared, moduleInput{
		name:     "tags",
		typeExpr: hclwrite.TokensForFunctionCall("map", hclwrite.TokensForIdentifier("string")),
	})
	sort.Slice(declared, func(i, j int) bool { return declared[i].name < declared[j].name })

	variables := hclwrite.NewEmptyFile()
	varBody := variables.Body()
	seen := make(map[string]bool)
	for _, in := range declared {
		if seen[in.name] {
			continue
		}
		seen[in.name] = true

		block := varBody.AppendNewBlock("variable", []string{in.name})
		block.Body().SetAttributeRaw("type", in.typeExpr)
		varBody.AppendNewline()
	}

	outputs := hclwrite.NewEmptyFile()
	outBody := outputs.Body()
	for _, r := range m.Resources {
		block := outBody.AppendNewBlock("output", []string{ident(r.ID) + "_id"})
		block.Body().SetAttributeTraversal("value", hcl.Traversal{
			hcl.TraverseRoot{Name: "local"},
			hcl.TraverseAttr{Name: ident(r.ID) + "_id"},
		})
		outBody.AppendNewline()
	}

	return ModuleFiles{
		Main:      main.Bytes(),
		Variables: variables.Bytes(),
		Outputs:   outputs.Bytes(),
	}
}

// setReferenceInput wires a module input to the outputs of referenced
// resources. Same-module targets are passed as plain names; cross-module
// targets become module output traversals.
func setReferenceInput(body *hclwrite.Body, input string, raw any, targets []string, moduleOf map[string]string, current string) {
	tokensFor := func(target string) hclwrite.Tokens {
		other := moduleOf[target]
		if other == current {
			return hclwrite.TokensForValue(cty.StringVal(target))
		}
		return hclwrite.TokensForTraversal(hcl.Traversal{
			hcl.TraverseRoot{Name: "module"},
			hcl.TraverseAttr{Name: other},
			hcl.TraverseAttr{Name: ident(target) + "_id"},
		})
	}

	if isListValue(raw) {
		elems := make([]hclwrite.Tokens, 0, len(targets))
		for _, target := range targets {
			elems = append(elems, tokensFor(target))
		}
		body.SetAttributeRaw(input, hclwrite.TokensForTuple(elems))
		return
	}

	body.SetAttributeRaw(input, tokensFor(targets[0]))
}

// isListValue reports whether a raw attribute value is list-shaped.
func isListValue(raw any) bool {
	switch raw.(type) {
	case []any, []string:
		return true
	default:
		return false
	}
}

// literalValue converts a plain attribute value to a cty value and the
// matching variable type expression.
func literalValue(raw any) (cty.Value, hclwrite.Tokens, bool) {
	switch v := raw.(type) {
	case string:
		return cty.StringVal(v), hclwrite.TokensForIdentifier("string"), true
	case bool:
		return cty.BoolVal(v), hclwrite.TokensForIdentifier("bool"), true
	case int:
		return cty.NumberIntVal(int64(v)), hclwrite.TokensForIdentifier("number"), true
	case float64:
		return cty.NumberFloatVal(v), hclwrite.TokensForIdentifier("number"), true
	case []string:
		return stringList(v), listOfString(), true
	case []any:
		var items []string
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return cty.NilVal, nil, false
			}
			items = append(items, s)
		}
		return stringList(items), listOfString(), true
	default:
		return cty.NilVal, nil, false
	}
}

func stringList(items []string) cty.Value {
	if len(items) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	values := make([]cty.Value, len(items))
	for i, s := range items {
		values[i] = cty.StringVal(s)
	}
	return cty.ListVal(values)
}

func listOfString() hclwrite.Tokens {
	return hclwrite.TokensForFunctionCall("list", hclwrite.TokensForIdentifier("string"))
}

// commonTags merges every resource tag into a single deterministic map.
func commonTags(plan *tfdraft.Plan) cty.Value {
	merged := make(map[string]cty.Value)
	for _, m := range plan.Modules {
		for _, r := range m.Resources {
			for k, v := range r.Tags {
				merged[k] = cty.StringVal(v)
			}
		}
	}
	if len(merged) == 0 {
		return cty.MapValEmpty(cty.String)
	}
	return cty.MapVal(merged)
}

// renderVariables emits the variable blocks sorted by name.
func renderVariables(variables []variableDef) ([]byte, error) {
	sort.Slice(variables, func(i, j int) bool {
		return variables[i].name < variables[j].name
	})

	seen := make(map[string]bool)
	file := hclwrite.NewEmptyFile()
	body := file.Body()

	for _, def := range variables {
		if seen[def.name] {
			return nil, fmt.Errorf("duplicate variable %q", def.name)
		}
		seen[def.name] = true

		block := body.AppendNewBlock("variable", []string{def.name})
		block.Body().SetAttributeRaw("type", def.typeExpr)
		block.Body().SetAttributeValue("default", def.defaultTo)
		body.AppendNewline()
	}

	return file.Bytes(), nil
}

// ident converts a resource ID into a safe Terraform identifier.
func ident(id string) string {
	var sb strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}
