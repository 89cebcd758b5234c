// Package serialize renders deployment plans to their output representations.
//
// The serializer only produces bytes; writing files is left to callers.
package serialize

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	tfdraft "github.com/tfdraft/tfdraft-go"
)

// ToJSON renders a plan as indented JSON.
func ToJSON(p *tfdraft.Plan) ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling plan: %w", err)
	}
	return append(data, '\n'), nil
}

// ToYAML renders a plan as YAML.
func ToYAML(p *tfdraft.Plan) ([]byte, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshaling plan: %w", err)
	}
	return data, nil
}

// ToText renders a human-readable plan summary for terminal output.
func ToText(p *tfdraft.Plan) string {
	var sb strings.Builder

	total := len(p.ResourceIDs())
	fmt.Fprintf(&sb, "Plan: %d resources in %d modules\n", total, len(p.Modules))

	position := 0
	for _, m := range p.Modules {
		fmt.Fprintf(&sb, "\nModule %s:\n", m.Name)
		for _, r := range m.Resources {
			position++
			fmt.Fprintf(&sb, "  %2d. %s (%s)\n", position, r.ID, r.Type)
		}
	}

	return sb.String()
}

// GraphToJSON renders a dependency graph as indented JSON, used for the
// intermediate plan artifact written between pipeline stages.
func GraphToJSON(g *tfdraft.Graph) ([]byte, error) {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling graph: %w", err)
	}
	return append(data, '\n'), nil
}

// ResourcesToJSON renders raw resource descriptions as indented JSON.
func ResourcesToJSON(resources []tfdraft.Resource) ([]byte, error) {
	data, err := json.MarshalIndent(resources, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling resources: %w", err)
	}
	return append(data, '\n'), nil
}
