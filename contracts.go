// Package tfdraft provides the shared types for the tfdraft planning toolkit.
//
// tfdraft turns a flat collection of described infrastructure resources into
// a validated, dependency-ordered deployment plan, and renders that plan as
// diagrams and Terraform source:
//
//	resources := []tfdraft.Resource{
//	    {ID: "net1", Type: tfdraft.TypeNetwork},
//	    {ID: "vm1", Type: tfdraft.TypeCompute, Attributes: map[string]any{"subnet": "net1"}},
//	}
//
// The tfdraft CLI builds the dependency graph, checks it, and emits an
// ordered, module-grouped plan.
package tfdraft

import (
	"encoding/json"
	"fmt"
)

// ResourceType classifies a resource into a deployment module.
type ResourceType string

const (
	TypeNetwork    ResourceType = "network"
	TypeCompute    ResourceType = "compute"
	TypeStorage    ResourceType = "storage"
	TypeDatabase   ResourceType = "database"
	TypeFunction   ResourceType = "function"
	TypeIdentity   ResourceType = "identity"
	TypeMonitoring ResourceType = "monitoring"
)

// ResourceTypes lists all valid resource types.
var ResourceTypes = []ResourceType{
	TypeNetwork,
	TypeCompute,
	TypeStorage,
	TypeDatabase,
	TypeFunction,
	TypeIdentity,
	TypeMonitoring,
}

// Valid reports whether t is a known resource type.
func (t ResourceType) Valid() bool {
	for _, known := range ResourceTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Resource is a single described infrastructure element.
type Resource struct {
	// ID is the stable identifier, unique within a catalog.
	ID string `json:"id" yaml:"id"`
	// Type classifies the resource (network, compute, storage, ...).
	Type ResourceType `json:"type" yaml:"type"`
	// Attributes holds configuration values. Values are scalars or lists
	// of scalars; values naming another resource's ID become references.
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	// Tags are free-form labels carried through to generated output.
	Tags map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Reference is a directed dependency from one resource to another.
// From depends on To: To must be deployed at or before From.
type Reference struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
	// Attribute is the attribute of From that produced this edge.
	Attribute string `json:"attribute" yaml:"attribute"`
}

// Graph is a set of resources plus the references between them.
// Acyclicity is enforced by the planner, not assumed.
type Graph struct {
	Resources  []Resource  `json:"resources" yaml:"resources"`
	References []Reference `json:"references" yaml:"references"`
}

// Resource returns the resource with the given ID, if present.
func (g *Graph) Resource(id string) (Resource, bool) {
	for _, r := range g.Resources {
		if r.ID == id {
			return r, true
		}
	}
	return Resource{}, false
}

// Module is a named group of resources deployed together.
type Module struct {
	Name      string     `json:"name" yaml:"name"`
	Resources []Resource `json:"resources" yaml:"resources"`
}

// Plan is the final ordered, module-grouped deployment sequence.
// For every reference the source resource appears at or after its target
// in the flattened order.
type Plan struct {
	Modules []Module `json:"modules" yaml:"modules"`
}

// ResourceIDs returns all resource IDs in overall deployment order.
func (p *Plan) ResourceIDs() []string {
	var ids []string
	for _, m := range p.Modules {
		for _, r := range m.Resources {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// Position returns the index of id in the flattened deployment order,
// or -1 if the plan does not contain it.
func (p *Plan) Position(id string) int {
	for i, got := range p.ResourceIDs() {
		if got == id {
			return i
		}
	}
	return -1
}

// ModuleFor returns the name of the module containing id, or "".
func (p *Plan) ModuleFor(id string) string {
	for _, m := range p.Modules {
		for _, r := range m.Resources {
			if r.ID == id {
				return m.Name
			}
		}
	}
	return ""
}

// DecodeResources parses a JSON array of resource descriptions, the
// structured form produced by the interpret stage or supplied directly.
func DecodeResources(data []byte) ([]Resource, error) {
	var resources []Resource
	if err := json.Unmarshal(data, &resources); err != nil {
		return nil, fmt.Errorf("parsing resource descriptions: %w", err)
	}
	for i, r := range resources {
		if r.ID == "" {
			return nil, fmt.Errorf("resource %d: missing id", i)
		}
		if !r.Type.Valid() {
			return nil, fmt.Errorf("resource %q: unknown type %q", r.ID, r.Type)
		}
	}
	return resources, nil
}
