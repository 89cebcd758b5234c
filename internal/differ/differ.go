// Package differ provides semantic comparison of deployment plans.
package differ

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"sort"

	"gopkg.in/yaml.v3"

	tfdraft "github.com/tfdraft/tfdraft-go"
)

// Entry describes one changed resource between two plans.
type Entry struct {
	Resource string   `json:"resource"`
	Type     string   `json:"type,omitempty"`
	Changes  []string `json:"changes,omitempty"`
}

// Summary counts the changes between two plans.
type Summary struct {
	Added    int `json:"added"`
	Removed  int `json:"removed"`
	Modified int `json:"modified"`
	Total    int `json:"total"`
}

// Result contains the difference between two plans.
type Result struct {
	Added    []Entry `json:"added,omitempty"`
	Removed  []Entry `json:"removed,omitempty"`
	Modified []Entry `json:"modified,omitempty"`
	Summary  Summary `json:"summary"`
}

// Compare compares two plans by resource and returns their differences.
// Module membership and attribute values are compared; position within
// the deployment order is not, since reordering without a semantic
// change is not a difference worth reporting.
func Compare(before, after *tfdraft.Plan) *Result {
	result := &Result{}

	res1 := resourcesByID(before)
	res2 := resourcesByID(after)

	for id, r := range res2 {
		if _, exists := res1[id]; !exists {
			result.Added = append(result.Added, Entry{
				Resource: id,
				Type:     string(r.Type),
			})
		}
	}

	for id, r := range res1 {
		if _, exists := res2[id]; !exists {
			result.Removed = append(result.Removed, Entry{
				Resource: id,
				Type:     string(r.Type),
			})
		}
	}

	for id, r1 := range res1 {
		r2, exists := res2[id]
		if !exists {
			continue
		}
		changes := compareResources(r1, r2)
		if m1, m2 := before.ModuleFor(id), after.ModuleFor(id); m1 != m2 {
			changes = append(changes, fmt.Sprintf("module changed: %s -> %s", m1, m2))
		}
		if len(changes) > 0 {
			result.Modified = append(result.Modified, Entry{
				Resource: id,
				Type:     string(r1.Type),
				Changes:  changes,
			})
		}
	}

	sortEntries(result.Added)
	sortEntries(result.Removed)
	sortEntries(result.Modified)

	result.Summary = Summary{
		Added:    len(result.Added),
		Removed:  len(result.Removed),
		Modified: len(result.Modified),
	}
	result.Summary.Total = result.Summary.Added + result.Summary.Removed + result.Summary.Modified

	return result
}

// CompareFiles compares two saved plan files.
func CompareFiles(file1, file2 string) (*Result, error) {
	p1, err := LoadPlan(file1)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file1, err)
	}

	p2, err := LoadPlan(file2)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file2, err)
	}

	return Compare(p1, p2), nil
}

// LoadPlan loads a serialized plan from a file.
func LoadPlan(path string) (*tfdraft.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var plan tfdraft.Plan

	// Try JSON first
	if err := json.Unmarshal(data, &plan); err != nil {
		// Try YAML
		if err := yaml.Unmarshal(data, &plan); err != nil {
			return nil, fmt.Errorf("failed to parse as JSON or YAML: %w", err)
		}
	}

	return &plan, nil
}

func resourcesByID(p *tfdraft.Plan) map[string]tfdraft.Resource {
	byID := make(map[string]tfdraft.Resource)
	for _, m := range p.Modules {
		for _, r := range m.Resources {
			byID[r.ID] = r
		}
	}
	return byID
}

// compareResources compares two versions of a resource and returns changes.
func compareResources(r1, r2 tfdraft.Resource) []string {
	var changes []string

	if r1.Type != r2.Type {
		changes = append(changes, fmt.Sprintf("type changed: %s -> %s", r1.Type, r2.Type))
	}

	changes = append(changes, compareMaps("attributes", r1.Attributes, r2.Attributes)...)

	if !reflect.DeepEqual(r1.Tags, r2.Tags) && !(len(r1.Tags) == 0 && len(r2.Tags) == 0) {
		changes = append(changes, "tags changed")
	}

	return changes
}

// compareMaps compares attribute maps and reports per-key changes.
func compareMaps(prefix string, m1, m2 map[string]any) []string {
	var changes []string

	for key, v2 := range m2 {
		if v1, exists := m1[key]; exists {
			if !reflect.DeepEqual(v1, v2) {
				changes = append(changes, fmt.Sprintf("%s.%s modified", prefix, key))
			}
		} else {
			changes = append(changes, fmt.Sprintf("%s.%s added", prefix, key))
		}
	}

	for key := range m1 {
		if _, exists := m2[key]; !exists {
			changes = append(changes, fmt.Sprintf("%s.%s removed", prefix, key))
		}
	}

	sort.Strings(changes)
	return changes
}

// sortEntries sorts diff entries by resource ID.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Resource < entries[j].Resource
	})
}
