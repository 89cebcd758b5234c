// Package depgraph builds dependency graphs from resource catalogs.
//
// References are inferred from attribute values: a value that names another
// resource's ID becomes a directed edge. Reference-shaped attributes
// (depends_on, *_id keys and well-known relation keys) must resolve to a
// catalog entry; anything else is a hard failure.
package depgraph

import (
	"sort"
	"strings"

	tfdraft "github.com/tfdraft/tfdraft-go"
	"github.com/tfdraft/tfdraft-go/internal/catalog"
)

// referenceKeys are attribute names that always denote a relation to
// another resource, even without an _id suffix.
var referenceKeys = map[string]bool{
	"depends_on":     true,
	"subnet":         true,
	"vpc":            true,
	"network":        true,
	"role":           true,
	"security_group": true,
	"reads":          true,
	"writes":         true,
	"bucket":         true,
	"database":       true,
	"queue":          true,
	"target":         true,
}

// Build constructs the dependency graph for every resource in the catalog.
//
// Failure modes:
//   - DanglingReferenceError: a reference-shaped attribute names an ID
//     absent from the catalog.
//   - AmbiguousReferenceError: a free-text attribute value matches more
//     than one ID under case folding. The builder never guesses.
func Build(c *catalog.Catalog) (*tfdraft.Graph, error) {
	graph := &tfdraft.Graph{}

	ids := c.IDs()

	for r := range c.All() {
		graph.Resources = append(graph.Resources, r)

		// Sorted keys keep reference order reproducible for identical input.
		keys := make([]string, 0, len(r.Attributes))
		for k := range r.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, key := range keys {
			values := stringValues(r.Attributes[key])

			for _, value := range values {
				ref, err := resolve(r.ID, key, value, c, ids)
				if err != nil {
					return nil, err
				}
				if ref != nil {
					graph.References = append(graph.References, *ref)
				}
			}
		}
	}

	return graph, nil
}

// resolve decides whether a single attribute value is a reference, plain
// data, or an error.
func resolve(from, key, value string, c *catalog.Catalog, ids []string) (*tfdraft.Reference, error) {
	if isReferenceKey(key) {
		if !c.Has(value) {
			return nil, &tfdraft.DanglingReferenceError{ID: from, Attribute: key, Value: value}
		}
		return &tfdraft.Reference{From: from, To: value, Attribute: key}, nil
	}

	// Free-text attribute: an exact ID match records a reference, but a
	// value that folds onto several IDs is ambiguous and fails the build.
	var matches []string
	for _, id := range ids {
		if strings.EqualFold(id, value) {
			matches = append(matches, id)
		}
	}

	if len(matches) > 1 {
		sort.Strings(matches)
		return nil, &tfdraft.AmbiguousReferenceError{
			ID:        from,
			Attribute: key,
			Value:     value,
			Matches:   matches,
		}
	}

	if len(matches) == 1 && matches[0] == value && value != from {
		return &tfdraft.Reference{From: from, To: value, Attribute: key}, nil
	}

	return nil, nil
}

// isReferenceKey reports whether an attribute name is reference-shaped.
func isReferenceKey(key string) bool {
	if referenceKeys[key] {
		return true
	}
	return strings.HasSuffix(key, "_id") || strings.HasSuffix(key, "_ids")
}

// stringValues extracts the string values of an attribute. Scalars other
// than strings never name resources and are ignored.
func stringValues(v any) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []string:
		return val
	case []any:
		var out []string
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
