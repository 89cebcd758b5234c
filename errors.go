package tfdraft

import (
	"fmt"
	"strings"
)

// The planner never repairs or guesses around a structurally invalid input.
// Every error below is terminal for the current run; no partial plan is
// produced alongside any of them.

// DuplicateIDError reports a resource added with an ID already in the catalog.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate resource id %q", e.ID)
}

// NotFoundError reports a lookup for an ID absent from the catalog.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource %q not found", e.ID)
}

// DanglingReferenceError reports a reference-shaped attribute whose value
// matches no catalog entry.
type DanglingReferenceError struct {
	// ID is the resource carrying the bad attribute.
	ID        string
	Attribute string
	Value     string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("resource %q: attribute %q references unknown resource %q", e.ID, e.Attribute, e.Value)
}

// AmbiguousReferenceError reports an attribute value that matches more than
// one catalog entry. The builder fails rather than guessing a target.
type AmbiguousReferenceError struct {
	ID        string
	Attribute string
	Value     string
	// Matches are the candidate target IDs, sorted.
	Matches []string
}

func (e *AmbiguousReferenceError) Error() string {
	return fmt.Sprintf("resource %q: attribute %q value %q matches multiple resources: %s",
		e.ID, e.Attribute, e.Value, strings.Join(e.Matches, ", "))
}

// CyclicDependencyError reports a reference cycle in the dependency graph.
type CyclicDependencyError struct {
	// Cycle lists the resource IDs along the cycle, in edge order.
	// The last member references the first.
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("dependency cycle: %s", strings.Join(append(append([]string{}, e.Cycle...), e.Cycle[0]), " -> "))
}
