// Package planner validates dependency graphs and produces ordered,
// module-grouped deployment plans.
//
// The planner is a pure function of its input: identical catalogs always
// yield byte-identical plans. Ties in the topological order are broken by
// picking the lexicographically smallest resource ID, which keeps generated
// artifacts diffable across runs.
package planner

import (
	"fmt"
	"sort"

	tfdraft "github.com/tfdraft/tfdraft-go"
	"github.com/tfdraft/tfdraft-go/internal/catalog"
	"github.com/tfdraft/tfdraft-go/internal/depgraph"
)

// Node states for the cycle-detecting traversal.
const (
	unvisited = iota
	inProgress
	done
)

// Plan builds, checks, orders and groups the resources of a catalog.
// It returns the plan together with the dependency graph it was derived
// from. Any structural problem aborts the run; no partial plan is returned.
func Plan(c *catalog.Catalog) (*tfdraft.Plan, *tfdraft.Graph, error) {
	graph, err := depgraph.Build(c)
	if err != nil {
		return nil, nil, err
	}

	if err := CheckAcyclic(graph); err != nil {
		return nil, nil, err
	}

	ordered, err := Order(graph)
	if err != nil {
		return nil, nil, err
	}

	return GroupModules(graph, ordered), graph, nil
}

// CheckAcyclic runs a depth-first traversal over the graph and fails with
// CyclicDependencyError when any reference cycle exists. The error carries
// the full cycle in edge order.
func CheckAcyclic(g *tfdraft.Graph) error {
	adj := adjacency(g)
	state := make(map[string]int, len(g.Resources))

	var path []string

	var visit func(id string) *tfdraft.CyclicDependencyError
	visit = func(id string) *tfdraft.CyclicDependencyError {
		state[id] = inProgress
		path = append(path, id)

		for _, next := range adj[id] {
			switch state[next] {
			case inProgress:
				// Back edge: the cycle is the path tail starting at next.
				start := 0
				for i, p := range path {
					if p == next {
						start = i
						break
					}
				}
				cycle := make([]string, len(path)-start)
				copy(cycle, path[start:])
				return &tfdraft.CyclicDependencyError{Cycle: cycle}
			case unvisited:
				if cycErr := visit(next); cycErr != nil {
					return cycErr
				}
			}
		}

		state[id] = done
		path = path[:len(path)-1]
		return nil
	}

	for _, r := range g.Resources {
		if state[r.ID] == unvisited {
			if cycErr := visit(r.ID); cycErr != nil {
				return cycErr
			}
		}
	}
	return nil
}

// Order produces the deterministic topological ordering of the graph:
// repeated selection of the resource with no unresolved dependencies,
// smallest ID first among ties. Targets always precede their sources.
func Order(g *tfdraft.Graph) ([]string, error) {
	if err := CheckAcyclic(g); err != nil {
		return nil, err
	}

	adj := adjacency(g)

	indegree := make(map[string]int, len(g.Resources))
	for _, r := range g.Resources {
		indegree[r.ID] = len(adj[r.ID])
	}

	// dependents[to] lists the resources waiting on to.
	dependents := make(map[string][]string)
	for from, targets := range adj {
		for _, to := range targets {
			dependents[to] = append(dependents[to], from)
		}
	}

	var eligible []string
	for _, r := range g.Resources {
		if indegree[r.ID] == 0 {
			eligible = append(eligible, r.ID)
		}
	}

	ordered := make([]string, 0, len(g.Resources))
	for len(eligible) > 0 {
		sort.Strings(eligible)
		next := eligible[0]
		eligible = eligible[1:]
		ordered = append(ordered, next)

		for _, waiting := range dependents[next] {
			indegree[waiting]--
			if indegree[waiting] == 0 {
				eligible = append(eligible, waiting)
			}
		}
	}

	return ordered, nil
}

// GroupModules groups an ordered resource sequence into modules by type,
// preserving the relative order of the topological pass. A module is never
// emitted before a module containing one of its dependencies: when reusing
// the existing module of a type would place a resource ahead of a
// dependency, a fresh module of that type is opened instead (named with a
// numeric suffix, e.g. "compute_2").
func GroupModules(g *tfdraft.Graph, ordered []string) *tfdraft.Plan {
	byID := make(map[string]tfdraft.Resource, len(g.Resources))
	for _, r := range g.Resources {
		byID[r.ID] = r
	}
	adj := adjacency(g)

	plan := &tfdraft.Plan{}
	latest := make(map[tfdraft.ResourceType]int)  // latest module index per type
	count := make(map[tfdraft.ResourceType]int)   // modules opened per type
	placed := make(map[string]int, len(g.Resources)) // resource ID -> module index

	for _, id := range ordered {
		r := byID[id]

		// A resource may not land in a module earlier than any module
		// holding one of its dependencies.
		required := 0
		for _, dep := range adj[id] {
			if idx, ok := placed[dep]; ok && idx > required {
				required = idx
			}
		}

		idx, seen := latest[r.Type]
		if !seen || idx < required {
			idx = len(plan.Modules)
			count[r.Type]++
			name := string(r.Type)
			if count[r.Type] > 1 {
				name = fmt.Sprintf("%s_%d", r.Type, count[r.Type])
			}
			plan.Modules = append(plan.Modules, tfdraft.Module{Name: name})
			latest[r.Type] = idx
		}

		plan.Modules[idx].Resources = append(plan.Modules[idx].Resources, r)
		placed[id] = idx
	}

	return plan
}

// adjacency returns the sorted, de-duplicated dependency targets of every
// resource. Sorting keeps traversal and cycle reporting reproducible.
func adjacency(g *tfdraft.Graph) map[string][]string {
	seen := make(map[string]map[string]bool)
	for _, ref := range g.References {
		if seen[ref.From] == nil {
			seen[ref.From] = make(map[string]bool)
		}
		seen[ref.From][ref.To] = true
	}

	adj := make(map[string][]string, len(seen))
	for from, targets := range seen {
		list := make([]string, 0, len(targets))
		for to := range targets {
			list = append(list, to)
		}
		sort.Strings(list)
		adj[from] = list
	}
	return adj
}
