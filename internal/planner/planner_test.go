package planner

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tfdraft "github.com/tfdraft/tfdraft-go"
	"github.com/tfdraft/tfdraft-go/internal/catalog"
)

func demoCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.FromResources([]tfdraft.Resource{
		{ID: "net1", Type: tfdraft.TypeNetwork},
		{ID: "vm1", Type: tfdraft.TypeCompute,
			Attributes: map[string]any{"subnet": "net1"}},
		{ID: "bucket1", Type: tfdraft.TypeStorage},
		{ID: "fn1", Type: tfdraft.TypeFunction,
			Attributes: map[string]any{"reads": "bucket1", "writes": "db1"}},
		{ID: "db1", Type: tfdraft.TypeDatabase},
	})
	require.NoError(t, err)
	return c
}

func TestPlan_RespectsDependencies(t *testing.T) {
	plan, graph, err := Plan(demoCatalog(t))
	require.NoError(t, err)

	// Every reference's source must appear at or after its target.
	for _, ref := range graph.References {
		assert.GreaterOrEqual(t, plan.Position(ref.From), plan.Position(ref.To),
			"%s must not precede its dependency %s", ref.From, ref.To)
	}

	assert.Len(t, plan.ResourceIDs(), 5)
}

func TestOrder_LexicographicTieBreak(t *testing.T) {
	c, err := catalog.FromResources([]tfdraft.Resource{
		{ID: "zebra", Type: tfdraft.TypeNetwork},
		{ID: "alpha", Type: tfdraft.TypeNetwork},
		{ID: "mike", Type: tfdraft.TypeNetwork},
	})
	require.NoError(t, err)

	_, graph, err := Plan(c)
	require.NoError(t, err)

	ordered, err := Order(graph)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mike", "zebra"}, ordered)
}

func TestPlan_Deterministic(t *testing.T) {
	first, _, err := Plan(demoCatalog(t))
	require.NoError(t, err)
	second, _, err := Plan(demoCatalog(t))
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)

	assert.Equal(t, string(firstJSON), string(secondJSON))
}

func TestCheckAcyclic_ReportsCycle(t *testing.T) {
	c, err := catalog.FromResources([]tfdraft.Resource{
		{ID: "a", Type: tfdraft.TypeCompute,
			Attributes: map[string]any{"depends_on": "b"}},
		{ID: "b", Type: tfdraft.TypeCompute,
			Attributes: map[string]any{"depends_on": "a"}},
	})
	require.NoError(t, err)

	_, _, err = Plan(c)
	require.Error(t, err)

	var cyc *tfdraft.CyclicDependencyError
	require.ErrorAs(t, err, &cyc)
	assert.ElementsMatch(t, []string{"a", "b"}, cyc.Cycle)
}

func TestCheckAcyclic_SelfReference(t *testing.T) {
	c, err := catalog.FromResources([]tfdraft.Resource{
		{ID: "loop", Type: tfdraft.TypeCompute,
			Attributes: map[string]any{"depends_on": "loop"}},
	})
	require.NoError(t, err)

	_, _, err = Plan(c)
	var cyc *tfdraft.CyclicDependencyError
	require.ErrorAs(t, err, &cyc)
	assert.Equal(t, []string{"loop"}, cyc.Cycle)
}

func TestCheckAcyclic_LongerCycle(t *testing.T) {
	c, err := catalog.FromResources([]tfdraft.Resource{
		{ID: "a", Type: tfdraft.TypeCompute, Attributes: map[string]any{"target": "b"}},
		{ID: "b", Type: tfdraft.TypeStorage, Attributes: map[string]any{"target": "c"}},
		{ID: "c", Type: tfdraft.TypeDatabase, Attributes: map[string]any{"target": "a"}},
	})
	require.NoError(t, err)

	_, _, err = Plan(c)
	var cyc *tfdraft.CyclicDependencyError
	require.ErrorAs(t, err, &cyc)
	assert.Len(t, cyc.Cycle, 3)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, cyc.Cycle)
}

func TestGroupModules_GroupsByType(t *testing.T) {
	plan, _, err := Plan(demoCatalog(t))
	require.NoError(t, err)

	assert.Equal(t, "storage", plan.ModuleFor("bucket1"))
	assert.Equal(t, "database", plan.ModuleFor("db1"))
	assert.Equal(t, "compute", plan.ModuleFor("vm1"))
	assert.Equal(t, "network", plan.ModuleFor("net1"))
	assert.Equal(t, "function", plan.ModuleFor("fn1"))
}

func TestGroupModules_SplitsInterleavedTypes(t *testing.T) {
	// compute -> network -> compute forces a second compute module:
	// one compute module cannot both precede and follow the network module.
	c, err := catalog.FromResources([]tfdraft.Resource{
		{ID: "base", Type: tfdraft.TypeCompute},
		{ID: "net", Type: tfdraft.TypeNetwork,
			Attributes: map[string]any{"depends_on": "base"}},
		{ID: "top", Type: tfdraft.TypeCompute,
			Attributes: map[string]any{"depends_on": "net"}},
	})
	require.NoError(t, err)

	plan, graph, err := Plan(c)
	require.NoError(t, err)

	for _, ref := range graph.References {
		assert.GreaterOrEqual(t, plan.Position(ref.From), plan.Position(ref.To))
	}
	assert.NotEqual(t, plan.ModuleFor("base"), plan.ModuleFor("top"))
	assert.Equal(t, "compute_2", plan.ModuleFor("top"))
}
