package differ

import (
	"os"
	"path/filepath"
	"testing"

	tfdraft "github.com/tfdraft/tfdraft-go"
)

func plan(modules ...tfdraft.Module) *tfdraft.Plan {
	return &tfdraft.Plan{Modules: modules}
}

func TestCompareIdenticalPlans(t *testing.T) {
	p := plan(tfdraft.Module{
		Name: "network",
		Resources: []tfdraft.Resource{
			{ID: "net1", Type: tfdraft.TypeNetwork, Attributes: map[string]any{"cidr": "10.0.0.0/16"}},
		},
	})

	result := Compare(p, p)

	if result.Summary.Total != 0 {
		t.Errorf("Total = %d, want 0", result.Summary.Total)
	}
}

func TestCompareAddedAndRemoved(t *testing.T) {
	before := plan(tfdraft.Module{
		Name: "compute",
		Resources: []tfdraft.Resource{
			{ID: "vm1", Type: tfdraft.TypeCompute},
		},
	})
	after := plan(tfdraft.Module{
		Name: "compute",
		Resources: []tfdraft.Resource{
			{ID: "vm2", Type: tfdraft.TypeCompute},
		},
	})

	result := Compare(before, after)

	if len(result.Added) != 1 || result.Added[0].Resource != "vm2" {
		t.Errorf("Added = %v, want [vm2]", result.Added)
	}
	if len(result.Removed) != 1 || result.Removed[0].Resource != "vm1" {
		t.Errorf("Removed = %v, want [vm1]", result.Removed)
	}
	if result.Summary.Total != 2 {
		t.Errorf("Total = %d, want 2", result.Summary.Total)
	}
}

func TestCompareModifiedAttributes(t *testing.T) {
	before := plan(tfdraft.Module{
		Name: "compute",
		Resources: []tfdraft.Resource{
			{ID: "vm1", Type: tfdraft.TypeCompute, Attributes: map[string]any{"size": "small", "zone": "a"}},
		},
	})
	after := plan(tfdraft.Module{
		Name: "compute",
		Resources: []tfdraft.Resource{
			{ID: "vm1", Type: tfdraft.TypeCompute, Attributes: map[string]any{"size": "large", "image": "debian"}},
		},
	})

	result := Compare(before, after)

	if len(result.Modified) != 1 {
		t.Fatalf("Modified = %v, want 1 entry", result.Modified)
	}

	changes := result.Modified[0].Changes
	want := []string{"attributes.image added", "attributes.size modified", "attributes.zone removed"}
	if len(changes) != len(want) {
		t.Fatalf("Changes = %v, want %v", changes, want)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("Changes[%d] = %q, want %q", i, changes[i], want[i])
		}
	}
}

func TestCompareModuleMove(t *testing.T) {
	before := plan(tfdraft.Module{
		Name: "compute",
		Resources: []tfdraft.Resource{
			{ID: "vm1", Type: tfdraft.TypeCompute},
		},
	})
	after := plan(tfdraft.Module{
		Name: "compute_2",
		Resources: []tfdraft.Resource{
			{ID: "vm1", Type: tfdraft.TypeCompute},
		},
	})

	result := Compare(before, after)

	if len(result.Modified) != 1 {
		t.Fatalf("Modified = %v, want 1 entry", result.Modified)
	}
	if got := result.Modified[0].Changes[0]; got != "module changed: compute -> compute_2" {
		t.Errorf("change = %q", got)
	}
}

func TestCompareReorderingIsNotAChange(t *testing.T) {
	before := plan(
		tfdraft.Module{Name: "network", Resources: []tfdraft.Resource{{ID: "net1", Type: tfdraft.TypeNetwork}}},
		tfdraft.Module{Name: "storage", Resources: []tfdraft.Resource{{ID: "b1", Type: tfdraft.TypeStorage}}},
	)
	after := plan(
		tfdraft.Module{Name: "storage", Resources: []tfdraft.Resource{{ID: "b1", Type: tfdraft.TypeStorage}}},
		tfdraft.Module{Name: "network", Resources: []tfdraft.Resource{{ID: "net1", Type: tfdraft.TypeNetwork}}},
	)

	result := Compare(before, after)

	if result.Summary.Total != 0 {
		t.Errorf("Total = %d, want 0 for pure reordering", result.Summary.Total)
	}
}

func TestCompareFiles(t *testing.T) {
	dir := t.TempDir()

	f1 := filepath.Join(dir, "before.json")
	f2 := filepath.Join(dir, "after.yaml")

	jsonPlan := `{"modules": [{"name": "compute", "resources": [{"id": "vm1", "type": "compute"}]}]}`
	yamlPlan := "modules:\n  - name: compute\n    resources:\n      - id: vm1\n        type: compute\n      - id: vm2\n        type: compute\n"

	if err := os.WriteFile(f1, []byte(jsonPlan), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(f2, []byte(yamlPlan), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := CompareFiles(f1, f2)
	if err != nil {
		t.Fatalf("CompareFiles() error = %v", err)
	}

	if len(result.Added) != 1 || result.Added[0].Resource != "vm2" {
		t.Errorf("Added = %v, want [vm2]", result.Added)
	}
}

func TestCompareFilesMissing(t *testing.T) {
	if _, err := CompareFiles("missing1.json", "missing2.json"); err == nil {
		t.Error("expected error for missing files")
	}
}

func TestLoadPlanBadContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not valid"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadPlan(path); err == nil {
		t.Error("expected parse error")
	}
}
