package serialize

import (
	"strings"
	"testing"

	tfdraft "github.com/tfdraft/tfdraft-go"
)

func testPlan() *tfdraft.Plan {
	return &tfdraft.Plan{
		Modules: []tfdraft.Module{
			{
				Name: "network",
				Resources: []tfdraft.Resource{
					{ID: "net1", Type: tfdraft.TypeNetwork,
						Attributes: map[string]any{"cidr_block": "10.0.0.0/16"}},
				},
			},
			{
				Name: "compute",
				Resources: []tfdraft.Resource{
					{ID: "vm1", Type: tfdraft.TypeCompute,
						Attributes: map[string]any{"subnet": "net1"}},
				},
			},
		},
	}
}

func TestToJSON(t *testing.T) {
	data, err := ToJSON(testPlan())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := string(data)
	for _, want := range []string{`"modules"`, `"network"`, `"net1"`, `"vm1"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %s", want)
		}
	}

	// Module order must survive serialization.
	if strings.Index(out, "net1") > strings.Index(out, "vm1") {
		t.Error("expected net1 before vm1 in serialized plan")
	}
}

func TestToJSON_Deterministic(t *testing.T) {
	first, err := ToJSON(testPlan())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ToJSON(testPlan())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(first) != string(second) {
		t.Error("expected byte-identical serialization for identical plans")
	}
}

func TestToYAML(t *testing.T) {
	data, err := ToYAML(testPlan())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := string(data)
	if !strings.Contains(out, "name: network") {
		t.Error("expected module name in YAML output")
	}
	if !strings.Contains(out, "id: net1") {
		t.Error("expected resource id in YAML output")
	}
}

func TestToText(t *testing.T) {
	out := ToText(testPlan())

	if !strings.Contains(out, "2 resources in 2 modules") {
		t.Errorf("expected summary line, got: %s", out)
	}
	if !strings.Contains(out, "Module network:") {
		t.Error("expected module heading")
	}
	if !strings.Contains(out, "vm1 (compute)") {
		t.Error("expected resource line with type")
	}
}
