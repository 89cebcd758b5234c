package interpret

import (
	"context"
	"strings"
	"testing"

	tfdraft "github.com/tfdraft/tfdraft-go"
)

// fakeCompleter returns canned responses and records prompts.
type fakeCompleter struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeCompleter) Name() string { return "fake" }

func (f *fakeCompleter) Complete(_ context.Context, system, prompt string) (string, error) {
	f.prompts = append(f.prompts, system+"\n"+prompt)
	return f.response, f.err
}

func TestInterpret_ParsesFencedJSON(t *testing.T) {
	fake := &fakeCompleter{response: "Here are the resources:\n```json\n" +
		`[{"id": "net1", "type": "network"}, {"id": "vm1", "type": "compute", "attributes": {"subnet": "net1"}}]` +
		"\n```\nDone."}

	resources, err := New(fake).Interpret(context.Background(), "a vm in a subnet")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resources) != 2 {
		t.Fatalf("expected 2 resources, got %d", len(resources))
	}
	if resources[0].ID != "net1" || resources[0].Type != tfdraft.TypeNetwork {
		t.Errorf("unexpected first resource: %+v", resources[0])
	}
	if resources[1].Attributes["subnet"] != "net1" {
		t.Errorf("expected subnet attribute, got %+v", resources[1].Attributes)
	}
}

func TestInterpret_PromptContainsIntent(t *testing.T) {
	fake := &fakeCompleter{response: "```json\n[]\n```"}

	_, err := New(fake).Interpret(context.Background(), "three web servers behind a load balancer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fake.prompts) != 1 {
		t.Fatalf("expected 1 prompt, got %d", len(fake.prompts))
	}
	if !strings.Contains(fake.prompts[0], "three web servers behind a load balancer") {
		t.Error("expected intent to appear in the prompt")
	}
}

func TestInterpret_RejectsUnknownType(t *testing.T) {
	fake := &fakeCompleter{response: "```json\n" +
		`[{"id": "x1", "type": "quantum"}]` + "\n```"}

	_, err := New(fake).Interpret(context.Background(), "intent")
	if err == nil {
		t.Fatal("expected error for unknown resource type")
	}
}

func TestInterpret_NoJSON(t *testing.T) {
	fake := &fakeCompleter{response: "I could not determine any resources."}

	_, err := New(fake).Interpret(context.Background(), "intent")
	if err == nil {
		t.Fatal("expected error when response carries no JSON")
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "fenced json block",
			in:   "text\n```json\n[{\"id\":\"a\"}]\n```\nmore",
			want: `[{"id":"a"}]`,
		},
		{
			name: "plain fence",
			in:   "```\n{\"id\":\"a\"}\n```",
			want: `{"id":"a"}`,
		},
		{
			name: "bare array",
			in:   `resources: [{"id":"a"}] done`,
			want: `[{"id":"a"}]`,
		},
		{
			name: "nothing",
			in:   "no structured content",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSON(tt.in); got != tt.want {
				t.Errorf("ExtractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDocument_TrimsAndTerminates(t *testing.T) {
	fake := &fakeCompleter{response: "\n\n# Plan\n\ncontent\n\n"}

	doc, err := New(fake).Document(context.Background(), "system", "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc != "# Plan\n\ncontent\n" {
		t.Errorf("unexpected document: %q", doc)
	}
}
