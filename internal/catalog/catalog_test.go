package catalog

import (
	"errors"
	"testing"

	tfdraft "github.com/tfdraft/tfdraft-go"
)

func TestCatalog_AddAndGet(t *testing.T) {
	c := New()

	err := c.Add(tfdraft.Resource{ID: "net1", Type: tfdraft.TypeNetwork})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r, err := c.Get("net1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Type != tfdraft.TypeNetwork {
		t.Errorf("expected network type, got %s", r.Type)
	}
}

func TestCatalog_DuplicateID(t *testing.T) {
	c := New()

	if err := c.Add(tfdraft.Resource{ID: "net1", Type: tfdraft.TypeNetwork}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := c.Add(tfdraft.Resource{ID: "net1", Type: tfdraft.TypeCompute})
	if err == nil {
		t.Fatal("expected error for duplicate id")
	}

	var dup *tfdraft.DuplicateIDError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateIDError, got %T", err)
	}
	if dup.ID != "net1" {
		t.Errorf("expected id net1, got %s", dup.ID)
	}

	// The first entry wins; nothing is overwritten.
	r, err := c.Get("net1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Type != tfdraft.TypeNetwork {
		t.Errorf("duplicate add overwrote existing resource")
	}
}

func TestCatalog_GetMissing(t *testing.T) {
	c := New()

	_, err := c.Get("nope")
	if err == nil {
		t.Fatal("expected error for missing id")
	}

	var nf *tfdraft.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %T", err)
	}
}

func TestCatalog_AllInsertionOrder(t *testing.T) {
	c := New()
	for _, id := range []string{"zeta", "alpha", "mid"} {
		if err := c.Add(tfdraft.Resource{ID: id, Type: tfdraft.TypeStorage}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	var got []string
	for r := range c.All() {
		got = append(got, r.ID)
	}

	want := []string{"zeta", "alpha", "mid"}
	if len(got) != len(want) {
		t.Fatalf("expected %d resources, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestCatalog_AllRestartable(t *testing.T) {
	c := New()
	if err := c.Add(tfdraft.Resource{ID: "a", Type: tfdraft.TypeNetwork}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Add(tfdraft.Resource{ID: "b", Type: tfdraft.TypeNetwork}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seq := c.All()

	// Partial consumption must not affect a second pass.
	for range seq {
		break
	}

	count := 0
	for range seq {
		count++
	}
	if count != 2 {
		t.Errorf("expected 2 resources on second pass, got %d", count)
	}
}

func TestFromResources(t *testing.T) {
	resources := []tfdraft.Resource{
		{ID: "a", Type: tfdraft.TypeNetwork},
		{ID: "b", Type: tfdraft.TypeCompute},
	}

	c, err := FromResources(resources)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 resources, got %d", c.Len())
	}

	_, err = FromResources(append(resources, tfdraft.Resource{ID: "a", Type: tfdraft.TypeStorage}))
	var dup *tfdraft.DuplicateIDError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateIDError, got %v", err)
	}
}
