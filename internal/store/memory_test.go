package store

import (
	"context"
	"errors"
	"testing"
)

func TestUpdateMergesFields(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id, err := s.Add(ctx, "institutions", map[string]any{"name": "Limkokwing", "address": "Maseru"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Update(ctx, "institutions", id, map[string]any{"status": "inactive"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	doc, err := s.Get(ctx, "institutions", id)
	if err != nil || doc == nil {
		t.Fatalf("get: %v %v", doc, err)
	}
	if doc.Fields["status"] != "inactive" {
		t.Fatalf("expected patched status, got %v", doc.Fields["status"])
	}
	if doc.Fields["name"] != "Limkokwing" || doc.Fields["address"] != "Maseru" {
		t.Fatalf("expected untouched fields to survive merge, got %v", doc.Fields)
	}
	if _, ok := doc.Fields[CreatedAtField]; !ok {
		t.Fatalf("expected createdAt to be set by add")
	}
}

func TestUpdateMissingDocument(t *testing.T) {
	s := NewMemoryStore()
	err := s.Update(context.Background(), "courses", "nope", map[string]any{"name": "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	doc, err := NewMemoryStore().Get(context.Background(), "courses", "nope")
	if err != nil || doc != nil {
		t.Fatalf("expected nil document and nil error, got %v %v", doc, err)
	}
}

func TestListFiltersAndOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for _, f := range []map[string]any{
		{"title": "a", "companyId": "c1"},
		{"title": "b", "companyId": "c2"},
		{"title": "c", "companyId": "c1"},
	} {
		if _, err := s.Add(ctx, "jobs", f); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	docs, err := s.List(ctx, "jobs", Eq("companyId", "c1"))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 2 || docs[0].Fields["title"] != "a" || docs[1].Fields["title"] != "c" {
		t.Fatalf("unexpected filtered list: %+v", docs)
	}

	all, _ := s.List(ctx, "jobs")
	if len(all) != 3 {
		t.Fatalf("expected 3 docs, got %d", len(all))
	}
}

func TestSetAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Set(ctx, "users", "uid-1", map[string]any{"email": "a@b.c"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "users", "uid-1", map[string]any{"email": "x@y.z"}); err != nil {
		t.Fatalf("set again: %v", err)
	}
	if s.Count("users") != 1 {
		t.Fatalf("expected set to overwrite, count=%d", s.Count("users"))
	}
	doc, _ := s.Get(ctx, "users", "uid-1")
	if doc.Fields["email"] != "x@y.z" {
		t.Fatalf("expected replaced document, got %v", doc.Fields)
	}

	if err := s.Delete(ctx, "users", "uid-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if doc, _ := s.Get(ctx, "users", "uid-1"); doc != nil {
		t.Fatalf("expected hard delete")
	}
	if err := s.Set(ctx, "users", "", map[string]any{}); err == nil {
		t.Fatalf("expected error for empty id")
	}
}

func TestReturnedFieldsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	id, _ := s.Add(ctx, "faculties", map[string]any{"name": "FICT"})

	doc, _ := s.Get(ctx, "faculties", id)
	doc.Fields["name"] = "mutated"

	again, _ := s.Get(ctx, "faculties", id)
	if again.Fields["name"] != "FICT" {
		t.Fatalf("store state leaked through returned map")
	}
}
