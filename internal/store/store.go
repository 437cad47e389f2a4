package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Update and Delete when the document does not exist.
	// Reads never return it: absent documents come back as nil.
	ErrNotFound = errors.New("document not found")
	// ErrStorage wraps every failure reported by the underlying backend
	ErrStorage = errors.New("storage failure")
)

// CreatedAtField is set by Add to the server time of the write
const CreatedAtField = "createdAt"

// Document is a schemaless record addressed by collection + ID
type Document struct {
	ID     string
	Fields map[string]any
}

// Filter is an equality condition on a top-level field
type Filter struct {
	Field string
	Value any
}

func Eq(field string, value any) Filter {
	return Filter{Field: field, Value: value}
}

// Store is the document accessor every other component is built on.
// There are no transactions across calls; Update is a shallow merge with
// last-write-wins semantics.
type Store interface {
	List(ctx context.Context, collection string, filters ...Filter) ([]Document, error)
	Get(ctx context.Context, collection, id string) (*Document, error)
	Add(ctx context.Context, collection string, fields map[string]any) (string, error)
	Set(ctx context.Context, collection, id string, fields map[string]any) error
	Update(ctx context.Context, collection, id string, patch map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	Close() error
}
