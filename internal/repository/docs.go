package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yourusername/careerhub-api/internal/model"
	"github.com/yourusername/careerhub-api/internal/store"
)

type validator interface {
	Validate() error
}

// encode turns a typed model into store fields. The id lives in the
// document key, never in the fields.
func encode(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	fields := make(map[string]any)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	delete(fields, "id")
	return fields, nil
}

func decode(doc store.Document, v any) error {
	fields := make(map[string]any, len(doc.Fields)+1)
	for k, val := range doc.Fields {
		fields[k] = val
	}
	fields["id"] = doc.ID

	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("decoding document %s: %w", doc.ID, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decoding document %s: %w", doc.ID, err)
	}
	return nil
}

func decodeAll[T any](docs []store.Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		var v T
		if err := decode(d, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// collection wraps typed reads/writes over one named store collection.
// Every write goes through the model's Validate.
type collection[T any] struct {
	store store.Store
	name  string
}

func (c collection[T]) add(ctx context.Context, v validator) (string, error) {
	if err := v.Validate(); err != nil {
		return "", err
	}
	fields, err := encode(v)
	if err != nil {
		return "", err
	}
	delete(fields, store.CreatedAtField)
	return c.store.Add(ctx, c.name, fields)
}

func (c collection[T]) set(ctx context.Context, id string, v validator) error {
	if err := v.Validate(); err != nil {
		return err
	}
	fields, err := encode(v)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, c.name, id, fields)
}

func (c collection[T]) get(ctx context.Context, id string) (*T, error) {
	doc, err := c.store.Get(ctx, c.name, id)
	if err != nil || doc == nil {
		return nil, err
	}
	var v T
	if err := decode(*doc, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c collection[T]) list(ctx context.Context, filters ...store.Filter) ([]T, error) {
	docs, err := c.store.List(ctx, c.name, filters...)
	if err != nil {
		return nil, err
	}
	return decodeAll[T](docs)
}

// patch validates the document as it would look after the merge, then
// writes only the patched fields.
func (c collection[T]) patch(ctx context.Context, id string, patch map[string]any) error {
	doc, err := c.store.Get(ctx, c.name, id)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("updating %s/%s: %w", c.name, id, store.ErrNotFound)
	}
	merged := make(map[string]any, len(doc.Fields)+len(patch))
	for k, v := range doc.Fields {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	if err := model.ValidateFields(c.name, merged); err != nil {
		return err
	}
	return c.store.Update(ctx, c.name, id, patch)
}

func (c collection[T]) delete(ctx context.Context, id string) error {
	return c.store.Delete(ctx, c.name, id)
}
