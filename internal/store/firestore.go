package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore is the managed document database backend
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) List(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	q := s.client.Collection(collection).Query
	for _, f := range filters {
		q = q.Where(f.Field, "==", f.Value)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var docs []Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w: %w", collection, ErrStorage, err)
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Fields: snap.Data()})
	}
	return docs, nil
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s/%s: %w: %w", collection, id, ErrStorage, err)
	}
	return &Document{ID: snap.Ref.ID, Fields: snap.Data()}, nil
}

func (s *FirestoreStore) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	data := copyFields(fields)
	data[CreatedAtField] = firestore.ServerTimestamp

	ref, _, err := s.client.Collection(collection).Add(ctx, data)
	if err != nil {
		return "", fmt.Errorf("adding to %s: %w: %w", collection, ErrStorage, err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, fields); err != nil {
		return fmt.Errorf("setting %s/%s: %w: %w", collection, id, ErrStorage, err)
	}
	return nil
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, patch map[string]any) error {
	updates := make([]firestore.Update, 0, len(patch))
	for k, v := range patch {
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: v})
	}
	if len(updates) == 0 {
		return nil
	}

	_, err := s.client.Collection(collection).Doc(id).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("updating %s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("updating %s/%s: %w: %w", collection, id, ErrStorage, err)
	}
	return nil
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("deleting %s/%s: %w: %w", collection, id, ErrStorage, err)
	}
	return nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
