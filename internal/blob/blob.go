package blob

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
)

// Store holds uploaded files. Used only for company verification documents.
type Store interface {
	Upload(ctx context.Context, path, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, path string) error
}

// ── Cloud Storage ─────────────────────────────────────

// GCSStore writes objects to the Firebase Storage bucket
type GCSStore struct {
	bucket *storage.BucketHandle
	name   string
}

func NewGCSStore(bucket *storage.BucketHandle, name string) *GCSStore {
	return &GCSStore{bucket: bucket, name: name}
}

func (s *GCSStore) Upload(ctx context.Context, path, contentType string, data []byte) (string, error) {
	w := s.bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalizing %s: %w", path, err)
	}

	return publicURL(s.name, path), nil
}

func (s *GCSStore) Delete(ctx context.Context, path string) error {
	err := s.bucket.Object(path).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("deleting %s: %w", path, err)
	}
	return nil
}

func publicURL(bucket, path string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media",
		bucket, url.PathEscape(path))
}

// ── In-memory ─────────────────────────────────────────

// MemoryStore keeps objects in memory for tests and local development
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	// FailOn makes Upload fail for paths containing the given substring
	FailOn string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (m *MemoryStore) Upload(_ context.Context, path, _ string, data []byte) (string, error) {
	if m.FailOn != "" && strings.Contains(path, m.FailOn) {
		return "", fmt.Errorf("uploading %s: simulated failure", path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = append([]byte(nil), data...)
	return "memory://" + path, nil
}

func (m *MemoryStore) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, path)
	return nil
}

// Has reports whether an object exists at path
func (m *MemoryStore) Has(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[path]
	return ok
}
