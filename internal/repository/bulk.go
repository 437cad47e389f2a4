package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/yourusername/careerhub-api/internal/model"
	"github.com/yourusername/careerhub-api/internal/store"
)

// BulkDocument is one document to write with an explicit ID
type BulkDocument struct {
	DocumentID string         `json:"documentId"`
	Fields     map[string]any `json:"fields"`
}

type BulkCollection struct {
	Name      string
	Documents []BulkDocument
}

// BulkModule maps collection name to documents. Collections keep the order
// in which they appear in the request body.
type BulkModule []BulkCollection

func (m *BulkModule) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*m = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("module must be an object of collection name to documents")
	}

	var out BulkModule
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := keyTok.(string)

		var docs []BulkDocument
		if err := dec.Decode(&docs); err != nil {
			return fmt.Errorf("collection %s: %w", name, err)
		}
		out = append(out, BulkCollection{Name: name, Documents: docs})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = out
	return nil
}

// BulkRequest is the body of the admin bulk-insert endpoint
type BulkRequest struct {
	AdminModules     BulkModule `json:"adminModules"`
	InstituteModules BulkModule `json:"instituteModules"`
	StudentModules   BulkModule `json:"studentModules"`
	CompanyModules   BulkModule `json:"companyModules"`
}

func (r BulkRequest) modules() []struct {
	name   string
	module BulkModule
} {
	return []struct {
		name   string
		module BulkModule
	}{
		{"adminModules", r.AdminModules},
		{"instituteModules", r.InstituteModules},
		{"studentModules", r.StudentModules},
		{"companyModules", r.CompanyModules},
	}
}

// Total is the number of documents in the request
func (r BulkRequest) Total() int {
	n := 0
	for _, m := range r.modules() {
		for _, c := range m.module {
			n += len(c.Documents)
		}
	}
	return n
}

// BulkImporter writes nested module maps into the store
type BulkImporter struct {
	store store.Store
}

func NewBulkImporter(s store.Store) *BulkImporter {
	return &BulkImporter{store: s}
}

// Validate checks every document against its collection schema. Nothing is
// written when any item is malformed.
func (b *BulkImporter) Validate(req BulkRequest) error {
	for _, m := range req.modules() {
		for _, c := range m.module {
			for i, d := range c.Documents {
				if d.DocumentID == "" {
					return fmt.Errorf("%s.%s[%d]: %w", m.name, c.Name, i,
						&model.ValidationError{Field: "documentId", Reason: "is required"})
				}
				if err := model.ValidateFields(c.Name, d.Fields); err != nil {
					return fmt.Errorf("%s.%s[%d]: %w", m.name, c.Name, i, err)
				}
			}
		}
	}
	return nil
}

// Import writes documents one at a time in request order: modules admin,
// institute, student, company; collections as listed; documents in array
// order. The first failing write stops the import. Earlier writes stay
// committed and nothing after the failure is attempted. Returns the number
// of committed documents.
func (b *BulkImporter) Import(ctx context.Context, req BulkRequest) (int, error) {
	written := 0
	for _, m := range req.modules() {
		for _, c := range m.module {
			for _, d := range c.Documents {
				if err := b.store.Set(ctx, c.Name, d.DocumentID, d.Fields); err != nil {
					log.Error().
						Err(err).
						Str("module", m.name).
						Str("collection", c.Name).
						Str("documentId", d.DocumentID).
						Int("written", written).
						Msg("Bulk insert aborted")
					return written, fmt.Errorf("writing %s/%s: %w", c.Name, d.DocumentID, err)
				}
				written++
			}
		}
	}
	return written, nil
}
