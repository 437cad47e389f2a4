package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/careerhub-api/internal/blob"
	"github.com/yourusername/careerhub-api/internal/model"
	"github.com/yourusername/careerhub-api/internal/repository"
)

// MaxDocumentSize is the upload limit per file
const MaxDocumentSize = 10 * 1024 * 1024

var ErrDocumentNotOwned = errors.New("document belongs to another company")

// Upload is one file of a multi-file upload
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// DocumentService stores company verification documents in the blob store
// and records them in the companyDocuments collection
type DocumentService struct {
	blobs blob.Store
	docs  *repository.DocumentRepo
}

func NewDocumentService(blobs blob.Store, docs *repository.DocumentRepo) *DocumentService {
	return &DocumentService{blobs: blobs, docs: docs}
}

// UploadAll uploads files one by one. A failing file does not stop the
// loop; the first error is returned alongside the documents that were
// stored. Nothing already uploaded is rolled back.
func (s *DocumentService) UploadAll(ctx context.Context, companyID string, files []Upload) ([]model.CompanyDocument, error) {
	var stored []model.CompanyDocument
	var firstErr error

	for _, f := range files {
		doc, err := s.upload(ctx, companyID, f)
		if err != nil {
			log.Warn().Err(err).Str("companyId", companyID).Str("file", f.Name).Msg("Document upload failed")
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", f.Name, err)
			}
			continue
		}
		stored = append(stored, *doc)
	}

	return stored, firstErr
}

func (s *DocumentService) upload(ctx context.Context, companyID string, f Upload) (*model.CompanyDocument, error) {
	if len(f.Data) == 0 {
		return nil, fmt.Errorf("file is empty")
	}
	if len(f.Data) > MaxDocumentSize {
		return nil, fmt.Errorf("file too large, maximum size is 10MB")
	}

	pages := 0
	if isPDF(f) {
		n, err := pdfPageCount(f.Data)
		if err != nil {
			return nil, err
		}
		pages = n
	}

	storagePath := path.Join(model.CollectionCompanyDocs, companyID, uuid.NewString()+"-"+path.Base(f.Name))
	url, err := s.blobs.Upload(ctx, storagePath, f.ContentType, f.Data)
	if err != nil {
		return nil, fmt.Errorf("uploading: %w", err)
	}

	doc := &model.CompanyDocument{
		Name:        f.Name,
		Type:        f.ContentType,
		Size:        int64(len(f.Data)),
		URL:         url,
		StoragePath: storagePath,
		UploadedAt:  time.Now().UTC(),
		CompanyID:   companyID,
		Pages:       pages,
	}
	return s.docs.Create(ctx, doc)
}

// Delete removes the blob, then the record
func (s *DocumentService) Delete(ctx context.Context, companyID, docID string) error {
	doc, err := s.docs.FindByID(ctx, docID)
	if err != nil {
		return err
	}
	if doc == nil {
		return nil
	}
	if doc.CompanyID != companyID {
		return ErrDocumentNotOwned
	}
	if err := s.blobs.Delete(ctx, doc.StoragePath); err != nil {
		return err
	}
	return s.docs.Delete(ctx, docID)
}

func isPDF(f Upload) bool {
	return f.ContentType == "application/pdf" || strings.HasSuffix(strings.ToLower(f.Name), ".pdf")
}

// pdfPageCount validates the PDF and returns its number of pages
func pdfPageCount(data []byte) (n int, err error) {
	// Header must start with %PDF
	if len(data) < 4 || string(data[:4]) != "%PDF" {
		return 0, fmt.Errorf("invalid PDF file")
	}

	// The pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid PDF file: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PDF file: %w", err)
	}
	return r.NumPage(), nil
}
