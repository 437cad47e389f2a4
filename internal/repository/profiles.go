package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/careerhub-api/internal/model"
	"github.com/yourusername/careerhub-api/internal/store"
)

// ---- Student profiles ----

type ProfileRepo struct {
	profiles collection[model.StudentProfile]
}

func NewProfileRepo(s store.Store) *ProfileRepo {
	return &ProfileRepo{profiles: collection[model.StudentProfile]{store: s, name: model.CollectionStudentProfiles}}
}

// FindByStudent returns the student's profile or nil
func (r *ProfileRepo) FindByStudent(ctx context.Context, studentID string) (*model.StudentProfile, error) {
	p, err := r.profiles.get(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("finding student profile: %w", err)
	}
	return p, nil
}

// Upsert replaces the profile stored under the student's uid
func (r *ProfileRepo) Upsert(ctx context.Context, studentID string, p *model.StudentProfile) error {
	p.ID = studentID
	if err := r.profiles.set(ctx, studentID, p); err != nil {
		return fmt.Errorf("saving student profile: %w", err)
	}
	return nil
}

// List returns all profiles keyed by student uid
func (r *ProfileRepo) List(ctx context.Context) (map[string]*model.StudentProfile, error) {
	ps, err := r.profiles.list(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing student profiles: %w", err)
	}
	out := make(map[string]*model.StudentProfile, len(ps))
	for i := range ps {
		out[ps[i].ID] = &ps[i]
	}
	return out, nil
}

// ---- Notifications ----

type NotificationRepo struct {
	notifications collection[model.Notification]
}

func NewNotificationRepo(s store.Store) *NotificationRepo {
	return &NotificationRepo{notifications: collection[model.Notification]{store: s, name: model.CollectionNotifications}}
}

func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	n.CreatedAt = time.Now().UTC()
	id, err := r.notifications.add(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("creating notification: %w", err)
	}
	n.ID = id
	return n, nil
}

func (r *NotificationRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Notification, error) {
	ns, err := r.notifications.list(ctx, store.Eq("studentId", studentID))
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	return ns, nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id string) error {
	if err := r.notifications.patch(ctx, id, map[string]any{"read": true}); err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	return nil
}

// ---- Company documents ----

type DocumentRepo struct {
	docs collection[model.CompanyDocument]
}

func NewDocumentRepo(s store.Store) *DocumentRepo {
	return &DocumentRepo{docs: collection[model.CompanyDocument]{store: s, name: model.CollectionCompanyDocs}}
}

func (r *DocumentRepo) Create(ctx context.Context, d *model.CompanyDocument) (*model.CompanyDocument, error) {
	if d.Status == "" {
		d.Status = "pending"
	}
	id, err := r.docs.add(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("creating company document: %w", err)
	}
	d.ID = id
	return d, nil
}

func (r *DocumentRepo) FindByID(ctx context.Context, id string) (*model.CompanyDocument, error) {
	d, err := r.docs.get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding company document: %w", err)
	}
	return d, nil
}

func (r *DocumentRepo) ListByCompany(ctx context.Context, companyID string) ([]model.CompanyDocument, error) {
	ds, err := r.docs.list(ctx, store.Eq("companyId", companyID))
	if err != nil {
		return nil, fmt.Errorf("listing company documents: %w", err)
	}
	return ds, nil
}

func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	if err := r.docs.delete(ctx, id); err != nil {
		return fmt.Errorf("deleting company document: %w", err)
	}
	return nil
}
