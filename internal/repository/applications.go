package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/careerhub-api/internal/model"
	"github.com/yourusername/careerhub-api/internal/store"
)

// ErrDuplicateApplication is returned when the student already holds a
// non-withdrawn application for the same course or job
var ErrDuplicateApplication = errors.New("already applied")

type ApplicationRepo struct {
	apps collection[model.Application]
}

func NewApplicationRepo(s store.Store) *ApplicationRepo {
	return &ApplicationRepo{apps: collection[model.Application]{store: s, name: model.CollectionApplications}}
}

// FindActive returns the student's non-withdrawn application for the same
// target as a, or nil
func (r *ApplicationRepo) FindActive(ctx context.Context, a *model.Application) (*model.Application, error) {
	filters := []store.Filter{
		store.Eq("studentId", a.StudentID),
		store.Eq("type", a.Type),
	}
	switch a.Type {
	case model.AppTypeAdmission:
		filters = append(filters,
			store.Eq("institutionId", a.InstitutionID),
			store.Eq("courseId", a.CourseID))
	case model.AppTypeJob:
		filters = append(filters, store.Eq("jobId", a.JobID))
	}

	existing, err := r.apps.list(ctx, filters...)
	if err != nil {
		return nil, fmt.Errorf("finding application: %w", err)
	}
	for i := range existing {
		if existing[i].Status != model.AppStatusWithdrawn {
			return &existing[i], nil
		}
	}
	return nil, nil
}

// Create stores a new pending application after the duplicate check.
// The check and the write are separate calls; two concurrent submissions
// can both pass the check.
func (r *ApplicationRepo) Create(ctx context.Context, a *model.Application) (*model.Application, error) {
	if a.Status == "" {
		a.Status = model.AppStatusPending
	}
	if a.AppliedAt.IsZero() {
		a.AppliedAt = time.Now().UTC()
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	dup, err := r.FindActive(ctx, a)
	if err != nil {
		return nil, err
	}
	if dup != nil {
		return nil, ErrDuplicateApplication
	}

	id, err := r.apps.add(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("creating application: %w", err)
	}
	a.ID = id
	return a, nil
}

func (r *ApplicationRepo) FindByID(ctx context.Context, id string) (*model.Application, error) {
	a, err := r.apps.get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding application: %w", err)
	}
	return a, nil
}

// ListByStudent returns all of a student's applications
func (r *ApplicationRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Application, error) {
	apps, err := r.apps.list(ctx, store.Eq("studentId", studentID))
	if err != nil {
		return nil, fmt.Errorf("listing student applications: %w", err)
	}
	return apps, nil
}

// ListByJob returns all applications to a job posting
func (r *ApplicationRepo) ListByJob(ctx context.Context, jobID string) ([]model.Application, error) {
	apps, err := r.apps.list(ctx, store.Eq("type", model.AppTypeJob), store.Eq("jobId", jobID))
	if err != nil {
		return nil, fmt.Errorf("listing job applications: %w", err)
	}
	return apps, nil
}

// ListByInstitution returns course applications to an institution
func (r *ApplicationRepo) ListByInstitution(ctx context.Context, institutionID string) ([]model.Application, error) {
	apps, err := r.apps.list(ctx, store.Eq("type", model.AppTypeAdmission), store.Eq("institutionId", institutionID))
	if err != nil {
		return nil, fmt.Errorf("listing institution applications: %w", err)
	}
	return apps, nil
}

func (r *ApplicationRepo) List(ctx context.Context) ([]model.Application, error) {
	apps, err := r.apps.list(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}
	return apps, nil
}

// UpdateStatus records a decision on an application
func (r *ApplicationRepo) UpdateStatus(ctx context.Context, id, status, review string) error {
	if !model.ValidApplicationStatus(status) {
		return &model.ValidationError{Field: "status", Reason: "unknown status " + status}
	}
	patch := map[string]any{"status": status}
	if review != "" {
		patch["review"] = review
	}
	if status == model.AppStatusAccepted || status == model.AppStatusRejected {
		patch["decision"] = status
	}
	if err := r.apps.patch(ctx, id, patch); err != nil {
		return fmt.Errorf("updating application status: %w", err)
	}
	return nil
}

func (r *ApplicationRepo) Delete(ctx context.Context, id string) error {
	if err := r.apps.delete(ctx, id); err != nil {
		return fmt.Errorf("deleting application: %w", err)
	}
	return nil
}
