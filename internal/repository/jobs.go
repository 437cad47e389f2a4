package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/careerhub-api/internal/model"
	"github.com/yourusername/careerhub-api/internal/store"
)

type JobRepo struct {
	jobs collection[model.JobPosting]
}

func NewJobRepo(s store.Store) *JobRepo {
	return &JobRepo{jobs: collection[model.JobPosting]{store: s, name: model.CollectionJobs}}
}

// Create inserts a new job posting
func (r *JobRepo) Create(ctx context.Context, j *model.JobPosting) (*model.JobPosting, error) {
	if j.Status == "" {
		j.Status = model.StatusActive
	}
	id, err := r.jobs.add(ctx, j)
	if err != nil {
		return nil, fmt.Errorf("creating job: %w", err)
	}
	j.ID = id
	return j, nil
}

// FindByID returns a single job or nil
func (r *JobRepo) FindByID(ctx context.Context, id string) (*model.JobPosting, error) {
	j, err := r.jobs.get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding job: %w", err)
	}
	return j, nil
}

// List returns job postings, scoped to one company when companyID is set
func (r *JobRepo) List(ctx context.Context, companyID string) ([]model.JobPosting, error) {
	var filters []store.Filter
	if companyID != "" {
		filters = append(filters, store.Eq("companyId", companyID))
	}
	jobs, err := r.jobs.list(ctx, filters...)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	return jobs, nil
}

// ListActive returns postings students can apply to
func (r *JobRepo) ListActive(ctx context.Context) ([]model.JobPosting, error) {
	jobs, err := r.jobs.list(ctx, store.Eq("status", model.StatusActive))
	if err != nil {
		return nil, fmt.Errorf("listing active jobs: %w", err)
	}
	return jobs, nil
}

// Update merges fields into a posting
func (r *JobRepo) Update(ctx context.Context, id string, patch map[string]any) error {
	if err := r.jobs.patch(ctx, id, patch); err != nil {
		return fmt.Errorf("updating job: %w", err)
	}
	return nil
}

func (r *JobRepo) Delete(ctx context.Context, id string) error {
	if err := r.jobs.delete(ctx, id); err != nil {
		return fmt.Errorf("deleting job: %w", err)
	}
	return nil
}
