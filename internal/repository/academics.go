package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/careerhub-api/internal/model"
	"github.com/yourusername/careerhub-api/internal/store"
)

// ---- Institutions ----

type InstitutionRepo struct {
	institutions collection[model.Institution]
}

func NewInstitutionRepo(s store.Store) *InstitutionRepo {
	return &InstitutionRepo{institutions: collection[model.Institution]{store: s, name: model.CollectionInstitutions}}
}

func (r *InstitutionRepo) Create(ctx context.Context, inst *model.Institution) (*model.Institution, error) {
	if inst.Status == "" {
		inst.Status = model.StatusActive
	}
	id, err := r.institutions.add(ctx, inst)
	if err != nil {
		return nil, fmt.Errorf("creating institution: %w", err)
	}
	inst.ID = id
	return inst, nil
}

func (r *InstitutionRepo) FindByID(ctx context.Context, id string) (*model.Institution, error) {
	inst, err := r.institutions.get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding institution: %w", err)
	}
	return inst, nil
}

func (r *InstitutionRepo) List(ctx context.Context) ([]model.Institution, error) {
	insts, err := r.institutions.list(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing institutions: %w", err)
	}
	return insts, nil
}

// Update merges the given fields into the institution
func (r *InstitutionRepo) Update(ctx context.Context, id string, patch map[string]any) error {
	if err := r.institutions.patch(ctx, id, patch); err != nil {
		return fmt.Errorf("updating institution: %w", err)
	}
	return nil
}

// Delete removes the institution only. Faculties, courses and admissions
// referencing it are left in place.
func (r *InstitutionRepo) Delete(ctx context.Context, id string) error {
	if err := r.institutions.delete(ctx, id); err != nil {
		return fmt.Errorf("deleting institution: %w", err)
	}
	return nil
}

// ---- Faculties ----

type FacultyRepo struct {
	faculties collection[model.Faculty]
}

func NewFacultyRepo(s store.Store) *FacultyRepo {
	return &FacultyRepo{faculties: collection[model.Faculty]{store: s, name: model.CollectionFaculties}}
}

func (r *FacultyRepo) Create(ctx context.Context, f *model.Faculty) (*model.Faculty, error) {
	if f.Status == "" {
		f.Status = model.StatusActive
	}
	id, err := r.faculties.add(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("creating faculty: %w", err)
	}
	f.ID = id
	return f, nil
}

func (r *FacultyRepo) FindByID(ctx context.Context, id string) (*model.Faculty, error) {
	f, err := r.faculties.get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding faculty: %w", err)
	}
	return f, nil
}

// List returns faculties, all of them when institutionID is empty
func (r *FacultyRepo) List(ctx context.Context, institutionID string) ([]model.Faculty, error) {
	var filters []store.Filter
	if institutionID != "" {
		filters = append(filters, store.Eq("institutionId", institutionID))
	}
	fs, err := r.faculties.list(ctx, filters...)
	if err != nil {
		return nil, fmt.Errorf("listing faculties: %w", err)
	}
	return fs, nil
}

func (r *FacultyRepo) Delete(ctx context.Context, id string) error {
	if err := r.faculties.delete(ctx, id); err != nil {
		return fmt.Errorf("deleting faculty: %w", err)
	}
	return nil
}

// ---- Courses ----

type CourseRepo struct {
	courses collection[model.Course]
}

func NewCourseRepo(s store.Store) *CourseRepo {
	return &CourseRepo{courses: collection[model.Course]{store: s, name: model.CollectionCourses}}
}

func (r *CourseRepo) Create(ctx context.Context, c *model.Course) (*model.Course, error) {
	if c.Status == "" {
		c.Status = model.StatusActive
	}
	id, err := r.courses.add(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("creating course: %w", err)
	}
	c.ID = id
	return c, nil
}

func (r *CourseRepo) FindByID(ctx context.Context, id string) (*model.Course, error) {
	c, err := r.courses.get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding course: %w", err)
	}
	return c, nil
}

// List returns courses, all of them when institutionID is empty
func (r *CourseRepo) List(ctx context.Context, institutionID string) ([]model.Course, error) {
	var filters []store.Filter
	if institutionID != "" {
		filters = append(filters, store.Eq("institutionId", institutionID))
	}
	cs, err := r.courses.list(ctx, filters...)
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	return cs, nil
}

func (r *CourseRepo) Delete(ctx context.Context, id string) error {
	if err := r.courses.delete(ctx, id); err != nil {
		return fmt.Errorf("deleting course: %w", err)
	}
	return nil
}

// ---- Admissions ----

type AdmissionRepo struct {
	admissions collection[model.Admission]
}

func NewAdmissionRepo(s store.Store) *AdmissionRepo {
	return &AdmissionRepo{admissions: collection[model.Admission]{store: s, name: model.CollectionAdmissions}}
}

// Publish stores a new admission as published by the given user
func (r *AdmissionRepo) Publish(ctx context.Context, a *model.Admission, publishedBy string) (*model.Admission, error) {
	now := time.Now().UTC()
	a.Published = true
	a.PublishedBy = publishedBy
	a.PublishedAt = &now
	if a.Status == "" {
		a.Status = model.StatusActive
	}
	if a.Requirements == nil {
		a.Requirements = []string{}
	}
	id, err := r.admissions.add(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("publishing admission: %w", err)
	}
	a.ID = id
	return a, nil
}

// SetPublished toggles the published flag of an existing admission
func (r *AdmissionRepo) SetPublished(ctx context.Context, id string, published bool, by string) error {
	patch := map[string]any{"published": published}
	if published {
		patch["publishedBy"] = by
		patch["publishedAt"] = time.Now().UTC()
	}
	if err := r.admissions.patch(ctx, id, patch); err != nil {
		return fmt.Errorf("updating admission: %w", err)
	}
	return nil
}

// List returns admissions, all of them when institutionID is empty
func (r *AdmissionRepo) List(ctx context.Context, institutionID string) ([]model.Admission, error) {
	var filters []store.Filter
	if institutionID != "" {
		filters = append(filters, store.Eq("institutionId", institutionID))
	}
	as, err := r.admissions.list(ctx, filters...)
	if err != nil {
		return nil, fmt.Errorf("listing admissions: %w", err)
	}
	return as, nil
}

func (r *AdmissionRepo) Delete(ctx context.Context, id string) error {
	if err := r.admissions.delete(ctx, id); err != nil {
		return fmt.Errorf("deleting admission: %w", err)
	}
	return nil
}
