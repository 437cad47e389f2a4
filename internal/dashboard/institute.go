package dashboard

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/yourusername/careerhub-api/internal/model"
	"github.com/yourusername/careerhub-api/internal/session"
	"github.com/yourusername/careerhub-api/internal/store"
)

var ErrNoInstitution = errors.New("no institution linked to this account")

// Institute is the dashboard of institution staff, scoped to the
// institution on the staff member's user document
type Institute struct {
	base

	Institution  *model.Institution
	Faculties    []model.Faculty
	Courses      []model.Course
	Admissions   []model.Admission
	Applications []model.Application
	Directory    *Directory
}

func NewInstitute(sess *session.Session, s store.Store, confirm Confirmer) *Institute {
	return &Institute{base: newBase(model.RoleInstitute, sess, s, confirm)}
}

func (d *Institute) Load(ctx context.Context) error {
	p, err := d.principal()
	if err != nil {
		return err
	}
	user, err := d.repos.Users.FindByUID(ctx, p.UID)
	if err != nil {
		return fmt.Errorf("loading institute dashboard: %w", err)
	}
	if user == nil || user.InstitutionID == "" {
		return ErrNoInstitution
	}
	instID := user.InstitutionID

	var (
		inst         *model.Institution
		faculties    []model.Faculty
		courses      []model.Course
		admissions   []model.Admission
		applications []model.Application
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { inst, err = d.repos.Institutions.FindByID(gctx, instID); return })
	g.Go(func() (err error) { faculties, err = d.repos.Faculties.List(gctx, instID); return })
	g.Go(func() (err error) { courses, err = d.repos.Courses.List(gctx, instID); return })
	g.Go(func() (err error) { admissions, err = d.repos.Admissions.List(gctx, instID); return })
	g.Go(func() (err error) { applications, err = d.repos.Applications.ListByInstitution(gctx, instID); return })
	if err := g.Wait(); err != nil {
		return fmt.Errorf("loading institute dashboard: %w", err)
	}
	if inst == nil {
		return fmt.Errorf("loading institute dashboard: institution %s: %w", instID, store.ErrNotFound)
	}

	d.Institution, d.Faculties, d.Courses = inst, faculties, courses
	d.Admissions, d.Applications = admissions, applications
	d.Directory = NewDirectory([]model.Institution{*inst}, faculties, courses, nil)
	return nil
}

// loaded returns the institution ID, failing before Load
func (d *Institute) loaded() (string, error) {
	if _, err := d.principal(); err != nil {
		return "", err
	}
	if d.Institution == nil {
		return "", ErrNoInstitution
	}
	return d.Institution.ID, nil
}

func (d *Institute) AddFaculty(ctx context.Context, f model.Faculty) (*model.Faculty, error) {
	instID, err := d.loaded()
	if err != nil {
		return nil, err
	}
	f.InstitutionID = instID
	created, err := d.repos.Faculties.Create(ctx, &f)
	if err != nil {
		return nil, err
	}
	d.Faculties = append(d.Faculties, *created)
	d.Directory.SetFaculty(created.ID, created.Name)
	return created, nil
}

func (d *Institute) AddCourse(ctx context.Context, c model.Course) (*model.Course, error) {
	instID, err := d.loaded()
	if err != nil {
		return nil, err
	}
	c.InstitutionID = instID
	created, err := d.repos.Courses.Create(ctx, &c)
	if err != nil {
		return nil, err
	}
	d.Courses = append(d.Courses, *created)
	d.Directory.SetCourse(created.ID, created.Name)
	return created, nil
}

// DeleteCourse removes the course. Applications referencing it remain.
func (d *Institute) DeleteCourse(ctx context.Context, id string) error {
	if _, err := d.loaded(); err != nil {
		return err
	}
	course, err := findByID(d.Courses, "course", id, func(c model.Course) string { return c.ID })
	if err != nil {
		return err
	}
	if err := d.confirmed(ctx, "Delete course "+course.Name+"?"); err != nil {
		return err
	}
	if err := d.repos.Courses.Delete(ctx, id); err != nil {
		return err
	}
	d.Courses = removeByID(d.Courses, id, func(c model.Course) string { return c.ID })
	return nil
}

func (d *Institute) PublishAdmission(ctx context.Context, a model.Admission) (*model.Admission, error) {
	instID, err := d.loaded()
	if err != nil {
		return nil, err
	}
	p, _ := d.sess.Current()
	a.InstitutionID = instID
	created, err := d.repos.Admissions.Publish(ctx, &a, p.UID)
	if err != nil {
		return nil, err
	}
	d.Admissions = append(d.Admissions, *created)
	return created, nil
}

// SetAdmissionPublished publishes or withdraws an existing admission
func (d *Institute) SetAdmissionPublished(ctx context.Context, id string, published bool) error {
	if _, err := d.loaded(); err != nil {
		return err
	}
	adm, err := findByID(d.Admissions, "admission", id, func(a model.Admission) string { return a.ID })
	if err != nil {
		return err
	}
	p, _ := d.sess.Current()
	if err := d.repos.Admissions.SetPublished(ctx, id, published, p.UID); err != nil {
		return err
	}
	adm.Published = published
	if published {
		adm.PublishedBy = p.UID
	}
	return nil
}

// DecideApplication accepts or rejects a course application with a review
func (d *Institute) DecideApplication(ctx context.Context, id, status, review string) error {
	if _, err := d.loaded(); err != nil {
		return err
	}
	if status != model.AppStatusAccepted && status != model.AppStatusRejected {
		return &model.ValidationError{Field: "status", Reason: "must be accepted or rejected"}
	}
	app, err := findByID(d.Applications, "application", id, func(a model.Application) string { return a.ID })
	if err != nil {
		return err
	}
	if err := d.repos.Applications.UpdateStatus(ctx, id, status, review); err != nil {
		return err
	}
	app.Status = status
	app.Decision = status
	if review != "" {
		app.Review = review
	}
	return nil
}
