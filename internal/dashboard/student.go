package dashboard

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/yourusername/careerhub-api/internal/model"
	"github.com/yourusername/careerhub-api/internal/repository"
	"github.com/yourusername/careerhub-api/internal/session"
	"github.com/yourusername/careerhub-api/internal/store"
)

// MaxCourseSelections is how many courses a student may pick before submitting
const MaxCourseSelections = 2

var ErrTooManySelections = fmt.Errorf("at most %d courses can be selected", MaxCourseSelections)

// CourseChoice is a course picked in the application form, not yet submitted
type CourseChoice struct {
	InstitutionID string
	CourseID      string
}

// Student is the dashboard of a student account
type Student struct {
	base

	User          *model.User
	Profile       *model.StudentProfile
	Institutions  []model.Institution
	Courses       []model.Course
	Admissions    []model.Admission
	Jobs          []model.JobPosting
	Applications  []model.Application
	Notifications []model.Notification
	Directory     *Directory

	selections []CourseChoice
}

func NewStudent(sess *session.Session, s store.Store, confirm Confirmer) *Student {
	return &Student{base: newBase(model.RoleStudent, sess, s, confirm)}
}

func (d *Student) Load(ctx context.Context) error {
	p, err := d.principal()
	if err != nil {
		return err
	}

	var (
		user          *model.User
		profile       *model.StudentProfile
		institutions  []model.Institution
		courses       []model.Course
		admissions    []model.Admission
		jobs          []model.JobPosting
		applications  []model.Application
		notifications []model.Notification
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { user, err = d.repos.Users.FindByUID(gctx, p.UID); return })
	g.Go(func() (err error) { profile, err = d.repos.Profiles.FindByStudent(gctx, p.UID); return })
	g.Go(func() (err error) { institutions, err = d.repos.Institutions.List(gctx); return })
	g.Go(func() (err error) { courses, err = d.repos.Courses.List(gctx, ""); return })
	g.Go(func() (err error) { admissions, err = d.repos.Admissions.List(gctx, ""); return })
	g.Go(func() (err error) { jobs, err = d.repos.Jobs.ListActive(gctx); return })
	g.Go(func() (err error) { applications, err = d.repos.Applications.ListByStudent(gctx, p.UID); return })
	g.Go(func() (err error) { notifications, err = d.repos.Notifications.ListByStudent(gctx, p.UID); return })
	if err := g.Wait(); err != nil {
		return fmt.Errorf("loading student dashboard: %w", err)
	}

	d.User = user
	d.Profile, d.Institutions, d.Courses, d.Admissions = profile, institutions, courses, admissions
	d.Jobs, d.Applications, d.Notifications = jobs, applications, notifications
	d.Directory = NewDirectory(institutions, nil, courses, jobs)
	return nil
}

// SelectCourse adds a course to the pending choices. Selecting the same
// course twice is a no-op.
func (d *Student) SelectCourse(institutionID, courseID string) error {
	if _, err := d.principal(); err != nil {
		return err
	}
	choice := CourseChoice{InstitutionID: institutionID, CourseID: courseID}
	for _, c := range d.selections {
		if c == choice {
			return nil
		}
	}
	if len(d.selections) >= MaxCourseSelections {
		return ErrTooManySelections
	}
	d.selections = append(d.selections, choice)
	return nil
}

func (d *Student) DeselectCourse(institutionID, courseID string) {
	choice := CourseChoice{InstitutionID: institutionID, CourseID: courseID}
	out := d.selections[:0]
	for _, c := range d.selections {
		if c != choice {
			out = append(out, c)
		}
	}
	d.selections = out
}

func (d *Student) Selections() []CourseChoice {
	return append([]CourseChoice(nil), d.selections...)
}

// SubmitSelections applies to every selected course in order. Submitted
// and duplicate choices are cleared; the rest stay selected. The first
// error is returned.
func (d *Student) SubmitSelections(ctx context.Context) error {
	p, err := d.principal()
	if err != nil {
		return err
	}

	var firstErr error
	var remaining []CourseChoice
	for _, c := range d.selections {
		app := &model.Application{
			StudentID:       p.UID,
			StudentEmail:    p.Email,
			StudentName:     d.studentName(),
			Type:            model.AppTypeAdmission,
			InstitutionID:   c.InstitutionID,
			InstitutionName: d.directory().institutions[c.InstitutionID],
			CourseID:        c.CourseID,
			CourseName:      d.directory().courses[c.CourseID],
		}
		created, err := d.repos.Applications.Create(ctx, app)
		if err != nil {
			if !errors.Is(err, repository.ErrDuplicateApplication) {
				remaining = append(remaining, c)
			}
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		d.Applications = append(d.Applications, *created)
	}
	d.selections = remaining
	return firstErr
}

// ApplyJob applies to a posting. A second application to the same job
// fails with the duplicate error.
func (d *Student) ApplyJob(ctx context.Context, jobID string) (*model.Application, error) {
	p, err := d.principal()
	if err != nil {
		return nil, err
	}
	app := &model.Application{
		StudentID:    p.UID,
		StudentEmail: p.Email,
		StudentName:  d.studentName(),
		Type:         model.AppTypeJob,
		JobID:        jobID,
	}
	for _, j := range d.Jobs {
		if j.ID == jobID {
			app.JobTitle, app.Company = j.Title, j.Company
		}
	}
	created, err := d.repos.Applications.Create(ctx, app)
	if err != nil {
		return nil, err
	}
	d.Applications = append(d.Applications, *created)
	return created, nil
}

// Withdraw marks one of the student's applications withdrawn, which frees
// the target for a new application
func (d *Student) Withdraw(ctx context.Context, id string) error {
	if _, err := d.principal(); err != nil {
		return err
	}
	idx := -1
	for i := range d.Applications {
		if d.Applications[i].ID == id {
			idx = i
		}
	}
	if idx < 0 {
		return fmt.Errorf("application %s: %w", id, store.ErrNotFound)
	}
	if err := d.confirmed(ctx, "Withdraw application?"); err != nil {
		return err
	}
	if err := d.repos.Applications.UpdateStatus(ctx, id, model.AppStatusWithdrawn, ""); err != nil {
		return err
	}
	d.Applications[idx].Status = model.AppStatusWithdrawn
	return nil
}

func (d *Student) MarkNotificationRead(ctx context.Context, id string) error {
	if _, err := d.principal(); err != nil {
		return err
	}
	n, err := findByID(d.Notifications, "notification", id, func(n model.Notification) string { return n.ID })
	if err != nil {
		return err
	}
	if err := d.repos.Notifications.MarkRead(ctx, id); err != nil {
		return err
	}
	n.Read = true
	return nil
}

// ApplicationsView returns the student's applications with current names
func (d *Student) ApplicationsView() []model.Application {
	out := make([]model.Application, 0, len(d.Applications))
	for _, a := range d.Applications {
		out = append(out, d.directory().Resolve(a))
	}
	return out
}

// studentName is the display name snapshotted onto new applications
func (d *Student) studentName() string {
	if d.User == nil {
		return ""
	}
	return d.User.Name
}

func (d *Student) directory() *Directory {
	if d.Directory == nil {
		d.Directory = NewDirectory(nil, nil, nil, nil)
	}
	return d.Directory
}
