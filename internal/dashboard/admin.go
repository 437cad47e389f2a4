package dashboard

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/careerhub-api/internal/model"
	"github.com/yourusername/careerhub-api/internal/session"
	"github.com/yourusername/careerhub-api/internal/store"
)

// Admin is the administrator dashboard over every collection
type Admin struct {
	base

	Users        []model.User
	Institutions []model.Institution
	Faculties    []model.Faculty
	Courses      []model.Course
	Admissions   []model.Admission
	Jobs         []model.JobPosting
	Applications []model.Application
	Directory    *Directory
}

func NewAdmin(sess *session.Session, s store.Store, confirm Confirmer) *Admin {
	return &Admin{base: newBase(model.RoleAdmin, sess, s, confirm)}
}

// Load fetches every collection in parallel. A single failing list fails
// the whole load and leaves the previous state untouched.
func (d *Admin) Load(ctx context.Context) error {
	if _, err := d.principal(); err != nil {
		return err
	}

	var (
		users        []model.User
		institutions []model.Institution
		faculties    []model.Faculty
		courses      []model.Course
		admissions   []model.Admission
		jobs         []model.JobPosting
		applications []model.Application
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { users, err = d.repos.Users.List(gctx, ""); return })
	g.Go(func() (err error) { institutions, err = d.repos.Institutions.List(gctx); return })
	g.Go(func() (err error) { faculties, err = d.repos.Faculties.List(gctx, ""); return })
	g.Go(func() (err error) { courses, err = d.repos.Courses.List(gctx, ""); return })
	g.Go(func() (err error) { admissions, err = d.repos.Admissions.List(gctx, ""); return })
	g.Go(func() (err error) { jobs, err = d.repos.Jobs.List(gctx, ""); return })
	g.Go(func() (err error) { applications, err = d.repos.Applications.List(gctx); return })
	if err := g.Wait(); err != nil {
		return fmt.Errorf("loading admin dashboard: %w", err)
	}

	d.Users, d.Institutions, d.Faculties, d.Courses = users, institutions, faculties, courses
	d.Admissions, d.Jobs, d.Applications = admissions, jobs, applications
	d.Directory = NewDirectory(institutions, faculties, courses, jobs)
	return nil
}

// AssignRole changes a user's role. Any role may follow any other.
func (d *Admin) AssignRole(ctx context.Context, uid, role string) error {
	p, err := d.principal()
	if err != nil {
		return err
	}
	if err := d.repos.Users.SetRole(ctx, uid, role); err != nil {
		return err
	}
	log.Info().Str("admin", p.UID).Str("uid", uid).Str("role", role).Msg("Role assigned")

	for i := range d.Users {
		if d.Users[i].ID == uid {
			d.Users[i].Role = role
			return nil
		}
	}
	d.Users = append(d.Users, model.User{ID: uid, Role: role, Status: model.StatusActive})
	return nil
}

func (d *Admin) AddInstitution(ctx context.Context, inst model.Institution) (*model.Institution, error) {
	p, err := d.principal()
	if err != nil {
		return nil, err
	}
	inst.CreatedBy = p.UID
	created, err := d.repos.Institutions.Create(ctx, &inst)
	if err != nil {
		return nil, err
	}
	d.Institutions = append(d.Institutions, *created)
	d.directory().SetInstitution(created.ID, created.Name)
	return created, nil
}

func (d *Admin) UpdateInstitution(ctx context.Context, id string, patch map[string]any) error {
	if _, err := d.principal(); err != nil {
		return err
	}
	if err := d.repos.Institutions.Update(ctx, id, patch); err != nil {
		return err
	}
	for i := range d.Institutions {
		if d.Institutions[i].ID == id {
			if err := applyPatch(&d.Institutions[i], patch); err != nil {
				return err
			}
			d.directory().SetInstitution(id, d.Institutions[i].Name)
		}
	}
	return nil
}

// DeleteInstitution removes the institution only. Its faculties, courses
// and admissions are left in place.
func (d *Admin) DeleteInstitution(ctx context.Context, id string) error {
	if _, err := d.principal(); err != nil {
		return err
	}
	if err := d.confirmed(ctx, "Delete institution "+id+"?"); err != nil {
		return err
	}
	if err := d.repos.Institutions.Delete(ctx, id); err != nil {
		return err
	}
	d.Institutions = removeByID(d.Institutions, id, func(i model.Institution) string { return i.ID })
	return nil
}

func (d *Admin) AddFaculty(ctx context.Context, f model.Faculty) (*model.Faculty, error) {
	if _, err := d.principal(); err != nil {
		return nil, err
	}
	created, err := d.repos.Faculties.Create(ctx, &f)
	if err != nil {
		return nil, err
	}
	d.Faculties = append(d.Faculties, *created)
	d.directory().SetFaculty(created.ID, created.Name)
	return created, nil
}

func (d *Admin) AddCourse(ctx context.Context, c model.Course) (*model.Course, error) {
	if _, err := d.principal(); err != nil {
		return nil, err
	}
	created, err := d.repos.Courses.Create(ctx, &c)
	if err != nil {
		return nil, err
	}
	d.Courses = append(d.Courses, *created)
	d.directory().SetCourse(created.ID, created.Name)
	return created, nil
}

func (d *Admin) PublishAdmission(ctx context.Context, a model.Admission) (*model.Admission, error) {
	p, err := d.principal()
	if err != nil {
		return nil, err
	}
	created, err := d.repos.Admissions.Publish(ctx, &a, p.UID)
	if err != nil {
		return nil, err
	}
	d.Admissions = append(d.Admissions, *created)
	return created, nil
}

// DeleteUser removes the user document. The identity account is untouched.
func (d *Admin) DeleteUser(ctx context.Context, uid string) error {
	if _, err := d.principal(); err != nil {
		return err
	}
	if err := d.confirmed(ctx, "Delete user "+uid+"?"); err != nil {
		return err
	}
	if err := d.repos.Users.Delete(ctx, uid); err != nil {
		return err
	}
	d.Users = removeByID(d.Users, uid, func(u model.User) string { return u.ID })
	return nil
}

// AdminStats summarizes the loaded state
type AdminStats struct {
	Users               int
	Students            int
	Companies           int
	Institutes          int
	Institutions        int
	Courses             int
	Jobs                int
	Applications        int
	PendingApplications int
}

func (d *Admin) Stats() AdminStats {
	s := AdminStats{
		Users:        len(d.Users),
		Institutions: len(d.Institutions),
		Courses:      len(d.Courses),
		Jobs:         len(d.Jobs),
		Applications: len(d.Applications),
	}
	for _, u := range d.Users {
		switch u.Role {
		case model.RoleStudent:
			s.Students++
		case model.RoleCompany:
			s.Companies++
		case model.RoleInstitute:
			s.Institutes++
		}
	}
	for _, a := range d.Applications {
		if a.Status == model.AppStatusPending {
			s.PendingApplications++
		}
	}
	return s
}

func (d *Admin) directory() *Directory {
	if d.Directory == nil {
		d.Directory = NewDirectory(nil, nil, nil, nil)
	}
	return d.Directory
}
