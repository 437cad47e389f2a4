package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/yourusername/careerhub-api/internal/blob"
	"github.com/yourusername/careerhub-api/internal/model"
	"github.com/yourusername/careerhub-api/internal/service"
	"github.com/yourusername/careerhub-api/internal/session"
	"github.com/yourusername/careerhub-api/internal/store"
)

// Company is the dashboard of a company account. The company ID is the
// signed-in UID.
type Company struct {
	base
	docs *service.DocumentService

	Profile      *model.User
	Jobs         []model.JobPosting
	Applications []model.Application
	Documents    []model.CompanyDocument
	Profiles     map[string]*model.StudentProfile
}

func NewCompany(sess *session.Session, s store.Store, blobs blob.Store, confirm Confirmer) *Company {
	d := &Company{base: newBase(model.RoleCompany, sess, s, confirm)}
	d.docs = service.NewDocumentService(blobs, d.repos.Documents)
	return d
}

// Load fetches the company's jobs, documents and the student profiles, then
// the applications of every job in parallel
func (d *Company) Load(ctx context.Context) error {
	p, err := d.principal()
	if err != nil {
		return err
	}

	var (
		profile  *model.User
		jobs     []model.JobPosting
		docs     []model.CompanyDocument
		profiles map[string]*model.StudentProfile
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { profile, err = d.repos.Users.FindByUID(gctx, p.UID); return })
	g.Go(func() (err error) { jobs, err = d.repos.Jobs.List(gctx, p.UID); return })
	g.Go(func() (err error) { docs, err = d.repos.Documents.ListByCompany(gctx, p.UID); return })
	g.Go(func() (err error) { profiles, err = d.repos.Profiles.List(gctx); return })
	if err := g.Wait(); err != nil {
		return fmt.Errorf("loading company dashboard: %w", err)
	}

	perJob := make([][]model.Application, len(jobs))
	g, gctx = errgroup.WithContext(ctx)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() (err error) { perJob[i], err = d.repos.Applications.ListByJob(gctx, job.ID); return })
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("loading company applications: %w", err)
	}

	var apps []model.Application
	for _, as := range perJob {
		apps = append(apps, as...)
	}

	d.Profile, d.Jobs, d.Documents, d.Profiles = profile, jobs, docs, profiles
	d.Applications = apps
	return nil
}

func (d *Company) PostJob(ctx context.Context, job model.JobPosting) (*model.JobPosting, error) {
	p, err := d.principal()
	if err != nil {
		return nil, err
	}
	job.CompanyID = p.UID
	job.PostedBy = p.UID
	if d.Profile != nil && d.Profile.CompanyName != "" {
		job.Company = d.Profile.CompanyName
	}
	created, err := d.repos.Jobs.Create(ctx, &job)
	if err != nil {
		return nil, err
	}
	d.Jobs = append(d.Jobs, *created)
	return created, nil
}

// ownJob finds a loaded job of this company
func (d *Company) ownJob(id string) (*model.JobPosting, error) {
	for i := range d.Jobs {
		if d.Jobs[i].ID == id {
			return &d.Jobs[i], nil
		}
	}
	return nil, fmt.Errorf("job %s: %w", id, store.ErrNotFound)
}

func (d *Company) UpdateJob(ctx context.Context, id string, patch map[string]any) error {
	if _, err := d.principal(); err != nil {
		return err
	}
	job, err := d.ownJob(id)
	if err != nil {
		return err
	}
	if err := d.repos.Jobs.Update(ctx, id, patch); err != nil {
		return err
	}
	return applyPatch(job, patch)
}

// DeleteJob removes the posting. Its applications remain.
func (d *Company) DeleteJob(ctx context.Context, id string) error {
	if _, err := d.principal(); err != nil {
		return err
	}
	job, err := d.ownJob(id)
	if err != nil {
		return err
	}
	if err := d.confirmed(ctx, "Delete job "+job.Title+"?"); err != nil {
		return err
	}
	if err := d.repos.Jobs.Delete(ctx, id); err != nil {
		return err
	}
	d.Jobs = removeByID(d.Jobs, id, func(j model.JobPosting) string { return j.ID })
	return nil
}

// ScoreApplicants ranks the loaded applications of one job, best first
func (d *Company) ScoreApplicants(jobID string) ([]service.ScoredApplicant, error) {
	if _, err := d.principal(); err != nil {
		return nil, err
	}
	job, err := d.ownJob(jobID)
	if err != nil {
		return nil, err
	}
	var apps []model.Application
	for _, a := range d.Applications {
		if a.JobID == jobID {
			apps = append(apps, a)
		}
	}
	return service.RankApplicants(job, apps, d.Profiles), nil
}

func (d *Company) ReviewApplication(ctx context.Context, id, status, review string) error {
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
	if err := d.repos.Applications.UpdateStatus(ctx, id, status, review); err != nil {
		return err
	}
	a := &d.Applications[idx]
	a.Status = status
	if review != "" {
		a.Review = review
	}
	if status == model.AppStatusAccepted || status == model.AppStatusRejected {
		a.Decision = status
	}
	return nil
}

// UploadDocuments stores every file it can. Stored documents are added to
// local state even when another file failed; the first failure is returned.
func (d *Company) UploadDocuments(ctx context.Context, files []service.Upload) error {
	p, err := d.principal()
	if err != nil {
		return err
	}
	stored, err := d.docs.UploadAll(ctx, p.UID, files)
	d.Documents = append(d.Documents, stored...)
	return err
}

func (d *Company) DeleteDocument(ctx context.Context, id string) error {
	p, err := d.principal()
	if err != nil {
		return err
	}
	if err := d.confirmed(ctx, "Delete document "+id+"?"); err != nil {
		return err
	}
	if err := d.docs.Delete(ctx, p.UID, id); err != nil {
		return err
	}
	d.Documents = removeByID(d.Documents, id, func(doc model.CompanyDocument) string { return doc.ID })
	return nil
}
