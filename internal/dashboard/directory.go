package dashboard

import "github.com/yourusername/careerhub-api/internal/model"

// Directory resolves display names from IDs at read time. Children only
// store parent IDs, so renaming a parent is visible everywhere at once.
type Directory struct {
	institutions map[string]string
	faculties    map[string]string
	courses      map[string]string
	jobs         map[string]string
}

func NewDirectory(insts []model.Institution, faculties []model.Faculty, courses []model.Course, jobs []model.JobPosting) *Directory {
	d := &Directory{
		institutions: make(map[string]string, len(insts)),
		faculties:    make(map[string]string, len(faculties)),
		courses:      make(map[string]string, len(courses)),
		jobs:         make(map[string]string, len(jobs)),
	}
	for _, i := range insts {
		d.institutions[i.ID] = i.Name
	}
	for _, f := range faculties {
		d.faculties[f.ID] = f.Name
	}
	for _, c := range courses {
		d.courses[c.ID] = c.Name
	}
	for _, j := range jobs {
		d.jobs[j.ID] = j.Title
	}
	return d
}

func (d *Directory) SetInstitution(id, name string) { d.institutions[id] = name }
func (d *Directory) SetFaculty(id, name string)     { d.faculties[id] = name }
func (d *Directory) SetCourse(id, name string)      { d.courses[id] = name }
func (d *Directory) SetJob(id, title string)        { d.jobs[id] = title }

// InstitutionName falls back to fallback (usually the snapshot stored on
// the referencing document) when the ID is unknown
func (d *Directory) InstitutionName(id, fallback string) string {
	return lookup(d.institutions, id, fallback)
}

func (d *Directory) FacultyName(id, fallback string) string {
	return lookup(d.faculties, id, fallback)
}

func (d *Directory) CourseName(id, fallback string) string {
	return lookup(d.courses, id, fallback)
}

func (d *Directory) JobTitle(id, fallback string) string {
	return lookup(d.jobs, id, fallback)
}

// Resolve returns a copy of the application with current display names
func (d *Directory) Resolve(a model.Application) model.Application {
	if a.InstitutionID != "" {
		a.InstitutionName = d.InstitutionName(a.InstitutionID, a.InstitutionName)
	}
	if a.CourseID != "" {
		a.CourseName = d.CourseName(a.CourseID, a.CourseName)
	}
	if a.JobID != "" {
		a.JobTitle = d.JobTitle(a.JobID, a.JobTitle)
	}
	return a
}

func lookup(m map[string]string, id, fallback string) string {
	if name, ok := m[id]; ok && name != "" {
		return name
	}
	if fallback != "" {
		return fallback
	}
	return id
}
