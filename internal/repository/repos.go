package repository

import "github.com/yourusername/careerhub-api/internal/store"

// Repos bundles every repository built over one store
type Repos struct {
	Users         *UserRepo
	Institutions  *InstitutionRepo
	Faculties     *FacultyRepo
	Courses       *CourseRepo
	Admissions    *AdmissionRepo
	Jobs          *JobRepo
	Applications  *ApplicationRepo
	Profiles      *ProfileRepo
	Notifications *NotificationRepo
	Documents     *DocumentRepo
	Bulk          *BulkImporter
}

func NewRepos(s store.Store) *Repos {
	return &Repos{
		Users:         NewUserRepo(s),
		Institutions:  NewInstitutionRepo(s),
		Faculties:     NewFacultyRepo(s),
		Courses:       NewCourseRepo(s),
		Admissions:    NewAdmissionRepo(s),
		Jobs:          NewJobRepo(s),
		Applications:  NewApplicationRepo(s),
		Profiles:      NewProfileRepo(s),
		Notifications: NewNotificationRepo(s),
		Documents:     NewDocumentRepo(s),
		Bulk:          NewBulkImporter(s),
	}
}
