package model

import (
	"time"
)

// Collection names in the document store
const (
	CollectionUsers           = "users"
	CollectionInstitutions    = "institutions"
	CollectionFaculties       = "faculties"
	CollectionCourses         = "courses"
	CollectionAdmissions      = "admissions"
	CollectionJobs            = "jobs"
	CollectionApplications    = "applications"
	CollectionCompanyDocs     = "companyDocuments"
	CollectionStudentProfiles = "studentProfiles"
	CollectionNotifications   = "notifications"
)

// Roles
const (
	RoleAdmin     = "admin"
	RoleInstitute = "institute"
	RoleStudent   = "student"
	RoleCompany   = "company"
)

func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleInstitute, RoleStudent, RoleCompany:
		return true
	}
	return false
}

// Entity statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Application statuses
const (
	AppStatusPending   = "pending"
	AppStatusAccepted  = "accepted"
	AppStatusRejected  = "rejected"
	AppStatusWithdrawn = "withdrawn"
)

func ValidApplicationStatus(s string) bool {
	switch s {
	case AppStatusPending, AppStatusAccepted, AppStatusRejected, AppStatusWithdrawn:
		return true
	}
	return false
}

// Application types
const (
	AppTypeAdmission = "admission"
	AppTypeJob       = "job"
)

// User is the account document. Company users carry their company profile
// on the same document.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Role          string    `json:"role,omitempty"`
	Status        string    `json:"status,omitempty"`
	InstitutionID string    `json:"institutionId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`

	// Company profile
	CompanyName string `json:"companyName,omitempty"`
	Industry    string `json:"industry,omitempty"`
	CompanySize string `json:"companySize,omitempty"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
	Verified    bool   `json:"verified,omitempty"`
}

type Institution struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Code         string    `json:"code,omitempty"`
	Type         string    `json:"type,omitempty"`
	Description  string    `json:"description,omitempty"`
	ContactEmail string    `json:"contactEmail,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	Website      string    `json:"website,omitempty"`
	Status       string    `json:"status"`
	CreatedBy    string    `json:"createdBy,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Faculty struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Code          string    `json:"code,omitempty"`
	Description   string    `json:"description,omitempty"`
	Status        string    `json:"status"`
	InstitutionID string    `json:"institutionId"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Course struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Code          string    `json:"code,omitempty"`
	Duration      string    `json:"duration,omitempty"`
	FacultyID     string    `json:"facultyId,omitempty"`
	Description   string    `json:"description,omitempty"`
	Credits       int       `json:"credits,omitempty"`
	InstitutionID string    `json:"institutionId"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Admission announces an application cycle of an institution
type Admission struct {
	ID             string     `json:"id"`
	Title          string     `json:"title,omitempty"`
	Description    string     `json:"description"`
	InstitutionID  string     `json:"institutionId"`
	Deadline       string     `json:"deadline"`
	Requirements   []string   `json:"requirements"`
	AvailableSeats int        `json:"availableSeats,omitempty"`
	Status         string     `json:"status"`
	Published      bool       `json:"published"`
	PublishedBy    string     `json:"publishedBy,omitempty"`
	PublishedAt    *time.Time `json:"publishedAt,omitempty"`
}

// JobPosting is a company's open position. RequiredSkills and
// RequiredCertificates are comma-separated lists.
type JobPosting struct {
	ID                   string    `json:"id"`
	Title                string    `json:"title"`
	Company              string    `json:"company,omitempty"`
	CompanyID            string    `json:"companyId"`
	Qualifications       string    `json:"qualifications,omitempty"`
	Experience           string    `json:"experience,omitempty"`
	Description          string    `json:"description,omitempty"`
	RequiredSkills       string    `json:"requiredSkills,omitempty"`
	MinGPA               string    `json:"minGPA,omitempty"`
	RequiredCertificates string    `json:"requiredCertificates,omitempty"`
	Location             string    `json:"location,omitempty"`
	Salary               string    `json:"salary,omitempty"`
	JobType              string    `json:"jobType,omitempty"`
	Deadline             string    `json:"deadline,omitempty"`
	Status               string    `json:"status"`
	PostedBy             string    `json:"postedBy,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
}

// Application is either a course (admission) or a job application,
// disambiguated by Type.
type Application struct {
	ID              string    `json:"id"`
	StudentID       string    `json:"studentId"`
	StudentName     string    `json:"studentName,omitempty"`
	StudentEmail    string    `json:"studentEmail,omitempty"`
	Type            string    `json:"type"`
	InstitutionID   string    `json:"institutionId,omitempty"`
	InstitutionName string    `json:"institutionName,omitempty"`
	CourseID        string    `json:"courseId,omitempty"`
	CourseName      string    `json:"courseName,omitempty"`
	JobID           string    `json:"jobId,omitempty"`
	JobTitle        string    `json:"jobTitle,omitempty"`
	Company         string    `json:"company,omitempty"`
	Status          string    `json:"status"`
	AppliedAt       time.Time `json:"appliedAt"`
	Review          string    `json:"review,omitempty"`
	Decision        string    `json:"decision,omitempty"`
}

// CompanyDocument is a verification document uploaded by a company
type CompanyDocument struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Size        int64     `json:"size"`
	URL         string    `json:"url"`
	StoragePath string    `json:"storagePath"`
	UploadedAt  time.Time `json:"uploadedAt"`
	CompanyID   string    `json:"companyId"`
	Status      string    `json:"status"`
	Pages       int       `json:"pages,omitempty"`
}

// Notification is an admin message addressed to a student
type Notification struct {
	ID        string    `json:"id"`
	StudentID string    `json:"studentId"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedBy string    `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
