package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValidationError reports a malformed document rejected before it reaches the store
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Reason: "is required"}
	}
	return nil
}

func oneOf(field, value string, allowed ...string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return &ValidationError{Field: field, Reason: fmt.Sprintf("must be one of %s", strings.Join(allowed, ", "))}
}

func (u *User) Validate() error {
	if u.Role != "" && !ValidRole(u.Role) {
		return &ValidationError{Field: "role", Reason: "unknown role " + u.Role}
	}
	return nil
}

func (i *Institution) Validate() error {
	if err := required("name", i.Name); err != nil {
		return err
	}
	return oneOf("status", i.Status, StatusActive, StatusInactive)
}

func (f *Faculty) Validate() error {
	if err := required("name", f.Name); err != nil {
		return err
	}
	return required("institutionId", f.InstitutionID)
}

func (c *Course) Validate() error {
	if err := required("name", c.Name); err != nil {
		return err
	}
	if c.Credits < 0 {
		return &ValidationError{Field: "credits", Reason: "must not be negative"}
	}
	return required("institutionId", c.InstitutionID)
}

func (a *Admission) Validate() error {
	if err := required("institutionId", a.InstitutionID); err != nil {
		return err
	}
	if err := required("deadline", a.Deadline); err != nil {
		return err
	}
	if a.AvailableSeats < 0 {
		return &ValidationError{Field: "availableSeats", Reason: "must not be negative"}
	}
	return nil
}

func (j *JobPosting) Validate() error {
	if err := required("title", j.Title); err != nil {
		return err
	}
	if err := required("companyId", j.CompanyID); err != nil {
		return err
	}
	if j.MinGPA != "" {
		if v, err := strconv.ParseFloat(j.MinGPA, 64); err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return &ValidationError{Field: "minGPA", Reason: "must be a number"}
		}
	}
	return oneOf("status", j.Status, StatusActive, StatusInactive)
}

func (a *Application) Validate() error {
	if err := required("studentId", a.StudentID); err != nil {
		return err
	}
	switch a.Type {
	case AppTypeAdmission:
		if err := required("institutionId", a.InstitutionID); err != nil {
			return err
		}
		if err := required("courseId", a.CourseID); err != nil {
			return err
		}
	case AppTypeJob:
		if err := required("jobId", a.JobID); err != nil {
			return err
		}
	default:
		return &ValidationError{Field: "type", Reason: "must be admission or job"}
	}
	if !ValidApplicationStatus(a.Status) {
		return &ValidationError{Field: "status", Reason: "unknown status " + a.Status}
	}
	return nil
}

func (d *CompanyDocument) Validate() error {
	if err := required("name", d.Name); err != nil {
		return err
	}
	if err := required("companyId", d.CompanyID); err != nil {
		return err
	}
	return required("storagePath", d.StoragePath)
}

func (p *StudentProfile) Validate() error {
	if p.GPA != "" {
		gpa, err := strconv.ParseFloat(p.GPA, 64)
		if err != nil || gpa < 0 || math.IsInf(gpa, 0) || math.IsNaN(gpa) {
			return &ValidationError{Field: "gpa", Reason: "must be a non-negative number"}
		}
	}
	for _, w := range p.WorkHistory {
		if w.DurationMonths < 0 {
			return &ValidationError{Field: "workHistory.durationMonths", Reason: "must not be negative"}
		}
	}
	return nil
}

func (n *Notification) Validate() error {
	if err := required("studentId", n.StudentID); err != nil {
		return err
	}
	return required("message", n.Message)
}

type validator interface {
	Validate() error
}

func newForCollection(collection string) (validator, bool) {
	switch collection {
	case CollectionUsers:
		return &User{}, true
	case CollectionInstitutions:
		return &Institution{}, true
	case CollectionFaculties:
		return &Faculty{}, true
	case CollectionCourses:
		return &Course{}, true
	case CollectionAdmissions:
		return &Admission{}, true
	case CollectionJobs:
		return &JobPosting{}, true
	case CollectionApplications:
		return &Application{}, true
	case CollectionCompanyDocs:
		return &CompanyDocument{}, true
	case CollectionStudentProfiles:
		return &StudentProfile{}, true
	case CollectionNotifications:
		return &Notification{}, true
	}
	return nil, false
}

// ValidateFields checks a raw field map against the typed schema of the
// named collection. Unknown collections and mistyped fields are rejected.
func ValidateFields(collection string, fields map[string]any) error {
	v, ok := newForCollection(collection)
	if !ok {
		return &ValidationError{Field: "collection", Reason: "unknown collection " + collection}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return &ValidationError{Field: "fields", Reason: err.Error()}
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &ValidationError{Field: "fields", Reason: err.Error()}
	}
	return v.Validate()
}
