package model

// ── Student profile (qualification input) ──────────────

type WorkEntry struct {
	Title          string `json:"title"`
	Company        string `json:"company"`
	Description    string `json:"description"`
	DurationMonths int    `json:"durationMonths"`
}

type Internship struct {
	Company        string `json:"company"`
	Role           string `json:"role"`
	DurationMonths int    `json:"durationMonths,omitempty"`
}

// StudentProfile is stored in the studentProfiles collection with the
// student's uid as the document ID.
type StudentProfile struct {
	ID                         string       `json:"id"`
	GPA                        string       `json:"gpa,omitempty"`
	Skills                     []string     `json:"skills"`
	Certificates               []string     `json:"certificates"`
	ProfessionalCertifications []string     `json:"professionalCertifications"`
	WorkHistory                []WorkEntry  `json:"workHistory"`
	Internships                []Internship `json:"internships"`
	Achievements               []string     `json:"achievements"`
	InstitutionID              string       `json:"institutionId,omitempty"`
	InstitutionType            string       `json:"institutionType,omitempty"`
	CourseOfStudy              string       `json:"courseOfStudy,omitempty"`
}
