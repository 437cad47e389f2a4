package service

import (
	"testing"

	"github.com/yourusername/careerhub-api/internal/model"
)

func TestScoreQualificationExample(t *testing.T) {
	student := &model.StudentProfile{
		GPA:          "3.8",
		Skills:       []string{"JavaScript", "React"},
		Certificates: []string{"AWS Certified Developer"},
	}
	job := &model.JobPosting{
		MinGPA:               "3.0",
		RequiredSkills:       "JavaScript,Node.js",
		RequiredCertificates: "AWS Certified",
	}

	got := ScoreQualification(student, job)
	want := QualificationScore{
		AcademicScore:    25,
		CertificateScore: 5,
		ExperienceScore:  0,
		RelevanceScore:   2,
		Total:            32,
		Qualified:        false,
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestScoreQualificationEmptyJobRequirements(t *testing.T) {
	student := &model.StudentProfile{
		Skills:       []string{"Go", "SQL"},
		Certificates: []string{"CKA"},
		WorkHistory:  []model.WorkEntry{{Description: "Built Go services", DurationMonths: 30}},
	}
	got := ScoreQualification(student, &model.JobPosting{})

	if got.CertificateScore != 0 {
		t.Fatalf("expected no certificate matches, got %d", got.CertificateScore)
	}
	if got.RelevanceScore != 0 {
		t.Fatalf("expected no relevance without required skills, got %d", got.RelevanceScore)
	}
	if got.ExperienceScore != 0 {
		t.Fatalf("expected no skill-matched experience, got %d", got.ExperienceScore)
	}
}

func TestScoreQualificationFlatBonusesWithoutJobMatching(t *testing.T) {
	student := &model.StudentProfile{
		ProfessionalCertifications: []string{"PMP", "ITIL"},
		Internships:                []model.Internship{{Company: "A"}, {Company: "B"}},
	}
	got := ScoreQualification(student, &model.JobPosting{})
	if got.CertificateScore != 4 || got.ExperienceScore != 2 {
		t.Fatalf("expected flat bonuses 4 and 2, got %+v", got)
	}
}

func TestScoreQualificationMaximum(t *testing.T) {
	student := &model.StudentProfile{
		GPA:                        "4.0",
		Skills:                     []string{"go", "sql", "docker", "kubernetes", "aws", "linux", "python"},
		Certificates:               []string{"CKA", "AWS SAA", "Terraform Associate", "GCP ACE"},
		ProfessionalCertifications: []string{"a", "b", "c", "d", "e", "f"},
		WorkHistory: []model.WorkEntry{
			{Description: "Go and Docker in production", DurationMonths: 30},
		},
		Internships:     []model.Internship{{}, {}, {}, {}, {}, {}},
		Achievements:    []string{"1", "2", "3", "4", "5", "6"},
		InstitutionType: "University",
		CourseOfStudy:   "Computer Science",
	}
	job := &model.JobPosting{
		MinGPA:               "3.0",
		RequiredSkills:       "go, sql, docker, kubernetes, aws, linux, python",
		RequiredCertificates: "cka, aws, terraform, gcp",
		Qualifications:       "BSc Computer Science",
	}

	got := ScoreQualification(student, job)
	want := QualificationScore{
		AcademicScore:    30,
		CertificateScore: 25,
		ExperienceScore:  25,
		RelevanceScore:   20,
		Total:            100,
		Qualified:        true,
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestScoreQualificationMinGPAPenaltyClampsTotal(t *testing.T) {
	student := &model.StudentProfile{GPA: "1.5"}
	job := &model.JobPosting{MinGPA: "3.0"}

	got := ScoreQualification(student, job)
	if got.AcademicScore != -10 {
		t.Fatalf("expected academic -10, got %d", got.AcademicScore)
	}
	if got.Total != 0 || got.Qualified {
		t.Fatalf("expected total clamped to 0, got %+v", got)
	}
}

func TestScoreQualificationBands(t *testing.T) {
	gpas := map[string]int{"1.9": 0, "2.0": 5, "2.7": 10, "3.0": 15, "3.5": 20, "3.79": 20, "3.8": 25}
	for gpa, want := range gpas {
		got := ScoreQualification(&model.StudentProfile{GPA: gpa}, &model.JobPosting{})
		if got.AcademicScore != want {
			t.Errorf("gpa %s: expected %d, got %d", gpa, want, got.AcademicScore)
		}
	}

	months := map[int]int{2: 0, 3: 5, 6: 10, 12: 15, 24: 20}
	for m, want := range months {
		p := &model.StudentProfile{WorkHistory: []model.WorkEntry{{Description: "react work", DurationMonths: m}}}
		got := ScoreQualification(p, &model.JobPosting{RequiredSkills: "React"})
		if got.ExperienceScore != want {
			t.Errorf("%d months: expected %d, got %d", m, want, got.ExperienceScore)
		}
	}
}

func TestScoreQualificationExperienceNeedsSkillInDescription(t *testing.T) {
	p := &model.StudentProfile{WorkHistory: []model.WorkEntry{
		{Description: "Cashier", DurationMonths: 36},
		{Description: "Wrote Python scripts", DurationMonths: 7},
	}}
	got := ScoreQualification(p, &model.JobPosting{RequiredSkills: "python"})
	if got.ExperienceScore != 10 {
		t.Fatalf("expected only matching entries counted, got %d", got.ExperienceScore)
	}
}

func TestScoreQualificationCourseOverlap(t *testing.T) {
	p := &model.StudentProfile{CourseOfStudy: "Information Technology"}
	job := &model.JobPosting{Qualifications: "Degree in information-technology or related"}
	if got := ScoreQualification(p, job); got.RelevanceScore != 8 {
		t.Fatalf("expected course overlap bonus, got %d", got.RelevanceScore)
	}
}

func TestScoreQualificationNilStudent(t *testing.T) {
	got := ScoreQualification(nil, &model.JobPosting{RequiredSkills: "Go"})
	if got != (QualificationScore{}) {
		t.Fatalf("expected zero score, got %+v", got)
	}
}

func TestScoreQualificationDeterministic(t *testing.T) {
	p := &model.StudentProfile{GPA: "3.2", Skills: []string{"Go"}, Achievements: []string{"Dean's list"}}
	job := &model.JobPosting{RequiredSkills: "go,rust"}
	a := ScoreQualification(p, job)
	b := ScoreQualification(p, job)
	if a != b {
		t.Fatalf("expected identical results, got %+v and %+v", a, b)
	}
}

func TestScoreQualificationShortSkillsMatchWholeWords(t *testing.T) {
	cases := []struct {
		skill string
		want  int
	}{
		{"Go", 0},
		{"C", 0},
		{"R", 0},
		{"React", 2},
	}
	job := &model.JobPosting{RequiredSkills: "MongoDB, JavaScript, React"}
	for _, tc := range cases {
		got := ScoreQualification(&model.StudentProfile{Skills: []string{tc.skill}}, job)
		if got.RelevanceScore != tc.want {
			t.Errorf("skill %q: expected relevance %d, got %d", tc.skill, tc.want, got.RelevanceScore)
		}
	}

	p := &model.StudentProfile{WorkHistory: []model.WorkEntry{
		{Description: "Wrote Go services", DurationMonths: 12},
		{Description: "MongoDB administration", DurationMonths: 24},
	}}
	if got := ScoreQualification(p, &model.JobPosting{RequiredSkills: "go"}); got.ExperienceScore != 15 {
		t.Fatalf("expected only the word match counted, got %d", got.ExperienceScore)
	}
}

func TestScoreQualificationIgnoresNonFiniteGPA(t *testing.T) {
	for _, gpa := range []string{"inf", "+Inf", "NaN"} {
		got := ScoreQualification(&model.StudentProfile{GPA: gpa}, &model.JobPosting{MinGPA: "3.0"})
		if got.AcademicScore > 0 {
			t.Errorf("gpa %q: expected no academic credit, got %d", gpa, got.AcademicScore)
		}
	}
}
