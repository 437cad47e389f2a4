package service

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/yourusername/careerhub-api/internal/model"
)

// QualifiedThreshold is the minimum total for an applicant to be marked
// interview-ready
const QualifiedThreshold = 70

// Category caps
const (
	maxAcademic    = 30
	maxCertificate = 25
	maxExperience  = 25
	maxRelevance   = 20
)

// QualificationScore is the breakdown for one student against one job
type QualificationScore struct {
	AcademicScore    int  `json:"academicScore"`
	CertificateScore int  `json:"certificateScore"`
	ExperienceScore  int  `json:"experienceScore"`
	RelevanceScore   int  `json:"relevanceScore"`
	Total            int  `json:"total"`
	Qualified        bool `json:"qualified"`
}

// ScoreQualification rates a student profile against a job posting.
// A nil profile scores zero on every axis.
func ScoreQualification(p *model.StudentProfile, job *model.JobPosting) QualificationScore {
	if p == nil || job == nil {
		return QualificationScore{}
	}

	skills := splitTokens(job.RequiredSkills)
	certs := splitTokens(job.RequiredCertificates)

	s := QualificationScore{
		AcademicScore:    academicScore(p, job),
		CertificateScore: certificateScore(p, certs),
		ExperienceScore:  experienceScore(p, skills),
		RelevanceScore:   relevanceScore(p, job, skills),
	}

	total := s.AcademicScore + s.CertificateScore + s.ExperienceScore + s.RelevanceScore
	s.Total = clamp(total, 0, 100)
	s.Qualified = s.Total >= QualifiedThreshold
	return s
}

// ── Academic ─────────────────────────────────────────

func academicScore(p *model.StudentProfile, job *model.JobPosting) int {
	score := 0
	gpa, hasGPA := parseGPA(p.GPA)
	if hasGPA {
		score += gpaBand(gpa)
		if minGPA, ok := parseGPA(job.MinGPA); ok && gpa < minGPA {
			score -= 10
		}
	}

	score += min(len(p.Achievements), 5)

	switch strings.ToLower(strings.TrimSpace(p.InstitutionType)) {
	case "university":
		score += 3
	case "college":
		score += 2
	}

	return min(score, maxAcademic)
}

func gpaBand(gpa float64) int {
	switch {
	case gpa >= 3.8:
		return 25
	case gpa >= 3.5:
		return 20
	case gpa >= 3.0:
		return 15
	case gpa >= 2.5:
		return 10
	case gpa >= 2.0:
		return 5
	}
	return 0
}

// ── Certificates ─────────────────────────────────────

func certificateScore(p *model.StudentProfile, required []string) int {
	matched := 0
	for _, c := range p.Certificates {
		if matchesAny(c, required) {
			matched += 5
		}
	}
	professional := 2 * len(p.ProfessionalCertifications)

	return min(min(matched, 15)+min(professional, 10), maxCertificate)
}

// ── Experience ───────────────────────────────────────

func experienceScore(p *model.StudentProfile, skills []string) int {
	months := 0
	for _, w := range p.WorkHistory {
		desc := strings.ToLower(w.Description)
		for _, s := range skills {
			if containsTerm(desc, s) {
				months += w.DurationMonths
				break
			}
		}
	}

	score := experienceBand(months) + min(len(p.Internships), 5)
	return min(score, maxExperience)
}

func experienceBand(months int) int {
	switch {
	case months >= 24:
		return 20
	case months >= 12:
		return 15
	case months >= 6:
		return 10
	case months >= 3:
		return 5
	}
	return 0
}

// ── Relevance ────────────────────────────────────────

func relevanceScore(p *model.StudentProfile, job *model.JobPosting, skills []string) int {
	matched := 0
	for _, s := range p.Skills {
		if matchesAny(s, skills) {
			matched += 2
		}
	}
	score := min(matched, 12)

	course := looseNormalize(p.CourseOfStudy)
	quals := looseNormalize(job.Qualifications)
	if course != "" && quals != "" && (strings.Contains(course, quals) || strings.Contains(quals, course)) {
		score += 8
	}

	return min(score, maxRelevance)
}

// ── Helpers ──────────────────────────────────────────

// splitTokens splits a comma-separated list into lowercase, trimmed,
// non-empty tokens
func splitTokens(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		if t := strings.ToLower(strings.TrimSpace(part)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// matchesAny reports a case-insensitive substring match in either direction
func matchesAny(value string, tokens []string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return false
	}
	for _, t := range tokens {
		if containsTerm(v, t) || containsTerm(t, v) {
			return true
		}
	}
	return false
}

// shortTerm is the length under which a term must match a whole word, so
// "go" or "c" does not match inside "mongodb" or "react"
const shortTerm = 3

func containsTerm(haystack, term string) bool {
	if len(term) >= shortTerm {
		return strings.Contains(haystack, term)
	}
	words := strings.FieldsFunc(haystack, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})
	return slices.Contains(words, term)
}

// looseNormalize lowercases and drops everything but letters and digits
func looseNormalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func parseGPA(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
