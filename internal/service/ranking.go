package service

import (
	"sort"

	"github.com/yourusername/careerhub-api/internal/model"
)

// ScoredApplicant pairs a job application with its qualification score
type ScoredApplicant struct {
	Application model.Application  `json:"application"`
	Score       QualificationScore `json:"score"`
}

// RankApplicants scores every application against the job and orders them
// best first. Ties keep application order. Applicants with no profile score
// zero.
func RankApplicants(job *model.JobPosting, apps []model.Application, profiles map[string]*model.StudentProfile) []ScoredApplicant {
	ranked := make([]ScoredApplicant, 0, len(apps))
	for _, a := range apps {
		ranked = append(ranked, ScoredApplicant{
			Application: a,
			Score:       ScoreQualification(profiles[a.StudentID], job),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score.Total > ranked[j].Score.Total
	})
	return ranked
}
