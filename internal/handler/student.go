package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/careerhub-api/internal/middleware"
	"github.com/yourusername/careerhub-api/internal/model"
	"github.com/yourusername/careerhub-api/internal/repository"
)

type StudentHandler struct {
	repos *repository.Repos
}

func NewStudentHandler(repos *repository.Repos) *StudentHandler {
	return &StudentHandler{repos: repos}
}

// applicant fills the student fields of a new application
func (h *StudentHandler) applicant(c *gin.Context, a *model.Application) error {
	p := middleware.GetPrincipal(c)
	a.StudentID = p.UID
	a.StudentEmail = p.Email

	user, err := h.repos.Users.FindByUID(c.Request.Context(), p.UID)
	if err != nil {
		return err
	}
	if user != nil {
		a.StudentName = user.Name
	}
	return nil
}

// ApplyCourse handles POST /api/students/apply
func (h *StudentHandler) ApplyCourse(c *gin.Context) {
	var req struct {
		InstitutionID string `json:"institutionId" binding:"required"`
		CourseID      string `json:"courseId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "institutionId and courseId are required")
		return
	}
	ctx := c.Request.Context()

	app := &model.Application{
		Type:          model.AppTypeAdmission,
		InstitutionID: req.InstitutionID,
		CourseID:      req.CourseID,
	}
	if err := h.applicant(c, app); err != nil {
		respondError(c, err)
		return
	}

	// Display names are a snapshot; the IDs are authoritative
	inst, err := h.repos.Institutions.FindByID(ctx, req.InstitutionID)
	if err != nil {
		log.Warn().Err(err).Str("institutionId", req.InstitutionID).Msg("Failed to resolve institution name")
	} else if inst != nil {
		app.InstitutionName = inst.Name
	}
	course, err := h.repos.Courses.FindByID(ctx, req.CourseID)
	if err != nil {
		log.Warn().Err(err).Str("courseId", req.CourseID).Msg("Failed to resolve course name")
	} else if course != nil {
		app.CourseName = course.Name
	}

	created, err := h.repos.Applications.Create(ctx, app)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": created.ID, "message": "Application submitted"})
}

// ListApplications handles GET /api/students/applications
func (h *StudentHandler) ListApplications(c *gin.Context) {
	apps, err := h.repos.Applications.ListByStudent(c.Request.Context(), middleware.GetPrincipal(c).UID)
	if err != nil {
		respondError(c, err)
		return
	}
	if apps == nil {
		apps = []model.Application{}
	}
	c.JSON(http.StatusOK, apps)
}

// ApplyJob handles POST /api/apply-job
func (h *StudentHandler) ApplyJob(c *gin.Context) {
	var req struct {
		JobID string `json:"jobId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "jobId is required")
		return
	}
	ctx := c.Request.Context()

	job, err := h.repos.Jobs.FindByID(ctx, req.JobID)
	if err != nil {
		respondError(c, err)
		return
	}
	if job == nil {
		notFound(c, "Job not found")
		return
	}

	app := &model.Application{
		Type:     model.AppTypeJob,
		JobID:    job.ID,
		JobTitle: job.Title,
		Company:  job.Company,
	}
	if err := h.applicant(c, app); err != nil {
		respondError(c, err)
		return
	}

	created, err := h.repos.Applications.Create(ctx, app)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": created.ID, "message": "Application submitted"})
}

// UpsertProfile handles PUT /api/students/profile
func (h *StudentHandler) UpsertProfile(c *gin.Context) {
	var p model.StudentProfile
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	if err := h.repos.Profiles.Upsert(c.Request.Context(), middleware.GetPrincipal(c).UID, &p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListNotifications handles GET /api/students/notifications
func (h *StudentHandler) ListNotifications(c *gin.Context) {
	ns, err := h.repos.Notifications.ListByStudent(c.Request.Context(), middleware.GetPrincipal(c).UID)
	if err != nil {
		respondError(c, err)
		return
	}
	if ns == nil {
		ns = []model.Notification{}
	}
	c.JSON(http.StatusOK, ns)
}
