package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/careerhub-api/internal/middleware"
	"github.com/yourusername/careerhub-api/internal/model"
	"github.com/yourusername/careerhub-api/internal/repository"
)

// InstituteHandler serves institution staff. Every write is scoped to the
// institution linked on the caller's user document.
type InstituteHandler struct {
	repos *repository.Repos
}

func NewInstituteHandler(repos *repository.Repos) *InstituteHandler {
	return &InstituteHandler{repos: repos}
}

// callerInstitution resolves the institution ID of the calling user, writing
// the error response when there is none
func (h *InstituteHandler) callerInstitution(c *gin.Context) (string, bool) {
	user, err := h.repos.Users.FindByUID(c.Request.Context(), middleware.GetPrincipal(c).UID)
	if err != nil {
		respondError(c, err)
		return "", false
	}
	if user == nil || user.InstitutionID == "" {
		badRequest(c, "No institution linked to this account")
		return "", false
	}
	return user.InstitutionID, true
}

// CreateFaculty handles POST /api/institute/faculties
func (h *InstituteHandler) CreateFaculty(c *gin.Context) {
	var f model.Faculty
	if err := c.ShouldBindJSON(&f); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	instID, ok := h.callerInstitution(c)
	if !ok {
		return
	}

	f.ID = ""
	f.InstitutionID = instID
	created, err := h.repos.Faculties.Create(c.Request.Context(), &f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": created.ID, "name": created.Name})
}

// CreateCourse handles POST /api/institute/courses
func (h *InstituteHandler) CreateCourse(c *gin.Context) {
	var course model.Course
	if err := c.ShouldBindJSON(&course); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	instID, ok := h.callerInstitution(c)
	if !ok {
		return
	}

	if course.FacultyID != "" {
		faculty, err := h.repos.Faculties.FindByID(c.Request.Context(), course.FacultyID)
		if err != nil {
			respondError(c, err)
			return
		}
		if faculty == nil || faculty.InstitutionID != instID {
			notFound(c, "Faculty not found")
			return
		}
	}

	course.ID = ""
	course.InstitutionID = instID
	created, err := h.repos.Courses.Create(c.Request.Context(), &course)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": created.ID, "name": created.Name})
}

// CreateAdmission handles POST /api/institute/admissions
func (h *InstituteHandler) CreateAdmission(c *gin.Context) {
	var a model.Admission
	if err := c.ShouldBindJSON(&a); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	instID, ok := h.callerInstitution(c)
	if !ok {
		return
	}

	a.ID = ""
	a.InstitutionID = instID
	created, err := h.repos.Admissions.Publish(c.Request.Context(), &a, middleware.GetPrincipal(c).UID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": created.ID, "message": "Admission published"})
}

// DecideApplication handles PUT /api/institute/applications/:id
func (h *InstituteHandler) DecideApplication(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
		Review string `json:"review"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}
	instID, ok := h.callerInstitution(c)
	if !ok {
		return
	}

	app, err := h.repos.Applications.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if app == nil || app.Type != model.AppTypeAdmission || app.InstitutionID != instID {
		notFound(c, "Application not found")
		return
	}

	if err := h.repos.Applications.UpdateStatus(c.Request.Context(), app.ID, req.Status, req.Review); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Application " + req.Status})
}
