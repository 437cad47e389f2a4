package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/careerhub-api/internal/identity"
	"github.com/yourusername/careerhub-api/internal/middleware"
	"github.com/yourusername/careerhub-api/internal/model"
	"github.com/yourusername/careerhub-api/internal/repository"
)

type AdminHandler struct {
	repos  *repository.Repos
	claims identity.ClaimsSetter
}

// NewAdminHandler creates the admin handler. claims may be nil, in which
// case roles are only stored on the user document.
func NewAdminHandler(repos *repository.Repos, claims identity.ClaimsSetter) *AdminHandler {
	return &AdminHandler{repos: repos, claims: claims}
}

// AssignRole handles POST /api/admin/assign-role
func (h *AdminHandler) AssignRole(c *gin.Context) {
	var req struct {
		UID  string `json:"uid" binding:"required"`
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "uid and role are required")
		return
	}

	if err := h.repos.Users.SetRole(c.Request.Context(), req.UID, req.Role); err != nil {
		respondError(c, err)
		return
	}
	if h.claims != nil {
		// The stored role is authoritative; the claim only caches it on the token
		if err := identity.SetRoleClaim(c.Request.Context(), h.claims, req.UID, req.Role); err != nil {
			log.Warn().Err(err).Str("uid", req.UID).Str("role", req.Role).Msg("Failed to set role claim")
		}
	}

	// No approval step or audit record exists for role changes; the log line is the only trace
	log.Info().
		Str("admin", middleware.GetPrincipal(c).UID).
		Str("uid", req.UID).
		Str("role", req.Role).
		Msg("Role assigned")

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Role %s assigned to user %s", req.Role, req.UID)})
}

// ListInstitutions handles GET /api/admin/institutions
func (h *AdminHandler) ListInstitutions(c *gin.Context) {
	insts, err := h.repos.Institutions.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if insts == nil {
		insts = []model.Institution{}
	}
	c.JSON(http.StatusOK, insts)
}

// CreateInstitution handles POST /api/admin/institutions
func (h *AdminHandler) CreateInstitution(c *gin.Context) {
	var inst model.Institution
	if err := c.ShouldBindJSON(&inst); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	inst.ID = ""
	inst.CreatedBy = middleware.GetPrincipal(c).UID

	created, err := h.repos.Institutions.Create(c.Request.Context(), &inst)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": created.ID, "name": created.Name, "address": created.Address})
}

// UpdateInstitution handles PUT /api/admin/institutions/:id
func (h *AdminHandler) UpdateInstitution(c *gin.Context) {
	var req struct {
		Name         *string `json:"name"`
		Address      *string `json:"address"`
		Status       *string `json:"status"`
		Code         *string `json:"code"`
		Type         *string `json:"type"`
		Description  *string `json:"description"`
		ContactEmail *string `json:"contactEmail"`
		Phone        *string `json:"phone"`
		Website      *string `json:"website"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	patch := map[string]any{}
	for key, v := range map[string]*string{
		"name": req.Name, "address": req.Address, "status": req.Status,
		"code": req.Code, "type": req.Type, "description": req.Description,
		"contactEmail": req.ContactEmail, "phone": req.Phone, "website": req.Website,
	} {
		if v != nil {
			patch[key] = *v
		}
	}

	if err := h.repos.Institutions.Update(c.Request.Context(), c.Param("id"), patch); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Institution updated"})
}

// DeleteInstitution handles DELETE /api/admin/institutions/:id
func (h *AdminHandler) DeleteInstitution(c *gin.Context) {
	if err := h.repos.Institutions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Institution deleted"})
}

// CreateFaculty handles POST /api/admin/institutions/:id/faculties
func (h *AdminHandler) CreateFaculty(c *gin.Context) {
	var f model.Faculty
	if err := c.ShouldBindJSON(&f); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	instID := c.Param("id")
	inst, err := h.repos.Institutions.FindByID(c.Request.Context(), instID)
	if err != nil {
		respondError(c, err)
		return
	}
	if inst == nil {
		notFound(c, "Institution not found")
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

// CreateCourse handles POST /api/admin/institutions/:id/faculties/:facultyId/courses
func (h *AdminHandler) CreateCourse(c *gin.Context) {
	var course model.Course
	if err := c.ShouldBindJSON(&course); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	instID, facultyID := c.Param("id"), c.Param("facultyId")
	faculty, err := h.repos.Faculties.FindByID(c.Request.Context(), facultyID)
	if err != nil {
		respondError(c, err)
		return
	}
	if faculty == nil || faculty.InstitutionID != instID {
		notFound(c, "Faculty not found")
		return
	}

	course.ID = ""
	course.InstitutionID = instID
	course.FacultyID = facultyID
	created, err := h.repos.Courses.Create(c.Request.Context(), &course)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": created.ID, "name": created.Name})
}

// CreateAdmission handles POST /api/admin/institutions/:id/admissions
func (h *AdminHandler) CreateAdmission(c *gin.Context) {
	var a model.Admission
	if err := c.ShouldBindJSON(&a); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	instID := c.Param("id")
	inst, err := h.repos.Institutions.FindByID(c.Request.Context(), instID)
	if err != nil {
		respondError(c, err)
		return
	}
	if inst == nil {
		notFound(c, "Institution not found")
		return
	}

	a.ID = ""
	a.InstitutionID = instID
	if _, err := h.repos.Admissions.Publish(c.Request.Context(), &a, middleware.GetPrincipal(c).UID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Admission published"})
}

// SendNotification handles POST /api/notifications
func (h *AdminHandler) SendNotification(c *gin.Context) {
	var req struct {
		StudentID string `json:"studentId" binding:"required"`
		Message   string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "studentId and message are required")
		return
	}

	n, err := h.repos.Notifications.Create(c.Request.Context(), &model.Notification{
		StudentID: req.StudentID,
		Message:   req.Message,
		CreatedBy: middleware.GetPrincipal(c).UID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": n.ID, "message": "Notification sent"})
}

// BulkInsert handles POST /api/admin/bulk-insert
func (h *AdminHandler) BulkInsert(c *gin.Context) {
	var req repository.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.repos.Bulk.Validate(req); err != nil {
		badRequest(c, err.Error())
		return
	}

	written, err := h.repos.Bulk.Import(c.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Int("written", written).Msg("Bulk insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "written": written})
		return
	}

	log.Info().Int("written", written).Msg("Bulk insert complete")
	c.JSON(http.StatusOK, gin.H{"message": "Bulk insert complete", "written": written})
}
