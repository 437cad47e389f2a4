package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/careerhub-api/internal/middleware"
	"github.com/yourusername/careerhub-api/internal/model"
	"github.com/yourusername/careerhub-api/internal/repository"
)

// ProfileHandler serves routes open to any authenticated user
type ProfileHandler struct {
	users *repository.UserRepo
}

func NewProfileHandler(users *repository.UserRepo) *ProfileHandler {
	return &ProfileHandler{users: users}
}

// Me handles GET /api/me
func (h *ProfileHandler) Me(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	user, err := h.users.FindByUID(c.Request.Context(), p.UID)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		// Signed up but no document yet
		user = &model.User{ID: p.UID, Email: p.Email}
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /api/profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required"`
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name is required")
		return
	}
	p := middleware.GetPrincipal(c)
	if req.Email == "" {
		req.Email = p.Email
	}

	user, err := h.users.UpsertProfile(c.Request.Context(), p.UID, req.Name, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateCompanyProfile handles PUT /api/company/profile
func (h *ProfileHandler) UpdateCompanyProfile(c *gin.Context) {
	var req struct {
		CompanyName string `json:"companyName"`
		Industry    string `json:"industry"`
		CompanySize string `json:"companySize"`
		Website     string `json:"website"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	err := h.users.UpdateCompanyProfile(c.Request.Context(), middleware.GetPrincipal(c).UID, model.User{
		CompanyName: req.CompanyName,
		Industry:    req.Industry,
		CompanySize: req.CompanySize,
		Website:     req.Website,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Company profile updated"})
}
