package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/careerhub-api/internal/middleware"
	"github.com/yourusername/careerhub-api/internal/model"
	"github.com/yourusername/careerhub-api/internal/repository"
	"github.com/yourusername/careerhub-api/internal/service"
)

// CompanyHandler serves company accounts: postings, applicants and
// verification documents. The company ID is the caller's UID.
type CompanyHandler struct {
	repos *repository.Repos
	docs  *service.DocumentService
}

func NewCompanyHandler(repos *repository.Repos, docs *service.DocumentService) *CompanyHandler {
	return &CompanyHandler{repos: repos, docs: docs}
}

// CreateJob handles POST /api/jobs
func (h *CompanyHandler) CreateJob(c *gin.Context) {
	var req struct {
		model.JobPosting
		Requirements string `json:"requirements"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	ctx := c.Request.Context()
	uid := middleware.GetPrincipal(c).UID

	job := req.JobPosting
	job.ID = ""
	job.CompanyID = uid
	job.PostedBy = uid
	if job.Qualifications == "" {
		job.Qualifications = req.Requirements
	}

	company, err := h.repos.Users.FindByUID(ctx, uid)
	if err != nil {
		respondError(c, err)
		return
	}
	if company != nil {
		if company.CompanyName != "" {
			job.Company = company.CompanyName
		} else if job.Company == "" {
			job.Company = company.Name
		}
	}

	created, err := h.repos.Jobs.Create(ctx, &job)
	if err != nil {
		respondError(c, err)
		return
	}

	log.Info().Str("companyId", uid).Str("jobId", created.ID).Msg("Job posted")
	c.JSON(http.StatusOK, created)
}

// ListJobs handles GET /api/jobs
func (h *CompanyHandler) ListJobs(c *gin.Context) {
	jobs, err := h.repos.Jobs.List(c.Request.Context(), middleware.GetPrincipal(c).UID)
	if err != nil {
		respondError(c, err)
		return
	}
	if jobs == nil {
		jobs = []model.JobPosting{}
	}
	c.JSON(http.StatusOK, jobs)
}

// ownJob loads a job and checks the caller posted it, writing the error
// response otherwise
func (h *CompanyHandler) ownJob(c *gin.Context, jobID string) (*model.JobPosting, bool) {
	job, err := h.repos.Jobs.FindByID(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if job == nil {
		notFound(c, "Job not found")
		return nil, false
	}
	if job.CompanyID != middleware.GetPrincipal(c).UID {
		forbidden(c, "Job belongs to another company")
		return nil, false
	}
	return job, true
}

// ListApplicants handles GET /api/jobs/:id/applicants, best match first
func (h *CompanyHandler) ListApplicants(c *gin.Context) {
	job, ok := h.ownJob(c, c.Param("id"))
	if !ok {
		return
	}
	ctx := c.Request.Context()

	apps, err := h.repos.Applications.ListByJob(ctx, job.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	profiles, err := h.repos.Profiles.List(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, service.RankApplicants(job, apps, profiles))
}

// ReviewApplication handles PUT /api/company/applications/:id
func (h *CompanyHandler) ReviewApplication(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
		Review string `json:"review"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}

	app, err := h.repos.Applications.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if app == nil || app.Type != model.AppTypeJob {
		notFound(c, "Application not found")
		return
	}
	if _, ok := h.ownJob(c, app.JobID); !ok {
		return
	}

	if err := h.repos.Applications.UpdateStatus(c.Request.Context(), app.ID, req.Status, req.Review); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Application " + req.Status})
}

// UploadDocuments handles POST /api/company/documents (multipart, field "files")
func (h *CompanyHandler) UploadDocuments(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, "Expected multipart form with files")
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		badRequest(c, "No files uploaded")
		return
	}

	uploads := make([]service.Upload, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > service.MaxDocumentSize {
			badRequest(c, fmt.Sprintf("%s exceeds the 10MB limit", fh.Filename))
			return
		}
		f, err := fh.Open()
		if err != nil {
			badRequest(c, "Failed to read "+fh.Filename)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			badRequest(c, "Failed to read "+fh.Filename)
			return
		}
		uploads = append(uploads, service.Upload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	stored, err := h.docs.UploadAll(c.Request.Context(), middleware.GetPrincipal(c).UID, uploads)
	if stored == nil {
		stored = []model.CompanyDocument{}
	}
	if err != nil {
		// Files stored before and after the failure stay
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "documents": stored})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Documents uploaded", "documents": stored})
}

// DeleteDocument handles DELETE /api/company/documents/:id
func (h *CompanyHandler) DeleteDocument(c *gin.Context) {
	err := h.docs.Delete(c.Request.Context(), middleware.GetPrincipal(c).UID, c.Param("id"))
	if errors.Is(err, service.ErrDocumentNotOwned) {
		forbidden(c, err.Error())
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}
