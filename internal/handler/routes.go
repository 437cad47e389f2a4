package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/careerhub-api/internal/middleware"
	"github.com/yourusername/careerhub-api/internal/model"
)

// Handlers groups the route handlers mounted under /api
type Handlers struct {
	Admin     *AdminHandler
	Institute *InstituteHandler
	Student   *StudentHandler
	Company   *CompanyHandler
	Profile   *ProfileHandler
}

// Register mounts every route on an authenticated group. Role-scoped routes
// go through the guard, which allows exactly one role per route.
func Register(api *gin.RouterGroup, guard *middleware.RoleGuard, h Handlers) {
	// Any signed-in user
	api.GET("/me", h.Profile.Me)
	api.PUT("/profile", h.Profile.UpdateProfile)

	// Admin
	admin := func(method, path string, fn gin.HandlerFunc) {
		guard.Handle(api, model.RoleAdmin, method, path, fn)
	}
	admin(http.MethodPost, "/admin/assign-role", h.Admin.AssignRole)
	admin(http.MethodGet, "/admin/institutions", h.Admin.ListInstitutions)
	admin(http.MethodPost, "/admin/institutions", h.Admin.CreateInstitution)
	admin(http.MethodPut, "/admin/institutions/:id", h.Admin.UpdateInstitution)
	admin(http.MethodDelete, "/admin/institutions/:id", h.Admin.DeleteInstitution)
	admin(http.MethodPost, "/admin/institutions/:id/faculties", h.Admin.CreateFaculty)
	admin(http.MethodPost, "/admin/institutions/:id/faculties/:facultyId/courses", h.Admin.CreateCourse)
	admin(http.MethodPost, "/admin/institutions/:id/admissions", h.Admin.CreateAdmission)
	admin(http.MethodPost, "/admin/bulk-insert", h.Admin.BulkInsert)
	admin(http.MethodPost, "/notifications", h.Admin.SendNotification)

	// Institute
	institute := func(method, path string, fn gin.HandlerFunc) {
		guard.Handle(api, model.RoleInstitute, method, path, fn)
	}
	institute(http.MethodPost, "/institute/faculties", h.Institute.CreateFaculty)
	institute(http.MethodPost, "/institute/courses", h.Institute.CreateCourse)
	institute(http.MethodPost, "/institute/admissions", h.Institute.CreateAdmission)
	institute(http.MethodPut, "/institute/applications/:id", h.Institute.DecideApplication)

	// Student
	student := func(method, path string, fn gin.HandlerFunc) {
		guard.Handle(api, model.RoleStudent, method, path, fn)
	}
	student(http.MethodPost, "/students/apply", h.Student.ApplyCourse)
	student(http.MethodGet, "/students/applications", h.Student.ListApplications)
	student(http.MethodPut, "/students/profile", h.Student.UpsertProfile)
	student(http.MethodGet, "/students/notifications", h.Student.ListNotifications)
	student(http.MethodPost, "/apply-job", h.Student.ApplyJob)

	// Company
	company := func(method, path string, fn gin.HandlerFunc) {
		guard.Handle(api, model.RoleCompany, method, path, fn)
	}
	company(http.MethodPost, "/jobs", h.Company.CreateJob)
	company(http.MethodGet, "/jobs", h.Company.ListJobs)
	company(http.MethodGet, "/jobs/:id/applicants", h.Company.ListApplicants)
	company(http.MethodPut, "/company/applications/:id", h.Company.ReviewApplication)
	company(http.MethodPut, "/company/profile", h.Profile.UpdateCompanyProfile)
	company(http.MethodPost, "/company/documents", h.Company.UploadDocuments)
	company(http.MethodDelete, "/company/documents/:id", h.Company.DeleteDocument)
}
