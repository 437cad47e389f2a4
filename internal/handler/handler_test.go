package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/careerhub-api/internal/blob"
	"github.com/yourusername/careerhub-api/internal/identity"
	"github.com/yourusername/careerhub-api/internal/middleware"
	"github.com/yourusername/careerhub-api/internal/model"
	"github.com/yourusername/careerhub-api/internal/repository"
	"github.com/yourusername/careerhub-api/internal/service"
	"github.com/yourusername/careerhub-api/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeVerifier accepts "tok-<uid>" and rejects everything else
type fakeVerifier struct{}

func (fakeVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	if len(idToken) <= 4 || idToken[:4] != "tok-" {
		return nil, errors.New("invalid token")
	}
	uid := idToken[4:]
	return &auth.Token{UID: uid, Claims: map[string]interface{}{"email": uid + "@example.com"}}, nil
}

// failingStore fails the Set of one document ID
type failingStore struct {
	*store.MemoryStore
	failID string
}

func (f *failingStore) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	if id == f.failID {
		return errors.New("write rejected")
	}
	return f.MemoryStore.Set(ctx, collection, id, fields)
}

// failingGetStore fails every Get on one collection
type failingGetStore struct {
	*store.MemoryStore
	collection string
}

func (f *failingGetStore) Get(ctx context.Context, collection, id string) (*store.Document, error) {
	if collection == f.collection {
		return nil, fmt.Errorf("reading %s: %w", collection, store.ErrStorage)
	}
	return f.MemoryStore.Get(ctx, collection, id)
}

type testEnv struct {
	router *gin.Engine
	mem    *store.MemoryStore
	repos  *repository.Repos
	blobs  *blob.MemoryStore
	guard  *middleware.RoleGuard
}

const instID = "inst-1"

func newTestEnv(t *testing.T, s store.Store, mem *store.MemoryStore) *testEnv {
	t.Helper()
	return newTestEnvWithClaims(t, s, mem, nil)
}

func newTestEnvWithClaims(t *testing.T, s store.Store, mem *store.MemoryStore, claims identity.ClaimsSetter) *testEnv {
	t.Helper()
	ctx := context.Background()

	seed := map[string]map[string]any{
		"admin":    {"name": "Ada", "email": "ada@example.com", "role": model.RoleAdmin},
		"staff":    {"name": "Sam", "role": model.RoleInstitute, "institutionId": instID},
		"orphan":   {"name": "Olly", "role": model.RoleInstitute},
		"stu":      {"name": "Stu Dent", "role": model.RoleStudent},
		"stu2":     {"name": "Second", "role": model.RoleStudent},
		"co":       {"name": "Carla", "role": model.RoleCompany, "companyName": "Acme"},
		"co-other": {"name": "Otto", "role": model.RoleCompany, "companyName": "Globex"},
	}
	for uid, fields := range seed {
		if err := mem.Set(ctx, model.CollectionUsers, uid, fields); err != nil {
			t.Fatalf("seeding %s: %v", uid, err)
		}
	}
	if err := mem.Set(ctx, model.CollectionInstitutions, instID, map[string]any{"name": "Limkokwing", "status": model.StatusActive}); err != nil {
		t.Fatalf("seeding institution: %v", err)
	}

	repos := repository.NewRepos(s)
	blobs := blob.NewMemoryStore()
	guard, err := middleware.NewRoleGuard()
	if err != nil {
		t.Fatalf("role guard: %v", err)
	}

	r := gin.New()
	api := r.Group("/api", middleware.NewAuthMiddleware(fakeVerifier{}, repos.Users).Authenticate())
	Register(api, guard, Handlers{
		Admin:     NewAdminHandler(repos, claims),
		Institute: NewInstituteHandler(repos),
		Student:   NewStudentHandler(repos),
		Company:   NewCompanyHandler(repos, service.NewDocumentService(blobs, repos.Documents)),
		Profile:   NewProfileHandler(repos.Users),
	})

	return &testEnv{router: r, mem: mem, repos: repos, blobs: blobs, guard: guard}
}

func newMemoryEnv(t *testing.T) *testEnv {
	mem := store.NewMemoryStore()
	return newTestEnv(t, mem, mem)
}

func (e *testEnv) do(t *testing.T, method, path, uid string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if uid != "" {
		req.Header.Set("Authorization", "Bearer tok-"+uid)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decoding %q: %v", w.Body.String(), err)
	}
}

func TestAdminRoutesRejectOtherRoles(t *testing.T) {
	env := newMemoryEnv(t)
	body := map[string]string{"name": "NUL", "address": "Roma"}

	if w := env.do(t, http.MethodPost, "/api/admin/institutions", "", body); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/admin/institutions", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", w.Code)
	}

	for _, uid := range []string{"stu", "co", "staff"} {
		w := env.do(t, http.MethodPost, "/api/admin/institutions", uid, body)
		if w.Code != http.StatusForbidden {
			t.Fatalf("expected 403 for %s, got %d", uid, w.Code)
		}
	}
	if n := env.mem.Count(model.CollectionInstitutions); n != 1 {
		t.Fatalf("expected no writes from rejected calls, got %d institutions", n)
	}

	w = env.do(t, http.MethodPost, "/api/admin/institutions", "admin", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUnassignedUserOnlyReachesOpenRoutes(t *testing.T) {
	env := newMemoryEnv(t)

	if w := env.do(t, http.MethodGet, "/api/students/applications", "newbie", nil); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user without role, got %d", w.Code)
	}

	w := env.do(t, http.MethodPut, "/api/profile", "newbie", map[string]string{"name": "New Bie"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected profile upsert, got %d: %s", w.Code, w.Body.String())
	}
	u, err := env.repos.Users.FindByUID(context.Background(), "newbie")
	if err != nil || u == nil {
		t.Fatalf("expected user document, got %v %v", u, err)
	}
	if u.Name != "New Bie" || u.Email != "newbie@example.com" || u.Role != "" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

// downClaims fails every custom claim update
type downClaims struct{ calls int }

func (d *downClaims) SetCustomUserClaims(context.Context, string, map[string]any) error {
	d.calls++
	return errors.New("claims down")
}

func TestAssignRoleSurvivesClaimFailure(t *testing.T) {
	mem := store.NewMemoryStore()
	claims := &downClaims{}
	env := newTestEnvWithClaims(t, mem, mem, claims)

	w := env.do(t, http.MethodPost, "/api/admin/assign-role", "admin", map[string]string{"uid": "orphan", "role": model.RoleCompany})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}
	if claims.calls != 1 {
		t.Fatalf("expected one claim update, got %d", claims.calls)
	}
	u, err := env.repos.Users.FindByUID(context.Background(), "orphan")
	if err != nil || u == nil || u.Role != model.RoleCompany {
		t.Fatalf("expected stored role company, got %+v (%v)", u, err)
	}
}

func TestInstitutionCRUD(t *testing.T) {
	env := newMemoryEnv(t)

	w := env.do(t, http.MethodPost, "/api/admin/institutions", "admin", map[string]string{"name": "NUL", "address": "Roma"})
	if w.Code != http.StatusOK {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	var created struct{ ID, Name, Address string }
	decodeBody(t, w, &created)
	if created.ID == "" || created.Name != "NUL" || created.Address != "Roma" {
		t.Fatalf("unexpected create response: %+v", created)
	}

	if w := env.do(t, http.MethodPost, "/api/admin/institutions", "admin", map[string]string{"address": "x"}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing name, got %d", w.Code)
	}

	w = env.do(t, http.MethodPut, "/api/admin/institutions/"+created.ID, "admin", map[string]string{"name": "National University"})
	if w.Code != http.StatusOK {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}
	inst, _ := env.repos.Institutions.FindByID(context.Background(), created.ID)
	if inst.Name != "National University" || inst.Address != "Roma" {
		t.Fatalf("expected merged update, got %+v", inst)
	}

	if w := env.do(t, http.MethodPut, "/api/admin/institutions/missing", "admin", map[string]string{"name": "x"}); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 updating missing institution, got %d", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/admin/institutions", "admin", nil)
	var list []model.Institution
	decodeBody(t, w, &list)
	if len(list) != 2 {
		t.Fatalf("expected 2 institutions, got %d", len(list))
	}

	if w := env.do(t, http.MethodDelete, "/api/admin/institutions/"+created.ID, "admin", nil); w.Code != http.StatusOK {
		t.Fatalf("delete: %d", w.Code)
	}
	if n := env.mem.Count(model.CollectionInstitutions); n != 1 {
		t.Fatalf("expected 1 institution after delete, got %d", n)
	}
}

func TestAdminCourseRequiresFacultyOfInstitution(t *testing.T) {
	env := newMemoryEnv(t)

	w := env.do(t, http.MethodPost, "/api/admin/institutions/"+instID+"/faculties", "admin", map[string]string{"name": "FICT"})
	if w.Code != http.StatusOK {
		t.Fatalf("faculty: %d %s", w.Code, w.Body.String())
	}
	var faculty struct{ ID string }
	decodeBody(t, w, &faculty)

	path := "/api/admin/institutions/" + instID + "/faculties/" + faculty.ID + "/courses"
	if w := env.do(t, http.MethodPost, path, "admin", map[string]string{"name": "BSc IT"}); w.Code != http.StatusOK {
		t.Fatalf("course: %d %s", w.Code, w.Body.String())
	}

	wrong := "/api/admin/institutions/other/faculties/" + faculty.ID + "/courses"
	if w := env.do(t, http.MethodPost, wrong, "admin", map[string]string{"name": "BSc IT"}); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for faculty of another institution, got %d", w.Code)
	}

	if w := env.do(t, http.MethodPost, "/api/admin/institutions/missing/faculties", "admin", map[string]string{"name": "X"}); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing institution, got %d", w.Code)
	}
}

func TestInstituteWritesScopedToCallerInstitution(t *testing.T) {
	env := newMemoryEnv(t)

	w := env.do(t, http.MethodPost, "/api/institute/faculties", "staff", map[string]string{"name": "FABE", "institutionId": "someone-else"})
	if w.Code != http.StatusOK {
		t.Fatalf("faculty: %d %s", w.Code, w.Body.String())
	}
	var created struct{ ID string }
	decodeBody(t, w, &created)
	f, _ := env.repos.Faculties.FindByID(context.Background(), created.ID)
	if f == nil || f.InstitutionID != instID {
		t.Fatalf("expected faculty scoped to %s, got %+v", instID, f)
	}

	if w := env.do(t, http.MethodPost, "/api/institute/faculties", "orphan", map[string]string{"name": "X"}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without linked institution, got %d", w.Code)
	}

	w = env.do(t, http.MethodPost, "/api/institute/admissions", "staff", map[string]any{"description": "2025 intake", "deadline": "2025-01-31"})
	if w.Code != http.StatusOK {
		t.Fatalf("admission: %d %s", w.Code, w.Body.String())
	}
	admissions, _ := env.repos.Admissions.List(context.Background(), instID)
	if len(admissions) != 1 || !admissions[0].Published {
		t.Fatalf("expected one published admission, got %+v", admissions)
	}
}

func TestApplyCourseDuplicate(t *testing.T) {
	env := newMemoryEnv(t)
	body := map[string]string{"institutionId": instID, "courseId": "course-1"}

	w := env.do(t, http.MethodPost, "/api/students/apply", "stu", body)
	if w.Code != http.StatusOK {
		t.Fatalf("first apply: %d %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodPost, "/api/students/apply", "stu", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on duplicate, got %d", w.Code)
	}
	var resp map[string]any
	decodeBody(t, w, &resp)
	if resp["error"] != "Already applied" {
		t.Fatalf("unexpected error body: %v", resp)
	}

	w = env.do(t, http.MethodGet, "/api/students/applications", "stu", nil)
	var apps []model.Application
	decodeBody(t, w, &apps)
	if len(apps) != 1 {
		t.Fatalf("expected exactly one application, got %d", len(apps))
	}
	if apps[0].InstitutionName != "Limkokwing" || apps[0].StudentName != "Stu Dent" || apps[0].Status != model.AppStatusPending {
		t.Fatalf("unexpected application: %+v", apps[0])
	}
}

func TestApplyCourseLogsNameLookupFailure(t *testing.T) {
	var logs bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&logs)
	t.Cleanup(func() { log.Logger = prev })

	mem := store.NewMemoryStore()
	env := newTestEnv(t, &failingGetStore{MemoryStore: mem, collection: model.CollectionCourses}, mem)

	w := env.do(t, http.MethodPost, "/api/students/apply", "stu", map[string]string{"institutionId": instID, "courseId": "course-1"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected apply to succeed without the course name, got %d %s", w.Code, w.Body.String())
	}
	if !strings.Contains(logs.String(), "Failed to resolve course name") {
		t.Fatalf("expected lookup failure logged, got %q", logs.String())
	}

	apps, _ := env.repos.Applications.ListByStudent(context.Background(), "stu")
	if len(apps) != 1 || apps[0].CourseName != "" || apps[0].InstitutionName != "Limkokwing" {
		t.Fatalf("unexpected application: %+v", apps)
	}
}

func TestInstituteDecidesOwnApplications(t *testing.T) {
	env := newMemoryEnv(t)
	ctx := context.Background()

	app, err := env.repos.Applications.Create(ctx, &model.Application{
		StudentID: "stu", Type: model.AppTypeAdmission, InstitutionID: instID, CourseID: "c1",
	})
	if err != nil {
		t.Fatalf("seeding application: %v", err)
	}
	path := "/api/institute/applications/" + app.ID

	if w := env.do(t, http.MethodPut, path, "staff", map[string]string{"status": "maybe"}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", w.Code)
	}
	if w := env.do(t, http.MethodPut, path, "staff", map[string]string{"status": model.AppStatusAccepted, "review": "Welcome"}); w.Code != http.StatusOK {
		t.Fatalf("decide: %d %s", w.Code, w.Body.String())
	}

	got, _ := env.repos.Applications.FindByID(ctx, app.ID)
	if got.Status != model.AppStatusAccepted || got.Review != "Welcome" {
		t.Fatalf("unexpected application after decision: %+v", got)
	}
}

func TestApplyJob(t *testing.T) {
	env := newMemoryEnv(t)

	if w := env.do(t, http.MethodPost, "/api/apply-job", "stu", map[string]string{"jobId": "nope"}); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing job, got %d", w.Code)
	}

	w := env.do(t, http.MethodPost, "/api/jobs", "co", map[string]string{"title": "Backend Engineer", "requirements": "BSc"})
	if w.Code != http.StatusOK {
		t.Fatalf("create job: %d %s", w.Code, w.Body.String())
	}
	var job model.JobPosting
	decodeBody(t, w, &job)
	if job.Company != "Acme" || job.CompanyID != "co" || job.Qualifications != "BSc" {
		t.Fatalf("unexpected job: %+v", job)
	}

	body := map[string]string{"jobId": job.ID}
	if w := env.do(t, http.MethodPost, "/api/apply-job", "stu", body); w.Code != http.StatusOK {
		t.Fatalf("apply: %d %s", w.Code, w.Body.String())
	}
	if w := env.do(t, http.MethodPost, "/api/apply-job", "stu", body); w.Code != http.StatusBadRequest {
		t.Fatalf("expected duplicate guard, got %d", w.Code)
	}
}

func TestListApplicantsRankedAndOwned(t *testing.T) {
	env := newMemoryEnv(t)
	ctx := context.Background()

	w := env.do(t, http.MethodPost, "/api/jobs", "co", map[string]string{"title": "Data Engineer", "requiredSkills": "Go,SQL"})
	var job model.JobPosting
	decodeBody(t, w, &job)

	for _, uid := range []string{"stu2", "stu"} {
		if _, err := env.repos.Applications.Create(ctx, &model.Application{StudentID: uid, Type: model.AppTypeJob, JobID: job.ID}); err != nil {
			t.Fatalf("seeding application: %v", err)
		}
	}
	if w := env.do(t, http.MethodPut, "/api/students/profile", "stu", model.StudentProfile{Skills: []string{"go", "sql"}}); w.Code != http.StatusOK {
		t.Fatalf("profile: %d %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/jobs/"+job.ID+"/applicants", "co", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("applicants: %d %s", w.Code, w.Body.String())
	}
	var ranked []service.ScoredApplicant
	decodeBody(t, w, &ranked)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 applicants, got %d", len(ranked))
	}
	if ranked[0].Application.StudentID != "stu" || ranked[0].Score.RelevanceScore != 4 {
		t.Fatalf("expected stu ranked first with relevance 4, got %+v", ranked[0])
	}
	if ranked[1].Score.Total != 0 {
		t.Fatalf("expected zero score without profile, got %+v", ranked[1].Score)
	}

	if w := env.do(t, http.MethodGet, "/api/jobs/"+job.ID+"/applicants", "co-other", nil); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for another company, got %d", w.Code)
	}
}

func TestBulkInsertRejectsInvalidBatch(t *testing.T) {
	env := newMemoryEnv(t)
	body := `{"adminModules": {"institutions": [
		{"documentId": "a", "fields": {"name": "A"}},
		{"documentId": "b", "fields": {"address": "no name"}}
	]}}`

	w := env.do(t, http.MethodPost, "/api/admin/bulk-insert", "admin", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if n := env.mem.Count(model.CollectionInstitutions); n != 1 {
		t.Fatalf("expected nothing written, got %d institutions", n)
	}
}

func TestBulkInsertStopsAtFailedWrite(t *testing.T) {
	mem := store.NewMemoryStore()
	env := newTestEnv(t, &failingStore{MemoryStore: mem, failID: "i2"}, mem)
	body := `{"adminModules": {"institutions": [
		{"documentId": "i1", "fields": {"name": "One"}},
		{"documentId": "i2", "fields": {"name": "Two"}},
		{"documentId": "i3", "fields": {"name": "Three"}}
	]}}`

	w := env.do(t, http.MethodPost, "/api/admin/bulk-insert", "admin", body)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Error   string `json:"error"`
		Written int    `json:"written"`
	}
	decodeBody(t, w, &resp)
	if resp.Written != 1 || resp.Error == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	ctx := context.Background()
	if d, _ := mem.Get(ctx, model.CollectionInstitutions, "i1"); d == nil {
		t.Fatalf("expected i1 committed")
	}
	if d, _ := mem.Get(ctx, model.CollectionInstitutions, "i3"); d != nil {
		t.Fatalf("expected i3 not attempted")
	}
}

func TestCompanyDocuments(t *testing.T) {
	env := newMemoryEnv(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range map[string]string{"registration.txt": "reg 123", "tax.txt": "tax ok"} {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		fw.Write([]byte(content))
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/company/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer tok-co")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("upload: %d %s", w.Code, w.Body.String())
	}

	var resp struct {
		Documents []model.CompanyDocument `json:"documents"`
	}
	decodeBody(t, w, &resp)
	if len(resp.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(resp.Documents))
	}
	doc := resp.Documents[0]
	if !env.blobs.Has(doc.StoragePath) {
		t.Fatalf("expected blob at %s", doc.StoragePath)
	}

	if w := env.do(t, http.MethodDelete, "/api/company/documents/"+doc.ID, "co-other", nil); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 deleting another company's document, got %d", w.Code)
	}
	if w := env.do(t, http.MethodDelete, "/api/company/documents/"+doc.ID, "co", nil); w.Code != http.StatusOK {
		t.Fatalf("delete: %d %s", w.Code, w.Body.String())
	}
	if env.blobs.Has(doc.StoragePath) {
		t.Fatalf("expected blob removed")
	}
}

func TestEveryGuardedRouteHasOneRole(t *testing.T) {
	env := newMemoryEnv(t)

	seen := map[string]string{}
	for _, p := range env.guard.Policies() {
		key := p[2] + " " + p[1]
		if prev, ok := seen[key]; ok {
			t.Fatalf("%s registered for %s and %s", key, prev, p[0])
		}
		seen[key] = p[0]
	}
	if seen["POST /api/admin/bulk-insert"] != model.RoleAdmin {
		t.Fatalf("expected bulk insert guarded for admin, got %q", seen["POST /api/admin/bulk-insert"])
	}
	if seen["POST /api/apply-job"] != model.RoleStudent {
		t.Fatalf("expected apply-job guarded for student, got %q", seen["POST /api/apply-job"])
	}
}
