package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitment-service/internal/domain"
	"recruitment-service/internal/usecase"
)

// Map-backed repositories mirroring the SQL layer's behaviour, enough for the
// route handlers under test.

type fakeApps struct {
	seq  int64
	apps map[int64]*domain.Application
}

func (f *fakeApps) Create(_ context.Context, app *domain.Application) (int64, error) {
	f.seq++
	app.ID = f.seq
	f.apps[app.ID] = app
	return app.ID, nil
}

func (f *fakeApps) GetByID(_ context.Context, id int64) (*domain.Application, error) {
	app, ok := f.apps[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *app
	return &cp, nil
}

func (f *fakeApps) SetSelectedJobTitle(_ context.Context, id int64, title string) error {
	f.apps[id].SelectedJobTitle = title
	return nil
}

func (f *fakeApps) SetInterviewNotes(_ context.Context, id int64, notes string) error {
	f.apps[id].InterviewNotes = notes
	return nil
}

func (f *fakeApps) CommitPhase1Selection(_ context.Context, id int64, interviewDate string, at time.Time) (bool, error) {
	app := f.apps[id]
	if app.Phase1Status != domain.Phase1Pending {
		return false, nil
	}
	app.Phase1Status = domain.Phase1SelectedForInterview
	app.Phase1Date = &at
	app.InterviewDate = interviewDate
	app.Status = domain.StatusInterviewScheduled
	return true, nil
}

func (f *fakeApps) CommitPhase1Rejection(_ context.Context, id int64, reason string, at time.Time) (bool, error) {
	app := f.apps[id]
	if app.Phase1Status != domain.Phase1Pending {
		return false, nil
	}
	app.Phase1Status = domain.Phase1Rejected
	app.Phase1Date = &at
	app.RejectionReason = reason
	app.WorkflowPhase = domain.PhaseCompleted
	app.Status = domain.StatusRejected
	return true, nil
}

func (f *fakeApps) CommitPhase2Acceptance(_ context.Context, id int64, workStartDate string, at time.Time) (bool, error) {
	app := f.apps[id]
	if app.Phase1Status != domain.Phase1SelectedForInterview || app.Phase2Status != domain.Phase2Pending {
		return false, nil
	}
	app.Phase2Status = domain.Phase2Accepted
	app.Phase2Date = &at
	app.WorkStartDate = workStartDate
	app.WorkflowPhase = domain.PhaseCompleted
	app.Status = domain.StatusAccepted
	return true, nil
}

func (f *fakeApps) CommitPhase2Rejection(_ context.Context, id int64, reason string, at time.Time) (bool, error) {
	app := f.apps[id]
	if app.Phase1Status != domain.Phase1SelectedForInterview || app.Phase2Status != domain.Phase2Pending {
		return false, nil
	}
	app.Phase2Status = domain.Phase2Rejected
	app.Phase2Date = &at
	app.RejectionReason = reason
	app.WorkflowPhase = domain.PhaseCompleted
	app.Status = domain.StatusRejected
	return true, nil
}

func (f *fakeApps) SetDocumentRefs(_ context.Context, id int64, doc domain.DocumentType, refs map[domain.Language]string) error {
	app := f.apps[id]
	for lang, name := range refs {
		switch {
		case doc == domain.DocConvocation && lang == domain.LangAR:
			app.InterviewInvitationPDFAr = name
		case doc == domain.DocConvocation:
			app.InterviewInvitationPDF = name
		case doc == domain.DocAcceptation && lang == domain.LangAR:
			app.AcceptanceLetterPDFAr = name
		default:
			app.AcceptanceLetterPDF = name
		}
	}
	return nil
}

func (f *fakeApps) SetNotificationSent(_ context.Context, id int64, phase int) error {
	if phase == 1 {
		f.apps[id].Phase1NotificationSent = true
	} else {
		f.apps[id].Phase2NotificationSent = true
	}
	return nil
}

func (f *fakeApps) Delete(_ context.Context, id int64) error {
	if _, ok := f.apps[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.apps, id)
	return nil
}

func (f *fakeApps) CountByStatus(context.Context) (map[string]int, error) {
	out := map[string]int{}
	for _, a := range f.apps {
		out[a.Status]++
	}
	return out, nil
}

type fakeLedger struct {
	records map[string]*domain.VerificationRecord
}

func (f *fakeLedger) Record(_ context.Context, rec *domain.VerificationRecord) error {
	if _, exists := f.records[rec.Code]; exists {
		return domain.ErrCodeCollision
	}
	cp := *rec
	f.records[rec.Code] = &cp
	return nil
}

func (f *fakeLedger) Lookup(_ context.Context, code string) (*domain.VerificationRecord, error) {
	rec, ok := f.records[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeLedger) DeleteByApplication(_ context.Context, applicationID int64) (int64, error) {
	var n int64
	for code, rec := range f.records {
		if rec.ApplicationID == applicationID {
			delete(f.records, code)
			n++
		}
	}
	return n, nil
}

type fakeJobs struct {
	jobs map[int64]*domain.Job
}

func (f *fakeJobs) GetByID(_ context.Context, id int64) (*domain.Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return job, nil
}

type fakeRenderer struct{}

func (fakeRenderer) RenderHTMLToPDF(_ context.Context, html string) ([]byte, error) {
	return []byte("%PDF-1.4\n" + html), nil
}

// denyAll refuses every action, for permission tests.
type denyAll struct{}

func (denyAll) Can(usecase.AuthContext, string) bool { return false }

type testEnv struct {
	app    *fiber.App
	apps   *fakeApps
	ledger *fakeLedger
	jobs   *fakeJobs
}

func newTestEnv(t *testing.T, auth Authorizer) *testEnv {
	t.Helper()
	apps := &fakeApps{apps: make(map[int64]*domain.Application)}
	ledger := &fakeLedger{records: make(map[string]*domain.VerificationRecord)}
	jobs := &fakeJobs{jobs: map[int64]*domain.Job{
		3: {ID: 3, Title: "Comptable"},
	}}

	issuer := usecase.NewIssuer(fakeRenderer{}, apps, ledger, nil, t.TempDir(), "http://example.test")
	wf := usecase.NewWorkflow(apps, ledger, issuer, nil)

	app := fiber.New()
	NewHandler(wf, apps, jobs, ledger, issuer, auth).Register(app)
	return &testEnv{app: app, apps: apps, ledger: ledger, jobs: jobs}
}

func jsonReq(method, target string, body string, staff bool) *http.Request {
	var r io.Reader
	if body != "" {
		r = bytes.NewReader([]byte(body))
	}
	req, _ := http.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if staff {
		req.Header.Set("X-Employee-Id", "3")
		req.Header.Set("X-Employee-Username", "fatima")
		req.Header.Set("X-Employee-Role", "rh")
	}
	return req
}

func decode(t *testing.T, res *http.Response) map[string]any {
	t.Helper()
	defer res.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return out
}

func TestSubmitApplication(t *testing.T) {
	env := newTestEnv(t, nil)

	res, err := env.app.Test(jsonReq("POST", "/applications", `{
		"job_id": 3,
		"prenom": "Amina",
		"nom": "Said",
		"email": "amina@example.com",
		"telephone": "0612345678",
		"form_language": "ar"
	}`, false))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, res.StatusCode)

	body := decode(t, res)
	assert.Equal(t, domain.StatusPending, body["status"])

	stored, err := env.apps.GetByID(context.Background(), int64(body["id"].(float64)))
	require.NoError(t, err)
	assert.Equal(t, "Comptable", stored.JobTitle)
	assert.Equal(t, domain.LangAR, stored.FormLanguage)
	assert.False(t, stored.Spontaneous())
}

func TestSubmitApplicationSpontaneous(t *testing.T) {
	env := newTestEnv(t, nil)

	res, err := env.app.Test(jsonReq("POST", "/applications",
		`{"prenom": "Amina", "nom": "Said", "email": "amina@example.com", "telephone": "0612345678"}`, false))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, res.StatusCode)

	body := decode(t, res)
	stored, err := env.apps.GetByID(context.Background(), int64(body["id"].(float64)))
	require.NoError(t, err)
	assert.True(t, stored.Spontaneous())
	assert.Equal(t, domain.SpontaneousJobTitle, stored.JobTitle)
}

func TestSubmitApplicationRejectsInvalidPayload(t *testing.T) {
	env := newTestEnv(t, nil)

	res, err := env.app.Test(jsonReq("POST", "/applications", `{"prenom": "Amina"}`, false))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	res, err = env.app.Test(jsonReq("POST", "/applications",
		`{"job_id": 99, "prenom": "Amina", "nom": "Said", "email": "amina@example.com", "telephone": "0612345678"}`, false))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "unknown job", decode(t, res)["error"])
}

func TestVerifyDocument(t *testing.T) {
	env := newTestEnv(t, nil)
	env.ledger.records["A1B2C3D4E5F60718"] = &domain.VerificationRecord{
		Code:          "A1B2C3D4E5F60718",
		ApplicationID: 7,
		DocumentType:  domain.DocConvocation,
		CandidateName: "Amina Said",
		JobTitle:      "Comptable",
		Status:        domain.RecordStatusValid,
	}

	// Lookup normalizes case.
	res, err := env.app.Test(jsonReq("GET", "/verify/a1b2c3d4e5f60718", "", false))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	body := decode(t, res)
	assert.Equal(t, true, body["valid"])
	doc := body["document"].(map[string]any)
	assert.Equal(t, "Amina Said", doc["candidate_name"])
	assert.Equal(t, string(domain.DocConvocation), doc["document_type"])
}

func TestVerifyDocumentUnknownCode(t *testing.T) {
	env := newTestEnv(t, nil)

	res, err := env.app.Test(jsonReq("GET", "/verify/DEADBEEF00000000", "", false))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
	assert.Equal(t, false, decode(t, res)["valid"])
}

func TestVerifyRedirect(t *testing.T) {
	env := newTestEnv(t, nil)

	res, err := env.app.Test(jsonReq("POST", "/verify", `{"verification_code": " a1b2c3d4e5f60718 "}`, false))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/verify/A1B2C3D4E5F60718", res.Header.Get("Location"))

	res, err = env.app.Test(jsonReq("POST", "/verify", `{}`, false))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
}

func TestAdminRequiresStaffIdentity(t *testing.T) {
	env := newTestEnv(t, nil)

	res, err := env.app.Test(jsonReq("GET", "/admin/applications/1", "", false))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestAdminPermissionDenied(t *testing.T) {
	env := newTestEnv(t, denyAll{})

	res, err := env.app.Test(jsonReq("GET", "/admin/applications/1", "", true))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, res.StatusCode)
}

func seedApplication(env *testEnv) *domain.Application {
	app := &domain.Application{
		JobTitle:  "Comptable",
		FirstName: "Amina",
		LastName:  "Said",
		Email:     "amina@example.com",
		Phone:     "0612345678",
		Status:    domain.StatusPending,
	}
	jobID := int64(3)
	app.JobID = &jobID
	app.Phase1Status = domain.Phase1Pending
	app.Phase2Status = domain.Phase2Pending
	app.WorkflowPhase = domain.PhasePhase1
	env.apps.Create(context.Background(), app)
	return app
}

func TestPhase1DecisionEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	app := seedApplication(env)

	res, err := env.app.Test(jsonReq("POST", "/admin/applications/1/phase1-decision",
		`{"decision": "selected_for_interview", "interview_date": "2026-09-15 10:00"}`, true), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	body := decode(t, res)
	doc := body["document"].(map[string]any)
	code := doc["verification_code"].(string)
	require.NotEmpty(t, code)
	assert.NotNil(t, body["notification"])

	// The issued code resolves on the public endpoint.
	res, err = env.app.Test(jsonReq("GET", "/verify/"+code, "", false))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	// A second decision conflicts.
	res, err = env.app.Test(jsonReq("POST", "/admin/applications/1/phase1-decision",
		`{"decision": "rejected"}`, true))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, res.StatusCode)

	stored, err := env.apps.GetByID(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Phase1SelectedForInterview, stored.Phase1Status)
}

func TestPhase2DecisionEndpointGuardsPhase1(t *testing.T) {
	env := newTestEnv(t, nil)
	seedApplication(env)

	res, err := env.app.Test(jsonReq("POST", "/admin/applications/1/phase2-decision",
		`{"decision": "accepted", "work_start_date": "2026-10-01"}`, true))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, res.StatusCode)
}

func TestMarkNotificationSentEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	app := seedApplication(env)

	res, err := env.app.Test(jsonReq("POST", "/admin/applications/1/notification-sent?phase=1", "", true))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	stored, err := env.apps.GetByID(context.Background(), app.ID)
	require.NoError(t, err)
	assert.True(t, stored.Phase1NotificationSent)

	res, err = env.app.Test(jsonReq("POST", "/admin/applications/1/notification-sent?phase=9", "", true))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, res.StatusCode)
}

func TestGetApplicationNotFound(t *testing.T) {
	env := newTestEnv(t, nil)

	res, err := env.app.Test(jsonReq("GET", "/admin/applications/42", "", true))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
}

func TestDeleteApplicationEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	app := seedApplication(env)

	res, err := env.app.Test(jsonReq("DELETE", "/admin/applications/1", "", true))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	_, err = env.apps.GetByID(context.Background(), app.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStatsEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	seedApplication(env)

	res, err := env.app.Test(jsonReq("GET", "/admin/stats", "", true))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	body := decode(t, res)
	counts := body["by_status"].(map[string]any)
	assert.Equal(t, float64(1), counts[domain.StatusPending])
}
