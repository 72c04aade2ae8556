package http

import (
	"errors"
	"log"
	"strconv"
	"time"

	"recruitment-service/internal/domain"
	"recruitment-service/internal/model"
	"recruitment-service/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

// Authorizer is the external permission oracle: role-to-action resolution
// happens outside this service, the handlers only ask for a boolean.
type Authorizer interface {
	Can(actor usecase.AuthContext, action string) bool
}

// AllowAll grants everything; used when no oracle is wired (e.g. behind a
// gateway that already enforced permissions).
type AllowAll struct{}

func (AllowAll) Can(usecase.AuthContext, string) bool { return true }

type Handler struct {
	wf     *usecase.Workflow
	apps   usecase.ApplicationsRepo
	jobs   usecase.JobsRepo
	ledger usecase.LedgerRepo
	issuer *usecase.Issuer
	auth   Authorizer
}

func NewHandler(wf *usecase.Workflow, apps usecase.ApplicationsRepo, jobs usecase.JobsRepo, ledger usecase.LedgerRepo, issuer *usecase.Issuer, auth Authorizer) *Handler {
	if auth == nil {
		auth = AllowAll{}
	}
	return &Handler{wf: wf, apps: apps, jobs: jobs, ledger: ledger, issuer: issuer, auth: auth}
}

// Register mounts all routes. /verify is public; /admin routes expect the
// gateway to have authenticated the staff actor (identity headers).
func (h *Handler) Register(app *fiber.App) {
	app.Post("/applications", h.SubmitApplication)
	app.Get("/verify/:code", h.VerifyDocument)
	app.Post("/verify", h.VerifyRedirect)

	admin := app.Group("/admin", h.staffContext)
	admin.Get("/stats", h.require("view_applications"), h.Stats)
	admin.Get("/applications/:id", h.require("view_applications"), h.GetApplication)
	admin.Delete("/applications/:id", h.require("delete_application"), h.DeleteApplication)
	admin.Post("/applications/:id/phase1-decision", h.require("edit_application"), h.Phase1Decision)
	admin.Post("/applications/:id/phase2-decision", h.require("edit_application"), h.Phase2Decision)
	admin.Post("/applications/:id/notification-sent", h.require("edit_application"), h.MarkNotificationSent)
	admin.Post("/applications/:id/documents/:type/regenerate", h.require("edit_application"), h.RegenerateDocument)
	admin.Get("/applications/:id/documents/:type", h.require("view_applications"), h.DownloadDocument)
}

// staffContext resolves the authenticated actor from gateway headers into an
// AuthContext, once per request; nothing downstream reads ambient state.
func (h *Handler) staffContext(c *fiber.Ctx) error {
	id, _ := strconv.ParseInt(c.Get("X-Employee-Id"), 10, 64)
	actor := usecase.AuthContext{
		EmployeeID: id,
		Username:   c.Get("X-Employee-Username"),
		Role:       c.Get("X-Employee-Role"),
	}
	if actor.Username == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing staff identity"})
	}
	c.Locals("actor", actor)
	return c.Next()
}

func (h *Handler) require(action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := c.Locals("actor").(usecase.AuthContext)
		if !h.auth.Can(actor, action) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "permission denied"})
		}
		return c.Next()
	}
}

func actorFrom(c *fiber.Ctx) usecase.AuthContext {
	actor, _ := c.Locals("actor").(usecase.AuthContext)
	return actor
}

func (h *Handler) SubmitApplication(c *fiber.Ctx) error {
	body := c.Body()
	if err := model.ValidateSubmission(body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	var sub model.Submission
	if err := c.BodyParser(&sub); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	app := &domain.Application{
		FirstName:      sub.FirstName,
		LastName:       sub.LastName,
		Email:          sub.Email,
		Phone:          sub.Phone,
		Address:        sub.Address,
		Country:        sub.Country,
		Nationality:    sub.Nationality,
		EducationLevel: sub.EducationLevel,
		Status:         domain.StatusPending,
		WorkflowPhase:  domain.PhasePhase1,
		Phase1Status:   domain.Phase1Pending,
		Phase2Status:   domain.Phase2Pending,
		FormLanguage:   domain.LangFR,
		SubmittedAt:    time.Now(),
	}
	if sub.FormLanguage == string(domain.LangAR) {
		app.FormLanguage = domain.LangAR
	}

	// job_id 0 or absent means a spontaneous application; otherwise snapshot
	// the posting title at submission time.
	if sub.JobID > 0 {
		job, err := h.jobs.GetByID(c.Context(), sub.JobID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown job"})
			}
			return h.fail(c, err)
		}
		app.JobID = &job.ID
		app.JobTitle = job.Title
	} else {
		app.JobTitle = domain.SpontaneousJobTitle
	}

	id, err := h.apps.Create(c.Context(), app)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id, "status": app.Status})
}

// VerifyDocument is the public, unauthenticated authenticity lookup. The code
// itself is the credential; any holder may confirm a document. Internal
// detail never leaks: the answer is the record, or not found.
func (h *Handler) VerifyDocument(c *fiber.Ctx) error {
	code := usecase.NormalizeCode(c.Params("code"))
	rec, err := h.ledger.Lookup(c.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"valid": false, "verification_code": code})
		}
		log.Printf("verify %s: %v", code, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"valid": false})
	}
	return c.JSON(fiber.Map{"valid": true, "document": rec})
}

func (h *Handler) VerifyRedirect(c *fiber.Ctx) error {
	var req struct {
		Code string `json:"verification_code" form:"verification_code"`
	}
	if err := c.BodyParser(&req); err != nil || req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "verification_code required"})
	}
	return c.Redirect("/verify/"+usecase.NormalizeCode(req.Code), fiber.StatusSeeOther)
}

func (h *Handler) GetApplication(c *fiber.Ctx) error {
	id, err := appID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}
	app, err := h.apps.GetByID(c.Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(app)
}

func (h *Handler) DeleteApplication(c *fiber.Ctx) error {
	id, err := appID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}
	if err := h.wf.DeleteApplication(c.Context(), actorFrom(c), id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"deleted": id})
}

func (h *Handler) Phase1Decision(c *fiber.Ctx) error {
	id, err := appID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}
	var d usecase.Phase1Decision
	if err := c.BodyParser(&d); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	outcome, err := h.wf.DecidePhase1(c.Context(), actorFrom(c), id, d)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(outcome)
}

func (h *Handler) Phase2Decision(c *fiber.Ctx) error {
	id, err := appID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}
	var d usecase.Phase2Decision
	if err := c.BodyParser(&d); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	outcome, err := h.wf.DecidePhase2(c.Context(), actorFrom(c), id, d)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(outcome)
}

func (h *Handler) MarkNotificationSent(c *fiber.Ctx) error {
	id, err := appID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}
	phase := c.QueryInt("phase")
	if err := h.wf.MarkNotificationSent(c.Context(), actorFrom(c), id, phase); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"application_id": id, "phase": phase, "notification_sent": true})
}

func (h *Handler) RegenerateDocument(c *fiber.Ctx) error {
	id, err := appID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}
	doc := domain.DocumentType(c.Params("type"))
	issued, err := h.wf.RegenerateDocument(c.Context(), actorFrom(c), id, doc)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(issued)
}

func (h *Handler) DownloadDocument(c *fiber.Ctx) error {
	id, err := appID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}
	doc := domain.DocumentType(c.Params("type"))
	if doc != domain.DocConvocation && doc != domain.DocAcceptation {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown document type"})
	}
	lang := domain.Language(c.Query("lang", string(domain.LangFR)))

	app, err := h.apps.GetByID(c.Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	name := app.DocumentRef(doc, lang)
	if name == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "document not generated"})
	}
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.SendFile(h.issuer.ArtifactPath(doc, name))
}

func (h *Handler) Stats(c *fiber.Ctx) error {
	counts, err := h.apps.CountByStatus(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"by_status": counts})
}

func appID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

// fail maps domain errors to HTTP statuses.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrMissingField):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Printf("handler: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}
