package usecase

import (
	"context"
	"time"

	"recruitment-service/internal/domain"
)

// Renderer turns a document HTML body into PDF bytes.
type Renderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

// ApplicationsRepo is the persistence surface for applications. The
// CommitPhase* methods apply the transition with a compare-and-swap on the
// current phase status and report whether a row was updated, so only one
// decision can commit per application per phase.
type ApplicationsRepo interface {
	Create(ctx context.Context, app *domain.Application) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Application, error)
	SetSelectedJobTitle(ctx context.Context, id int64, title string) error
	SetInterviewNotes(ctx context.Context, id int64, notes string) error
	CommitPhase1Selection(ctx context.Context, id int64, interviewDate string, at time.Time) (bool, error)
	CommitPhase1Rejection(ctx context.Context, id int64, reason string, at time.Time) (bool, error)
	CommitPhase2Acceptance(ctx context.Context, id int64, workStartDate string, at time.Time) (bool, error)
	CommitPhase2Rejection(ctx context.Context, id int64, reason string, at time.Time) (bool, error)
	SetDocumentRefs(ctx context.Context, id int64, doc domain.DocumentType, refs map[domain.Language]string) error
	SetNotificationSent(ctx context.Context, id int64, phase int) error
	Delete(ctx context.Context, id int64) error
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// LedgerRepo is the append-only verification ledger. Record returns
// domain.ErrCodeCollision when the code already exists.
type LedgerRepo interface {
	Record(ctx context.Context, rec *domain.VerificationRecord) error
	Lookup(ctx context.Context, code string) (*domain.VerificationRecord, error)
	DeleteByApplication(ctx context.Context, applicationID int64) (int64, error)
}

// JobsRepo resolves postings referenced by applications.
type JobsRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Job, error)
}

// AuthContext identifies the already-authorized staff actor. Authorization
// itself happens at the request boundary; the workflow only records who acted.
type AuthContext struct {
	EmployeeID int64
	Username   string
	Role       string
}

// Decision values accepted by the two phases.
const (
	DecisionSelectedForInterview = "selected_for_interview"
	DecisionRejected             = "rejected"
	DecisionAccepted             = "accepted"
)

type Phase1Decision struct {
	Decision         string `json:"decision"`
	InterviewDate    string `json:"interview_date,omitempty"`
	RejectionReason  string `json:"rejection_reason,omitempty"`
	SelectedJobTitle string `json:"selected_job_title,omitempty"`
}

type Phase2Decision struct {
	Decision        string `json:"decision"`
	WorkStartDate   string `json:"work_start_date,omitempty"`
	RejectionReason string `json:"rejection_reason,omitempty"`
	InterviewNotes  string `json:"interview_notes,omitempty"`
}

// IssuedDocument is the result of one issuance event: a single verification
// code shared by every rendered language variant.
type IssuedDocument struct {
	RequestID string                     `json:"request_id"`
	Code      string                     `json:"verification_code"`
	Type      domain.DocumentType        `json:"document_type"`
	Artifacts map[domain.Language]string `json:"artifacts"`
}

// NotificationLinks carries the pre-filled contact links handed back to staff
// after a decision.
type NotificationLinks struct {
	EmailSubject    string `json:"email_subject"`
	EmailBody       string `json:"email_body"`
	EmailLink       string `json:"email_link"`
	WhatsAppMessage string `json:"whatsapp_message"`
	WhatsAppLink    string `json:"whatsapp_link"`
	PDFPath         string `json:"pdf_path,omitempty"`
}

// DecisionOutcome is what a committed phase decision returns. DocumentError
// is set when the transition committed but issuance failed (degraded mode);
// the caller must present both facts.
type DecisionOutcome struct {
	Application   *domain.Application `json:"application"`
	Document      *IssuedDocument     `json:"document,omitempty"`
	DocumentError string              `json:"document_error,omitempty"`
	Notification  *NotificationLinks  `json:"notification"`
}

// DecisionEvent is the message published to the decision topic after a
// committed transition, consumed by the mail service.
type DecisionEvent struct {
	ApplicationID int64  `json:"application_id"`
	Phase         int    `json:"phase"`
	Decision      string `json:"decision"`
	CandidateName string `json:"candidate_name"`
	JobTitle      string `json:"job_title"`
	Email         string `json:"email"`
	Phone         string `json:"telephone"`
	EmailLink     string `json:"email_link"`
	WhatsAppLink  string `json:"whatsapp_link"`
	OccurredAt    string `json:"occurred_at"`
}
