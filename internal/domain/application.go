package domain

import (
	"time"
)

// Workflow phase of an application. An application sits in phase1 until a
// terminal decision (any rejection, or a phase-2 acceptance) moves it to
// completed.
type WorkflowPhase string

const (
	PhasePhase1    WorkflowPhase = "phase1"
	PhaseCompleted WorkflowPhase = "completed"
)

type Phase1Status string

const (
	Phase1Pending              Phase1Status = "pending"
	Phase1SelectedForInterview Phase1Status = "selected_for_interview"
	Phase1Rejected             Phase1Status = "rejected"
)

type Phase2Status string

const (
	Phase2Pending  Phase2Status = "pending"
	Phase2Accepted Phase2Status = "accepted"
	Phase2Rejected Phase2Status = "rejected"
)

// Denormalized human-readable status labels, kept in French as displayed to
// staff and candidates.
const (
	StatusPending            = "en attente"
	StatusInterviewScheduled = "interview programmé"
	StatusAccepted           = "acceptée"
	StatusRejected           = "rejetée"
)

type DocumentType string

const (
	DocConvocation DocumentType = "convocation"
	DocAcceptation DocumentType = "acceptation"
)

type Language string

const (
	LangFR Language = "fr"
	LangAR Language = "ar"
)

// SpontaneousJobTitle is the placeholder title shown for applications not tied
// to a specific posting, until staff select one at phase-1 decision time.
const SpontaneousJobTitle = "Candidature spontanée"

// Application is a candidate's submission, either for a specific job posting
// or spontaneous (JobID nil). Profile fields are immutable after submission;
// the workflow fields are owned by the workflow state machine.
type Application struct {
	ID               int64  `json:"id"`
	JobID            *int64 `json:"job_id,omitempty"`
	JobTitle         string `json:"job_title"`
	SelectedJobTitle string `json:"selected_job_title,omitempty"`

	FirstName      string `json:"prenom"`
	LastName       string `json:"nom"`
	Email          string `json:"email"`
	Phone          string `json:"telephone"`
	Address        string `json:"adresse,omitempty"`
	Country        string `json:"pays,omitempty"`
	Nationality    string `json:"nationalite,omitempty"`
	EducationLevel string `json:"niveau_instruction,omitempty"`

	Status        string        `json:"status"`
	WorkflowPhase WorkflowPhase `json:"workflow_phase"`

	Phase1Status    Phase1Status `json:"phase1_status"`
	Phase1Date      *time.Time   `json:"phase1_date,omitempty"`
	InterviewDate   string       `json:"interview_date,omitempty"`
	InterviewNotes  string       `json:"interview_notes,omitempty"`
	Phase2Status    Phase2Status `json:"phase2_status,omitempty"`
	Phase2Date      *time.Time   `json:"phase2_date,omitempty"`
	WorkStartDate   string       `json:"work_start_date,omitempty"`
	RejectionReason string       `json:"rejection_reason,omitempty"`

	Phase1NotificationSent bool `json:"phase1_notification_sent"`
	Phase2NotificationSent bool `json:"phase2_notification_sent"`

	InterviewInvitationPDF   string `json:"interview_invitation_pdf,omitempty"`
	InterviewInvitationPDFAr string `json:"interview_invitation_pdf_ar,omitempty"`
	AcceptanceLetterPDF      string `json:"acceptance_letter_pdf,omitempty"`
	AcceptanceLetterPDFAr    string `json:"acceptance_letter_pdf_ar,omitempty"`

	FormLanguage Language  `json:"form_language"`
	SubmittedAt  time.Time `json:"date_soumission"`
}

// CandidateName is the display name used on documents and in the ledger.
func (a *Application) CandidateName() string {
	return a.FirstName + " " + a.LastName
}

// EffectiveJobTitle resolves the title shown on documents: the staff-selected
// title for spontaneous applications when present, otherwise the title
// snapshotted at submission.
func (a *Application) EffectiveJobTitle() string {
	if a.SelectedJobTitle != "" {
		return a.SelectedJobTitle
	}
	return a.JobTitle
}

// Spontaneous reports whether the application targets no specific posting.
func (a *Application) Spontaneous() bool {
	return a.JobID == nil
}

// DocumentRef returns the stored artifact name for a document type and
// language, or "" when that variant was never generated.
func (a *Application) DocumentRef(doc DocumentType, lang Language) string {
	switch {
	case doc == DocConvocation && lang == LangAR:
		return a.InterviewInvitationPDFAr
	case doc == DocConvocation:
		return a.InterviewInvitationPDF
	case doc == DocAcceptation && lang == LangAR:
		return a.AcceptanceLetterPDFAr
	default:
		return a.AcceptanceLetterPDF
	}
}

// Job is a posting, read-only from the workflow's perspective.
type Job struct {
	ID          int64     `json:"id"`
	Title       string    `json:"titre"`
	Type        string    `json:"type_job,omitempty"`
	Location    string    `json:"lieu,omitempty"`
	Department  string    `json:"department,omitempty"`
	Description string    `json:"description,omitempty"`
	Deadline    string    `json:"date_limite,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
