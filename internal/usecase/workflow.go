package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"recruitment-service/internal/domain"
	"recruitment-service/internal/interfaces"
)

// Decision timestamps are recorded in the company's local timezone, as the
// original deployment does.
var localTZ = func() *time.Location {
	loc, err := time.LoadLocation("Indian/Comoro")
	if err != nil {
		return time.UTC
	}
	return loc
}()

// appLocks serializes decisions per application id. Cross-application
// operations never contend.
type appLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func (l *appLocks) get(id int64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locks == nil {
		l.locks = make(map[int64]*sync.Mutex)
	}
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

// Workflow is the two-phase recruitment state machine. It owns every mutation
// of an application's workflow fields; document issuance and notification
// composition hang off qualifying transitions.
type Workflow struct {
	apps     ApplicationsRepo
	ledger   LedgerRepo
	issuer   *Issuer
	producer interfaces.ProducerHandler
	locks    appLocks
	now      func() time.Time
}

func NewWorkflow(apps ApplicationsRepo, ledger LedgerRepo, issuer *Issuer, producer interfaces.ProducerHandler) *Workflow {
	return &Workflow{
		apps:     apps,
		ledger:   ledger,
		issuer:   issuer,
		producer: producer,
		now:      func() time.Time { return time.Now().In(localTZ) },
	}
}

// DecidePhase1 applies the initial screening decision. A selection requires
// an interview date and triggers invitation issuance in both languages; the
// transition commits even when issuance fails (degraded mode), with the
// failure reported on the outcome.
func (w *Workflow) DecidePhase1(ctx context.Context, actor AuthContext, appID int64, d Phase1Decision) (*DecisionOutcome, error) {
	if d.Decision != DecisionSelectedForInterview && d.Decision != DecisionRejected {
		return nil, fmt.Errorf("%w: unknown phase-1 decision %q", domain.ErrInvalidTransition, d.Decision)
	}
	if d.Decision == DecisionSelectedForInterview && d.InterviewDate == "" {
		return nil, fmt.Errorf("%w: interview_date", domain.ErrMissingField)
	}

	lock := w.locks.get(appID)
	lock.Lock()
	defer lock.Unlock()

	app, err := w.apps.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}

	// Bind spontaneous applications to the staff-chosen title before the
	// transition, so issuance and notifications use it.
	if app.Spontaneous() && d.SelectedJobTitle != "" {
		if err := w.apps.SetSelectedJobTitle(ctx, appID, d.SelectedJobTitle); err != nil {
			return nil, fmt.Errorf("save selected job title: %w", err)
		}
		app.SelectedJobTitle = d.SelectedJobTitle
	}

	at := w.now()
	var committed bool
	if d.Decision == DecisionSelectedForInterview {
		committed, err = w.apps.CommitPhase1Selection(ctx, appID, d.InterviewDate, at)
	} else {
		committed, err = w.apps.CommitPhase1Rejection(ctx, appID, d.RejectionReason, at)
	}
	if err != nil {
		return nil, err
	}
	if !committed {
		return nil, fmt.Errorf("%w: phase 1 already decided for application %d", domain.ErrInvalidTransition, appID)
	}

	app.Phase1Status = domain.Phase1Status(d.Decision)
	app.Phase1Date = &at
	if d.Decision == DecisionSelectedForInterview {
		app.InterviewDate = d.InterviewDate
		app.Status = domain.StatusInterviewScheduled
		app.WorkflowPhase = domain.PhasePhase1
	} else {
		app.RejectionReason = d.RejectionReason
		app.Status = domain.StatusRejected
		app.WorkflowPhase = domain.PhaseCompleted
	}

	outcome := &DecisionOutcome{Application: app}
	pdfPath := ""
	if d.Decision == DecisionSelectedForInterview {
		doc, issueErr := w.issuer.IssueInterviewInvitation(ctx, app, nil)
		if issueErr != nil {
			log.Printf("workflow: phase 1 committed for application %d but invitation issuance failed (actor=%s): %v", appID, actor.Username, issueErr)
			outcome.DocumentError = issueErr.Error()
		} else {
			outcome.Document = doc
			if name := doc.Artifacts[domain.LangFR]; name != "" {
				pdfPath = w.issuer.ArtifactPath(domain.DocConvocation, name)
			}
		}
	}

	outcome.Notification = PrepareNotification(app, 1, d.Decision, d.InterviewDate, d.RejectionReason, pdfPath)
	w.publishDecision(app, 1, d.Decision, outcome.Notification)
	return outcome, nil
}

// DecidePhase2 applies the post-interview decision. It requires a passed
// phase 1: deciding phase 2 on a pending or rejected application returns
// ErrInvalidTransition with no state change.
func (w *Workflow) DecidePhase2(ctx context.Context, actor AuthContext, appID int64, d Phase2Decision) (*DecisionOutcome, error) {
	if d.Decision != DecisionAccepted && d.Decision != DecisionRejected {
		return nil, fmt.Errorf("%w: unknown phase-2 decision %q", domain.ErrInvalidTransition, d.Decision)
	}

	lock := w.locks.get(appID)
	lock.Lock()
	defer lock.Unlock()

	app, err := w.apps.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app.Phase1Status != domain.Phase1SelectedForInterview {
		return nil, fmt.Errorf("%w: application %d has not passed phase 1", domain.ErrInvalidTransition, appID)
	}

	if d.InterviewNotes != "" {
		if err := w.apps.SetInterviewNotes(ctx, appID, d.InterviewNotes); err != nil {
			return nil, fmt.Errorf("save interview notes: %w", err)
		}
		app.InterviewNotes = d.InterviewNotes
	}

	at := w.now()
	var committed bool
	if d.Decision == DecisionAccepted {
		committed, err = w.apps.CommitPhase2Acceptance(ctx, appID, d.WorkStartDate, at)
	} else {
		committed, err = w.apps.CommitPhase2Rejection(ctx, appID, d.RejectionReason, at)
	}
	if err != nil {
		return nil, err
	}
	if !committed {
		return nil, fmt.Errorf("%w: phase 2 already decided for application %d", domain.ErrInvalidTransition, appID)
	}

	app.Phase2Status = domain.Phase2Status(d.Decision)
	app.Phase2Date = &at
	app.WorkflowPhase = domain.PhaseCompleted
	if d.Decision == DecisionAccepted {
		app.WorkStartDate = d.WorkStartDate
		app.Status = domain.StatusAccepted
	} else {
		app.RejectionReason = d.RejectionReason
		app.Status = domain.StatusRejected
	}

	outcome := &DecisionOutcome{Application: app}
	pdfPath := ""
	if d.Decision == DecisionAccepted {
		doc, issueErr := w.issuer.IssueAcceptanceLetter(ctx, app, nil)
		if issueErr != nil {
			log.Printf("workflow: phase 2 committed for application %d but letter issuance failed (actor=%s): %v", appID, actor.Username, issueErr)
			outcome.DocumentError = issueErr.Error()
		} else {
			outcome.Document = doc
			if name := doc.Artifacts[domain.LangFR]; name != "" {
				pdfPath = w.issuer.ArtifactPath(domain.DocAcceptation, name)
			}
		}
	}

	outcome.Notification = PrepareNotification(app, 2, d.Decision, "", d.RejectionReason, pdfPath)
	w.publishDecision(app, 2, d.Decision, outcome.Notification)
	return outcome, nil
}

// MarkNotificationSent flips the notification flag for one phase. Purely
// bookkeeping, always an explicit staff action.
func (w *Workflow) MarkNotificationSent(ctx context.Context, actor AuthContext, appID int64, phase int) error {
	if phase != 1 && phase != 2 {
		return fmt.Errorf("%w: phase %d", domain.ErrInvalidTransition, phase)
	}
	if _, err := w.apps.GetByID(ctx, appID); err != nil {
		return err
	}
	return w.apps.SetNotificationSent(ctx, appID, phase)
}

// RegenerateDocument re-runs issuance for an already-decided application
// without touching phase state. The previous artifacts and codes stay valid.
func (w *Workflow) RegenerateDocument(ctx context.Context, actor AuthContext, appID int64, doc domain.DocumentType) (*IssuedDocument, error) {
	if doc != domain.DocConvocation && doc != domain.DocAcceptation {
		return nil, fmt.Errorf("%w: unknown document type %q", domain.ErrInvalidTransition, doc)
	}

	lock := w.locks.get(appID)
	lock.Lock()
	defer lock.Unlock()

	app, err := w.apps.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if doc == domain.DocConvocation {
		return w.issuer.IssueInterviewInvitation(ctx, app, nil)
	}
	return w.issuer.IssueAcceptanceLetter(ctx, app, nil)
}

// DeleteApplication is the administrative delete: stored artifacts, ledger
// rows and the application row go together.
func (w *Workflow) DeleteApplication(ctx context.Context, actor AuthContext, appID int64) error {
	lock := w.locks.get(appID)
	lock.Lock()
	defer lock.Unlock()

	app, err := w.apps.GetByID(ctx, appID)
	if err != nil {
		return err
	}

	w.issuer.RemoveArtifacts(app)
	n, err := w.ledger.DeleteByApplication(ctx, appID)
	if err != nil {
		return fmt.Errorf("delete verification records: %w", err)
	}
	if n > 0 {
		log.Printf("workflow: deleted %d verification record(s) for application %d (actor=%s)", n, appID, actor.Username)
	}
	return w.apps.Delete(ctx, appID)
}

func (w *Workflow) publishDecision(app *domain.Application, phase int, decision string, links *NotificationLinks) {
	if w.producer == nil {
		return
	}
	ev := DecisionEvent{
		ApplicationID: app.ID,
		Phase:         phase,
		Decision:      decision,
		CandidateName: app.CandidateName(),
		JobTitle:      app.EffectiveJobTitle(),
		Email:         app.Email,
		Phone:         app.Phone,
		EmailLink:     links.EmailLink,
		WhatsAppLink:  links.WhatsAppLink,
		OccurredAt:    w.now().Format(time.RFC3339),
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("workflow: marshal decision event: %v", err)
		return
	}
	if err := w.producer.PublishMessage([]byte(strconv.FormatInt(app.ID, 10)), payload); err != nil {
		log.Printf("workflow: publish decision event for application %d: %v", app.ID, err)
	}
}
