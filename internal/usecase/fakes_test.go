package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"recruitment-service/internal/domain"
)

// In-memory doubles mirroring the SQL repositories' semantics, including the
// compare-and-swap phase commits.

type memApps struct {
	mu   sync.Mutex
	seq  int64
	apps map[int64]*domain.Application
}

func newMemApps() *memApps {
	return &memApps{apps: make(map[int64]*domain.Application)}
}

func (m *memApps) add(app *domain.Application) *domain.Application {
	m.mu.Lock()
	defer m.mu.Unlock()
	if app.ID == 0 {
		m.seq++
		app.ID = m.seq
	} else if app.ID > m.seq {
		m.seq = app.ID
	}
	if app.Status == "" {
		app.Status = domain.StatusPending
	}
	if app.Phase1Status == "" {
		app.Phase1Status = domain.Phase1Pending
	}
	if app.Phase2Status == "" {
		app.Phase2Status = domain.Phase2Pending
	}
	if app.WorkflowPhase == "" {
		app.WorkflowPhase = domain.PhasePhase1
	}
	m.apps[app.ID] = app
	return app
}

func (m *memApps) Create(_ context.Context, app *domain.Application) (int64, error) {
	return m.add(app).ID, nil
}

func (m *memApps) GetByID(_ context.Context, id int64) (*domain.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *app
	return &cp, nil
}

func (m *memApps) mutate(id int64, fn func(*domain.Application)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[id]
	if !ok {
		return domain.ErrNotFound
	}
	fn(app)
	return nil
}

func (m *memApps) SetSelectedJobTitle(_ context.Context, id int64, title string) error {
	return m.mutate(id, func(a *domain.Application) { a.SelectedJobTitle = title })
}

func (m *memApps) SetInterviewNotes(_ context.Context, id int64, notes string) error {
	return m.mutate(id, func(a *domain.Application) { a.InterviewNotes = notes })
}

func (m *memApps) CommitPhase1Selection(_ context.Context, id int64, interviewDate string, at time.Time) (bool, error) {
	committed := false
	err := m.mutate(id, func(a *domain.Application) {
		if a.Phase1Status != domain.Phase1Pending {
			return
		}
		a.Phase1Status = domain.Phase1SelectedForInterview
		a.Phase1Date = &at
		a.InterviewDate = interviewDate
		a.WorkflowPhase = domain.PhasePhase1
		a.Status = domain.StatusInterviewScheduled
		committed = true
	})
	return committed, err
}

func (m *memApps) CommitPhase1Rejection(_ context.Context, id int64, reason string, at time.Time) (bool, error) {
	committed := false
	err := m.mutate(id, func(a *domain.Application) {
		if a.Phase1Status != domain.Phase1Pending {
			return
		}
		a.Phase1Status = domain.Phase1Rejected
		a.Phase1Date = &at
		a.RejectionReason = reason
		a.WorkflowPhase = domain.PhaseCompleted
		a.Status = domain.StatusRejected
		committed = true
	})
	return committed, err
}

func (m *memApps) CommitPhase2Acceptance(_ context.Context, id int64, workStartDate string, at time.Time) (bool, error) {
	committed := false
	err := m.mutate(id, func(a *domain.Application) {
		if a.Phase1Status != domain.Phase1SelectedForInterview || a.Phase2Status != domain.Phase2Pending {
			return
		}
		a.Phase2Status = domain.Phase2Accepted
		a.Phase2Date = &at
		a.WorkStartDate = workStartDate
		a.WorkflowPhase = domain.PhaseCompleted
		a.Status = domain.StatusAccepted
		committed = true
	})
	return committed, err
}

func (m *memApps) CommitPhase2Rejection(_ context.Context, id int64, reason string, at time.Time) (bool, error) {
	committed := false
	err := m.mutate(id, func(a *domain.Application) {
		if a.Phase1Status != domain.Phase1SelectedForInterview || a.Phase2Status != domain.Phase2Pending {
			return
		}
		a.Phase2Status = domain.Phase2Rejected
		a.Phase2Date = &at
		a.RejectionReason = reason
		a.WorkflowPhase = domain.PhaseCompleted
		a.Status = domain.StatusRejected
		committed = true
	})
	return committed, err
}

func (m *memApps) SetDocumentRefs(_ context.Context, id int64, doc domain.DocumentType, refs map[domain.Language]string) error {
	return m.mutate(id, func(a *domain.Application) {
		for lang, name := range refs {
			switch {
			case doc == domain.DocConvocation && lang == domain.LangAR:
				a.InterviewInvitationPDFAr = name
			case doc == domain.DocConvocation:
				a.InterviewInvitationPDF = name
			case doc == domain.DocAcceptation && lang == domain.LangAR:
				a.AcceptanceLetterPDFAr = name
			default:
				a.AcceptanceLetterPDF = name
			}
		}
	})
}

func (m *memApps) SetNotificationSent(_ context.Context, id int64, phase int) error {
	return m.mutate(id, func(a *domain.Application) {
		if phase == 1 {
			a.Phase1NotificationSent = true
		} else {
			a.Phase2NotificationSent = true
		}
	})
}

func (m *memApps) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.apps[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.apps, id)
	return nil
}

func (m *memApps) CountByStatus(_ context.Context) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]int{}
	for _, a := range m.apps {
		out[a.Status]++
	}
	return out, nil
}

type memLedger struct {
	mu      sync.Mutex
	records map[string]*domain.VerificationRecord
}

func newMemLedger() *memLedger {
	return &memLedger{records: make(map[string]*domain.VerificationRecord)}
}

func (m *memLedger) Record(_ context.Context, rec *domain.VerificationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.records[rec.Code]; exists {
		return domain.ErrCodeCollision
	}
	cp := *rec
	cp.CreatedAt = time.Now()
	m.records[rec.Code] = &cp
	return nil
}

func (m *memLedger) Lookup(_ context.Context, code string) (*domain.VerificationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *memLedger) DeleteByApplication(_ context.Context, applicationID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for code, rec := range m.records {
		if rec.ApplicationID == applicationID {
			delete(m.records, code)
			n++
		}
	}
	return n, nil
}

func (m *memLedger) byApplication(id int64) []*domain.VerificationRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.VerificationRecord
	for _, rec := range m.records {
		if rec.ApplicationID == id {
			out = append(out, rec)
		}
	}
	return out
}

// fakeRenderer records rendered HTML bodies instead of driving Chrome.
type fakeRenderer struct {
	mu    sync.Mutex
	htmls []string
	fail  bool
}

func (r *fakeRenderer) RenderHTMLToPDF(_ context.Context, html string) ([]byte, error) {
	if r.fail {
		return nil, fmt.Errorf("chrome exited")
	}
	r.mu.Lock()
	r.htmls = append(r.htmls, html)
	r.mu.Unlock()
	return []byte("%PDF-1.4\n" + html), nil
}

type memProducer struct {
	mu       sync.Mutex
	messages [][]byte
}

func (p *memProducer) PublishMessage(_, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, value)
	return nil
}
