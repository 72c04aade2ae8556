package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recruitment-service/internal/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const applicationColumns = `id, job_id, job_title, COALESCE(selected_job_title, ''),
	prenom, nom, email, telephone, COALESCE(adresse, ''), COALESCE(pays, ''),
	COALESCE(nationalite, ''), COALESCE(niveau_instruction, ''),
	status, workflow_phase, phase1_status, phase1_date,
	COALESCE(interview_date, ''), COALESCE(interview_notes, ''),
	phase2_status, phase2_date, COALESCE(work_start_date, ''), COALESCE(rejection_reason, ''),
	phase1_notification_sent, phase2_notification_sent,
	COALESCE(interview_invitation_pdf, ''), COALESCE(interview_invitation_pdf_ar, ''),
	COALESCE(acceptance_letter_pdf, ''), COALESCE(acceptance_letter_pdf_ar, ''),
	form_language, date_soumission`

type ApplicationsRepo struct {
	pool *pgxpool.Pool
}

func NewApplicationsRepo(pool *pgxpool.Pool) *ApplicationsRepo {
	return &ApplicationsRepo{pool: pool}
}

func (r *ApplicationsRepo) Create(ctx context.Context, a *domain.Application) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO applications
		(job_id, job_title, prenom, nom, email, telephone, adresse, pays, nationalite, niveau_instruction,
		 status, workflow_phase, phase1_status, phase2_status, form_language, date_soumission)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		RETURNING id`,
		a.JobID, a.JobTitle, a.FirstName, a.LastName, a.Email, a.Phone, a.Address, a.Country,
		a.Nationality, a.EducationLevel, a.Status, a.WorkflowPhase, a.Phase1Status, a.Phase2Status,
		a.FormLanguage, a.SubmittedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert application: %w", err)
	}
	a.ID = id
	return id, nil
}

func (r *ApplicationsRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	return scanApplication(row)
}

func scanApplication(row pgx.Row) (*domain.Application, error) {
	a := &domain.Application{}
	err := row.Scan(
		&a.ID, &a.JobID, &a.JobTitle, &a.SelectedJobTitle,
		&a.FirstName, &a.LastName, &a.Email, &a.Phone, &a.Address, &a.Country,
		&a.Nationality, &a.EducationLevel,
		&a.Status, &a.WorkflowPhase, &a.Phase1Status, &a.Phase1Date,
		&a.InterviewDate, &a.InterviewNotes,
		&a.Phase2Status, &a.Phase2Date, &a.WorkStartDate, &a.RejectionReason,
		&a.Phase1NotificationSent, &a.Phase2NotificationSent,
		&a.InterviewInvitationPDF, &a.InterviewInvitationPDFAr,
		&a.AcceptanceLetterPDF, &a.AcceptanceLetterPDFAr,
		&a.FormLanguage, &a.SubmittedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan application: %w", err)
	}
	return a, nil
}

func (r *ApplicationsRepo) SetSelectedJobTitle(ctx context.Context, id int64, title string) error {
	return r.exec(ctx, id, `UPDATE applications SET selected_job_title = $2 WHERE id = $1`, title)
}

func (r *ApplicationsRepo) SetInterviewNotes(ctx context.Context, id int64, notes string) error {
	return r.exec(ctx, id, `UPDATE applications SET interview_notes = $2 WHERE id = $1`, notes)
}

// CommitPhase1Selection applies the selection transition only if phase 1 is
// still pending; a false return means a decision already committed.
func (r *ApplicationsRepo) CommitPhase1Selection(ctx context.Context, id int64, interviewDate string, at time.Time) (bool, error) {
	ct, err := r.pool.Exec(ctx, `UPDATE applications
		SET phase1_status = $2, phase1_date = $3, interview_date = $4,
		    workflow_phase = $5, status = $6
		WHERE id = $1 AND phase1_status = $7`,
		id, domain.Phase1SelectedForInterview, at, interviewDate,
		domain.PhasePhase1, domain.StatusInterviewScheduled, domain.Phase1Pending)
	if err != nil {
		return false, fmt.Errorf("commit phase 1 selection: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *ApplicationsRepo) CommitPhase1Rejection(ctx context.Context, id int64, reason string, at time.Time) (bool, error) {
	ct, err := r.pool.Exec(ctx, `UPDATE applications
		SET phase1_status = $2, phase1_date = $3, rejection_reason = $4,
		    workflow_phase = $5, status = $6
		WHERE id = $1 AND phase1_status = $7`,
		id, domain.Phase1Rejected, at, reason,
		domain.PhaseCompleted, domain.StatusRejected, domain.Phase1Pending)
	if err != nil {
		return false, fmt.Errorf("commit phase 1 rejection: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

// CommitPhase2Acceptance additionally guards on a passed phase 1, so an
// application rejected at screening can never reach phase 2 even if the
// caller skipped its own check.
func (r *ApplicationsRepo) CommitPhase2Acceptance(ctx context.Context, id int64, workStartDate string, at time.Time) (bool, error) {
	ct, err := r.pool.Exec(ctx, `UPDATE applications
		SET phase2_status = $2, phase2_date = $3, work_start_date = $4,
		    workflow_phase = $5, status = $6
		WHERE id = $1 AND phase1_status = $7 AND phase2_status = $8`,
		id, domain.Phase2Accepted, at, workStartDate,
		domain.PhaseCompleted, domain.StatusAccepted,
		domain.Phase1SelectedForInterview, domain.Phase2Pending)
	if err != nil {
		return false, fmt.Errorf("commit phase 2 acceptance: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *ApplicationsRepo) CommitPhase2Rejection(ctx context.Context, id int64, reason string, at time.Time) (bool, error) {
	ct, err := r.pool.Exec(ctx, `UPDATE applications
		SET phase2_status = $2, phase2_date = $3, rejection_reason = $4,
		    workflow_phase = $5, status = $6
		WHERE id = $1 AND phase1_status = $7 AND phase2_status = $8`,
		id, domain.Phase2Rejected, at, reason,
		domain.PhaseCompleted, domain.StatusRejected,
		domain.Phase1SelectedForInterview, domain.Phase2Pending)
	if err != nil {
		return false, fmt.Errorf("commit phase 2 rejection: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *ApplicationsRepo) SetDocumentRefs(ctx context.Context, id int64, doc domain.DocumentType, refs map[domain.Language]string) error {
	for lang, name := range refs {
		col := ""
		switch {
		case doc == domain.DocConvocation && lang == domain.LangAR:
			col = "interview_invitation_pdf_ar"
		case doc == domain.DocConvocation:
			col = "interview_invitation_pdf"
		case doc == domain.DocAcceptation && lang == domain.LangAR:
			col = "acceptance_letter_pdf_ar"
		default:
			col = "acceptance_letter_pdf"
		}
		if err := r.exec(ctx, id, `UPDATE applications SET `+col+` = $2 WHERE id = $1`, name); err != nil {
			return err
		}
	}
	return nil
}

func (r *ApplicationsRepo) SetNotificationSent(ctx context.Context, id int64, phase int) error {
	col := "phase1_notification_sent"
	if phase == 2 {
		col = "phase2_notification_sent"
	}
	ct, err := r.pool.Exec(ctx, `UPDATE applications SET `+col+` = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark notification sent: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ApplicationsRepo) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ApplicationsRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM applications GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		out[status] = n
	}
	return out, rows.Err()
}

func (r *ApplicationsRepo) exec(ctx context.Context, id int64, sql string, arg interface{}) error {
	ct, err := r.pool.Exec(ctx, sql, id, arg)
	if err != nil {
		return fmt.Errorf("update application %d: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
