package migration

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v4/pgxpool"
)

// RunMigrations executes all necessary database migrations on startup
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("Starting database migrations")

	migrations := []Migration{
		{Name: "create_jobs", Up: createJobs},
		{Name: "create_applications", Up: createApplications},
		{Name: "create_document_verifications", Up: createDocumentVerifications},
	}

	for _, m := range migrations {
		if err := m.Up(ctx, pool); err != nil {
			slog.Error("Migration failed", "name", m.Name, "error", err)
			return err
		}
		slog.Info("Migration completed", "name", m.Name)
	}

	slog.Info("All migrations completed successfully")
	return nil
}

// Migration represents a database migration
type Migration struct {
	Name string
	Up   func(ctx context.Context, pool *pgxpool.Pool) error
}

func createJobs(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS jobs (
			id BIGSERIAL PRIMARY KEY,
			titre TEXT NOT NULL,
			type_job TEXT,
			lieu TEXT,
			department TEXT,
			description TEXT,
			date_limite TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`
	_, err := pool.Exec(ctx, query)
	return err
}

func createApplications(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS applications (
			id BIGSERIAL PRIMARY KEY,
			job_id BIGINT REFERENCES jobs(id),
			job_title TEXT NOT NULL,
			selected_job_title TEXT,
			prenom TEXT NOT NULL,
			nom TEXT NOT NULL,
			email TEXT NOT NULL,
			telephone TEXT NOT NULL,
			adresse TEXT,
			pays TEXT,
			nationalite TEXT,
			niveau_instruction TEXT,
			status TEXT NOT NULL DEFAULT 'en attente',
			workflow_phase TEXT NOT NULL DEFAULT 'phase1',
			phase1_status TEXT NOT NULL DEFAULT 'pending',
			phase1_date TIMESTAMPTZ,
			interview_date TEXT,
			interview_notes TEXT,
			phase2_status TEXT NOT NULL DEFAULT 'pending',
			phase2_date TIMESTAMPTZ,
			work_start_date TEXT,
			rejection_reason TEXT,
			phase1_notification_sent BOOLEAN NOT NULL DEFAULT FALSE,
			phase2_notification_sent BOOLEAN NOT NULL DEFAULT FALSE,
			interview_invitation_pdf TEXT,
			interview_invitation_pdf_ar TEXT,
			acceptance_letter_pdf TEXT,
			acceptance_letter_pdf_ar TEXT,
			form_language TEXT NOT NULL DEFAULT 'fr',
			date_soumission TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_applications_job ON applications (job_id);
		CREATE INDEX IF NOT EXISTS idx_applications_status ON applications (status);
	`
	_, err := pool.Exec(ctx, query)
	return err
}

func createDocumentVerifications(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS document_verifications (
			verification_code TEXT PRIMARY KEY,
			application_id BIGINT NOT NULL REFERENCES applications(id),
			document_type TEXT NOT NULL,
			candidate_name TEXT NOT NULL,
			job_title TEXT NOT NULL,
			issue_date TEXT NOT NULL,
			pdf_path TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'valide',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_document_verifications_application ON document_verifications (application_id);
	`
	_, err := pool.Exec(ctx, query)
	return err
}
