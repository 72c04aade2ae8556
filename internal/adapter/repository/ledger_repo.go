package repository

import (
	"context"
	"errors"
	"fmt"

	"recruitment-service/internal/domain"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

// LedgerRepo is the document_verifications store: insert-once records looked
// up by code. No update path exists; rows only leave via the application
// cascade delete.
type LedgerRepo struct {
	pool *pgxpool.Pool
}

func NewLedgerRepo(pool *pgxpool.Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

func (r *LedgerRepo) Record(ctx context.Context, rec *domain.VerificationRecord) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO document_verifications
		(verification_code, application_id, document_type, candidate_name, job_title, issue_date, pdf_path, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		rec.Code, rec.ApplicationID, rec.DocumentType, rec.CandidateName,
		rec.JobTitle, rec.IssueDate, rec.PDFPath, rec.Status)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrCodeCollision
		}
		return fmt.Errorf("insert verification record: %w", err)
	}
	return nil
}

func (r *LedgerRepo) Lookup(ctx context.Context, code string) (*domain.VerificationRecord, error) {
	rec := &domain.VerificationRecord{}
	err := r.pool.QueryRow(ctx, `SELECT verification_code, application_id, document_type,
		candidate_name, job_title, issue_date, pdf_path, status, created_at
		FROM document_verifications WHERE verification_code = $1`, code).Scan(
		&rec.Code, &rec.ApplicationID, &rec.DocumentType,
		&rec.CandidateName, &rec.JobTitle, &rec.IssueDate, &rec.PDFPath, &rec.Status, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup verification record: %w", err)
	}
	return rec, nil
}

func (r *LedgerRepo) DeleteByApplication(ctx context.Context, applicationID int64) (int64, error) {
	ct, err := r.pool.Exec(ctx, `DELETE FROM document_verifications WHERE application_id = $1`, applicationID)
	if err != nil {
		return 0, fmt.Errorf("delete verification records: %w", err)
	}
	return ct.RowsAffected(), nil
}
