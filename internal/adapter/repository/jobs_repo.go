package repository

import (
	"context"
	"errors"
	"fmt"

	"recruitment-service/internal/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type JobsRepo struct {
	pool *pgxpool.Pool
}

func NewJobsRepo(pool *pgxpool.Pool) *JobsRepo {
	return &JobsRepo{pool: pool}
}

func (r *JobsRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	j := &domain.Job{}
	err := r.pool.QueryRow(ctx, `SELECT id, titre, COALESCE(type_job, ''), COALESCE(lieu, ''),
		COALESCE(department, ''), COALESCE(description, ''), COALESCE(date_limite, ''), created_at
		FROM jobs WHERE id = $1`, id).Scan(
		&j.ID, &j.Title, &j.Type, &j.Location, &j.Department, &j.Description, &j.Deadline, &j.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return j, nil
}
