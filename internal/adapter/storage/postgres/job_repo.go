package postgres

import (
	"context"
	"fmt"

	"provider-settlement/internal/core/domain"

	"github.com/google/uuid"
)

// JobRepo implements ports.JobRepository over the booking subsystem's
// completed_jobs table. Read-only from this service's point of view.
type JobRepo struct {
	pool Pool
}

// NewJobRepo creates a new JobRepo.
func NewJobRepo(pool Pool) *JobRepo {
	return &JobRepo{pool: pool}
}

// ListCompletedByProvider returns every completed job for a provider, newest first.
func (r *JobRepo) ListCompletedByProvider(ctx context.Context, providerID uuid.UUID) ([]domain.CompletedJob, error) {
	query := `SELECT id, provider_id, gross_amount, payment_channel, completed_at
		FROM completed_jobs WHERE provider_id = $1 ORDER BY completed_at DESC`

	rows, err := r.pool.Query(ctx, query, providerID)
	if err != nil {
		return nil, fmt.Errorf("list completed jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.CompletedJob
	for rows.Next() {
		var j domain.CompletedJob
		if err := rows.Scan(&j.ID, &j.ProviderID, &j.GrossAmount, &j.PaymentChannel, &j.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan completed job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completed jobs: %w", err)
	}
	return jobs, nil
}
