package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"provider-settlement/internal/core/domain"
	"provider-settlement/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// WithdrawalRepo implements ports.WithdrawalRepository. Payout details are
// stored as a JSONB document keyed by the request's method.
type WithdrawalRepo struct {
	pool Pool
}

// NewWithdrawalRepo creates a new WithdrawalRepo.
func NewWithdrawalRepo(pool Pool) *WithdrawalRepo {
	return &WithdrawalRepo{pool: pool}
}

const withdrawalColumns = `id, provider_id, amount, locked_amount, method, details,
	status, admin_notes, requested_at, processed_at`

func scanWithdrawal(row pgx.Row) (*domain.WithdrawalRequest, error) {
	r := &domain.WithdrawalRequest{}
	var details []byte
	err := row.Scan(
		&r.ID, &r.ProviderID, &r.Amount, &r.LockedAmount, &r.Method, &details,
		&r.Status, &r.AdminNotes, &r.RequestedAt, &r.ProcessedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &r.Details); err != nil {
			return nil, fmt.Errorf("unmarshal payout details: %w", err)
		}
	}
	return r, nil
}

// Create inserts a new withdrawal request within a transaction.
func (repo *WithdrawalRepo) Create(ctx context.Context, tx pgx.Tx, r *domain.WithdrawalRequest) error {
	details, err := json.Marshal(r.Details)
	if err != nil {
		return fmt.Errorf("marshal payout details: %w", err)
	}

	query := `INSERT INTO withdrawal_requests (id, provider_id, amount, locked_amount, method,
		details, status, admin_notes, requested_at, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = tx.Exec(ctx, query,
		r.ID, r.ProviderID, r.Amount, r.LockedAmount, r.Method,
		details, r.Status, r.AdminNotes, r.RequestedAt, r.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("insert withdrawal request: %w", err)
	}
	return nil
}

// GetByID fetches a withdrawal request (non-locking read).
func (repo *WithdrawalRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WithdrawalRequest, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE id = $1`

	r, err := scanWithdrawal(repo.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get withdrawal by id: %w", err)
	}
	return r, nil
}

// GetByIDForUpdate fetches a withdrawal request with pessimistic locking.
// This MUST be called within a transaction.
func (repo *WithdrawalRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.WithdrawalRequest, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE id = $1 FOR UPDATE`

	r, err := scanWithdrawal(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get withdrawal for update: %w", err)
	}
	return r, nil
}

// Update rewrites the mutable fields of a withdrawal request within a transaction.
func (repo *WithdrawalRepo) Update(ctx context.Context, tx pgx.Tx, r *domain.WithdrawalRequest) error {
	details, err := json.Marshal(r.Details)
	if err != nil {
		return fmt.Errorf("marshal payout details: %w", err)
	}

	query := `UPDATE withdrawal_requests SET amount = $1, locked_amount = $2, method = $3,
		details = $4, status = $5, admin_notes = $6, requested_at = $7, processed_at = $8
		WHERE id = $9`

	tag, err := tx.Exec(ctx, query,
		r.Amount, r.LockedAmount, r.Method, details,
		r.Status, r.AdminNotes, r.RequestedAt, r.ProcessedAt, r.ID,
	)
	if err != nil {
		return fmt.Errorf("update withdrawal request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("withdrawal request not found: %s", r.ID)
	}
	return nil
}

// List returns withdrawal requests matching the filter, newest first, with
// the total count for pagination.
func (repo *WithdrawalRepo) List(ctx context.Context, params ports.WithdrawalListParams) ([]domain.WithdrawalRequest, int64, error) {
	var conds []string
	var args []any
	if params.ProviderID != nil {
		args = append(args, *params.ProviderID)
		conds = append(conds, fmt.Sprintf("provider_id = $%d", len(args)))
	}
	if params.Status != nil {
		args = append(args, *params.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM withdrawal_requests` + where
	if err := repo.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count withdrawals: %w", err)
	}

	args = append(args, params.PageSize, (params.Page-1)*params.PageSize)
	query := fmt.Sprintf(`SELECT %s FROM withdrawal_requests%s ORDER BY requested_at DESC LIMIT $%d OFFSET $%d`,
		withdrawalColumns, where, len(args)-1, len(args))

	rows, err := repo.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list withdrawals: %w", err)
	}
	defer rows.Close()

	var result []domain.WithdrawalRequest
	for rows.Next() {
		r, err := scanWithdrawal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan withdrawal: %w", err)
		}
		result = append(result, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate withdrawals: %w", err)
	}
	return result, total, nil
}

// SumJobFunded totals the job-funded portion of a provider's requests over
// the given statuses. The locked portion of each amount was debited from the
// wallet at submit time, so it is excluded here; counting it again would
// charge the provider's job earnings for money the wallet already paid.
func (repo *WithdrawalRepo) SumJobFunded(ctx context.Context, providerID uuid.UUID, statuses []domain.WithdrawalStatus) (decimal.Decimal, error) {
	strs := make([]string, len(statuses))
	for i, s := range statuses {
		strs[i] = string(s)
	}

	query := `SELECT COALESCE(SUM(amount - locked_amount), 0) FROM withdrawal_requests
		WHERE provider_id = $1 AND status = ANY($2)`

	var sum decimal.Decimal
	if err := repo.pool.QueryRow(ctx, query, providerID, strs).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum job-funded withdrawal amounts: %w", err)
	}
	return sum, nil
}
