package postgres

import (
	"context"
	"errors"
	"fmt"

	"provider-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AccountRepo implements ports.AccountRepository. The wallet columns live on
// the accounts row itself, so locking an account row locks its wallet.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

const accountColumns = `id, username, password_hash, full_name, role, status,
	wallet_balance, has_pending_withdrawal, created_at, updated_at`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	a := &domain.Account{}
	err := row.Scan(
		&a.ID, &a.Username, &a.PasswordHash, &a.FullName, &a.Role, &a.Status,
		&a.Wallet.Balance, &a.Wallet.HasPendingWithdrawal, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	a.Wallet.ProviderID = a.ID
	a.Wallet.UpdatedAt = a.UpdatedAt
	return a, nil
}

// Create inserts a new account with its embedded wallet state.
func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) error {
	query := `INSERT INTO accounts (id, username, password_hash, full_name, role, status,
		wallet_balance, has_pending_withdrawal, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.Username, a.PasswordHash, a.FullName, a.Role, a.Status,
		a.Wallet.Balance, a.Wallet.HasPendingWithdrawal, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID fetches an account by its UUID.
func (r *AccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	a, err := scanAccount(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get account by id: %w", err)
	}
	return a, nil
}

// GetByUsername fetches an account by username.
func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`

	a, err := scanAccount(r.pool.QueryRow(ctx, query, username))
	if err != nil {
		return nil, fmt.Errorf("get account by username: %w", err)
	}
	return a, nil
}

// GetWallet fetches a provider's wallet state (non-locking read).
func (r *AccountRepo) GetWallet(ctx context.Context, providerID uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT id, wallet_balance, has_pending_withdrawal, updated_at
		FROM accounts WHERE id = $1`

	w := &domain.Wallet{}
	err := r.pool.QueryRow(ctx, query, providerID).Scan(
		&w.ProviderID, &w.Balance, &w.HasPendingWithdrawal, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet: %w", err)
	}
	return w, nil
}

// GetWalletForUpdate fetches a provider's wallet state with pessimistic locking.
// This MUST be called within a transaction.
func (r *AccountRepo) GetWalletForUpdate(ctx context.Context, tx pgx.Tx, providerID uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT id, wallet_balance, has_pending_withdrawal, updated_at
		FROM accounts WHERE id = $1 FOR UPDATE`

	w := &domain.Wallet{}
	err := tx.QueryRow(ctx, query, providerID).Scan(
		&w.ProviderID, &w.Balance, &w.HasPendingWithdrawal, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet for update: %w", err)
	}
	return w, nil
}

// UpdateWallet writes a wallet's balance and pending-withdrawal lock within a transaction.
func (r *AccountRepo) UpdateWallet(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	query := `UPDATE accounts SET wallet_balance = $1, has_pending_withdrawal = $2, updated_at = NOW()
		WHERE id = $3`

	tag, err := tx.Exec(ctx, query, w.Balance, w.HasPendingWithdrawal, w.ProviderID)
	if err != nil {
		return fmt.Errorf("update wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %s", w.ProviderID)
	}
	return nil
}
