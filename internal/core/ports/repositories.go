package ports

import (
	"context"

	"provider-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountRepository defines persistence operations for provider and admin
// accounts, including the wallet columns embedded in the account row.
// Methods accepting pgx.Tx are used inside transaction blocks for pessimistic locking.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	GetWallet(ctx context.Context, providerID uuid.UUID) (*domain.Wallet, error)
	// GetWalletForUpdate locks the provider's account row. Every operation
	// that reads the pending-withdrawal lock and then writes the wallet MUST
	// go through this inside a transaction.
	GetWalletForUpdate(ctx context.Context, tx pgx.Tx, providerID uuid.UUID) (*domain.Wallet, error)
	UpdateWallet(ctx context.Context, tx pgx.Tx, wallet *domain.Wallet) error
}

// WithdrawalListParams holds filter + pagination for listing withdrawal requests.
type WithdrawalListParams struct {
	ProviderID *uuid.UUID
	Status     *domain.WithdrawalStatus
	Page       int
	PageSize   int
}

// WithdrawalRepository defines persistence operations for withdrawal requests.
type WithdrawalRepository interface {
	Create(ctx context.Context, tx pgx.Tx, request *domain.WithdrawalRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WithdrawalRequest, error)
	// GetByIDForUpdate locks the request row; transitions re-check the status
	// under this lock so two administrators cannot race the same edge.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.WithdrawalRequest, error)
	Update(ctx context.Context, tx pgx.Tx, request *domain.WithdrawalRequest) error
	List(ctx context.Context, params WithdrawalListParams) ([]domain.WithdrawalRequest, int64, error)
	// SumJobFunded totals the job-funded portion (amount - locked_amount) of a
	// provider's requests over the given statuses. The locked portion was paid
	// from the wallet and must not count against job earnings.
	SumJobFunded(ctx context.Context, providerID uuid.UUID, statuses []domain.WithdrawalStatus) (decimal.Decimal, error)
}

// JobRepository is the read-only view over the booking subsystem's completed jobs.
type JobRepository interface {
	ListCompletedByProvider(ctx context.Context, providerID uuid.UUID) ([]domain.CompletedJob, error)
}

// SettingsRepository defines persistence for the admin-owned policy singletons.
// Get methods create the policy with defaults on first read.
type SettingsRepository interface {
	GetWithdrawalPolicy(ctx context.Context) (*domain.WithdrawalPolicy, error)
	UpdateWithdrawalPolicy(ctx context.Context, policy *domain.WithdrawalPolicy) error
	GetCommissionPolicy(ctx context.Context) (*domain.CommissionPolicy, error)
	UpdateCommissionPolicy(ctx context.Context, policy *domain.CommissionPolicy) error
}

// NotificationRepository defines persistence for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	ListByAccount(ctx context.Context, accountID uuid.UUID, page, pageSize int) ([]domain.Notification, int64, error)
}

// AuditRepository defines persistence for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
