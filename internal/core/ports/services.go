package ports

import (
	"context"
	"time"

	"provider-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(accountID uuid.UUID, role domain.AccountRole) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	AccountID uuid.UUID
	Role      domain.AccountRole
}

// Notifier emits fire-and-forget notifications on settlement state changes.
// Failures are logged and swallowed; delivery is never transactional.
type Notifier interface {
	Emit(ctx context.Context, accountID uuid.UUID, title, message, category, link string)
}

// NotificationPublisher pushes a notification event onto a message channel
// for interested consumers (dashboards, mobile push bridges).
type NotificationPublisher interface {
	Publish(ctx context.Context, notification *domain.Notification) error
}

// --- Service Ports (Business Logic) ---

// BalanceBreakdown explains how a provider's withdrawable balance was resolved.
type BalanceBreakdown struct {
	JobNet        decimal.Decimal // net earnings from completed electronic jobs
	InFlight      decimal.Decimal // job-funded portion of outstanding and disbursed requests
	JobAvailable  decimal.Decimal // max(0, JobNet - InFlight)
	WalletBalance decimal.Decimal // referral/bonus credits
	Withdrawable  decimal.Decimal // WalletBalance + JobAvailable
}

// EarningsLine is one completed job in an earnings statement.
type EarningsLine struct {
	Job        domain.CompletedJob
	Commission decimal.Decimal
	Net        decimal.Decimal
}

// EarningsStatement lists a provider's completed jobs with commission applied.
type EarningsStatement struct {
	Lines           []EarningsLine
	TotalGross      decimal.Decimal
	TotalCommission decimal.Decimal
	TotalNet        decimal.Decimal // electronic jobs only; cash jobs are informational
}

// BalanceService resolves withdrawable balances from the booking ledger,
// commission policy and withdrawal history.
type BalanceService interface {
	WithdrawableBalance(ctx context.Context, providerID uuid.UUID) (*BalanceBreakdown, error)
	EarningsStatement(ctx context.Context, providerID uuid.UUID) (*EarningsStatement, error)
}

// SubmitWithdrawalRequest holds validated input for a withdrawal submission.
type SubmitWithdrawalRequest struct {
	ProviderID uuid.UUID
	Amount     decimal.Decimal
	Method     domain.PayoutMethod
	Details    domain.PayoutDetails
}

// ResubmitWithdrawalRequest holds input for correcting a RE_SUBMIT request in place.
type ResubmitWithdrawalRequest struct {
	RequestID  uuid.UUID
	ProviderID uuid.UUID
	Amount     decimal.Decimal
	Method     domain.PayoutMethod
	Details    domain.PayoutDetails
}

// TransitionWithdrawalRequest holds input for an administrator-driven transition.
type TransitionWithdrawalRequest struct {
	RequestID uuid.UUID
	AdminID   uuid.UUID
	NewStatus domain.WithdrawalStatus
	Notes     *string
}

// WithdrawalService owns the withdrawal request lifecycle and the wallet
// mutations bound to it.
type WithdrawalService interface {
	Submit(ctx context.Context, req SubmitWithdrawalRequest) (*domain.WithdrawalRequest, error)
	Resubmit(ctx context.Context, req ResubmitWithdrawalRequest) (*domain.WithdrawalRequest, error)
	Transition(ctx context.Context, req TransitionWithdrawalRequest) (*domain.WithdrawalRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WithdrawalRequest, error)
	List(ctx context.Context, params WithdrawalListParams) ([]domain.WithdrawalRequest, int64, error)
}

// SettingsService loads and updates the admin-owned policy singletons.
type SettingsService interface {
	WithdrawalPolicy(ctx context.Context) (*domain.WithdrawalPolicy, error)
	UpdateWithdrawalPolicy(ctx context.Context, policy *domain.WithdrawalPolicy) error
	CommissionPolicy(ctx context.Context) (*domain.CommissionPolicy, error)
	UpdateCommissionPolicy(ctx context.Context, policy *domain.CommissionPolicy) error
}

// RegisterRequest holds input for account registration.
type RegisterRequest struct {
	Username string
	Password string
	FullName string
	Role     domain.AccountRole
}

// AuthService defines authentication business logic.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.Account, error)
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
}

// NotificationService exposes the notification inbox.
type NotificationService interface {
	ListByAccount(ctx context.Context, accountID uuid.UUID, page, pageSize int) ([]domain.Notification, int64, error)
}

// AuditService records audit entries (fire-and-forget).
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}
