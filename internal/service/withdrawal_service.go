package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"provider-settlement/internal/core/domain"
	"provider-settlement/internal/core/ports"
	"provider-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// maxTxRetries bounds retries on serialization failures and deadlocks before
// the operation surfaces a conflict to the caller.
const maxTxRetries = 3

// WithdrawalServiceImpl implements ports.WithdrawalService.
type WithdrawalServiceImpl struct {
	withdrawalRepo ports.WithdrawalRepository
	accountRepo    ports.AccountRepository
	settingsRepo   ports.SettingsRepository
	balanceSvc     ports.BalanceService
	transactor     ports.DBTransactor
	notifier       ports.Notifier
	log            zerolog.Logger
}

// NewWithdrawalService creates a new WithdrawalServiceImpl.
func NewWithdrawalService(
	withdrawalRepo ports.WithdrawalRepository,
	accountRepo ports.AccountRepository,
	settingsRepo ports.SettingsRepository,
	balanceSvc ports.BalanceService,
	transactor ports.DBTransactor,
	notifier ports.Notifier,
	log zerolog.Logger,
) *WithdrawalServiceImpl {
	return &WithdrawalServiceImpl{
		withdrawalRepo: withdrawalRepo,
		accountRepo:    accountRepo,
		settingsRepo:   settingsRepo,
		balanceSvc:     balanceSvc,
		transactor:     transactor,
		notifier:       notifier,
		log:            log,
	}
}

// Submit creates a new withdrawal request with pessimistic locking.
//
// The balance resolution happens before the account row is locked; only the
// pending-withdrawal check and the wallet deduction are inside the
// transaction. The portion of the amount not covered by job earnings is
// deducted from the wallet balance and recorded on the request, so a later
// rejection can return exactly what was taken.
func (s *WithdrawalServiceImpl) Submit(ctx context.Context, req ports.SubmitWithdrawalRequest) (*domain.WithdrawalRequest, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.Validation("amount must be positive")
	}
	if err := s.checkPolicy(ctx, req.Amount, req.Method); err != nil {
		return nil, err
	}
	if reason := req.Details.Validate(req.Method); reason != nil {
		return nil, apperror.ErrInvalidPayoutDetails(reason.Error())
	}

	breakdown, err := s.balanceSvc.WithdrawableBalance(ctx, req.ProviderID)
	if err != nil {
		return nil, err
	}
	if req.Amount.GreaterThan(breakdown.Withdrawable) {
		return nil, apperror.ErrInsufficientBalance()
	}

	var created *domain.WithdrawalRequest
	err = s.withRetry(ctx, func(ctx context.Context) error {
		dbTx, err := s.transactor.Begin(ctx)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
		}
		defer dbTx.Rollback(ctx) //nolint:errcheck

		wallet, err := s.accountRepo.GetWalletForUpdate(ctx, dbTx, req.ProviderID)
		if err != nil {
			return err
		}
		if wallet == nil {
			return apperror.ErrNotFound("provider")
		}
		if wallet.HasPendingWithdrawal {
			return apperror.ErrRequestAlreadyPending()
		}

		// How much of the amount must come from the wallet balance.
		locked := req.Amount.Sub(breakdown.JobAvailable)
		if locked.IsNegative() {
			locked = decimal.Zero
		}
		// The wallet may have moved since the balance was resolved.
		if locked.GreaterThan(wallet.Balance) {
			return apperror.ErrInsufficientBalance()
		}

		now := time.Now().UTC()
		created = &domain.WithdrawalRequest{
			ID:           uuid.New(),
			ProviderID:   req.ProviderID,
			Amount:       req.Amount,
			LockedAmount: locked,
			Method:       req.Method,
			Details:      req.Details,
			Status:       domain.WithdrawalStatusPending,
			RequestedAt:  now,
		}

		wallet.Balance = wallet.Balance.Sub(locked)
		wallet.HasPendingWithdrawal = true
		if err := s.accountRepo.UpdateWallet(ctx, dbTx, wallet); err != nil {
			return apperror.InternalError(fmt.Errorf("update wallet: %w", err))
		}
		if err := s.withdrawalRepo.Create(ctx, dbTx, created); err != nil {
			return apperror.InternalError(fmt.Errorf("create withdrawal: %w", err))
		}

		if err := dbTx.Commit(ctx); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Emit(ctx, req.ProviderID,
		"Withdrawal requested",
		fmt.Sprintf("Your withdrawal request for %s is awaiting review.", req.Amount.String()),
		domain.NotificationWithdrawalRequested,
		"/withdrawals/"+created.ID.String(),
	)

	s.log.Info().
		Str("request_id", created.ID.String()).
		Str("provider_id", req.ProviderID.String()).
		Str("amount", req.Amount.String()).
		Str("locked_amount", created.LockedAmount.String()).
		Msg("withdrawal submitted")

	return created, nil
}

// Resubmit corrects a request the administrator sent back, in place. The
// request keeps its identity; amount, method and payout details may change,
// and the wallet lock is re-balanced against the new amount.
func (s *WithdrawalServiceImpl) Resubmit(ctx context.Context, req ports.ResubmitWithdrawalRequest) (*domain.WithdrawalRequest, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.Validation("amount must be positive")
	}
	if err := s.checkPolicy(ctx, req.Amount, req.Method); err != nil {
		return nil, err
	}
	if reason := req.Details.Validate(req.Method); reason != nil {
		return nil, apperror.ErrInvalidPayoutDetails(reason.Error())
	}

	breakdown, err := s.balanceSvc.WithdrawableBalance(ctx, req.ProviderID)
	if err != nil {
		return nil, err
	}

	var updated *domain.WithdrawalRequest
	err = s.withRetry(ctx, func(ctx context.Context) error {
		dbTx, err := s.transactor.Begin(ctx)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
		}
		defer dbTx.Rollback(ctx) //nolint:errcheck

		current, err := s.withdrawalRepo.GetByIDForUpdate(ctx, dbTx, req.RequestID)
		if err != nil {
			return err
		}
		// Ownership failures look identical to missing rows on purpose.
		if current == nil || current.ProviderID != req.ProviderID {
			return apperror.ErrNotFound("withdrawal request")
		}
		if !current.IsCorrectable() {
			return apperror.ErrNotResubmittable()
		}

		wallet, err := s.accountRepo.GetWalletForUpdate(ctx, dbTx, req.ProviderID)
		if err != nil {
			return err
		}
		if wallet == nil {
			return apperror.ErrNotFound("provider")
		}

		// Evaluate capacity as if the old request did not exist: its
		// job-funded portion leaves the in-flight total and its locked
		// portion returns to the wallet.
		jobAvailable := breakdown.JobNet.Sub(breakdown.InFlight.Sub(current.Amount.Sub(current.LockedAmount)))
		if jobAvailable.IsNegative() {
			jobAvailable = decimal.Zero
		}
		walletBalance := wallet.Balance.Add(current.LockedAmount)
		if req.Amount.GreaterThan(walletBalance.Add(jobAvailable)) {
			return apperror.ErrInsufficientBalance()
		}

		locked := req.Amount.Sub(jobAvailable)
		if locked.IsNegative() {
			locked = decimal.Zero
		}

		now := time.Now().UTC()
		current.Amount = req.Amount
		current.LockedAmount = locked
		current.Method = req.Method
		current.Details = req.Details
		current.Status = domain.WithdrawalStatusPending
		current.RequestedAt = now
		current.ProcessedAt = nil

		wallet.Balance = walletBalance.Sub(locked)
		wallet.HasPendingWithdrawal = true
		if err := s.accountRepo.UpdateWallet(ctx, dbTx, wallet); err != nil {
			return apperror.InternalError(fmt.Errorf("update wallet: %w", err))
		}
		if err := s.withdrawalRepo.Update(ctx, dbTx, current); err != nil {
			return apperror.InternalError(fmt.Errorf("update withdrawal: %w", err))
		}

		if err := dbTx.Commit(ctx); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Emit(ctx, req.ProviderID,
		"Withdrawal resubmitted",
		fmt.Sprintf("Your corrected withdrawal request for %s is awaiting review.", req.Amount.String()),
		domain.NotificationWithdrawalRequested,
		"/withdrawals/"+updated.ID.String(),
	)

	s.log.Info().
		Str("request_id", updated.ID.String()).
		Str("provider_id", req.ProviderID.String()).
		Str("amount", req.Amount.String()).
		Msg("withdrawal resubmitted")

	return updated, nil
}

// Transition moves a request along the administrator-driven lifecycle. The
// wallet side effects of terminal edges run in the same transaction as the
// status change: rejection returns the locked amount, completion releases
// the pending-withdrawal lock with the funds gone.
func (s *WithdrawalServiceImpl) Transition(ctx context.Context, req ports.TransitionWithdrawalRequest) (*domain.WithdrawalRequest, error) {
	switch req.NewStatus {
	case domain.WithdrawalStatusApproved, domain.WithdrawalStatusRejected,
		domain.WithdrawalStatusProcessing, domain.WithdrawalStatusCompleted,
		domain.WithdrawalStatusResubmit:
	default:
		return nil, apperror.Validation("unknown withdrawal status: " + string(req.NewStatus))
	}

	var updated *domain.WithdrawalRequest
	err := s.withRetry(ctx, func(ctx context.Context) error {
		dbTx, err := s.transactor.Begin(ctx)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
		}
		defer dbTx.Rollback(ctx) //nolint:errcheck

		current, err := s.withdrawalRepo.GetByIDForUpdate(ctx, dbTx, req.RequestID)
		if err != nil {
			return err
		}
		if current == nil {
			return apperror.ErrNotFound("withdrawal request")
		}
		// Re-checked under the row lock so two admins cannot race the same edge.
		if !domain.CanTransition(current.Status, req.NewStatus) {
			return apperror.ErrInvalidTransition(string(current.Status), string(req.NewStatus))
		}

		now := time.Now().UTC()
		current.Status = req.NewStatus
		if req.Notes != nil {
			current.AdminNotes = req.Notes
		}

		switch req.NewStatus {
		case domain.WithdrawalStatusRejected:
			current.ProcessedAt = &now
			if err := s.releaseWallet(ctx, dbTx, current.ProviderID, current.LockedAmount); err != nil {
				return err
			}
		case domain.WithdrawalStatusCompleted:
			current.ProcessedAt = &now
			if err := s.releaseWallet(ctx, dbTx, current.ProviderID, decimal.Zero); err != nil {
				return err
			}
		}

		if err := s.withdrawalRepo.Update(ctx, dbTx, current); err != nil {
			return apperror.InternalError(fmt.Errorf("update withdrawal: %w", err))
		}

		if err := dbTx.Commit(ctx); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyTransition(ctx, updated)

	s.log.Info().
		Str("request_id", updated.ID.String()).
		Str("admin_id", req.AdminID.String()).
		Str("status", string(updated.Status)).
		Msg("withdrawal transitioned")

	return updated, nil
}

// GetByID fetches a single withdrawal request.
func (s *WithdrawalServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.WithdrawalRequest, error) {
	request, err := s.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get withdrawal: %w", err))
	}
	if request == nil {
		return nil, apperror.ErrNotFound("withdrawal request")
	}
	return request, nil
}

// List returns withdrawal requests matching the filter, newest first.
func (s *WithdrawalServiceImpl) List(ctx context.Context, params ports.WithdrawalListParams) ([]domain.WithdrawalRequest, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}
	requests, total, err := s.withdrawalRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list withdrawals: %w", err))
	}
	return requests, total, nil
}

// checkPolicy enforces the admin-owned withdrawal policy gates.
func (s *WithdrawalServiceImpl) checkPolicy(ctx context.Context, amount decimal.Decimal, method domain.PayoutMethod) error {
	policy, err := s.settingsRepo.GetWithdrawalPolicy(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get withdrawal policy: %w", err))
	}
	if !policy.Enabled {
		return apperror.ErrWithdrawalsDisabled()
	}
	if amount.LessThan(policy.MinimumAmount) {
		return apperror.ErrBelowMinimum(policy.MinimumAmount.String())
	}
	if !policy.MethodEnabled(method) {
		return apperror.ErrMethodNotEnabled()
	}
	return nil
}

// releaseWallet clears the pending-withdrawal lock under the account row
// lock, crediting back the given amount.
func (s *WithdrawalServiceImpl) releaseWallet(ctx context.Context, dbTx pgx.Tx, providerID uuid.UUID, credit decimal.Decimal) error {
	wallet, err := s.accountRepo.GetWalletForUpdate(ctx, dbTx, providerID)
	if err != nil {
		return err
	}
	if wallet == nil {
		return apperror.ErrNotFound("provider")
	}
	wallet.Balance = wallet.Balance.Add(credit)
	wallet.HasPendingWithdrawal = false
	if err := s.accountRepo.UpdateWallet(ctx, dbTx, wallet); err != nil {
		return apperror.InternalError(fmt.Errorf("update wallet: %w", err))
	}
	return nil
}

// notifyTransition emits the provider-facing notification for a transition.
func (s *WithdrawalServiceImpl) notifyTransition(ctx context.Context, request *domain.WithdrawalRequest) {
	link := "/withdrawals/" + request.ID.String()
	amount := request.Amount.String()
	switch request.Status {
	case domain.WithdrawalStatusApproved:
		s.notifier.Emit(ctx, request.ProviderID, "Withdrawal approved",
			fmt.Sprintf("Your withdrawal request for %s was approved.", amount),
			domain.NotificationWithdrawalApproved, link)
	case domain.WithdrawalStatusRejected:
		msg := fmt.Sprintf("Your withdrawal request for %s was rejected.", amount)
		if request.AdminNotes != nil {
			msg += " Reason: " + *request.AdminNotes
		}
		s.notifier.Emit(ctx, request.ProviderID, "Withdrawal rejected", msg,
			domain.NotificationWithdrawalRejected, link)
	case domain.WithdrawalStatusCompleted:
		s.notifier.Emit(ctx, request.ProviderID, "Withdrawal completed",
			fmt.Sprintf("Your withdrawal of %s has been paid out.", amount),
			domain.NotificationWithdrawalCompleted, link)
	case domain.WithdrawalStatusResubmit:
		msg := fmt.Sprintf("Your withdrawal request for %s needs correction.", amount)
		if request.AdminNotes != nil {
			msg += " Reason: " + *request.AdminNotes
		}
		s.notifier.Emit(ctx, request.ProviderID, "Withdrawal needs correction", msg,
			domain.NotificationWithdrawalResubmit, link)
	}
}

// withRetry runs fn, retrying on serialization failures and deadlocks up to
// maxTxRetries times before reporting contention.
func (s *WithdrawalServiceImpl) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= maxTxRetries; attempt++ {
		err = fn(ctx)
		if err == nil || !isRetryable(err) {
			return err
		}
		s.log.Warn().Err(err).Int("attempt", attempt).Msg("transaction conflict, retrying")
	}
	return apperror.ErrContention()
}

// isRetryable reports whether err is a Postgres serialization failure (40001)
// or deadlock (40P01).
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
