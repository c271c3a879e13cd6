package service

import (
	"context"
	"fmt"

	"provider-settlement/internal/core/domain"
	"provider-settlement/internal/core/ports"
	"provider-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceServiceImpl implements ports.BalanceService.
type BalanceServiceImpl struct {
	jobRepo        ports.JobRepository
	withdrawalRepo ports.WithdrawalRepository
	accountRepo    ports.AccountRepository
	settingsRepo   ports.SettingsRepository
}

// NewBalanceService creates a new BalanceServiceImpl.
func NewBalanceService(
	jobRepo ports.JobRepository,
	withdrawalRepo ports.WithdrawalRepository,
	accountRepo ports.AccountRepository,
	settingsRepo ports.SettingsRepository,
) *BalanceServiceImpl {
	return &BalanceServiceImpl{
		jobRepo:        jobRepo,
		withdrawalRepo: withdrawalRepo,
		accountRepo:    accountRepo,
		settingsRepo:   settingsRepo,
	}
}

// WithdrawableBalance resolves how much the provider can withdraw right now.
//
// Job earnings are derived, never stored: net revenue from completed
// electronic jobs, minus the job-funded portion of every request that is
// outstanding or already disbursed. Wallet-funded portions are excluded from
// that subtraction since submitting debited them from the wallet directly.
// Cash jobs are excluded because the provider already holds that money. The
// wallet balance (referral and bonus credits) is added on top.
func (s *BalanceServiceImpl) WithdrawableBalance(ctx context.Context, providerID uuid.UUID) (*ports.BalanceBreakdown, error) {
	wallet, err := s.accountRepo.GetWallet(ctx, providerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("provider")
	}

	policy, err := s.settingsRepo.GetCommissionPolicy(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get commission policy: %w", err))
	}

	jobs, err := s.jobRepo.ListCompletedByProvider(ctx, providerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list completed jobs: %w", err))
	}

	jobNet := decimal.Zero
	for _, job := range jobs {
		if job.PaymentChannel != domain.PaymentChannelElectronic {
			continue
		}
		jobNet = jobNet.Add(policy.NetEarning(job.GrossAmount))
	}

	// Only the job-funded portion of each request counts here; the locked
	// portion was already debited from the wallet at submit time.
	inFlight, err := s.withdrawalRepo.SumJobFunded(ctx, providerID, domain.InFlightStatuses())
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("sum in-flight withdrawals: %w", err))
	}

	jobAvailable := jobNet.Sub(inFlight)
	if jobAvailable.IsNegative() {
		jobAvailable = decimal.Zero
	}

	return &ports.BalanceBreakdown{
		JobNet:        jobNet,
		InFlight:      inFlight,
		JobAvailable:  jobAvailable,
		WalletBalance: wallet.Balance,
		Withdrawable:  wallet.Balance.Add(jobAvailable),
	}, nil
}

// EarningsStatement lists the provider's completed jobs with the commission
// policy applied. Cash jobs appear as lines but do not contribute to the
// withdrawable net total.
func (s *BalanceServiceImpl) EarningsStatement(ctx context.Context, providerID uuid.UUID) (*ports.EarningsStatement, error) {
	policy, err := s.settingsRepo.GetCommissionPolicy(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get commission policy: %w", err))
	}

	jobs, err := s.jobRepo.ListCompletedByProvider(ctx, providerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list completed jobs: %w", err))
	}

	stmt := &ports.EarningsStatement{
		Lines:           make([]ports.EarningsLine, 0, len(jobs)),
		TotalGross:      decimal.Zero,
		TotalCommission: decimal.Zero,
		TotalNet:        decimal.Zero,
	}
	for _, job := range jobs {
		fee := policy.Fee(job.GrossAmount)
		net := job.GrossAmount.Sub(fee)
		stmt.Lines = append(stmt.Lines, ports.EarningsLine{
			Job:        job,
			Commission: fee,
			Net:        net,
		})
		stmt.TotalGross = stmt.TotalGross.Add(job.GrossAmount)
		stmt.TotalCommission = stmt.TotalCommission.Add(fee)
		if job.PaymentChannel == domain.PaymentChannelElectronic {
			stmt.TotalNet = stmt.TotalNet.Add(net)
		}
	}
	return stmt, nil
}
