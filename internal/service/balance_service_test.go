package service

import (
	"context"
	"testing"
	"time"

	"provider-settlement/internal/core/domain"
	"provider-settlement/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type balanceTestDeps struct {
	svc            *BalanceServiceImpl
	jobRepo        *mocks.MockJobRepository
	withdrawalRepo *mocks.MockWithdrawalRepository
	accountRepo    *mocks.MockAccountRepository
	settingsRepo   *mocks.MockSettingsRepository
	ctrl           *gomock.Controller
}

func setupBalanceService(t *testing.T) *balanceTestDeps {
	ctrl := gomock.NewController(t)
	d := &balanceTestDeps{
		jobRepo:        mocks.NewMockJobRepository(ctrl),
		withdrawalRepo: mocks.NewMockWithdrawalRepository(ctrl),
		accountRepo:    mocks.NewMockAccountRepository(ctrl),
		settingsRepo:   mocks.NewMockSettingsRepository(ctrl),
		ctrl:           ctrl,
	}
	d.svc = NewBalanceService(d.jobRepo, d.withdrawalRepo, d.accountRepo, d.settingsRepo)
	return d
}

func job(providerID uuid.UUID, gross int64, channel domain.PaymentChannel) domain.CompletedJob {
	return domain.CompletedJob{
		ID:             uuid.New(),
		ProviderID:     providerID,
		GrossAmount:    dec(gross),
		PaymentChannel: channel,
		CompletedAt:    time.Now().UTC(),
	}
}

func TestBalanceService_WithdrawableBalance_ExcludesCashJobs(t *testing.T) {
	d := setupBalanceService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	providerID := uuid.New()

	d.accountRepo.EXPECT().GetWallet(ctx, providerID).Return(&domain.Wallet{
		ProviderID: providerID,
		Balance:    dec(100),
	}, nil)
	d.settingsRepo.EXPECT().GetCommissionPolicy(ctx).Return(domain.DefaultCommissionPolicy(), nil)
	d.jobRepo.EXPECT().ListCompletedByProvider(ctx, providerID).Return([]domain.CompletedJob{
		job(providerID, 1000, domain.PaymentChannelElectronic),
		job(providerID, 500, domain.PaymentChannelCash),
	}, nil)
	d.withdrawalRepo.EXPECT().SumJobFunded(ctx, providerID, domain.InFlightStatuses()).Return(dec(0), nil)

	b, err := d.svc.WithdrawableBalance(ctx, providerID)
	require.NoError(t, err)
	// 10% commission on the 1000 electronic job only; the cash job never counts.
	assert.True(t, b.JobNet.Equal(dec(900)), "job net: %s", b.JobNet)
	assert.True(t, b.JobAvailable.Equal(dec(900)))
	assert.True(t, b.Withdrawable.Equal(dec(1000)))
}

func TestBalanceService_WithdrawableBalance_SubtractsInFlight(t *testing.T) {
	d := setupBalanceService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	providerID := uuid.New()

	d.accountRepo.EXPECT().GetWallet(ctx, providerID).Return(&domain.Wallet{
		ProviderID: providerID,
		Balance:    dec(50),
	}, nil)
	d.settingsRepo.EXPECT().GetCommissionPolicy(ctx).Return(domain.DefaultCommissionPolicy(), nil)
	d.jobRepo.EXPECT().ListCompletedByProvider(ctx, providerID).Return([]domain.CompletedJob{
		job(providerID, 1000, domain.PaymentChannelElectronic),
	}, nil)
	d.withdrawalRepo.EXPECT().SumJobFunded(ctx, providerID, domain.InFlightStatuses()).Return(dec(600), nil)

	b, err := d.svc.WithdrawableBalance(ctx, providerID)
	require.NoError(t, err)
	assert.True(t, b.JobNet.Equal(dec(900)))
	assert.True(t, b.InFlight.Equal(dec(600)))
	assert.True(t, b.JobAvailable.Equal(dec(300)))
	assert.True(t, b.Withdrawable.Equal(dec(350)))
}

func TestBalanceService_WithdrawableBalance_ClampsToZero(t *testing.T) {
	d := setupBalanceService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	providerID := uuid.New()

	d.accountRepo.EXPECT().GetWallet(ctx, providerID).Return(&domain.Wallet{
		ProviderID: providerID,
		Balance:    dec(75),
	}, nil)
	d.settingsRepo.EXPECT().GetCommissionPolicy(ctx).Return(domain.DefaultCommissionPolicy(), nil)
	d.jobRepo.EXPECT().ListCompletedByProvider(ctx, providerID).Return([]domain.CompletedJob{
		job(providerID, 1000, domain.PaymentChannelElectronic),
	}, nil)
	// The job-funded total already exceeds job net (policy tightened after
	// the earlier requests were accepted).
	d.withdrawalRepo.EXPECT().SumJobFunded(ctx, providerID, domain.InFlightStatuses()).Return(dec(1350), nil)

	b, err := d.svc.WithdrawableBalance(ctx, providerID)
	require.NoError(t, err)
	assert.True(t, b.JobAvailable.IsZero())
	assert.True(t, b.Withdrawable.Equal(dec(75)), "only the wallet remains withdrawable")
}

func TestBalanceService_WithdrawableBalance_WalletFundedHistoryKeepsJobEarnings(t *testing.T) {
	d := setupBalanceService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	providerID := uuid.New()

	// The provider previously completed a withdrawal funded entirely from the
	// wallet. That request has no job-funded portion, so earnings from a job
	// completed afterwards must remain fully available.
	d.accountRepo.EXPECT().GetWallet(ctx, providerID).Return(&domain.Wallet{
		ProviderID: providerID,
		Balance:    dec(0),
	}, nil)
	d.settingsRepo.EXPECT().GetCommissionPolicy(ctx).Return(domain.DefaultCommissionPolicy(), nil)
	d.jobRepo.EXPECT().ListCompletedByProvider(ctx, providerID).Return([]domain.CompletedJob{
		job(providerID, 1000, domain.PaymentChannelElectronic),
	}, nil)
	d.withdrawalRepo.EXPECT().SumJobFunded(ctx, providerID, domain.InFlightStatuses()).Return(dec(0), nil)

	b, err := d.svc.WithdrawableBalance(ctx, providerID)
	require.NoError(t, err)
	assert.True(t, b.JobNet.Equal(dec(900)))
	assert.True(t, b.JobAvailable.Equal(dec(900)))
	assert.True(t, b.Withdrawable.Equal(dec(900)))
}

func TestBalanceService_WithdrawableBalance_ProviderNotFound(t *testing.T) {
	d := setupBalanceService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	providerID := uuid.New()
	d.accountRepo.EXPECT().GetWallet(ctx, providerID).Return(nil, nil)

	_, err := d.svc.WithdrawableBalance(ctx, providerID)
	assertAppError(t, err, "WDR_011")
}

func TestBalanceService_EarningsStatement(t *testing.T) {
	d := setupBalanceService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	providerID := uuid.New()

	d.settingsRepo.EXPECT().GetCommissionPolicy(ctx).Return(&domain.CommissionPolicy{
		Type:  domain.CommissionTypeFixed,
		Value: dec(50),
	}, nil)
	d.jobRepo.EXPECT().ListCompletedByProvider(ctx, providerID).Return([]domain.CompletedJob{
		job(providerID, 1000, domain.PaymentChannelElectronic),
		job(providerID, 300, domain.PaymentChannelCash),
	}, nil)

	stmt, err := d.svc.EarningsStatement(ctx, providerID)
	require.NoError(t, err)
	require.Len(t, stmt.Lines, 2)
	assert.True(t, stmt.Lines[0].Commission.Equal(dec(50)))
	assert.True(t, stmt.Lines[0].Net.Equal(dec(950)))
	assert.True(t, stmt.TotalGross.Equal(dec(1300)))
	assert.True(t, stmt.TotalCommission.Equal(dec(100)))
	// Cash jobs show on the statement but never add to the withdrawable net.
	assert.True(t, stmt.TotalNet.Equal(dec(950)))
}
