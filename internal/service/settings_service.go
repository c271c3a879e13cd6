package service

import (
	"context"
	"fmt"

	"provider-settlement/internal/core/domain"
	"provider-settlement/internal/core/ports"
	"provider-settlement/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// hundred bounds percentage commission values.
var hundred = decimal.NewFromInt(100)

// SettingsServiceImpl implements ports.SettingsService over the policy singletons.
type SettingsServiceImpl struct {
	repo ports.SettingsRepository
	log  zerolog.Logger
}

// NewSettingsService creates a new SettingsServiceImpl.
func NewSettingsService(repo ports.SettingsRepository, log zerolog.Logger) *SettingsServiceImpl {
	return &SettingsServiceImpl{repo: repo, log: log}
}

// WithdrawalPolicy returns the current withdrawal policy.
func (s *SettingsServiceImpl) WithdrawalPolicy(ctx context.Context) (*domain.WithdrawalPolicy, error) {
	policy, err := s.repo.GetWithdrawalPolicy(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get withdrawal policy: %w", err))
	}
	return policy, nil
}

// UpdateWithdrawalPolicy validates and stores a new withdrawal policy.
// Policy changes apply to future submissions only; requests already in
// flight keep the terms they were validated under.
func (s *SettingsServiceImpl) UpdateWithdrawalPolicy(ctx context.Context, policy *domain.WithdrawalPolicy) error {
	if policy.MinimumAmount.IsNegative() {
		return apperror.Validation("minimum amount cannot be negative")
	}
	for _, m := range policy.EnabledMethods {
		switch m {
		case domain.PayoutMethodBankTransfer, domain.PayoutMethodUPI, domain.PayoutMethodGiftCard:
		default:
			return apperror.Validation(fmt.Sprintf("unknown payout method %q", m))
		}
	}
	if err := s.repo.UpdateWithdrawalPolicy(ctx, policy); err != nil {
		return apperror.InternalError(fmt.Errorf("update withdrawal policy: %w", err))
	}
	s.log.Info().
		Bool("enabled", policy.Enabled).
		Str("minimum_amount", policy.MinimumAmount.String()).
		Msg("withdrawal policy updated")
	return nil
}

// CommissionPolicy returns the current commission policy.
func (s *SettingsServiceImpl) CommissionPolicy(ctx context.Context) (*domain.CommissionPolicy, error) {
	policy, err := s.repo.GetCommissionPolicy(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get commission policy: %w", err))
	}
	return policy, nil
}

// UpdateCommissionPolicy validates and stores a new commission policy.
func (s *SettingsServiceImpl) UpdateCommissionPolicy(ctx context.Context, policy *domain.CommissionPolicy) error {
	if policy.Type != domain.CommissionTypeFixed && policy.Type != domain.CommissionTypePercentage {
		return apperror.Validation(fmt.Sprintf("unknown commission type %q", policy.Type))
	}
	if policy.Value.IsNegative() {
		return apperror.Validation("commission value cannot be negative")
	}
	if policy.Type == domain.CommissionTypePercentage && policy.Value.GreaterThan(hundred) {
		return apperror.Validation("percentage commission cannot exceed 100")
	}
	if err := s.repo.UpdateCommissionPolicy(ctx, policy); err != nil {
		return apperror.InternalError(fmt.Errorf("update commission policy: %w", err))
	}
	s.log.Info().
		Str("type", string(policy.Type)).
		Str("value", policy.Value.String()).
		Msg("commission policy updated")
	return nil
}
