package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"provider-settlement/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const (
	settingWithdrawalPolicy = "withdrawal_policy"
	settingCommissionPolicy = "commission_policy"
)

// SettingsRepo implements ports.SettingsRepository over a key/value table of
// JSONB policy documents. Each policy is a singleton row; the first read
// creates it with defaults.
type SettingsRepo struct {
	pool Pool
}

// NewSettingsRepo creates a new SettingsRepo.
func NewSettingsRepo(pool Pool) *SettingsRepo {
	return &SettingsRepo{pool: pool}
}

func (r *SettingsRepo) get(ctx context.Context, key string, out any, seed func() any) error {
	var value []byte
	err := r.pool.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		def := seed()
		if err := r.set(ctx, key, def); err != nil {
			return fmt.Errorf("seed default %s: %w", key, err)
		}
		value, err = json.Marshal(def)
		if err != nil {
			return fmt.Errorf("marshal default %s: %w", key, err)
		}
	} else if err != nil {
		return fmt.Errorf("get setting %s: %w", key, err)
	}
	if err := json.Unmarshal(value, out); err != nil {
		return fmt.Errorf("unmarshal setting %s: %w", key, err)
	}
	return nil
}

func (r *SettingsRepo) set(ctx context.Context, key string, v any) error {
	value, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal setting %s: %w", key, err)
	}
	query := `INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	if _, err := r.pool.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}

// GetWithdrawalPolicy returns the withdrawal policy, creating the default on first read.
func (r *SettingsRepo) GetWithdrawalPolicy(ctx context.Context) (*domain.WithdrawalPolicy, error) {
	policy := &domain.WithdrawalPolicy{}
	if err := r.get(ctx, settingWithdrawalPolicy, policy, func() any {
		return domain.DefaultWithdrawalPolicy()
	}); err != nil {
		return nil, err
	}
	return policy, nil
}

// UpdateWithdrawalPolicy stores a new withdrawal policy.
func (r *SettingsRepo) UpdateWithdrawalPolicy(ctx context.Context, policy *domain.WithdrawalPolicy) error {
	return r.set(ctx, settingWithdrawalPolicy, policy)
}

// GetCommissionPolicy returns the commission policy, creating the default on first read.
func (r *SettingsRepo) GetCommissionPolicy(ctx context.Context) (*domain.CommissionPolicy, error) {
	policy := &domain.CommissionPolicy{}
	if err := r.get(ctx, settingCommissionPolicy, policy, func() any {
		return domain.DefaultCommissionPolicy()
	}); err != nil {
		return nil, err
	}
	return policy, nil
}

// UpdateCommissionPolicy stores a new commission policy.
func (r *SettingsRepo) UpdateCommissionPolicy(ctx context.Context, policy *domain.CommissionPolicy) error {
	return r.set(ctx, settingCommissionPolicy, policy)
}
