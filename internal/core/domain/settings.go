package domain

import (
	"github.com/shopspring/decimal"
)

// CommissionType selects how the platform fee is computed from a job's gross.
type CommissionType string

const (
	CommissionTypeFixed      CommissionType = "FIXED"
	CommissionTypePercentage CommissionType = "PERCENTAGE"
)

// CommissionPolicy is the admin-owned singleton controlling the platform fee.
type CommissionPolicy struct {
	Type  CommissionType  `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// DefaultCommissionPolicy is created on first read: a 10% platform fee.
func DefaultCommissionPolicy() *CommissionPolicy {
	return &CommissionPolicy{
		Type:  CommissionTypePercentage,
		Value: decimal.NewFromInt(10),
	}
}

// Fee computes the commission deducted from a job's gross amount.
// FIXED returns the policy value capped at gross (a job never yields negative
// earnings); PERCENTAGE returns gross * value / 100. Negative or unknown
// policy values clamp to zero.
func (p CommissionPolicy) Fee(gross decimal.Decimal) decimal.Decimal {
	if gross.IsNegative() {
		return decimal.Zero
	}
	value := p.Value
	if value.IsNegative() {
		value = decimal.Zero
	}
	switch p.Type {
	case CommissionTypeFixed:
		if value.GreaterThan(gross) {
			return gross
		}
		return value
	case CommissionTypePercentage:
		return gross.Mul(value).Div(decimal.NewFromInt(100))
	default:
		return decimal.Zero
	}
}

// NetEarning is a job's gross amount minus commission.
func (p CommissionPolicy) NetEarning(gross decimal.Decimal) decimal.Decimal {
	return gross.Sub(p.Fee(gross))
}

// WithdrawalPolicy is the admin-owned singleton gating withdrawal requests.
type WithdrawalPolicy struct {
	Enabled        bool            `json:"enabled"`
	MinimumAmount  decimal.Decimal `json:"minimum_amount"`
	EnabledMethods []PayoutMethod  `json:"enabled_methods"`
}

// DefaultWithdrawalPolicy is created on first read: withdrawals enabled, no
// minimum, every payout method available.
func DefaultWithdrawalPolicy() *WithdrawalPolicy {
	return &WithdrawalPolicy{
		Enabled:       true,
		MinimumAmount: decimal.Zero,
		EnabledMethods: []PayoutMethod{
			PayoutMethodBankTransfer,
			PayoutMethodUPI,
			PayoutMethodGiftCard,
		},
	}
}

// MethodEnabled reports whether the policy allows the given payout method.
func (p WithdrawalPolicy) MethodEnabled(method PayoutMethod) bool {
	for _, m := range p.EnabledMethods {
		if m == method {
			return true
		}
	}
	return false
}
