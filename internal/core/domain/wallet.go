package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet is the ledger state embedded in a provider's account record.
// Balance accumulates referral/bonus credits independent of job earnings.
// HasPendingWithdrawal is the lock enforcing the single-outstanding-request
// invariant: at most one non-terminal withdrawal request per provider.
type Wallet struct {
	ProviderID           uuid.UUID       `json:"provider_id"`
	Balance              decimal.Decimal `json:"balance"`
	HasPendingWithdrawal bool            `json:"has_pending_withdrawal"`
	UpdatedAt            time.Time       `json:"updated_at"`
}
