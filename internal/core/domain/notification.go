package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification categories emitted on withdrawal state changes.
const (
	NotificationWithdrawalRequested = "WITHDRAWAL_REQUESTED"
	NotificationWithdrawalApproved  = "WITHDRAWAL_APPROVED"
	NotificationWithdrawalRejected  = "WITHDRAWAL_REJECTED"
	NotificationWithdrawalCompleted = "WITHDRAWAL_COMPLETED"
	NotificationWithdrawalResubmit  = "WITHDRAWAL_RESUBMIT"
)

// Notification is a fire-and-forget message to an account. Delivery is
// best-effort and never part of the settlement transaction.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Category  string    `json:"category"`
	Link      string    `json:"link,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
