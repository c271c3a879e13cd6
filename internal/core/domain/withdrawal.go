package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WithdrawalStatus represents the lifecycle state of a withdrawal request.
type WithdrawalStatus string

const (
	WithdrawalStatusPending    WithdrawalStatus = "PENDING"
	WithdrawalStatusApproved   WithdrawalStatus = "APPROVED"
	WithdrawalStatusProcessing WithdrawalStatus = "PROCESSING"
	WithdrawalStatusCompleted  WithdrawalStatus = "COMPLETED"
	WithdrawalStatusRejected   WithdrawalStatus = "REJECTED"
	WithdrawalStatusResubmit   WithdrawalStatus = "RE_SUBMIT"
)

// legalTransitions enumerates the administrator-driven state edges.
var legalTransitions = map[WithdrawalStatus][]WithdrawalStatus{
	WithdrawalStatusPending:    {WithdrawalStatusApproved, WithdrawalStatusRejected, WithdrawalStatusResubmit},
	WithdrawalStatusApproved:   {WithdrawalStatusProcessing},
	WithdrawalStatusProcessing: {WithdrawalStatusCompleted},
}

// CanTransition reports whether the administrator edge from -> to is legal.
// The provider-driven RE_SUBMIT -> PENDING edge is handled by Resubmit, not here.
func CanTransition(from, to WithdrawalStatus) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// InFlightStatuses are the statuses whose job-funded portions must be
// subtracted from job-derived earnings when resolving the withdrawable
// balance: amounts already disbursed (COMPLETED) or still in flight must not
// be withdrawable again. RE_SUBMIT counts so the correction window cannot be
// used to request twice.
func InFlightStatuses() []WithdrawalStatus {
	return []WithdrawalStatus{
		WithdrawalStatusPending,
		WithdrawalStatusApproved,
		WithdrawalStatusProcessing,
		WithdrawalStatusResubmit,
		WithdrawalStatusCompleted,
	}
}

// WithdrawalRequest represents a provider's request to withdraw earnings.
type WithdrawalRequest struct {
	ID         uuid.UUID       `json:"id"`
	ProviderID uuid.UUID       `json:"provider_id"`
	Amount     decimal.Decimal `json:"amount"`
	// LockedAmount is the portion of Amount drawn from the wallet balance at
	// submit time. It is returned to the wallet, exactly, on rejection.
	LockedAmount decimal.Decimal  `json:"locked_amount"`
	Method       PayoutMethod     `json:"method"`
	Details      PayoutDetails    `json:"details"`
	Status       WithdrawalStatus `json:"status"`
	AdminNotes   *string          `json:"admin_notes,omitempty"`
	RequestedAt  time.Time        `json:"requested_at"`
	ProcessedAt  *time.Time       `json:"processed_at,omitempty"`
}

// IsTerminal returns true once the request can never change again.
func (r *WithdrawalRequest) IsTerminal() bool {
	return r.Status == WithdrawalStatusCompleted || r.Status == WithdrawalStatusRejected
}

// IsCorrectable returns true while the provider may edit the request in place.
func (r *WithdrawalRequest) IsCorrectable() bool {
	return r.Status == WithdrawalStatusResubmit
}
