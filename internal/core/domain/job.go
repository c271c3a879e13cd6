package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentChannel describes how a completed job was settled with the customer.
type PaymentChannel string

const (
	// PaymentChannelElectronic means the customer paid through the platform;
	// the provider's share is held by the platform until withdrawn.
	PaymentChannelElectronic PaymentChannel = "ELECTRONIC"
	// PaymentChannelCash means the provider already holds the money; cash jobs
	// are excluded from the withdrawable balance to avoid double-counting.
	PaymentChannelCash PaymentChannel = "CASH"
)

// CompletedJob is a read-only record from the booking subsystem: a job that
// reached completion, with its gross revenue and settlement channel. This
// subsystem never mutates completed jobs.
type CompletedJob struct {
	ID             uuid.UUID       `json:"id"`
	ProviderID     uuid.UUID       `json:"provider_id"`
	GrossAmount    decimal.Decimal `json:"gross_amount"`
	PaymentChannel PaymentChannel  `json:"payment_channel"`
	CompletedAt    time.Time       `json:"completed_at"`
}
