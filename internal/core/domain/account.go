package domain

import (
	"time"

	"github.com/google/uuid"
)

// AccountRole distinguishes the two actors in the settlement flow.
type AccountRole string

const (
	RoleProvider AccountRole = "PROVIDER"
	RoleAdmin    AccountRole = "ADMIN"
)

// AccountStatus represents the state of an account.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "ACTIVE"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
)

// Account represents a registered provider or administrator.
// Provider accounts embed their wallet (balance + pending-withdrawal lock)
// directly in the account record.
type Account struct {
	ID           uuid.UUID     `json:"id"`
	Username     string        `json:"username"`
	PasswordHash string        `json:"-"` // Never expose
	FullName     string        `json:"full_name"`
	Role         AccountRole   `json:"role"`
	Status       AccountStatus `json:"status"`
	Wallet       Wallet        `json:"wallet"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// IsActive returns true if the account may authenticate and act.
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// IsAdmin returns true for administrator accounts.
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}
