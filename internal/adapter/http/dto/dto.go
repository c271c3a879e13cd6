package dto

import (
	"provider-settlement/internal/core/domain"
	"provider-settlement/internal/core/ports"
)

// --- Auth ---

// RegisterRequest is the payload for POST /api/v1/auth/register.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64,safe_id"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	FullName string `json:"full_name" binding:"required,max=128"`
	Role     string `json:"role" binding:"required,oneof=PROVIDER ADMIN"`
}

// LoginRequest is the payload for POST /api/v1/auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued JWT.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // unix seconds
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// --- Withdrawals ---

// PayoutDetailsDTO mirrors domain.PayoutDetails on the wire. Exactly the
// variant matching the request's method must be set; the service validates.
type PayoutDetailsDTO struct {
	Bank     *BankDetailsDTO     `json:"bank,omitempty"`
	UPI      *UPIDetailsDTO      `json:"upi,omitempty"`
	GiftCard *GiftCardDetailsDTO `json:"gift_card,omitempty"`
}

type BankDetailsDTO struct {
	AccountHolder string `json:"account_holder"`
	AccountNumber string `json:"account_number"`
	IFSC          string `json:"ifsc"`
	BankName      string `json:"bank_name"`
}

type UPIDetailsDTO struct {
	Address string `json:"address"`
}

type GiftCardDetailsDTO struct {
	Email string `json:"email"`
}

// ToDomain converts wire payout details to the domain union.
func (d PayoutDetailsDTO) ToDomain() domain.PayoutDetails {
	out := domain.PayoutDetails{}
	if d.Bank != nil {
		out.Bank = &domain.BankDetails{
			AccountHolder: d.Bank.AccountHolder,
			AccountNumber: d.Bank.AccountNumber,
			IFSC:          d.Bank.IFSC,
			BankName:      d.Bank.BankName,
		}
	}
	if d.UPI != nil {
		out.UPI = &domain.UPIDetails{Address: d.UPI.Address}
	}
	if d.GiftCard != nil {
		out.GiftCard = &domain.GiftCardDetails{Email: d.GiftCard.Email}
	}
	return out
}

func payoutDetailsFromDomain(d domain.PayoutDetails) PayoutDetailsDTO {
	out := PayoutDetailsDTO{}
	if d.Bank != nil {
		out.Bank = &BankDetailsDTO{
			AccountHolder: d.Bank.AccountHolder,
			AccountNumber: d.Bank.AccountNumber,
			IFSC:          d.Bank.IFSC,
			BankName:      d.Bank.BankName,
		}
	}
	if d.UPI != nil {
		out.UPI = &UPIDetailsDTO{Address: d.UPI.Address}
	}
	if d.GiftCard != nil {
		out.GiftCard = &GiftCardDetailsDTO{Email: d.GiftCard.Email}
	}
	return out
}

// SubmitWithdrawalRequest is the payload for POST /api/v1/withdrawals.
// Amount travels as a string so clients never lose precision to float64.
type SubmitWithdrawalRequest struct {
	Amount  string           `json:"amount" binding:"required"`
	Method  string           `json:"method" binding:"required,oneof=BANK_TRANSFER UPI GIFT_CARD"`
	Details PayoutDetailsDTO `json:"details" binding:"required"`
}

// ResubmitWithdrawalRequest is the payload for POST /api/v1/withdrawals/:id/resubmit.
type ResubmitWithdrawalRequest struct {
	Amount  string           `json:"amount" binding:"required"`
	Method  string           `json:"method" binding:"required,oneof=BANK_TRANSFER UPI GIFT_CARD"`
	Details PayoutDetailsDTO `json:"details" binding:"required"`
}

// TransitionWithdrawalRequest is the payload for
// POST /api/v1/admin/withdrawals/:id/transition.
type TransitionWithdrawalRequest struct {
	Status string  `json:"status" binding:"required,oneof=APPROVED PROCESSING COMPLETED REJECTED RE_SUBMIT"`
	Notes  *string `json:"notes,omitempty" binding:"omitempty,max=512"`
}

// WithdrawalResponse is the public view of a withdrawal request.
type WithdrawalResponse struct {
	ID           string           `json:"id"`
	ProviderID   string           `json:"provider_id"`
	Amount       string           `json:"amount"`
	LockedAmount string           `json:"locked_amount"`
	Method       string           `json:"method"`
	Details      PayoutDetailsDTO `json:"details"`
	Status       string           `json:"status"`
	AdminNotes   *string          `json:"admin_notes,omitempty"`
	RequestedAt  string           `json:"requested_at"`
	ProcessedAt  *string          `json:"processed_at,omitempty"`
}

// WithdrawalFromDomain maps a domain withdrawal to its wire form.
func WithdrawalFromDomain(r *domain.WithdrawalRequest) WithdrawalResponse {
	resp := WithdrawalResponse{
		ID:           r.ID.String(),
		ProviderID:   r.ProviderID.String(),
		Amount:       r.Amount.String(),
		LockedAmount: r.LockedAmount.String(),
		Method:       string(r.Method),
		Details:      payoutDetailsFromDomain(r.Details),
		Status:       string(r.Status),
		AdminNotes:   r.AdminNotes,
		RequestedAt:  r.RequestedAt.Format(timeFormat),
	}
	if r.ProcessedAt != nil {
		s := r.ProcessedAt.Format(timeFormat)
		resp.ProcessedAt = &s
	}
	return resp
}

// WithdrawalListResponse is a paginated list of withdrawal requests.
type WithdrawalListResponse struct {
	Items      []WithdrawalResponse `json:"items"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalPages int                  `json:"total_pages"`
}

// --- Balance & earnings ---

// BalanceResponse is the withdrawable-balance breakdown. All figures are
// decimal strings.
type BalanceResponse struct {
	JobNet        string `json:"job_net"`
	InFlight      string `json:"in_flight"`
	JobAvailable  string `json:"job_available"`
	WalletBalance string `json:"wallet_balance"`
	Withdrawable  string `json:"withdrawable"`
}

// BalanceFromDomain maps a balance breakdown to its wire form.
func BalanceFromDomain(b *ports.BalanceBreakdown) BalanceResponse {
	return BalanceResponse{
		JobNet:        b.JobNet.String(),
		InFlight:      b.InFlight.String(),
		JobAvailable:  b.JobAvailable.String(),
		WalletBalance: b.WalletBalance.String(),
		Withdrawable:  b.Withdrawable.String(),
	}
}

// EarningsLineResponse is one completed job with its commission applied.
type EarningsLineResponse struct {
	JobID          string `json:"job_id"`
	GrossAmount    string `json:"gross_amount"`
	Commission     string `json:"commission"`
	NetEarning     string `json:"net_earning"`
	PaymentChannel string `json:"payment_channel"`
	CompletedAt    string `json:"completed_at"`
}

// EarningsResponse is the provider's full earnings statement.
type EarningsResponse struct {
	Lines           []EarningsLineResponse `json:"lines"`
	TotalGross      string                 `json:"total_gross"`
	TotalCommission string                 `json:"total_commission"`
	TotalNet        string                 `json:"total_net"`
}

// EarningsFromDomain maps an earnings statement to its wire form.
func EarningsFromDomain(s *ports.EarningsStatement) EarningsResponse {
	lines := make([]EarningsLineResponse, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, EarningsLineResponse{
			JobID:          l.Job.ID.String(),
			GrossAmount:    l.Job.GrossAmount.String(),
			Commission:     l.Commission.String(),
			NetEarning:     l.Net.String(),
			PaymentChannel: string(l.Job.PaymentChannel),
			CompletedAt:    l.Job.CompletedAt.Format(timeFormat),
		})
	}
	return EarningsResponse{
		Lines:           lines,
		TotalGross:      s.TotalGross.String(),
		TotalCommission: s.TotalCommission.String(),
		TotalNet:        s.TotalNet.String(),
	}
}

// --- Settings ---

// WithdrawalPolicyRequest is the payload for PUT /api/v1/admin/settings/withdrawal.
type WithdrawalPolicyRequest struct {
	Enabled        bool     `json:"enabled"`
	MinimumAmount  string   `json:"minimum_amount" binding:"required"`
	EnabledMethods []string `json:"enabled_methods" binding:"required"`
}

// WithdrawalPolicyResponse is the public view of the withdrawal policy.
type WithdrawalPolicyResponse struct {
	Enabled        bool     `json:"enabled"`
	MinimumAmount  string   `json:"minimum_amount"`
	EnabledMethods []string `json:"enabled_methods"`
}

// WithdrawalPolicyFromDomain maps a withdrawal policy to its wire form.
func WithdrawalPolicyFromDomain(p *domain.WithdrawalPolicy) WithdrawalPolicyResponse {
	methods := make([]string, 0, len(p.EnabledMethods))
	for _, m := range p.EnabledMethods {
		methods = append(methods, string(m))
	}
	return WithdrawalPolicyResponse{
		Enabled:        p.Enabled,
		MinimumAmount:  p.MinimumAmount.String(),
		EnabledMethods: methods,
	}
}

// CommissionPolicyRequest is the payload for PUT /api/v1/admin/settings/commission.
type CommissionPolicyRequest struct {
	Type  string `json:"type" binding:"required,oneof=FIXED PERCENTAGE"`
	Value string `json:"value" binding:"required"`
}

// CommissionPolicyResponse is the public view of the commission policy.
type CommissionPolicyResponse struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// CommissionPolicyFromDomain maps a commission policy to its wire form.
func CommissionPolicyFromDomain(p *domain.CommissionPolicy) CommissionPolicyResponse {
	return CommissionPolicyResponse{
		Type:  string(p.Type),
		Value: p.Value.String(),
	}
}

// --- Notifications ---

// NotificationResponse is the public view of a notification.
type NotificationResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Category  string `json:"category"`
	Link      string `json:"link,omitempty"`
	CreatedAt string `json:"created_at"`
}

// NotificationFromDomain maps a notification to its wire form.
func NotificationFromDomain(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID.String(),
		Title:     n.Title,
		Message:   n.Message,
		Category:  n.Category,
		Link:      n.Link,
		CreatedAt: n.CreatedAt.Format(timeFormat),
	}
}

// NotificationListResponse is a paginated list of notifications.
type NotificationListResponse struct {
	Items      []NotificationResponse `json:"items"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
	TotalPages int                    `json:"total_pages"`
}

// timeFormat is RFC 3339 with microsecond precision, matching what PostgreSQL
// stores for timestamptz columns.
const timeFormat = "2006-01-02T15:04:05.999999Z07:00"

// TotalPages computes the page count for a paginated response.
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}
