package domain

import (
	"fmt"
	"strings"
)

// PayoutMethod identifies the channel a withdrawal is paid out on.
type PayoutMethod string

const (
	PayoutMethodBankTransfer PayoutMethod = "BANK_TRANSFER"
	PayoutMethodUPI          PayoutMethod = "UPI"
	PayoutMethodGiftCard     PayoutMethod = "GIFT_CARD"
)

// BankDetails are the fields required for a bank transfer payout.
type BankDetails struct {
	AccountHolder string `json:"account_holder"`
	AccountNumber string `json:"account_number"`
	IFSC          string `json:"ifsc"`
	BankName      string `json:"bank_name"`
}

// UPIDetails are the fields required for a UPI payout.
type UPIDetails struct {
	Address string `json:"address"` // VPA, e.g. name@bank
}

// GiftCardDetails are the fields required for a gift card payout.
type GiftCardDetails struct {
	Email string `json:"email"`
}

// PayoutDetails is a tagged union keyed by PayoutMethod: exactly the variant
// matching the request's method must be populated.
type PayoutDetails struct {
	Bank     *BankDetails     `json:"bank,omitempty"`
	UPI      *UPIDetails      `json:"upi,omitempty"`
	GiftCard *GiftCardDetails `json:"gift_card,omitempty"`
}

// Validate checks that the variant matching method is present and complete.
func (d PayoutDetails) Validate(method PayoutMethod) error {
	switch method {
	case PayoutMethodBankTransfer:
		if d.Bank == nil {
			return fmt.Errorf("bank details are required for method %s", method)
		}
		var missing []string
		if strings.TrimSpace(d.Bank.AccountHolder) == "" {
			missing = append(missing, "account_holder")
		}
		if strings.TrimSpace(d.Bank.AccountNumber) == "" {
			missing = append(missing, "account_number")
		}
		if strings.TrimSpace(d.Bank.IFSC) == "" {
			missing = append(missing, "ifsc")
		}
		if strings.TrimSpace(d.Bank.BankName) == "" {
			missing = append(missing, "bank_name")
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing bank details: %s", strings.Join(missing, ", "))
		}
	case PayoutMethodUPI:
		if d.UPI == nil || strings.TrimSpace(d.UPI.Address) == "" {
			return fmt.Errorf("upi address is required for method %s", method)
		}
		if !strings.Contains(d.UPI.Address, "@") {
			return fmt.Errorf("invalid upi address %q", d.UPI.Address)
		}
	case PayoutMethodGiftCard:
		if d.GiftCard == nil || strings.TrimSpace(d.GiftCard.Email) == "" {
			return fmt.Errorf("gift card email is required for method %s", method)
		}
		if !strings.Contains(d.GiftCard.Email, "@") {
			return fmt.Errorf("invalid gift card email %q", d.GiftCard.Email)
		}
	default:
		return fmt.Errorf("unknown payout method %q", method)
	}
	return nil
}
