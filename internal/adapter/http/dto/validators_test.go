package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := RegisterRequest{
		Username: "  alice  ",
		Password: "  pass1234  ",
		FullName: " Alice Provider ",
		Role:     " PROVIDER ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "alice", req.Username)
	assert.Equal(t, "pass1234", req.Password)
	assert.Equal(t, "Alice Provider", req.FullName)
	assert.Equal(t, "PROVIDER", req.Role)
}

func TestSanitizeStruct_EscapesHTML(t *testing.T) {
	name := "customer <script>alert('x')</script> request"
	req := RegisterRequest{
		Username: "alice",
		Password: "password123",
		FullName: name,
		Role:     "PROVIDER",
	}
	SanitizeStruct(&req)

	assert.Contains(t, req.FullName, "&lt;script&gt;")
	assert.NotContains(t, req.FullName, "<script>")
}

func TestSanitizeStruct_HandlesPointerString(t *testing.T) {
	notes := "  looks wrong, please fix the account number  "
	req := TransitionWithdrawalRequest{
		Status: "RE_SUBMIT",
		Notes:  &notes,
	}
	SanitizeStruct(&req)

	assert.Equal(t, "looks wrong, please fix the account number", *req.Notes)
}

func TestSanitizeStruct_NilPointerIsNoOp(t *testing.T) {
	req := TransitionWithdrawalRequest{
		Status: "APPROVED",
		Notes:  nil,
	}
	SanitizeStruct(&req)
	assert.Nil(t, req.Notes)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s) // should not panic
}

// --- Custom Validator tests ---

func TestSafeID_Valid(t *testing.T) {
	cases := []string{
		"provider-001",
		"PROVIDER_002",
		"a.b.c",
		"simple123",
		"ABC-def_GHI.123",
	}
	for _, tc := range cases {
		assert.True(t, safeStringRe.MatchString(tc), "expected valid: %s", tc)
	}
}

func TestSafeID_Invalid(t *testing.T) {
	cases := []string{
		"provider 001", // space
		"provider<1>",  // angle brackets
		"x;DROP",       // semicolon
		"",             // empty
		"hello world",  // space
		"x\n001",       // newline
	}
	for _, tc := range cases {
		assert.False(t, safeStringRe.MatchString(tc), "expected invalid: %s", tc)
	}
}

func TestSanitizeStruct_SubmitWithdrawalRequest(t *testing.T) {
	req := SubmitWithdrawalRequest{
		Amount: "  1350.00  ",
		Method: " UPI ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "1350.00", req.Amount)
	assert.Equal(t, "UPI", req.Method)
}

// --- Wire mapping tests ---

func TestPayoutDetailsDTO_ToDomainRoundTrip(t *testing.T) {
	in := PayoutDetailsDTO{
		Bank: &BankDetailsDTO{
			AccountHolder: "Alice Provider",
			AccountNumber: "1234567890",
			IFSC:          "HDFC0001234",
			BankName:      "HDFC",
		},
	}
	out := payoutDetailsFromDomain(in.ToDomain())
	assert.Equal(t, in, out)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(10, 0))
	assert.Equal(t, 1, TotalPages(10, 20))
	assert.Equal(t, 1, TotalPages(20, 20))
	assert.Equal(t, 2, TotalPages(21, 20))
}
