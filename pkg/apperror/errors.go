package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Withdrawal Validation (WDR 4xx) ----

func ErrWithdrawalsDisabled() *AppError {
	return New("WDR_001", "Withdrawals are currently disabled", http.StatusBadRequest)
}

func ErrBelowMinimum(minimum string) *AppError {
	return New("WDR_002", fmt.Sprintf("Amount is below the minimum withdrawal of %s", minimum), http.StatusBadRequest)
}

func ErrInsufficientBalance() *AppError {
	return New("WDR_003", "Amount exceeds withdrawable balance", http.StatusBadRequest)
}

func ErrMethodNotEnabled() *AppError {
	return New("WDR_004", "Payout method is not enabled", http.StatusBadRequest)
}

func ErrInvalidPayoutDetails(reason string) *AppError {
	return New("WDR_005", fmt.Sprintf("Invalid payout details: %s", reason), http.StatusBadRequest)
}

// Validation returns a generic WDR_006 validation error.
func Validation(message string) *AppError {
	return New("WDR_006", message, http.StatusBadRequest)
}

// ---- Withdrawal Conflicts & Transitions (WDR) ----

func ErrRequestAlreadyPending() *AppError {
	return New("WDR_007", "A withdrawal request is already pending", http.StatusConflict)
}

func ErrContention() *AppError {
	return New("WDR_008", "Wallet is busy, please retry", http.StatusConflict)
}

func ErrInvalidTransition(from, to string) *AppError {
	return New("WDR_009", fmt.Sprintf("Illegal status transition %s -> %s", from, to), http.StatusUnprocessableEntity)
}

func ErrNotResubmittable() *AppError {
	return New("WDR_010", "Request is not awaiting correction", http.StatusUnprocessableEntity)
}

func ErrNotFound(entity string) *AppError {
	return New("WDR_011", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrUsernameExists() *AppError {
	return New("AUTH_002", "Username already exists", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrAccountSuspended() *AppError {
	return New("AUTH_004", "Account is suspended", http.StatusForbidden)
}

func ErrForbidden() *AppError {
	return New("AUTH_005", "Insufficient permissions", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Code returns the AppError code carried by err, or "" if err is not an AppError.
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
