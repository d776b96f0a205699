package apperror

import (
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

// ---- Wallet Business Logic (WAL) ----

func ErrInsufficientBalance() *AppError {
	return New("WAL_001", "Insufficient balance", http.StatusUnprocessableEntity)
}

func ErrDepositBelowMinimum(min string) *AppError {
	return New("WAL_002", fmt.Sprintf("Minimum deposit is R$ %s", min), http.StatusBadRequest)
}

func ErrWithdrawalBelowMinimum(min string) *AppError {
	return New("WAL_003", fmt.Sprintf("Minimum withdrawal is R$ %s", min), http.StatusBadRequest)
}

func ErrWithdrawalInFlight() *AppError {
	return New("WAL_004", "A withdrawal is already in progress", http.StatusConflict)
}

func ErrNoWithdrawalPending() *AppError {
	return New("WAL_005", "No withdrawal awaiting the admin fee", http.StatusBadRequest)
}

func ErrMissingPayoutDetails() *AppError {
	return New("WAL_006", "Register your PIX key, holder name and CPF before withdrawing", http.StatusBadRequest)
}

func ErrInvalidCPF() *AppError {
	return New("WAL_007", "Invalid CPF", http.StatusBadRequest)
}

func ErrIncompleteProfile() *AppError {
	return New("WAL_008", "Complete your profile (name, email and CPF) before depositing", http.StatusBadRequest)
}

func ErrBonusUnavailable() *AppError {
	return New("WAL_009", "Make your first deposit to unlock the welcome bonus", http.StatusBadRequest)
}

func ErrBonusAlreadyClaimed() *AppError {
	return New("WAL_010", "Welcome bonus already claimed", http.StatusConflict)
}

func ErrInvalidAmount() *AppError {
	return New("WAL_011", "Invalid amount", http.StatusBadRequest)
}

func ErrValidation(message string) *AppError {
	return New("WAL_011", message, http.StatusBadRequest)
}

func ErrStateConflict() *AppError {
	return New("WAL_012", "Wallet state changed, please retry", http.StatusConflict)
}

func ErrNotFound(entity string) *AppError {
	return New("WAL_013", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrWithdrawalRequiresDeposit() *AppError {
	return New("WAL_014", "Make a deposit before requesting a withdrawal", http.StatusBadRequest)
}

func ErrWithdrawalRequiresBonus() *AppError {
	return New("WAL_015", "Claim your welcome bonus before requesting a withdrawal", http.StatusBadRequest)
}

// ---- Security (SEC) ----

func ErrAccountBlocked() *AppError {
	return New("SEC_001", "Account blocked, contact support", http.StatusForbidden)
}

func ErrWebhookUnauthorized() *AppError {
	return New("SEC_002", "Invalid webhook token", http.StatusUnauthorized)
}

func ErrInvalidWebhookPayload() *AppError {
	return New("SEC_003", "Unrecognized webhook payload", http.StatusBadRequest)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_002", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Gateway (GTW) ----

func ErrGatewayFailure(err error) *AppError {
	return Wrap("GTW_001", "Payment gateway error, try again", http.StatusBadGateway, err)
}

func ErrGatewayRejected(message string) *AppError {
	return New("GTW_002", message, http.StatusBadRequest)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

func ErrEncryptionFailure(err error) *AppError {
	return Wrap("SYS_002", "Encryption service failure", http.StatusInternalServerError, err)
}
