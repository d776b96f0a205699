package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("WAL_001", "Insufficient balance", http.StatusUnprocessableEntity),
			expected: "[WAL_001] Insufficient balance",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
}

func TestAppError_IsNilUnwrap(t *testing.T) {
	appErr := New("WAL_001", "test", http.StatusBadRequest)
	assert.Nil(t, appErr.Unwrap())
}

func TestWalletErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InsufficientBalance", ErrInsufficientBalance(), "WAL_001", 422},
		{"DepositBelowMinimum", ErrDepositBelowMinimum("30.00"), "WAL_002", 400},
		{"WithdrawalBelowMinimum", ErrWithdrawalBelowMinimum("50.00"), "WAL_003", 400},
		{"WithdrawalInFlight", ErrWithdrawalInFlight(), "WAL_004", 409},
		{"NoWithdrawalPending", ErrNoWithdrawalPending(), "WAL_005", 400},
		{"MissingPayoutDetails", ErrMissingPayoutDetails(), "WAL_006", 400},
		{"InvalidCPF", ErrInvalidCPF(), "WAL_007", 400},
		{"IncompleteProfile", ErrIncompleteProfile(), "WAL_008", 400},
		{"BonusUnavailable", ErrBonusUnavailable(), "WAL_009", 400},
		{"BonusAlreadyClaimed", ErrBonusAlreadyClaimed(), "WAL_010", 409},
		{"InvalidAmount", ErrInvalidAmount(), "WAL_011", 400},
		{"StateConflict", ErrStateConflict(), "WAL_012", 409},
		{"NotFound", ErrNotFound("Profile"), "WAL_013", 404},
		{"WithdrawalRequiresDeposit", ErrWithdrawalRequiresDeposit(), "WAL_014", 400},
		{"WithdrawalRequiresBonus", ErrWithdrawalRequiresBonus(), "WAL_015", 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestSecurityAndAuthErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"AccountBlocked", ErrAccountBlocked(), "SEC_001", 403},
		{"WebhookUnauthorized", ErrWebhookUnauthorized(), "SEC_002", 401},
		{"InvalidWebhookPayload", ErrInvalidWebhookPayload(), "SEC_003", 400},
		{"InvalidCredentials", ErrInvalidCredentials(), "AUTH_001", 401},
		{"InvalidToken", ErrInvalidToken(), "AUTH_002", 401},
		{"RateLimitExceeded", ErrRateLimitExceeded(), "RATE_001", 429},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestGatewayErrors(t *testing.T) {
	inner := fmt.Errorf("status 500")
	gwErr := ErrGatewayFailure(inner)
	assert.Equal(t, "GTW_001", gwErr.Code)
	assert.Equal(t, http.StatusBadGateway, gwErr.HTTPStatus)
	assert.True(t, errors.Is(gwErr, inner))

	rejected := ErrGatewayRejected("CPF inválido")
	assert.Equal(t, "GTW_002", rejected.Code)
	assert.Contains(t, rejected.Message, "CPF")
}

func TestSystemErrors(t *testing.T) {
	inner := fmt.Errorf("pg: connection closed")
	sysErr := InternalError(inner)
	assert.Equal(t, "SYS_001", sysErr.Code)
	assert.Equal(t, 500, sysErr.HTTPStatus)
	assert.True(t, errors.Is(sysErr, inner))

	encErr := ErrEncryptionFailure(inner)
	assert.Equal(t, "SYS_002", encErr.Code)
	assert.Equal(t, 500, encErr.HTTPStatus)
}

func TestNotFoundEntity(t *testing.T) {
	err := ErrNotFound("Game")
	assert.Contains(t, err.Message, "Game")
	assert.Equal(t, "WAL_013", err.Code)
}
