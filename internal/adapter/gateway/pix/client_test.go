package pix

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"casino-wallet-platform/internal/core/ports"
	"casino-wallet-platform/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCredentials struct{}

func (staticCredentials) Credentials(ctx context.Context) (*ports.GatewayCredentials, error) {
	return &ports.GatewayCredentials{
		PublicKey:    "pk_test",
		SecretKey:    "sk_test",
		WebhookToken: "wht_test",
	}, nil
}

func testChargeRequest() ports.ChargeRequest {
	return ports.ChargeRequest{
		Identifier: "DEP_a1b2c3d4_1700000000000",
		Amount:     decimal.NewFromInt(30),
		Customer: ports.ChargeCustomer{
			Name:     "Maria Souza",
			Email:    "maria@example.com",
			Phone:    "11999990000",
			Document: "52998224725",
		},
		CallbackURL: "https://wallet.example.com/webhooks/payment",
		TrackProps:  map[string]string{"userId": "abc"},
	}
}

func TestClient_CreateCharge(t *testing.T) {
	var gotHeaders http.Header
	var gotBody chargeRequestBody

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/pix/receive", r.URL.Path)

		json.NewEncoder(w).Encode(map[string]any{
			"transactionId": "gw-tx-001",
			"pix": map[string]string{
				"code":   "00020126...",
				"base64": "iVBORw0K...",
				"image":  "https://cdn.example.com/qr.png",
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticCredentials{}, srv.Client(), zerolog.Nop())

	charge, err := client.CreateCharge(context.Background(), testChargeRequest())
	require.NoError(t, err)
	assert.Equal(t, "gw-tx-001", charge.TransactionID)
	assert.Equal(t, "00020126...", charge.QRCode)
	assert.True(t, charge.Amount.Equal(decimal.NewFromInt(30)))

	assert.Equal(t, "pk_test", gotHeaders.Get("x-public-key"))
	assert.Equal(t, "sk_test", gotHeaders.Get("x-secret-key"))
	assert.Equal(t, int64(3000), gotBody.Amount, "amount should be sent in cents")
	assert.Equal(t, "52998224725", gotBody.Client.Document)
	assert.Equal(t, "abc", gotBody.TrackProps["userId"])
}

func TestClient_CreateCharge_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "documento inválido"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticCredentials{}, srv.Client(), zerolog.Nop())

	_, err := client.CreateCharge(context.Background(), testChargeRequest())
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "GTW_002", appErr.Code)
}

func TestClient_CreateCharge_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticCredentials{}, srv.Client(), zerolog.Nop())

	_, err := client.CreateCharge(context.Background(), testChargeRequest())
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "GTW_001", appErr.Code)
}

func TestClient_CreateCharge_MissingPixCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"transactionId": "gw-tx-002"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticCredentials{}, srv.Client(), zerolog.Nop())

	_, err := client.CreateCharge(context.Background(), testChargeRequest())
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "GTW_001", appErr.Code)
}
