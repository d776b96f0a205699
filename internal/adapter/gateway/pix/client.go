package pix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"casino-wallet-platform/internal/core/ports"
	"casino-wallet-platform/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls the PIX payment provider's REST API. Credentials are resolved
// per call so back-office key rotation takes effect without a restart.
type Client struct {
	baseURL     string
	credentials ports.CredentialSource
	httpClient  HTTPClient
	log         zerolog.Logger
}

// NewClient creates a PIX gateway client.
func NewClient(baseURL string, credentials ports.CredentialSource, httpClient HTTPClient, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:     baseURL,
		credentials: credentials,
		httpClient:  httpClient,
		log:         log,
	}
}

type chargeRequestBody struct {
	Identifier  string            `json:"identifier"`
	Amount      int64             `json:"amount"` // cents
	CallbackURL string            `json:"callbackUrl,omitempty"`
	Client      chargeClientBody  `json:"client"`
	TrackProps  map[string]string `json:"trackProps,omitempty"`
}

type chargeClientBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Document string `json:"document"`
}

type chargeResponseBody struct {
	TransactionID string `json:"transactionId"`
	Message       string `json:"message"`
	Pix           struct {
		Code   string `json:"code"`
		Base64 string `json:"base64"`
		Image  string `json:"image"`
	} `json:"pix"`
}

// CreateCharge creates a PIX charge and returns the scannable code.
func (c *Client) CreateCharge(ctx context.Context, req ports.ChargeRequest) (*ports.Charge, error) {
	creds, err := c.credentials.Credentials(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve gateway credentials: %w", err)
	}

	body := chargeRequestBody{
		Identifier:  req.Identifier,
		Amount:      req.Amount.Mul(decimal.NewFromInt(100)).IntPart(),
		CallbackURL: req.CallbackURL,
		Client: chargeClientBody{
			Name:     req.Customer.Name,
			Email:    req.Customer.Email,
			Phone:    req.Customer.Phone,
			Document: req.Customer.Document,
		},
		TrackProps: req.TrackProps,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal charge request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pix/receive", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build charge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-public-key", creds.PublicKey)
	httpReq.Header.Set("x-secret-key", creds.SecretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperror.ErrGatewayFailure(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperror.ErrGatewayFailure(err)
	}

	var parsed chargeResponseBody
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, apperror.ErrGatewayFailure(fmt.Errorf("decode charge response: %w", err))
	}

	if resp.StatusCode >= 500 {
		return nil, apperror.ErrGatewayFailure(fmt.Errorf("gateway returned status %d", resp.StatusCode))
	}
	if resp.StatusCode >= 400 {
		c.log.Warn().
			Int("status", resp.StatusCode).
			Str("identifier", req.Identifier).
			Str("message", parsed.Message).
			Msg("gateway rejected charge")
		return nil, apperror.ErrGatewayRejected(parsed.Message)
	}
	if parsed.TransactionID == "" || parsed.Pix.Code == "" {
		return nil, apperror.ErrGatewayFailure(fmt.Errorf("gateway response missing transaction id or pix code"))
	}

	c.log.Info().
		Str("identifier", req.Identifier).
		Str("gateway_tx_id", parsed.TransactionID).
		Msg("PIX charge created")

	return &ports.Charge{
		TransactionID: parsed.TransactionID,
		QRCode:        parsed.Pix.Code,
		QRCodeBase64:  parsed.Pix.Base64,
		QRCodeImage:   parsed.Pix.Image,
		Amount:        req.Amount,
	}, nil
}
