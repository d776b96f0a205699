package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// ChargeCustomer carries the payer identity fields the PIX rail requires.
type ChargeCustomer struct {
	Name     string
	Email    string
	Phone    string
	Document string // CPF, digits only
}

// ChargeRequest is the input for creating a PIX charge.
type ChargeRequest struct {
	Identifier  string // our tracking id, e.g. DEP_<uid8>_<ms>
	Amount      decimal.Decimal
	Customer    ChargeCustomer
	CallbackURL string
	TrackProps  map[string]string // echoed back in the webhook
}

// Charge is the gateway's answer: a scannable PIX code plus tracking id.
type Charge struct {
	TransactionID string
	QRCode        string
	QRCodeBase64  string
	QRCodeImage   string
	Amount        decimal.Decimal
}

// PixGateway creates charges on the external payment rail. Confirmation
// arrives later through the webhook, never through this interface.
type PixGateway interface {
	CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error)
}

// GatewayCredentials is the API credential set used to call the gateway and
// to authenticate its webhooks.
type GatewayCredentials struct {
	PublicKey    string
	SecretKey    string
	WebhookToken string
}

// CredentialSource resolves the current gateway credentials. Backed by the
// admin-configured settings row, falling back to static config.
type CredentialSource interface {
	Credentials(ctx context.Context) (*GatewayCredentials, error)
}
