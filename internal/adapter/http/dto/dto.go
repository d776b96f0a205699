package dto

import "github.com/shopspring/decimal"

// LoginRequest is the request body for back-office login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// DepositRequest is the request body for creating a PIX deposit charge.
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// WithdrawRequest is the request body for requesting a withdrawal.
type WithdrawRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// PayoutUpdateRequest carries the editable contact and PIX payout fields.
// All fields are optional; only the ones present are updated.
type PayoutUpdateRequest struct {
	FullName   *string `json:"full_name,omitempty" binding:"omitempty,min=1,max=100"`
	Phone      *string `json:"phone,omitempty" binding:"omitempty,max=20"`
	CPF        *string `json:"cpf,omitempty" binding:"omitempty,cpf"`
	PixKey     *string `json:"pix_key,omitempty" binding:"omitempty,max=140"`
	PixKeyType *string `json:"pix_key_type,omitempty" binding:"omitempty,oneof=cpf email phone random"`
	PixName    *string `json:"pix_name,omitempty" binding:"omitempty,min=1,max=100"`
}

// ChargeResponse is the response body for a created PIX charge (deposit or
// withdrawal fee).
type ChargeResponse struct {
	GatewayTxID  string `json:"gateway_tx_id"`
	Identifier   string `json:"identifier"`
	QRCode       string `json:"qr_code"`
	QRCodeBase64 string `json:"qr_code_base64,omitempty"`
	QRCodeImage  string `json:"qr_code_image,omitempty"`
	Amount       string `json:"amount"`
}

// ProfileResponse is the player-facing view of a wallet profile.
type ProfileResponse struct {
	ID               string  `json:"id"`
	Email            string  `json:"email"`
	FullName         *string `json:"full_name"`
	Phone            *string `json:"phone"`
	CPF              *string `json:"cpf"`
	Balance          string  `json:"balance"`
	HasDeposited     bool    `json:"has_deposited"`
	BonusClaimed     bool    `json:"bonus_claimed"`
	PixKey           *string `json:"pix_key"`
	PixKeyType       *string `json:"pix_key_type"`
	PixName          *string `json:"pix_name"`
	WithdrawalStatus *string `json:"withdrawal_status"`
	WithdrawalAmount string  `json:"withdrawal_amount"`
	Blocked          bool    `json:"blocked"`
	CreatedAt        string  `json:"created_at"`
}

// WithdrawalViewResponse describes the withdrawal dialog state.
type WithdrawalViewResponse struct {
	Status      *string `json:"status"`
	Amount      string  `json:"amount"`
	FeeAmount   string  `json:"fee_amount"`
	FeeRejected bool    `json:"fee_rejected"`
	Balance     string  `json:"balance"`
}

// TransactionResponse is one immutable ledger row.
type TransactionResponse struct {
	ID            string            `json:"id"`
	UserID        string            `json:"user_id"`
	Type          string            `json:"type"`
	Amount        string            `json:"amount"`
	BalanceBefore string            `json:"balance_before"`
	BalanceAfter  string            `json:"balance_after"`
	Status        string            `json:"status"`
	Description   string            `json:"description"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	CreatedAt     string            `json:"created_at"`
}

// TransactionListResponse wraps a paginated ledger page.
type TransactionListResponse struct {
	Items      []TransactionResponse `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}

// UserListResponse wraps a paginated back-office user page.
type UserListResponse struct {
	Items      []ProfileResponse `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// PixWebhookRequest is the payment gateway's webhook payload. Amounts arrive
// in cents; trackProps echoes whatever was attached to the charge.
type PixWebhookRequest struct {
	Event         string            `json:"event"`
	TransactionID string            `json:"transactionId" binding:"required"`
	Status        string            `json:"status"`
	Amount        int64             `json:"amount"`
	TrackProps    map[string]string `json:"trackProps"`
}

// GameCallbackRequest is a round-settlement event posted by the game host.
type GameCallbackRequest struct {
	UserID   string          `json:"user_id" binding:"required,uuid"`
	Action   string          `json:"action" binding:"required,oneof=bet win rollback"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	GameCode string          `json:"game_code"`
	RoundID  string          `json:"round_id" binding:"required,safe_id"`
}

// AdjustBalanceRequest is the back-office manual balance correction body.
type AdjustBalanceRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Reason string          `json:"reason" binding:"required,min=3,max=200"`
}

// BlockRequest toggles a profile's blocked flag.
type BlockRequest struct {
	Blocked *bool `json:"blocked" binding:"required"`
}

// ForceWithdrawalStatusRequest drives the withdrawal state machine from the
// back office. A null status clears the in-flight withdrawal after payout.
type ForceWithdrawalStatusRequest struct {
	Status *string `json:"status" binding:"omitempty,oneof=awaiting_fee processing"`
}

// GameRequest is the back-office body for creating or updating a game.
type GameRequest struct {
	ProviderID string  `json:"provider_id" binding:"required,uuid"`
	Code       string  `json:"code" binding:"required,safe_id,max=80"`
	Name       string  `json:"name" binding:"required,min=1,max=120"`
	Category   string  `json:"category" binding:"required,max=50"`
	ImageURL   *string `json:"image_url,omitempty" binding:"omitempty,safe_url"`
	Active     *bool   `json:"active,omitempty"`
}

// ProviderRequest is the back-office body for creating or updating a provider.
type ProviderRequest struct {
	Name   string `json:"name" binding:"required,min=1,max=120"`
	Slug   string `json:"slug" binding:"required,safe_id,max=80"`
	Active *bool  `json:"active,omitempty"`
}

// SettingsRequest rotates the gateway credential set.
type SettingsRequest struct {
	PublicKey    string `json:"public_key" binding:"required"`
	SecretKey    string `json:"secret_key" binding:"required"`
	WebhookToken string `json:"webhook_token" binding:"required"`
}

// SettingsResponse never echoes the secret key.
type SettingsResponse struct {
	PublicKey    string  `json:"public_key"`
	WebhookToken string  `json:"webhook_token"`
	UpdatedBy    *string `json:"updated_by,omitempty"`
	UpdatedAt    string  `json:"updated_at"`
}

// StatsResponse is the back-office dashboard aggregate.
type StatsResponse struct {
	TotalTransactions int64  `json:"total_transactions"`
	TotalDeposited    string `json:"total_deposited"`
	TotalWithdrawn    string `json:"total_withdrawn"`
	TotalWagered      string `json:"total_wagered"`
	TotalWon          string `json:"total_won"`
}

// GameResponse is one catalog game entry.
type GameResponse struct {
	ID         string  `json:"id"`
	ProviderID string  `json:"provider_id"`
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	ImageURL   *string `json:"image_url,omitempty"`
	Active     bool    `json:"active"`
}

// ProviderResponse is one catalog provider entry.
type ProviderResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Active bool   `json:"active"`
}
