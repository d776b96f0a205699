package domain

import (
	"time"

	"github.com/google/uuid"
)

// AdminUser is a back-office operator account. Players never get one; their
// identity lives in the external provider.
type AdminUser struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// GatewaySettings holds the PIX gateway API credentials configured in the
// back-office. The secret key is stored AES-256-GCM encrypted.
type GatewaySettings struct {
	PublicKey    string    `json:"public_key"`
	SecretKeyEnc string    `json:"-"`
	WebhookToken string    `json:"-"`
	UpdatedBy    *string   `json:"updated_by,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}
