package domain

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyLog is the durable dedup record for webhook deliveries: one row
// per gateway transaction id, written in the same database transaction as the
// balance mutation it guards.
type IdempotencyLog struct {
	Key           string    `json:"key"`
	TransactionID uuid.UUID `json:"transaction_id"`
	ResponseJSON  []byte    `json:"response_json"`
	CreatedAt     time.Time `json:"created_at"`
}

// BuildDepositKey builds the dedup key for a deposit confirmation.
func BuildDepositKey(gatewayTxID string) string {
	return "deposit:" + gatewayTxID
}

// BuildFeeKey builds the dedup key for an admin-fee confirmation.
func BuildFeeKey(gatewayTxID string) string {
	return "admin_fee:" + gatewayTxID
}
