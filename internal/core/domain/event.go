package domain

import "time"

// LedgerEvent is the message published to the broker after a ledger row has
// been committed. Consumers (reconciliation, analytics) dedupe on the
// transaction id; delivery is best-effort and never blocks the wallet.
type LedgerEvent struct {
	TransactionID string            `json:"transaction_id"`
	UserID        string            `json:"user_id"`
	Type          TransactionType   `json:"type"`
	Amount        string            `json:"amount"`
	BalanceAfter  string            `json:"balance_after"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	OccurredAt    time.Time         `json:"occurred_at"`
}

// NewLedgerEvent builds the broker message for a committed ledger row.
func NewLedgerEvent(tx *Transaction) LedgerEvent {
	return LedgerEvent{
		TransactionID: tx.ID.String(),
		UserID:        tx.UserID.String(),
		Type:          tx.Type,
		Amount:        tx.Amount.String(),
		BalanceAfter:  tx.BalanceAfter.String(),
		Metadata:      tx.Metadata,
		OccurredAt:    tx.CreatedAt,
	}
}
