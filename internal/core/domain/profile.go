package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PixKeyType is the kind of PIX key registered as payout destination.
type PixKeyType string

const (
	PixKeyCPF    PixKeyType = "cpf"
	PixKeyEmail  PixKeyType = "email"
	PixKeyPhone  PixKeyType = "phone"
	PixKeyRandom PixKeyType = "random"
)

// ValidPixKeyType reports whether t is one of the accepted key kinds.
func ValidPixKeyType(t PixKeyType) bool {
	switch t {
	case PixKeyCPF, PixKeyEmail, PixKeyPhone, PixKeyRandom:
		return true
	}
	return false
}

// WithdrawalStatus is the state of the in-flight withdrawal, if any.
// A nil pointer on the profile means no withdrawal is in flight.
type WithdrawalStatus string

const (
	// WithdrawalAwaitingFee means the requested amount has been debited and
	// the user still has to pay the admin fee charge.
	WithdrawalAwaitingFee WithdrawalStatus = "awaiting_fee"
	// WithdrawalProcessing means the fee payment was confirmed and the payout
	// is pending back-office execution.
	WithdrawalProcessing WithdrawalStatus = "processing"
)

// Profile is the per-user wallet record, keyed by the identity provider's
// subject id. Balance mutations must go through conditional updates paired
// with a ledger row; never fetch-then-write.
type Profile struct {
	ID               uuid.UUID         `json:"id"`
	Email            string            `json:"email"`
	FullName         *string           `json:"full_name"`
	Phone            *string           `json:"phone"`
	CPF              *string           `json:"cpf"`
	Balance          decimal.Decimal   `json:"balance"`
	HasDeposited     bool              `json:"has_deposited"`
	BonusClaimed     bool              `json:"bonus_claimed"`
	PixKey           *string           `json:"pix_key"`
	PixKeyType       *PixKeyType       `json:"pix_key_type"`
	PixName          *string           `json:"pix_name"`
	WithdrawalStatus *WithdrawalStatus `json:"withdrawal_status"`
	WithdrawalAmount decimal.Decimal   `json:"withdrawal_amount"`
	Blocked          bool              `json:"blocked"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// HasWithdrawalInFlight reports whether a withdrawal amount is reserved.
func (p *Profile) HasWithdrawalInFlight() bool {
	return p.WithdrawalStatus != nil
}

// HasPayoutDetails reports whether the PIX payout destination is complete.
func (p *Profile) HasPayoutDetails() bool {
	return p.PixKey != nil && *p.PixKey != "" &&
		p.PixKeyType != nil && ValidPixKeyType(*p.PixKeyType) &&
		p.PixName != nil && *p.PixName != ""
}

// BalanceChange is the before/after pair returned by a conditional balance
// update, used to snapshot the ledger row.
type BalanceChange struct {
	Before decimal.Decimal
	After  decimal.Decimal
}
