package domain

import (
	"time"

	"github.com/google/uuid"
)

// Provider is a game studio whose titles appear in the catalog.
type Provider struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Game is a catalog entry (slot/crash title) launched through a provider.
type Game struct {
	ID         uuid.UUID `json:"id"`
	ProviderID uuid.UUID `json:"provider_id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	ImageURL   *string   `json:"image_url"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SettlementAction is the kind of game-round event posted by the game host.
type SettlementAction string

const (
	SettlementBet      SettlementAction = "bet"
	SettlementWin      SettlementAction = "win"
	SettlementRollback SettlementAction = "rollback"
)

// ValidSettlementAction reports whether a is a recognized round event.
func ValidSettlementAction(a SettlementAction) bool {
	switch a {
	case SettlementBet, SettlementWin, SettlementRollback:
		return true
	}
	return false
}
