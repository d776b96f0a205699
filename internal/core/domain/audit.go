package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited back-office action.
type AuditAction string

const (
	AuditActionAdminLogin      AuditAction = "ADMIN_LOGIN"
	AuditActionUserUpdate      AuditAction = "USER_UPDATE"
	AuditActionBalanceAdjust   AuditAction = "BALANCE_ADJUST"
	AuditActionWithdrawalForce AuditAction = "WITHDRAWAL_FORCE"
	AuditActionGameWrite       AuditAction = "GAME_WRITE"
	AuditActionProviderWrite   AuditAction = "PROVIDER_WRITE"
	AuditActionSettingsUpdate  AuditAction = "SETTINGS_UPDATE"
)

// AuditLog records a single audited back-office action.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	AdminID      *uuid.UUID  `json:"admin_id,omitempty"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
