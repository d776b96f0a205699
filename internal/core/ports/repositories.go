package ports

import (
	"context"

	"casino-wallet-platform/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ProfileRepository defines persistence operations for wallet profiles.
//
// The balance-mutating methods are conditional single-statement updates keyed
// on the expected prior state (guard in the WHERE clause). They return nil
// when the guard did not match, so callers can reject instead of retrying
// blindly. Methods accepting pgx.Tx must run inside a transaction so the
// mutation commits together with its ledger row.
type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	List(ctx context.Context, params ProfileListParams) ([]domain.Profile, int64, error)
	UpdateContact(ctx context.Context, id uuid.UUID, fields ProfileContactUpdate) error
	SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error

	// CreditDeposit adds amount and sets has_deposited.
	CreditDeposit(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount decimal.Decimal) (*domain.BalanceChange, error)
	// ReserveWithdrawal debits amount and moves the profile to awaiting_fee.
	// Guard: balance >= amount AND no withdrawal in flight.
	ReserveWithdrawal(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount decimal.Decimal) (*domain.BalanceChange, error)
	// ReleaseWithdrawal refunds the reserved amount and clears the in-flight
	// state. Guard: status = awaiting_fee.
	ReleaseWithdrawal(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.BalanceChange, error)
	// MarkFeePaid moves awaiting_fee -> processing. No balance change.
	MarkFeePaid(ctx context.Context, id uuid.UUID) (bool, error)
	// RevertProcessing moves processing -> awaiting_fee. No balance change.
	RevertProcessing(ctx context.Context, id uuid.UUID) (bool, error)
	// ClearWithdrawal drops the in-flight state after payout without touching
	// the balance. Guard: a withdrawal is in flight.
	ClearWithdrawal(ctx context.Context, id uuid.UUID) (bool, error)
	// ClaimBonus credits amount once. Guard: has_deposited AND NOT bonus_claimed.
	ClaimBonus(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount decimal.Decimal) (*domain.BalanceChange, error)
	// AdjustBalance applies a signed delta. Guard for debits: balance >= -delta.
	AdjustBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta decimal.Decimal) (*domain.BalanceChange, error)
}

// ProfileListParams holds filter + pagination for the back-office user list.
type ProfileListParams struct {
	Search   string // matches email or full name
	Blocked  *bool
	Page     int
	PageSize int
}

// ProfileContactUpdate carries the editable contact/payout fields.
type ProfileContactUpdate struct {
	FullName   *string
	Phone      *string
	CPF        *string
	PixKey     *string
	PixKeyType *domain.PixKeyType
	PixName    *string
}

// TransactionRepository defines persistence for the immutable ledger.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]domain.Transaction, int64, error)
	List(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
	GetStats(ctx context.Context) (*TransactionStats, error)
}

// TransactionListParams holds filter + pagination for ledger review.
type TransactionListParams struct {
	UserID   *uuid.UUID
	Type     *domain.TransactionType
	Status   *domain.TransactionStatus
	From     *int64 // Unix timestamp
	To       *int64 // Unix timestamp
	Page     int
	PageSize int
}

// TransactionStats holds aggregate figures for the back-office dashboard.
type TransactionStats struct {
	TotalTransactions int64
	TotalDeposited    decimal.Decimal
	TotalWithdrawn    decimal.Decimal
	TotalWagered      decimal.Decimal
	TotalWon          decimal.Decimal
}

// GameRepository defines catalog persistence for games.
type GameRepository interface {
	Create(ctx context.Context, game *domain.Game) error
	Update(ctx context.Context, game *domain.Game) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Game, error)
	GetByCode(ctx context.Context, code string) (*domain.Game, error)
	List(ctx context.Context, onlyActive bool) ([]domain.Game, error)
}

// ProviderRepository defines catalog persistence for game providers.
type ProviderRepository interface {
	Create(ctx context.Context, provider *domain.Provider) error
	Update(ctx context.Context, provider *domain.Provider) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Provider, error)
	List(ctx context.Context) ([]domain.Provider, error)
}

// SettingsRepository persists the gateway API credentials (single row).
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.GatewaySettings, error)
	Upsert(ctx context.Context, settings *domain.GatewaySettings) error
}

// AdminRepository defines persistence for back-office operator accounts.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.AdminUser) error
	GetByUsername(ctx context.Context, username string) (*domain.AdminUser, error)
}

// AuditRepository persists back-office audit entries.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// IdempotencyRepository defines persistence for webhook dedup logs (DB backup).
type IdempotencyRepository interface {
	Create(ctx context.Context, tx pgx.Tx, log *domain.IdempotencyLog) error
	Get(ctx context.Context, key string) (*domain.IdempotencyLog, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
