package ports

import (
	"context"
	"time"

	"casino-wallet-platform/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// EncryptionService handles AES-256-GCM encryption/decryption of stored
// secrets (gateway API keys).
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// HashService handles password hashing (Argon2id) for back-office accounts.
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService issues and validates back-office JWTs.
type TokenService interface {
	Generate(adminID uuid.UUID, username string) (string, time.Time, error)
	Validate(tokenString string) (*AdminClaims, error)
}

// AdminClaims holds the parsed back-office JWT claims.
type AdminClaims struct {
	AdminID  uuid.UUID
	Username string
}

// SessionVerifier validates a player session token minted by the external
// identity provider and returns its subject (the profile id).
type SessionVerifier interface {
	Verify(tokenString string) (uuid.UUID, error)
}

// IdempotencyCache is the Redis-layer webhook dedup check (fast path).
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // nil, nil on miss
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// EventPublisher publishes committed ledger events to the broker.
// Implementations must be safe to call concurrently and must never fail the
// calling workflow; delivery is best-effort.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, event domain.LedgerEvent)
}

// --- Service Ports (Business Logic) ---

// LedgerService appends immutable ledger rows and fans out post-commit events.
type LedgerService interface {
	// Append validates the snapshot invariant and inserts the row inside tx.
	Append(ctx context.Context, tx pgx.Tx, entry *domain.Transaction) error
	// Committed is called after the surrounding transaction commits; it emits
	// metrics and broker events. Fire-and-forget.
	Committed(ctx context.Context, entry *domain.Transaction)
}

// AccountService serves the player-facing profile surface.
type AccountService interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	UpdatePayout(ctx context.Context, userID uuid.UUID, fields ProfileContactUpdate) (*domain.Profile, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]domain.Transaction, int64, error)
}

// DepositCharge is the user-facing result of a deposit charge creation.
type DepositCharge struct {
	GatewayTxID  string
	Identifier   string
	QRCode       string
	QRCodeBase64 string
	QRCodeImage  string
	Amount       decimal.Decimal
}

// PaymentConfirmation is the validated, normalized form of a gateway
// payment-completed webhook.
type PaymentConfirmation struct {
	GatewayTxID string
	UserID      uuid.UUID
	Amount      decimal.Decimal
}

// DepositService implements the deposit funding flow.
type DepositService interface {
	CreateCharge(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*DepositCharge, error)
	// Confirm credits the balance exactly once per gateway transaction id.
	Confirm(ctx context.Context, conf PaymentConfirmation) (*domain.Transaction, error)
}

// WithdrawalView describes what the withdrawal dialog should render.
type WithdrawalView struct {
	Profile *domain.Profile
	// FeeRejected is set when an observed 'processing' state was reverted on
	// open; the client shows the rejection screen with retry/cancel.
	FeeRejected bool
	FeeAmount   decimal.Decimal // round(withdrawal_amount * fee rate, 2); zero when idle
}

// WithdrawalService implements the withdrawal-with-fee state machine.
type WithdrawalService interface {
	Request(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*domain.Profile, error)
	// Open is called on every withdrawal-dialog open. It performs the literal
	// processing -> awaiting_fee reversion before reporting state.
	Open(ctx context.Context, userID uuid.UUID) (*WithdrawalView, error)
	CreateFeeCharge(ctx context.Context, userID uuid.UUID) (*DepositCharge, error)
	// ConfirmFee moves awaiting_fee -> processing; duplicates are acknowledged
	// without effect.
	ConfirmFee(ctx context.Context, conf PaymentConfirmation) (bool, error)
	Cancel(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
}

// BonusService implements the one-time welcome bonus credit.
type BonusService interface {
	Claim(ctx context.Context, userID uuid.UUID) (*domain.Transaction, error)
}

// SettlementRequest is a normalized game-round event from the game host.
type SettlementRequest struct {
	UserID   uuid.UUID
	Action   domain.SettlementAction
	Amount   decimal.Decimal // positive magnitude
	GameCode string
	RoundID  string
}

// SettlementService applies bet/win/rollback events to the wallet.
type SettlementService interface {
	Apply(ctx context.Context, req SettlementRequest) (*domain.Transaction, error)
}

// AuthService authenticates back-office operators.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, time.Time, error)
}

// AdminService is the privileged back-office surface.
type AdminService interface {
	ListUsers(ctx context.Context, params ProfileListParams) ([]domain.Profile, int64, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	UpdateUser(ctx context.Context, id uuid.UUID, fields ProfileContactUpdate) (*domain.Profile, error)
	SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error
	// AdjustBalance applies a signed manual correction through the ledger.
	AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal, reason string) (*domain.Transaction, error)
	// ForceWithdrawalStatus drives the state machine from the back office
	// (simulate fee payment, reset a stuck withdrawal).
	ForceWithdrawalStatus(ctx context.Context, id uuid.UUID, status *domain.WithdrawalStatus) error

	ListTransactions(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
	GetStats(ctx context.Context) (*TransactionStats, error)

	CreateGame(ctx context.Context, game *domain.Game) error
	UpdateGame(ctx context.Context, game *domain.Game) error
	DeleteGame(ctx context.Context, id uuid.UUID) error
	ListGames(ctx context.Context) ([]domain.Game, error)

	CreateProvider(ctx context.Context, provider *domain.Provider) error
	UpdateProvider(ctx context.Context, provider *domain.Provider) error
	DeleteProvider(ctx context.Context, id uuid.UUID) error
	ListProviders(ctx context.Context) ([]domain.Provider, error)

	GetSettings(ctx context.Context) (*domain.GatewaySettings, error)
	UpdateSettings(ctx context.Context, publicKey, secretKey, webhookToken, updatedBy string) error
}

// AuditService records back-office audit entries.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}

// CatalogService is the public game catalog surface.
type CatalogService interface {
	ListGames(ctx context.Context) ([]domain.Game, error)
	ListProviders(ctx context.Context) ([]domain.Provider, error)
}
