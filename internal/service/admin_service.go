package service

import (
	"context"
	"fmt"
	"time"

	"casino-wallet-platform/internal/core/domain"
	"casino-wallet-platform/internal/core/ports"
	"casino-wallet-platform/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// AdminServiceImpl implements ports.AdminService, the privileged back-office
// surface. Manual balance corrections flow through the same conditional
// update + ledger discipline as player-driven mutations.
type AdminServiceImpl struct {
	profileRepo  ports.ProfileRepository
	txRepo       ports.TransactionRepository
	gameRepo     ports.GameRepository
	providerRepo ports.ProviderRepository
	settingsRepo ports.SettingsRepository
	ledger       ports.LedgerService
	transactor   ports.DBTransactor
	encSvc       ports.EncryptionService
	log          zerolog.Logger
}

// NewAdminService creates a new AdminServiceImpl.
func NewAdminService(
	profileRepo ports.ProfileRepository,
	txRepo ports.TransactionRepository,
	gameRepo ports.GameRepository,
	providerRepo ports.ProviderRepository,
	settingsRepo ports.SettingsRepository,
	ledger ports.LedgerService,
	transactor ports.DBTransactor,
	encSvc ports.EncryptionService,
	log zerolog.Logger,
) *AdminServiceImpl {
	return &AdminServiceImpl{
		profileRepo:  profileRepo,
		txRepo:       txRepo,
		gameRepo:     gameRepo,
		providerRepo: providerRepo,
		settingsRepo: settingsRepo,
		ledger:       ledger,
		transactor:   transactor,
		encSvc:       encSvc,
		log:          log,
	}
}

// ListUsers returns a filtered profile page.
func (s *AdminServiceImpl) ListUsers(ctx context.Context, params ports.ProfileListParams) ([]domain.Profile, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}
	profiles, total, err := s.profileRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list profiles: %w", err))
	}
	return profiles, total, nil
}

// GetUser fetches a profile by id.
func (s *AdminServiceImpl) GetUser(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get profile: %w", err))
	}
	if profile == nil {
		return nil, apperror.ErrNotFound("Profile")
	}
	return profile, nil
}

// UpdateUser edits a profile's contact and payout fields.
func (s *AdminServiceImpl) UpdateUser(ctx context.Context, id uuid.UUID, fields ports.ProfileContactUpdate) (*domain.Profile, error) {
	if fields.PixKeyType != nil && !domain.ValidPixKeyType(*fields.PixKeyType) {
		return nil, apperror.ErrValidation("unknown PIX key type")
	}
	if _, err := s.GetUser(ctx, id); err != nil {
		return nil, err
	}
	if err := s.profileRepo.UpdateContact(ctx, id, fields); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update contact: %w", err))
	}
	return s.GetUser(ctx, id)
}

// SetBlocked flips a profile's blocked flag.
func (s *AdminServiceImpl) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error {
	if _, err := s.GetUser(ctx, id); err != nil {
		return err
	}
	if err := s.profileRepo.SetBlocked(ctx, id, blocked); err != nil {
		return apperror.InternalError(fmt.Errorf("set blocked: %w", err))
	}
	s.log.Info().Str("user_id", id.String()).Bool("blocked", blocked).Msg("profile block flag changed")
	return nil
}

// AdjustBalance applies a signed manual correction through the ledger.
func (s *AdminServiceImpl) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal, reason string) (*domain.Transaction, error) {
	if delta.IsZero() {
		return nil, apperror.ErrInvalidAmount()
	}
	if _, err := s.GetUser(ctx, id); err != nil {
		return nil, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	change, err := s.profileRepo.AdjustBalance(ctx, dbTx, id, delta)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("adjust balance: %w", err))
	}
	if change == nil {
		return nil, apperror.ErrInsufficientBalance()
	}

	txType := domain.TransactionTypeDeposit
	if delta.IsNegative() {
		txType = domain.TransactionTypeWithdrawal
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:            uuid.New(),
		UserID:        id,
		Type:          txType,
		Amount:        delta,
		BalanceBefore: change.Before,
		BalanceAfter:  change.After,
		Status:        domain.TransactionStatusCompleted,
		Description:   "Ajuste manual de saldo",
		Metadata:      map[string]string{"manual": "true", "reason": reason},
		CreatedAt:     now,
	}
	if err := s.ledger.Append(ctx, dbTx, txn); err != nil {
		return nil, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.ledger.Committed(ctx, txn)
	return txn, nil
}

// ForceWithdrawalStatus drives the withdrawal state machine from the back
// office: processing simulates a paid fee, awaiting_fee resets a stuck
// payout, nil clears the in-flight state after a manual payout.
func (s *AdminServiceImpl) ForceWithdrawalStatus(ctx context.Context, id uuid.UUID, status *domain.WithdrawalStatus) error {
	profile, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if !profile.HasWithdrawalInFlight() {
		return apperror.ErrNoWithdrawalPending()
	}

	var moved bool
	switch {
	case status == nil:
		moved, err = s.profileRepo.ClearWithdrawal(ctx, id)
	case *status == domain.WithdrawalProcessing:
		moved, err = s.profileRepo.MarkFeePaid(ctx, id)
	case *status == domain.WithdrawalAwaitingFee:
		moved, err = s.profileRepo.RevertProcessing(ctx, id)
	default:
		return apperror.ErrValidation("unknown withdrawal status")
	}
	if err != nil {
		return apperror.InternalError(fmt.Errorf("force withdrawal status: %w", err))
	}
	if !moved {
		return apperror.ErrStateConflict()
	}

	s.log.Info().Str("user_id", id.String()).Msg("withdrawal status forced")
	return nil
}

// ListTransactions returns a filtered ledger page.
func (s *AdminServiceImpl) ListTransactions(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}
	txns, total, err := s.txRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	return txns, total, nil
}

// GetStats returns aggregate ledger figures.
func (s *AdminServiceImpl) GetStats(ctx context.Context) (*ports.TransactionStats, error) {
	stats, err := s.txRepo.GetStats(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get stats: %w", err))
	}
	return stats, nil
}

// CreateGame adds a catalog entry.
func (s *AdminServiceImpl) CreateGame(ctx context.Context, game *domain.Game) error {
	provider, err := s.providerRepo.GetByID(ctx, game.ProviderID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get provider: %w", err))
	}
	if provider == nil {
		return apperror.ErrNotFound("Provider")
	}

	now := time.Now().UTC()
	game.ID = uuid.New()
	game.CreatedAt = now
	game.UpdatedAt = now
	if err := s.gameRepo.Create(ctx, game); err != nil {
		return apperror.InternalError(fmt.Errorf("create game: %w", err))
	}
	return nil
}

// UpdateGame edits a catalog entry.
func (s *AdminServiceImpl) UpdateGame(ctx context.Context, game *domain.Game) error {
	existing, err := s.gameRepo.GetByID(ctx, game.ID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get game: %w", err))
	}
	if existing == nil {
		return apperror.ErrNotFound("Game")
	}
	if err := s.gameRepo.Update(ctx, game); err != nil {
		return apperror.InternalError(fmt.Errorf("update game: %w", err))
	}
	return nil
}

// DeleteGame removes a catalog entry.
func (s *AdminServiceImpl) DeleteGame(ctx context.Context, id uuid.UUID) error {
	if err := s.gameRepo.Delete(ctx, id); err != nil {
		return apperror.ErrNotFound("Game")
	}
	return nil
}

// ListGames returns the full catalog, inactive entries included.
func (s *AdminServiceImpl) ListGames(ctx context.Context) ([]domain.Game, error) {
	games, err := s.gameRepo.List(ctx, false)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list games: %w", err))
	}
	return games, nil
}

// CreateProvider adds a game studio.
func (s *AdminServiceImpl) CreateProvider(ctx context.Context, provider *domain.Provider) error {
	provider.ID = uuid.New()
	provider.CreatedAt = time.Now().UTC()
	if err := s.providerRepo.Create(ctx, provider); err != nil {
		return apperror.InternalError(fmt.Errorf("create provider: %w", err))
	}
	return nil
}

// UpdateProvider edits a game studio.
func (s *AdminServiceImpl) UpdateProvider(ctx context.Context, provider *domain.Provider) error {
	existing, err := s.providerRepo.GetByID(ctx, provider.ID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get provider: %w", err))
	}
	if existing == nil {
		return apperror.ErrNotFound("Provider")
	}
	if err := s.providerRepo.Update(ctx, provider); err != nil {
		return apperror.InternalError(fmt.Errorf("update provider: %w", err))
	}
	return nil
}

// DeleteProvider removes a game studio.
func (s *AdminServiceImpl) DeleteProvider(ctx context.Context, id uuid.UUID) error {
	if err := s.providerRepo.Delete(ctx, id); err != nil {
		return apperror.ErrNotFound("Provider")
	}
	return nil
}

// ListProviders returns all game studios.
func (s *AdminServiceImpl) ListProviders(ctx context.Context) ([]domain.Provider, error) {
	providers, err := s.providerRepo.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list providers: %w", err))
	}
	return providers, nil
}

// GetSettings returns the stored gateway credentials. The secret key stays
// encrypted; only the public key is exposed.
func (s *AdminServiceImpl) GetSettings(ctx context.Context) (*domain.GatewaySettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get settings: %w", err))
	}
	if settings == nil {
		return nil, apperror.ErrNotFound("Gateway settings")
	}
	return settings, nil
}

// UpdateSettings stores new gateway credentials, encrypting the secret key.
func (s *AdminServiceImpl) UpdateSettings(ctx context.Context, publicKey, secretKey, webhookToken, updatedBy string) error {
	if publicKey == "" || secretKey == "" || webhookToken == "" {
		return apperror.ErrValidation("all gateway credentials are required")
	}

	secretKeyEnc, err := s.encSvc.Encrypt(secretKey)
	if err != nil {
		return apperror.ErrEncryptionFailure(err)
	}

	if err := s.settingsRepo.Upsert(ctx, &domain.GatewaySettings{
		PublicKey:    publicKey,
		SecretKeyEnc: secretKeyEnc,
		WebhookToken: webhookToken,
		UpdatedBy:    &updatedBy,
	}); err != nil {
		return apperror.InternalError(fmt.Errorf("upsert settings: %w", err))
	}

	s.log.Info().Str("updated_by", updatedBy).Msg("gateway credentials rotated")
	return nil
}
