package service

import (
	"context"
	"fmt"
	"time"

	"casino-wallet-platform/internal/core/domain"
	"casino-wallet-platform/internal/core/ports"
	"casino-wallet-platform/internal/metrics"
	"casino-wallet-platform/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SettlementServiceImpl implements ports.SettlementService. Game hosts post
// round events (bet, win, rollback); each applies a signed delta to the
// balance with its ledger row in the same transaction.
type SettlementServiceImpl struct {
	profileRepo ports.ProfileRepository
	gameRepo    ports.GameRepository
	ledger      ports.LedgerService
	transactor  ports.DBTransactor
	metrics     *metrics.Metrics
	log         zerolog.Logger
}

// NewSettlementService creates a new SettlementServiceImpl.
func NewSettlementService(
	profileRepo ports.ProfileRepository,
	gameRepo ports.GameRepository,
	ledger ports.LedgerService,
	transactor ports.DBTransactor,
	m *metrics.Metrics,
	log zerolog.Logger,
) *SettlementServiceImpl {
	return &SettlementServiceImpl{
		profileRepo: profileRepo,
		gameRepo:    gameRepo,
		ledger:      ledger,
		transactor:  transactor,
		metrics:     m,
		log:         log,
	}
}

// Apply settles a round event against the wallet.
func (s *SettlementServiceImpl) Apply(ctx context.Context, req ports.SettlementRequest) (*domain.Transaction, error) {
	if !domain.ValidSettlementAction(req.Action) {
		return nil, apperror.ErrValidation("unknown settlement action")
	}
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	profile, err := s.profileRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get profile: %w", err))
	}
	if profile == nil {
		return nil, apperror.ErrNotFound("Profile")
	}
	if profile.Blocked {
		return nil, apperror.ErrAccountBlocked()
	}

	if req.GameCode != "" {
		game, err := s.gameRepo.GetByCode(ctx, req.GameCode)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("get game: %w", err))
		}
		if game == nil || !game.Active {
			return nil, apperror.ErrNotFound("Game")
		}
	}

	delta := req.Amount
	txType := domain.TransactionTypeWin
	description := "Prêmio de rodada"
	metadata := map[string]string{
		"game_code": req.GameCode,
		"round_id":  req.RoundID,
		"action":    string(req.Action),
	}

	switch req.Action {
	case domain.SettlementBet:
		delta = req.Amount.Neg()
		txType = domain.TransactionTypeBet
		description = "Aposta em rodada"
	case domain.SettlementRollback:
		txType = domain.TransactionTypeBet
		description = "Estorno de aposta"
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	change, err := s.profileRepo.AdjustBalance(ctx, dbTx, req.UserID, delta)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("adjust balance: %w", err))
	}
	if change == nil {
		return nil, apperror.ErrInsufficientBalance()
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:            uuid.New(),
		UserID:        req.UserID,
		Type:          txType,
		Amount:        delta,
		BalanceBefore: change.Before,
		BalanceAfter:  change.After,
		Status:        domain.TransactionStatusCompleted,
		Description:   description,
		Metadata:      metadata,
		CreatedAt:     now,
	}
	if err := s.ledger.Append(ctx, dbTx, txn); err != nil {
		return nil, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	if s.metrics != nil {
		s.metrics.SettlementsApplied.WithLabelValues(string(req.Action)).Inc()
	}
	s.ledger.Committed(ctx, txn)

	return txn, nil
}
