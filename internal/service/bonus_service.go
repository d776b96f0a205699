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
	"github.com/shopspring/decimal"
)

// BonusServiceImpl implements ports.BonusService. The welcome bonus is a
// fixed USD figure converted to local currency at a configured rate, credited
// at most once per profile after the first deposit.
type BonusServiceImpl struct {
	profileRepo ports.ProfileRepository
	ledger      ports.LedgerService
	transactor  ports.DBTransactor
	bonusAmount decimal.Decimal
	metrics     *metrics.Metrics
	log         zerolog.Logger
}

// NewBonusService creates a new BonusServiceImpl.
func NewBonusService(
	profileRepo ports.ProfileRepository,
	ledger ports.LedgerService,
	transactor ports.DBTransactor,
	bonusAmount decimal.Decimal,
	m *metrics.Metrics,
	log zerolog.Logger,
) *BonusServiceImpl {
	return &BonusServiceImpl{
		profileRepo: profileRepo,
		ledger:      ledger,
		transactor:  transactor,
		bonusAmount: bonusAmount,
		metrics:     m,
		log:         log,
	}
}

// Claim credits the welcome bonus once. The single conditional update guards
// both eligibility and repeat claims, so concurrent requests collapse to one
// credit.
func (s *BonusServiceImpl) Claim(ctx context.Context, userID uuid.UUID) (*domain.Transaction, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get profile: %w", err))
	}
	if profile == nil {
		return nil, apperror.ErrNotFound("Profile")
	}
	if profile.Blocked {
		return nil, apperror.ErrAccountBlocked()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	change, err := s.profileRepo.ClaimBonus(ctx, dbTx, userID, s.bonusAmount)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("claim bonus: %w", err))
	}
	if change == nil {
		if profile.BonusClaimed {
			return nil, apperror.ErrBonusAlreadyClaimed()
		}
		return nil, apperror.ErrBonusUnavailable()
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:            uuid.New(),
		UserID:        userID,
		Type:          domain.TransactionTypeDeposit,
		Amount:        s.bonusAmount,
		BalanceBefore: change.Before,
		BalanceAfter:  change.After,
		Status:        domain.TransactionStatusCompleted,
		Description:   "Bônus de boas-vindas",
		Metadata:      map[string]string{"bonus": "welcome"},
		CreatedAt:     now,
	}
	if err := s.ledger.Append(ctx, dbTx, txn); err != nil {
		return nil, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	if s.metrics != nil {
		s.metrics.BonusesClaimed.Inc()
	}
	s.ledger.Committed(ctx, txn)

	return txn, nil
}
