package service

import (
	"context"
	"fmt"

	"casino-wallet-platform/internal/core/domain"
	"casino-wallet-platform/internal/core/ports"
	"casino-wallet-platform/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AccountServiceImpl implements ports.AccountService, the player-facing
// profile surface.
type AccountServiceImpl struct {
	profileRepo ports.ProfileRepository
	txRepo      ports.TransactionRepository
	log         zerolog.Logger
}

// NewAccountService creates a new AccountServiceImpl.
func NewAccountService(profileRepo ports.ProfileRepository, txRepo ports.TransactionRepository, log zerolog.Logger) *AccountServiceImpl {
	return &AccountServiceImpl{
		profileRepo: profileRepo,
		txRepo:      txRepo,
		log:         log,
	}
}

// Get fetches the caller's profile. Blocked profiles surface SEC_001 so the
// client drops the session.
func (s *AccountServiceImpl) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
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
	return profile, nil
}

// UpdatePayout updates contact and PIX payout fields.
func (s *AccountServiceImpl) UpdatePayout(ctx context.Context, userID uuid.UUID, fields ports.ProfileContactUpdate) (*domain.Profile, error) {
	if fields.PixKeyType != nil && !domain.ValidPixKeyType(*fields.PixKeyType) {
		return nil, apperror.ErrValidation("unknown PIX key type")
	}

	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.profileRepo.UpdateContact(ctx, userID, fields); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update contact: %w", err))
	}

	s.log.Info().Str("user_id", profile.ID.String()).Msg("payout details updated")

	return s.Get(ctx, userID)
}

// ListTransactions returns the caller's ledger page, newest first.
func (s *AccountServiceImpl) ListTransactions(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]domain.Transaction, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	txns, total, err := s.txRepo.ListByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	return txns, total, nil
}
