package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"casino-wallet-platform/internal/core/domain"
	"casino-wallet-platform/internal/core/ports"
	"casino-wallet-platform/internal/metrics"
	"casino-wallet-platform/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const idempotencyTTL = 24 * time.Hour

// chargeIdentifier builds the gateway tracking id, e.g. DEP_a1b2c3d4_1700000000000.
func chargeIdentifier(prefix string, userID uuid.UUID) string {
	uid := strings.ReplaceAll(userID.String(), "-", "")[:8]
	return fmt.Sprintf("%s_%s_%d", prefix, uid, time.Now().UnixMilli())
}

// DepositServiceImpl implements ports.DepositService.
type DepositServiceImpl struct {
	profileRepo ports.ProfileRepository
	idempRepo   ports.IdempotencyRepository
	idempCache  ports.IdempotencyCache
	ledger      ports.LedgerService
	gateway     ports.PixGateway
	transactor  ports.DBTransactor
	minDeposit  decimal.Decimal
	callbackURL string
	metrics     *metrics.Metrics
	log         zerolog.Logger
}

// NewDepositService creates a new DepositServiceImpl.
func NewDepositService(
	profileRepo ports.ProfileRepository,
	idempRepo ports.IdempotencyRepository,
	idempCache ports.IdempotencyCache,
	ledger ports.LedgerService,
	gateway ports.PixGateway,
	transactor ports.DBTransactor,
	minDeposit decimal.Decimal,
	callbackURL string,
	m *metrics.Metrics,
	log zerolog.Logger,
) *DepositServiceImpl {
	return &DepositServiceImpl{
		profileRepo: profileRepo,
		idempRepo:   idempRepo,
		idempCache:  idempCache,
		ledger:      ledger,
		gateway:     gateway,
		transactor:  transactor,
		minDeposit:  minDeposit,
		callbackURL: callbackURL,
		metrics:     m,
		log:         log,
	}
}

// CreateCharge creates a PIX charge for funding the wallet. No balance
// mutation happens here; the credit lands when the gateway webhook confirms.
func (s *DepositServiceImpl) CreateCharge(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*ports.DepositCharge, error) {
	if !amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	if amount.LessThan(s.minDeposit) {
		return nil, apperror.ErrDepositBelowMinimum(s.minDeposit.StringFixed(2))
	}

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
	if profile.FullName == nil || *profile.FullName == "" || profile.CPF == nil || *profile.CPF == "" {
		return nil, apperror.ErrIncompleteProfile()
	}
	if !domain.ValidCPF(*profile.CPF) {
		return nil, apperror.ErrInvalidCPF()
	}

	identifier := chargeIdentifier("DEP", userID)
	phone := ""
	if profile.Phone != nil {
		phone = *profile.Phone
	}

	charge, err := s.gateway.CreateCharge(ctx, ports.ChargeRequest{
		Identifier: identifier,
		Amount:     amount,
		Customer: ports.ChargeCustomer{
			Name:     *profile.FullName,
			Email:    profile.Email,
			Phone:    phone,
			Document: *profile.CPF,
		},
		CallbackURL: s.callbackURL,
		TrackProps: map[string]string{
			"userId":        userID.String(),
			"depositAmount": amount.String(),
		},
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user_id", userID.String()).
		Str("identifier", identifier).
		Str("gateway_tx_id", charge.TransactionID).
		Str("amount", amount.String()).
		Msg("deposit charge created")

	return &ports.DepositCharge{
		GatewayTxID:  charge.TransactionID,
		Identifier:   identifier,
		QRCode:       charge.QRCode,
		QRCodeBase64: charge.QRCodeBase64,
		QRCodeImage:  charge.QRCodeImage,
		Amount:       amount,
	}, nil
}

// Confirm credits the balance exactly once per gateway transaction id. The
// dedup is two-layer: a Redis fast path and a unique idempotency_logs row
// written in the same database transaction as the credit.
func (s *DepositServiceImpl) Confirm(ctx context.Context, conf ports.PaymentConfirmation) (*domain.Transaction, error) {
	if !conf.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	idempKey := domain.BuildDepositKey(conf.GatewayTxID)

	// Layer 1: Redis idempotency check
	cached, err := s.idempCache.Get(ctx, idempKey)
	if err != nil {
		s.log.Warn().Err(err).Str("key", idempKey).Msg("redis idempotency check failed, falling through to DB")
	}
	if cached != nil {
		return unmarshalCachedTransaction(cached)
	}

	// Layer 2: DB idempotency check
	idempLog, err := s.idempRepo.Get(ctx, idempKey)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("db idempotency check: %w", err))
	}
	if idempLog != nil {
		return unmarshalCachedTransaction(idempLog.ResponseJSON)
	}

	// Begin database transaction
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	change, err := s.profileRepo.CreditDeposit(ctx, dbTx, conf.UserID, conf.Amount)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("credit deposit: %w", err))
	}
	if change == nil {
		return nil, apperror.ErrNotFound("Profile")
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:            uuid.New(),
		UserID:        conf.UserID,
		Type:          domain.TransactionTypeDeposit,
		Amount:        conf.Amount,
		BalanceBefore: change.Before,
		BalanceAfter:  change.After,
		Status:        domain.TransactionStatusCompleted,
		Description:   "Depósito PIX",
		Metadata:      map[string]string{"gateway_tx_id": conf.GatewayTxID},
		CreatedAt:     now,
	}

	if err := s.ledger.Append(ctx, dbTx, txn); err != nil {
		return nil, err
	}

	respJSON, err := json.Marshal(txn)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("marshal response: %w", err))
	}
	if err := s.idempRepo.Create(ctx, dbTx, &domain.IdempotencyLog{
		Key:           idempKey,
		TransactionID: txn.ID,
		ResponseJSON:  respJSON,
		CreatedAt:     now,
	}); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save idempotency log: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	// Post-commit: cache in Redis (best-effort)
	if err := s.idempCache.Set(ctx, idempKey, respJSON, idempotencyTTL); err != nil {
		s.log.Warn().Err(err).Str("key", idempKey).Msg("failed to cache idempotency in redis")
	}

	if s.metrics != nil {
		s.metrics.DepositsConfirmed.Inc()
	}
	s.ledger.Committed(ctx, txn)

	return txn, nil
}

// unmarshalCachedTransaction decodes a previously stored confirmation result.
func unmarshalCachedTransaction(data []byte) (*domain.Transaction, error) {
	txn := &domain.Transaction{}
	if err := json.Unmarshal(data, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("unmarshal cached transaction: %w", err))
	}
	return txn, nil
}
