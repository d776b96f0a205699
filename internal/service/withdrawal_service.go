package service

import (
	"context"
	"encoding/json"
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

// WithdrawalServiceImpl implements ports.WithdrawalService.
//
// The state machine per profile: nil -> awaiting_fee (Request), awaiting_fee
// -> processing (ConfirmFee), awaiting_fee -> nil (Cancel). On every dialog
// open an observed processing state is reverted to awaiting_fee before
// rendering, so processing never survives a revisit.
type WithdrawalServiceImpl struct {
	profileRepo   ports.ProfileRepository
	idempRepo     ports.IdempotencyRepository
	idempCache    ports.IdempotencyCache
	ledger        ports.LedgerService
	gateway       ports.PixGateway
	transactor    ports.DBTransactor
	minWithdrawal decimal.Decimal
	feeRate       decimal.Decimal
	callbackURL   string
	metrics       *metrics.Metrics
	log           zerolog.Logger
}

// NewWithdrawalService creates a new WithdrawalServiceImpl.
func NewWithdrawalService(
	profileRepo ports.ProfileRepository,
	idempRepo ports.IdempotencyRepository,
	idempCache ports.IdempotencyCache,
	ledger ports.LedgerService,
	gateway ports.PixGateway,
	transactor ports.DBTransactor,
	minWithdrawal decimal.Decimal,
	feeRate decimal.Decimal,
	callbackURL string,
	m *metrics.Metrics,
	log zerolog.Logger,
) *WithdrawalServiceImpl {
	return &WithdrawalServiceImpl{
		profileRepo:   profileRepo,
		idempRepo:     idempRepo,
		idempCache:    idempCache,
		ledger:        ledger,
		gateway:       gateway,
		transactor:    transactor,
		minWithdrawal: minWithdrawal,
		feeRate:       feeRate,
		callbackURL:   callbackURL,
		metrics:       m,
		log:           log,
	}
}

// FeeFor computes the admin fee for a reserved withdrawal amount.
func (s *WithdrawalServiceImpl) FeeFor(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(s.feeRate).Round(2)
}

// Request reserves amount for payout: debits the balance and moves the
// profile to awaiting_fee, with the debit ledger row in the same transaction.
func (s *WithdrawalServiceImpl) Request(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*domain.Profile, error) {
	if !amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	if amount.LessThan(s.minWithdrawal) {
		return nil, apperror.ErrWithdrawalBelowMinimum(s.minWithdrawal.StringFixed(2))
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
	if !profile.HasDeposited {
		return nil, apperror.ErrWithdrawalRequiresDeposit()
	}
	if !profile.BonusClaimed {
		return nil, apperror.ErrWithdrawalRequiresBonus()
	}
	if !profile.HasPayoutDetails() {
		return nil, apperror.ErrMissingPayoutDetails()
	}
	if profile.CPF == nil || *profile.CPF == "" {
		return nil, apperror.ErrMissingPayoutDetails()
	}
	if !domain.ValidCPF(*profile.CPF) {
		return nil, apperror.ErrInvalidCPF()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	change, err := s.profileRepo.ReserveWithdrawal(ctx, dbTx, userID, amount)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("reserve withdrawal: %w", err))
	}
	if change == nil {
		// Guard failed: either funds are short or a withdrawal is in flight.
		if profile.HasWithdrawalInFlight() {
			return nil, apperror.ErrWithdrawalInFlight()
		}
		return nil, apperror.ErrInsufficientBalance()
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:            uuid.New(),
		UserID:        userID,
		Type:          domain.TransactionTypeWithdrawal,
		Amount:        amount.Neg(),
		BalanceBefore: change.Before,
		BalanceAfter:  change.After,
		Status:        domain.TransactionStatusCompleted,
		Description:   "Saque PIX solicitado",
		CreatedAt:     now,
	}
	if err := s.ledger.Append(ctx, dbTx, txn); err != nil {
		return nil, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	if s.metrics != nil {
		s.metrics.WithdrawalsRequested.Inc()
	}
	s.ledger.Committed(ctx, txn)

	return s.getProfile(ctx, userID)
}

// Open reports the withdrawal state for the dialog. An observed processing
// state is reverted to awaiting_fee first and surfaced as a fee rejection;
// the client then shows the retry/cancel screen.
func (s *WithdrawalServiceImpl) Open(ctx context.Context, userID uuid.UUID) (*ports.WithdrawalView, error) {
	profile, err := s.getProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &ports.WithdrawalView{Profile: profile, FeeAmount: decimal.Zero}

	if profile.WithdrawalStatus != nil && *profile.WithdrawalStatus == domain.WithdrawalProcessing {
		reverted, err := s.profileRepo.RevertProcessing(ctx, userID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("revert processing: %w", err))
		}
		if reverted {
			view.FeeRejected = true
			st := domain.WithdrawalAwaitingFee
			profile.WithdrawalStatus = &st
			s.log.Info().Str("user_id", userID.String()).Msg("withdrawal reverted to awaiting_fee on dialog open")
		}
	}

	if profile.HasWithdrawalInFlight() {
		view.FeeAmount = s.FeeFor(profile.WithdrawalAmount)
	}

	return view, nil
}

// CreateFeeCharge creates the PIX charge for the admin fee of the pending
// withdrawal.
func (s *WithdrawalServiceImpl) CreateFeeCharge(ctx context.Context, userID uuid.UUID) (*ports.DepositCharge, error) {
	profile, err := s.getProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.WithdrawalStatus == nil || *profile.WithdrawalStatus != domain.WithdrawalAwaitingFee {
		return nil, apperror.ErrNoWithdrawalPending()
	}
	if profile.FullName == nil || profile.CPF == nil {
		return nil, apperror.ErrIncompleteProfile()
	}

	fee := s.FeeFor(profile.WithdrawalAmount)
	identifier := chargeIdentifier("TAXA", userID)
	phone := ""
	if profile.Phone != nil {
		phone = *profile.Phone
	}

	charge, err := s.gateway.CreateCharge(ctx, ports.ChargeRequest{
		Identifier: identifier,
		Amount:     fee,
		Customer: ports.ChargeCustomer{
			Name:     *profile.FullName,
			Email:    profile.Email,
			Phone:    phone,
			Document: *profile.CPF,
		},
		CallbackURL: s.callbackURL,
		TrackProps: map[string]string{
			"userId": userID.String(),
			"type":   "admin_fee",
		},
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user_id", userID.String()).
		Str("identifier", identifier).
		Str("fee", fee.String()).
		Msg("withdrawal fee charge created")

	return &ports.DepositCharge{
		GatewayTxID:  charge.TransactionID,
		Identifier:   identifier,
		QRCode:       charge.QRCode,
		QRCodeBase64: charge.QRCodeBase64,
		QRCodeImage:  charge.QRCodeImage,
		Amount:       fee,
	}, nil
}

// ConfirmFee moves awaiting_fee to processing when the fee payment webhook
// arrives. The fee never enters the wallet balance, so no ledger row is
// written; duplicate deliveries are acknowledged without effect.
func (s *WithdrawalServiceImpl) ConfirmFee(ctx context.Context, conf ports.PaymentConfirmation) (bool, error) {
	idempKey := domain.BuildFeeKey(conf.GatewayTxID)

	cached, err := s.idempCache.Get(ctx, idempKey)
	if err != nil {
		s.log.Warn().Err(err).Str("key", idempKey).Msg("redis idempotency check failed, falling through to DB")
	}
	if cached != nil {
		return true, nil
	}
	idempLog, err := s.idempRepo.Get(ctx, idempKey)
	if err != nil {
		return false, apperror.InternalError(fmt.Errorf("db idempotency check: %w", err))
	}
	if idempLog != nil {
		return true, nil
	}

	moved, err := s.profileRepo.MarkFeePaid(ctx, conf.UserID)
	if err != nil {
		return false, apperror.InternalError(fmt.Errorf("mark fee paid: %w", err))
	}
	if !moved {
		// Not awaiting a fee; acknowledge so the gateway stops retrying.
		s.log.Warn().
			Str("user_id", conf.UserID.String()).
			Str("gateway_tx_id", conf.GatewayTxID).
			Msg("fee confirmation for profile not awaiting fee")
		return false, nil
	}

	now := time.Now().UTC()
	respJSON, _ := json.Marshal(map[string]string{"status": "fee_confirmed"})

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return true, nil // state already moved; dedup row is best-effort
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.idempRepo.Create(ctx, dbTx, &domain.IdempotencyLog{
		Key:           idempKey,
		TransactionID: uuid.New(),
		ResponseJSON:  respJSON,
		CreatedAt:     now,
	}); err == nil {
		_ = dbTx.Commit(ctx)
	}

	if err := s.idempCache.Set(ctx, idempKey, respJSON, idempotencyTTL); err != nil {
		s.log.Warn().Err(err).Str("key", idempKey).Msg("failed to cache idempotency in redis")
	}

	if s.metrics != nil {
		s.metrics.FeesConfirmed.Inc()
	}
	s.log.Info().
		Str("user_id", conf.UserID.String()).
		Str("gateway_tx_id", conf.GatewayTxID).
		Msg("withdrawal fee confirmed, payout processing")

	return true, nil
}

// Cancel returns the reserved amount to the balance and clears the in-flight
// state, appending the refund ledger row in the same transaction.
func (s *WithdrawalServiceImpl) Cancel(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	change, err := s.profileRepo.ReleaseWithdrawal(ctx, dbTx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("release withdrawal: %w", err))
	}
	if change == nil {
		return nil, apperror.ErrNoWithdrawalPending()
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:            uuid.New(),
		UserID:        userID,
		Type:          domain.TransactionTypeWithdrawal,
		Amount:        change.After.Sub(change.Before),
		BalanceBefore: change.Before,
		BalanceAfter:  change.After,
		Status:        domain.TransactionStatusCompleted,
		Description:   "Estorno de saque cancelado",
		Metadata:      map[string]string{"event": "withdrawal_canceled"},
		CreatedAt:     now,
	}
	if err := s.ledger.Append(ctx, dbTx, txn); err != nil {
		return nil, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	if s.metrics != nil {
		s.metrics.WithdrawalsCanceled.Inc()
	}
	s.ledger.Committed(ctx, txn)

	return s.getProfile(ctx, userID)
}

func (s *WithdrawalServiceImpl) getProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get profile: %w", err))
	}
	if profile == nil {
		return nil, apperror.ErrNotFound("Profile")
	}
	return profile, nil
}
