package service

import (
	"context"
	"testing"

	"casino-wallet-platform/internal/core/domain"
	"casino-wallet-platform/internal/core/ports/mocks"
	"casino-wallet-platform/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// 136.05 USD at 5.58 BRL/USD.
var welcomeBonus = decimal.NewFromFloat(136.05).Mul(decimal.NewFromFloat(5.58)).Round(2)

type bonusTestDeps struct {
	svc         *BonusServiceImpl
	profileRepo *mocks.MockProfileRepository
	ledger      *mocks.MockLedgerService
	transactor  *mocks.MockDBTransactor
	ctrl        *gomock.Controller
}

func setupBonusService(t *testing.T) *bonusTestDeps {
	ctrl := gomock.NewController(t)
	d := &bonusTestDeps{
		profileRepo: mocks.NewMockProfileRepository(ctrl),
		ledger:      mocks.NewMockLedgerService(ctrl),
		transactor:  mocks.NewMockDBTransactor(ctrl),
		ctrl:        ctrl,
	}
	d.svc = NewBonusService(d.profileRepo, d.ledger, d.transactor, welcomeBonus, nil, zerolog.Nop())
	return d
}

func TestBonusService_Claim_Success(t *testing.T) {
	d := setupBonusService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	tx := &mockTx{}

	profile := fundedProfile(userID)
	profile.HasDeposited = true

	d.profileRepo.EXPECT().GetByID(ctx, userID).Return(profile, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.profileRepo.EXPECT().ClaimBonus(ctx, tx, userID, welcomeBonus).Return(&domain.BalanceChange{
		Before: decimal.NewFromInt(100),
		After:  decimal.NewFromInt(100).Add(welcomeBonus),
	}, nil)
	d.ledger.EXPECT().Append(ctx, tx, gomock.Any()).Return(nil)
	d.ledger.EXPECT().Committed(ctx, gomock.Any())

	txn, err := d.svc.Claim(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "759.16", txn.Amount.StringFixed(2))
	assert.Equal(t, domain.TransactionTypeDeposit, txn.Type)
	assert.Equal(t, "welcome", txn.Metadata["bonus"])
	assert.True(t, txn.Consistent())
}

func TestBonusService_Claim_NoDepositYet(t *testing.T) {
	d := setupBonusService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	tx := &mockTx{}

	d.profileRepo.EXPECT().GetByID(ctx, userID).Return(fundedProfile(userID), nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.profileRepo.EXPECT().ClaimBonus(ctx, tx, userID, welcomeBonus).Return(nil, nil)

	_, err := d.svc.Claim(ctx, userID)
	require.Error(t, err)
	assert.Equal(t, "WAL_009", err.(*apperror.AppError).Code)
}

func TestBonusService_Claim_AlreadyClaimed(t *testing.T) {
	d := setupBonusService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	tx := &mockTx{}

	profile := fundedProfile(userID)
	profile.HasDeposited = true
	profile.BonusClaimed = true

	d.profileRepo.EXPECT().GetByID(ctx, userID).Return(profile, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.profileRepo.EXPECT().ClaimBonus(ctx, tx, userID, welcomeBonus).Return(nil, nil)

	_, err := d.svc.Claim(ctx, userID)
	require.Error(t, err)
	assert.Equal(t, "WAL_010", err.(*apperror.AppError).Code)
}

func TestBonusService_Claim_BlockedProfile(t *testing.T) {
	d := setupBonusService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()

	profile := fundedProfile(userID)
	profile.Blocked = true

	d.profileRepo.EXPECT().GetByID(ctx, userID).Return(profile, nil)

	_, err := d.svc.Claim(ctx, userID)
	require.Error(t, err)
	assert.Equal(t, "SEC_001", err.(*apperror.AppError).Code)
}
