package postgres

import (
	"context"
	"testing"
	"time"

	"casino-wallet-platform/internal/core/domain"
	"casino-wallet-platform/internal/core/ports"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProfile() *domain.Profile {
	name := "Maria Souza"
	return &domain.Profile{
		ID:               uuid.New(),
		Email:            "maria@example.com",
		FullName:         &name,
		Balance:          decimal.NewFromInt(100),
		HasDeposited:     true,
		WithdrawalAmount: decimal.Zero,
		CreatedAt:        time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt:        time.Now().UTC().Truncate(time.Microsecond),
	}
}

func profileTestColumns() []string {
	return []string{"id", "email", "full_name", "phone", "cpf", "balance", "has_deposited",
		"bonus_claimed", "pix_key", "pix_key_type", "pix_name", "withdrawal_status",
		"withdrawal_amount", "blocked", "created_at", "updated_at"}
}

func profileRow(p *domain.Profile) *pgxmock.Rows {
	var keyType, status *string
	if p.PixKeyType != nil {
		s := string(*p.PixKeyType)
		keyType = &s
	}
	if p.WithdrawalStatus != nil {
		s := string(*p.WithdrawalStatus)
		status = &s
	}
	return pgxmock.NewRows(profileTestColumns()).AddRow(
		p.ID, p.Email, p.FullName, p.Phone, p.CPF, p.Balance, p.HasDeposited,
		p.BonusClaimed, p.PixKey, keyType, p.PixName, status,
		p.WithdrawalAmount, p.Blocked, p.CreatedAt, p.UpdatedAt,
	)
}

func TestProfileRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProfileRepo(mock)
	p := newTestProfile()

	mock.ExpectQuery("SELECT .+ FROM profiles WHERE id").
		WithArgs(p.ID).
		WillReturnRows(profileRow(p))

	result, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, p.ID, result.ID)
	assert.True(t, result.Balance.Equal(decimal.NewFromInt(100)))
	assert.Nil(t, result.WithdrawalStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProfileRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM profiles WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(profileTestColumns()))

	result, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepo_GetByID_WithdrawalStatusMapped(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProfileRepo(mock)
	p := newTestProfile()
	st := domain.WithdrawalAwaitingFee
	p.WithdrawalStatus = &st
	p.WithdrawalAmount = decimal.NewFromInt(50)

	mock.ExpectQuery("SELECT .+ FROM profiles WHERE id").
		WithArgs(p.ID).
		WillReturnRows(profileRow(p))

	result, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotNil(t, result.WithdrawalStatus)
	assert.Equal(t, domain.WithdrawalAwaitingFee, *result.WithdrawalStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepo_CreditDeposit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProfileRepo(mock)
	id := uuid.New()
	amount := decimal.NewFromInt(30)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE profiles").
		WithArgs(id, amount).
		WillReturnRows(pgxmock.NewRows([]string{"before", "after"}).
			AddRow(decimal.NewFromInt(0), decimal.NewFromInt(30)))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	change, err := repo.CreditDeposit(context.Background(), tx, id, amount)
	require.NoError(t, err)
	require.NotNil(t, change)
	assert.True(t, change.Before.IsZero())
	assert.True(t, change.After.Equal(amount))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepo_ReserveWithdrawal_GuardFails(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProfileRepo(mock)
	id := uuid.New()
	amount := decimal.NewFromInt(500)

	mock.ExpectBegin()
	// No row back means the balance or state guard rejected the update.
	mock.ExpectQuery("UPDATE profiles").
		WithArgs(id, amount).
		WillReturnRows(pgxmock.NewRows([]string{"before", "after"}))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	change, err := repo.ReserveWithdrawal(context.Background(), tx, id, amount)
	require.NoError(t, err)
	assert.Nil(t, change)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepo_ReleaseWithdrawal(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProfileRepo(mock)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("WITH reserved AS").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"before", "after"}).
			AddRow(decimal.NewFromInt(50), decimal.NewFromInt(100)))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	change, err := repo.ReleaseWithdrawal(context.Background(), tx, id)
	require.NoError(t, err)
	require.NotNil(t, change)
	assert.True(t, change.After.Equal(decimal.NewFromInt(100)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepo_MarkFeePaid(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProfileRepo(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE profiles SET withdrawal_status = 'processing'").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ok, err := repo.MarkFeePaid(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepo_MarkFeePaid_NotAwaiting(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProfileRepo(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE profiles SET withdrawal_status = 'processing'").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := repo.MarkFeePaid(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepo_RevertProcessing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProfileRepo(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE profiles SET withdrawal_status = 'awaiting_fee'").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ok, err := repo.RevertProcessing(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepo_ClaimBonus_AlreadyClaimed(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProfileRepo(mock)
	id := uuid.New()
	amount := decimal.RequireFromString("759.16")

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE profiles").
		WithArgs(id, amount).
		WillReturnRows(pgxmock.NewRows([]string{"before", "after"}))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	change, err := repo.ClaimBonus(context.Background(), tx, id, amount)
	require.NoError(t, err)
	assert.Nil(t, change)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepo_SetBlocked(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProfileRepo(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE profiles SET blocked").
		WithArgs(true, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.SetBlocked(context.Background(), id, true)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepo_UpdateContact_NoFields(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProfileRepo(mock)

	// Nothing to update, no query should run.
	err = repo.UpdateContact(context.Background(), uuid.New(), ports.ProfileContactUpdate{})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepo_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProfileRepo(mock)
	p := newTestProfile()

	mock.ExpectQuery("SELECT COUNT.+ FROM profiles").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT .+ FROM profiles .+ ORDER BY created_at DESC").
		WithArgs(20, 0).
		WillReturnRows(profileRow(p))

	profiles, total, err := repo.List(context.Background(), ports.ProfileListParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, profiles, 1)
	assert.Equal(t, p.Email, profiles[0].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}
