package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"casino-wallet-platform/internal/core/domain"
	"casino-wallet-platform/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const profileColumns = `id, email, full_name, phone, cpf, balance, has_deposited, bonus_claimed,
	pix_key, pix_key_type, pix_name, withdrawal_status, withdrawal_amount, blocked, created_at, updated_at`

// ProfileRepo implements ports.ProfileRepository.
//
// Balance mutations are single conditional UPDATE statements with the guard
// in the WHERE clause and the before/after pair derived in RETURNING, so the
// mutation and its snapshot come from the same atomic statement.
type ProfileRepo struct {
	pool Pool
}

// NewProfileRepo creates a new ProfileRepo.
func NewProfileRepo(pool Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

// GetByID fetches a profile by its UUID.
func (r *ProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM profiles WHERE id = $1`, profileColumns)
	return r.scanProfile(r.pool.QueryRow(ctx, query, id))
}

// List fetches profiles with filtering and pagination for the back-office.
func (r *ProfileRepo) List(ctx context.Context, params ports.ProfileListParams) ([]domain.Profile, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(email ILIKE $%d OR full_name ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+params.Search+"%")
		argIdx++
	}
	if params.Blocked != nil {
		conditions = append(conditions, fmt.Sprintf("blocked = $%d", argIdx))
		args = append(args, *params.Blocked)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM profiles %s", where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count profiles: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT %s FROM profiles %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		profileColumns, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		p := domain.Profile{}
		if err := scanProfileFields(rows, &p); err != nil {
			return nil, 0, fmt.Errorf("scan profile row: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate profile rows: %w", err)
	}
	return profiles, total, nil
}

// UpdateContact updates the editable contact and payout fields. Only non-nil
// fields are written.
func (r *ProfileRepo) UpdateContact(ctx context.Context, id uuid.UUID, fields ports.ProfileContactUpdate) error {
	var sets []string
	var args []any
	argIdx := 1

	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if fields.FullName != nil {
		add("full_name", *fields.FullName)
	}
	if fields.Phone != nil {
		add("phone", *fields.Phone)
	}
	if fields.CPF != nil {
		add("cpf", *fields.CPF)
	}
	if fields.PixKey != nil {
		add("pix_key", *fields.PixKey)
	}
	if fields.PixKeyType != nil {
		add("pix_key_type", string(*fields.PixKeyType))
	}
	if fields.PixName != nil {
		add("pix_name", *fields.PixName)
	}
	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE profiles SET %s, updated_at = NOW() WHERE id = $%d",
		strings.Join(sets, ", "), argIdx)
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update profile contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("profile not found: %s", id)
	}
	return nil
}

// SetBlocked flips the blocked flag.
func (r *ProfileRepo) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error {
	query := `UPDATE profiles SET blocked = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, blocked, id)
	if err != nil {
		return fmt.Errorf("set profile blocked: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("profile not found: %s", id)
	}
	return nil
}

// CreditDeposit adds amount and marks the profile as having deposited.
func (r *ProfileRepo) CreditDeposit(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount decimal.Decimal) (*domain.BalanceChange, error) {
	query := `UPDATE profiles
		SET balance = balance + $2, has_deposited = TRUE, updated_at = NOW()
		WHERE id = $1
		RETURNING balance - $2, balance`

	return scanBalanceChange(tx.QueryRow(ctx, query, id, amount), "credit deposit")
}

// ReserveWithdrawal debits amount and moves the profile to awaiting_fee.
// Returns nil when the balance is insufficient or a withdrawal is already in
// flight.
func (r *ProfileRepo) ReserveWithdrawal(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount decimal.Decimal) (*domain.BalanceChange, error) {
	query := `UPDATE profiles
		SET balance = balance - $2,
			withdrawal_status = 'awaiting_fee',
			withdrawal_amount = $2,
			updated_at = NOW()
		WHERE id = $1 AND balance >= $2 AND withdrawal_status IS NULL
		RETURNING balance + $2, balance`

	return scanBalanceChange(tx.QueryRow(ctx, query, id, amount), "reserve withdrawal")
}

// ReleaseWithdrawal refunds the reserved amount and clears the in-flight
// state. Returns nil when no withdrawal is awaiting its fee.
func (r *ProfileRepo) ReleaseWithdrawal(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.BalanceChange, error) {
	// The reserved amount is needed both to credit the balance and to derive
	// the before value, so snapshot it in a locking CTE first.
	query := `WITH reserved AS (
			SELECT withdrawal_amount AS amount FROM profiles
			WHERE id = $1 AND withdrawal_status = 'awaiting_fee'
			FOR UPDATE
		)
		UPDATE profiles p
		SET balance = p.balance + reserved.amount,
			withdrawal_status = NULL,
			withdrawal_amount = 0,
			updated_at = NOW()
		FROM reserved
		WHERE p.id = $1
		RETURNING p.balance - reserved.amount, p.balance`

	return scanBalanceChange(tx.QueryRow(ctx, query, id), "release withdrawal")
}

// MarkFeePaid moves awaiting_fee to processing. Reports false when the
// profile was not awaiting a fee.
func (r *ProfileRepo) MarkFeePaid(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE profiles SET withdrawal_status = 'processing', updated_at = NOW()
		WHERE id = $1 AND withdrawal_status = 'awaiting_fee'`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("mark fee paid: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// RevertProcessing moves processing back to awaiting_fee. Reports false when
// the profile was not processing.
func (r *ProfileRepo) RevertProcessing(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE profiles SET withdrawal_status = 'awaiting_fee', updated_at = NOW()
		WHERE id = $1 AND withdrawal_status = 'processing'`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("revert processing: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ClearWithdrawal drops the in-flight state after the payout was executed.
// The balance was already debited at reservation time.
func (r *ProfileRepo) ClearWithdrawal(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE profiles SET withdrawal_status = NULL, withdrawal_amount = 0, updated_at = NOW()
		WHERE id = $1 AND withdrawal_status IS NOT NULL`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("clear withdrawal: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ClaimBonus credits amount once. Returns nil when the bonus is unavailable
// or already claimed.
func (r *ProfileRepo) ClaimBonus(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount decimal.Decimal) (*domain.BalanceChange, error) {
	query := `UPDATE profiles
		SET balance = balance + $2, bonus_claimed = TRUE, updated_at = NOW()
		WHERE id = $1 AND has_deposited = TRUE AND bonus_claimed = FALSE
		RETURNING balance - $2, balance`

	return scanBalanceChange(tx.QueryRow(ctx, query, id, amount), "claim bonus")
}

// AdjustBalance applies a signed delta. Returns nil when a debit would take
// the balance negative.
func (r *ProfileRepo) AdjustBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta decimal.Decimal) (*domain.BalanceChange, error) {
	query := `UPDATE profiles
		SET balance = balance + $2, updated_at = NOW()
		WHERE id = $1 AND balance + $2 >= 0
		RETURNING balance - $2, balance`

	return scanBalanceChange(tx.QueryRow(ctx, query, id, delta), "adjust balance")
}

// scanBalanceChange reads the (before, after) pair returned by a conditional
// update. A no-row result means the guard did not match.
func scanBalanceChange(row pgx.Row, op string) (*domain.BalanceChange, error) {
	change := &domain.BalanceChange{}
	err := row.Scan(&change.Before, &change.After)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return change, nil
}

// scanProfileFields scans one profiles row into p.
func scanProfileFields(row pgx.Row, p *domain.Profile) error {
	var keyType *string
	var status *string

	err := row.Scan(
		&p.ID, &p.Email, &p.FullName, &p.Phone, &p.CPF,
		&p.Balance, &p.HasDeposited, &p.BonusClaimed,
		&p.PixKey, &keyType, &p.PixName,
		&status, &p.WithdrawalAmount, &p.Blocked,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if keyType != nil {
		kt := domain.PixKeyType(*keyType)
		p.PixKeyType = &kt
	}
	if status != nil {
		st := domain.WithdrawalStatus(*status)
		p.WithdrawalStatus = &st
	}
	return nil
}

func (r *ProfileRepo) scanProfile(row pgx.Row) (*domain.Profile, error) {
	p := &domain.Profile{}
	if err := scanProfileFields(row, p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	return p, nil
}
