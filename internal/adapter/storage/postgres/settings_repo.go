package postgres

import (
	"context"
	"errors"
	"fmt"

	"casino-wallet-platform/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// SettingsRepo implements ports.SettingsRepository. The gateway_settings
// table holds at most one row.
type SettingsRepo struct {
	pool Pool
}

// NewSettingsRepo creates a new SettingsRepo.
func NewSettingsRepo(pool Pool) *SettingsRepo {
	return &SettingsRepo{pool: pool}
}

// Get fetches the stored gateway credentials, or nil when unset.
func (r *SettingsRepo) Get(ctx context.Context) (*domain.GatewaySettings, error) {
	query := `SELECT public_key, secret_key_enc, webhook_token, updated_by, updated_at
		FROM gateway_settings WHERE id = 1`

	s := &domain.GatewaySettings{}
	err := r.pool.QueryRow(ctx, query).Scan(
		&s.PublicKey, &s.SecretKeyEnc, &s.WebhookToken, &s.UpdatedBy, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get gateway settings: %w", err)
	}
	return s, nil
}

// Upsert writes the gateway credentials, replacing any previous row.
func (r *SettingsRepo) Upsert(ctx context.Context, s *domain.GatewaySettings) error {
	query := `INSERT INTO gateway_settings (id, public_key, secret_key_enc, webhook_token, updated_by, updated_at)
		VALUES (1, $1, $2, $3, $4, NOW())
		ON CONFLICT (id) DO UPDATE SET
			public_key = EXCLUDED.public_key,
			secret_key_enc = EXCLUDED.secret_key_enc,
			webhook_token = EXCLUDED.webhook_token,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()`

	_, err := r.pool.Exec(ctx, query, s.PublicKey, s.SecretKeyEnc, s.WebhookToken, s.UpdatedBy)
	if err != nil {
		return fmt.Errorf("upsert gateway settings: %w", err)
	}
	return nil
}
