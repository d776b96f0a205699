package postgres

import (
	"context"
	"errors"
	"fmt"

	"casino-wallet-platform/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProviderRepo implements ports.ProviderRepository.
type ProviderRepo struct {
	pool Pool
}

// NewProviderRepo creates a new ProviderRepo.
func NewProviderRepo(pool Pool) *ProviderRepo {
	return &ProviderRepo{pool: pool}
}

// Create inserts a new provider.
func (r *ProviderRepo) Create(ctx context.Context, p *domain.Provider) error {
	query := `INSERT INTO providers (id, name, slug, active, created_at) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query, p.ID, p.Name, p.Slug, p.Active, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert provider: %w", err)
	}
	return nil
}

// Update rewrites a provider's editable fields.
func (r *ProviderRepo) Update(ctx context.Context, p *domain.Provider) error {
	query := `UPDATE providers SET name = $1, slug = $2, active = $3 WHERE id = $4`

	tag, err := r.pool.Exec(ctx, query, p.Name, p.Slug, p.Active, p.ID)
	if err != nil {
		return fmt.Errorf("update provider: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("provider not found: %s", p.ID)
	}
	return nil
}

// Delete removes a provider.
func (r *ProviderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM providers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete provider: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("provider not found: %s", id)
	}
	return nil
}

// GetByID fetches a provider by UUID.
func (r *ProviderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Provider, error) {
	query := `SELECT id, name, slug, active, created_at FROM providers WHERE id = $1`

	p := &domain.Provider{}
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Slug, &p.Active, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get provider by id: %w", err)
	}
	return p, nil
}

// List fetches all providers.
func (r *ProviderRepo) List(ctx context.Context) ([]domain.Provider, error) {
	query := `SELECT id, name, slug, active, created_at FROM providers ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	defer rows.Close()

	var providers []domain.Provider
	for rows.Next() {
		p := domain.Provider{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.Active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan provider row: %w", err)
		}
		providers = append(providers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate provider rows: %w", err)
	}
	return providers, nil
}
