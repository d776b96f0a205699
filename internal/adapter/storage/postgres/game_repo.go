package postgres

import (
	"context"
	"errors"
	"fmt"

	"casino-wallet-platform/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const gameColumns = `id, provider_id, code, name, category, image_url, active, created_at, updated_at`

// GameRepo implements ports.GameRepository.
type GameRepo struct {
	pool Pool
}

// NewGameRepo creates a new GameRepo.
func NewGameRepo(pool Pool) *GameRepo {
	return &GameRepo{pool: pool}
}

// Create inserts a new game.
func (r *GameRepo) Create(ctx context.Context, g *domain.Game) error {
	query := `INSERT INTO games (id, provider_id, code, name, category, image_url, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		g.ID, g.ProviderID, g.Code, g.Name, g.Category, g.ImageURL, g.Active, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

// Update rewrites the editable fields of a game.
func (r *GameRepo) Update(ctx context.Context, g *domain.Game) error {
	query := `UPDATE games SET provider_id = $1, code = $2, name = $3, category = $4,
		image_url = $5, active = $6, updated_at = NOW() WHERE id = $7`

	tag, err := r.pool.Exec(ctx, query,
		g.ProviderID, g.Code, g.Name, g.Category, g.ImageURL, g.Active, g.ID,
	)
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("game not found: %s", g.ID)
	}
	return nil
}

// Delete removes a game from the catalog.
func (r *GameRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("game not found: %s", id)
	}
	return nil
}

// GetByID fetches a game by UUID.
func (r *GameRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Game, error) {
	query := fmt.Sprintf(`SELECT %s FROM games WHERE id = $1`, gameColumns)
	return r.scanGame(r.pool.QueryRow(ctx, query, id))
}

// GetByCode fetches a game by its provider code.
func (r *GameRepo) GetByCode(ctx context.Context, code string) (*domain.Game, error) {
	query := fmt.Sprintf(`SELECT %s FROM games WHERE code = $1`, gameColumns)
	return r.scanGame(r.pool.QueryRow(ctx, query, code))
}

// List fetches games in catalog order, optionally restricted to active ones.
func (r *GameRepo) List(ctx context.Context, onlyActive bool) ([]domain.Game, error) {
	query := fmt.Sprintf(`SELECT %s FROM games`, gameColumns)
	if onlyActive {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var games []domain.Game
	for rows.Next() {
		g := domain.Game{}
		err := rows.Scan(&g.ID, &g.ProviderID, &g.Code, &g.Name, &g.Category,
			&g.ImageURL, &g.Active, &g.CreatedAt, &g.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan game row: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate game rows: %w", err)
	}
	return games, nil
}

func (r *GameRepo) scanGame(row pgx.Row) (*domain.Game, error) {
	g := &domain.Game{}
	err := row.Scan(&g.ID, &g.ProviderID, &g.Code, &g.Name, &g.Category,
		&g.ImageURL, &g.Active, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan game: %w", err)
	}
	return g, nil
}
