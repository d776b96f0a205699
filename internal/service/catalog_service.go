package service

import (
	"context"
	"fmt"

	"casino-wallet-platform/internal/core/domain"
	"casino-wallet-platform/internal/core/ports"
	"casino-wallet-platform/pkg/apperror"
)

// CatalogServiceImpl serves the public game catalog. Only active entries are
// exposed here; the back-office sees everything through AdminService.
type CatalogServiceImpl struct {
	gameRepo     ports.GameRepository
	providerRepo ports.ProviderRepository
}

// NewCatalogService creates a new CatalogServiceImpl.
func NewCatalogService(gameRepo ports.GameRepository, providerRepo ports.ProviderRepository) *CatalogServiceImpl {
	return &CatalogServiceImpl{gameRepo: gameRepo, providerRepo: providerRepo}
}

func (s *CatalogServiceImpl) ListGames(ctx context.Context) ([]domain.Game, error) {
	games, err := s.gameRepo.List(ctx, true)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list games: %w", err))
	}
	return games, nil
}

func (s *CatalogServiceImpl) ListProviders(ctx context.Context) ([]domain.Provider, error) {
	providers, err := s.providerRepo.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list providers: %w", err))
	}
	return providers, nil
}
