package handler

import (
	"casino-wallet-platform/internal/adapter/http/dto"
	"casino-wallet-platform/internal/core/domain"
	"casino-wallet-platform/internal/core/ports"
	"casino-wallet-platform/pkg/response"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the public game catalog.
type CatalogHandler struct {
	catalogSvc ports.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogSvc ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// ListGames handles GET /api/v1/games.
func (h *CatalogHandler) ListGames(c *gin.Context) {
	games, err := h.catalogSvc.ListGames(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.GameResponse, 0, len(games))
	for i := range games {
		items = append(items, toGameResponse(&games[i]))
	}
	response.OK(c, items)
}

// ListProviders handles GET /api/v1/providers.
func (h *CatalogHandler) ListProviders(c *gin.Context) {
	providers, err := h.catalogSvc.ListProviders(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.ProviderResponse, 0, len(providers))
	for i := range providers {
		items = append(items, toProviderResponse(&providers[i]))
	}
	response.OK(c, items)
}

func toGameResponse(g *domain.Game) dto.GameResponse {
	return dto.GameResponse{
		ID:         g.ID.String(),
		ProviderID: g.ProviderID.String(),
		Code:       g.Code,
		Name:       g.Name,
		Category:   g.Category,
		ImageURL:   g.ImageURL,
		Active:     g.Active,
	}
}

func toProviderResponse(p *domain.Provider) dto.ProviderResponse {
	return dto.ProviderResponse{
		ID:     p.ID.String(),
		Name:   p.Name,
		Slug:   p.Slug,
		Active: p.Active,
	}
}
