package handler

import (
	"strconv"
	"time"

	"casino-wallet-platform/internal/adapter/http/dto"
	"casino-wallet-platform/internal/adapter/http/middleware"
	"casino-wallet-platform/internal/core/domain"
	"casino-wallet-platform/internal/core/ports"
	"casino-wallet-platform/pkg/apperror"
	"casino-wallet-platform/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler handles the privileged back-office endpoints.
type AdminHandler struct {
	adminSvc ports.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminSvc ports.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

// ListUsers handles GET /api/v1/admin/users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, pageSize := parsePaging(c)
	params := ports.ProfileListParams{
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
	}
	if b := c.Query("blocked"); b != "" {
		if v, err := strconv.ParseBool(b); err == nil {
			params.Blocked = &v
		}
	}

	profiles, total, err := h.adminSvc.ListUsers(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.ProfileResponse, 0, len(profiles))
	for i := range profiles {
		items = append(items, toProfileResponse(&profiles[i]))
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}

	response.OK(c, dto.UserListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}

// GetUser handles GET /api/v1/admin/users/:id.
func (h *AdminHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrValidation("id must be a uuid"))
		return
	}

	profile, err := h.adminSvc.GetUser(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toProfileResponse(profile))
}

// UpdateUser handles PUT /api/v1/admin/users/:id.
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrValidation("id must be a uuid"))
		return
	}

	var req dto.PayoutUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrValidation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	profile, err := h.adminSvc.UpdateUser(c.Request.Context(), id, toContactUpdate(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toProfileResponse(profile))
}

// SetBlocked handles POST /api/v1/admin/users/:id/block.
func (h *AdminHandler) SetBlocked(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrValidation("id must be a uuid"))
		return
	}

	var req dto.BlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrValidation(err.Error()))
		return
	}

	if err := h.adminSvc.SetBlocked(c.Request.Context(), id, *req.Blocked); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"blocked": *req.Blocked})
}

// AdjustBalance handles POST /api/v1/admin/users/:id/balance.
func (h *AdminHandler) AdjustBalance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrValidation("id must be a uuid"))
		return
	}

	var req dto.AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrValidation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	tx, err := h.adminSvc.AdjustBalance(c.Request.Context(), id, req.Amount, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(tx))
}

// ForceWithdrawalStatus handles POST /api/v1/admin/users/:id/withdrawal-status.
func (h *AdminHandler) ForceWithdrawalStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrValidation("id must be a uuid"))
		return
	}

	var req dto.ForceWithdrawalStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrValidation(err.Error()))
		return
	}

	var status *domain.WithdrawalStatus
	if req.Status != nil {
		s := domain.WithdrawalStatus(*req.Status)
		status = &s
	}

	if err := h.adminSvc.ForceWithdrawalStatus(c.Request.Context(), id, status); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"status": req.Status})
}

// ListTransactions handles GET /api/v1/admin/transactions.
func (h *AdminHandler) ListTransactions(c *gin.Context) {
	page, pageSize := parsePaging(c)
	params := ports.TransactionListParams{
		Page:     page,
		PageSize: pageSize,
	}
	if u := c.Query("user_id"); u != "" {
		if id, err := uuid.Parse(u); err == nil {
			params.UserID = &id
		}
	}
	if t := c.Query("type"); t != "" {
		txType := domain.TransactionType(t)
		params.Type = &txType
	}
	if s := c.Query("status"); s != "" {
		status := domain.TransactionStatus(s)
		params.Status = &status
	}
	if f := c.Query("from"); f != "" {
		if v, err := strconv.ParseInt(f, 10, 64); err == nil {
			params.From = &v
		}
	}
	if t := c.Query("to"); t != "" {
		if v, err := strconv.ParseInt(t, 10, 64); err == nil {
			params.To = &v
		}
	}

	txns, total, err := h.adminSvc.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toTransactionListResponse(txns, total, page, pageSize))
}

// GetStats handles GET /api/v1/admin/stats.
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminSvc.GetStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.StatsResponse{
		TotalTransactions: stats.TotalTransactions,
		TotalDeposited:    stats.TotalDeposited.StringFixed(2),
		TotalWithdrawn:    stats.TotalWithdrawn.StringFixed(2),
		TotalWagered:      stats.TotalWagered.StringFixed(2),
		TotalWon:          stats.TotalWon.StringFixed(2),
	})
}

// ListGames handles GET /api/v1/admin/games.
func (h *AdminHandler) ListGames(c *gin.Context) {
	games, err := h.adminSvc.ListGames(c.Request.Context())
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

// CreateGame handles POST /api/v1/admin/games.
func (h *AdminHandler) CreateGame(c *gin.Context) {
	game, err := bindGame(c, uuid.Nil)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.adminSvc.CreateGame(c.Request.Context(), game); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toGameResponse(game))
}

// UpdateGame handles PUT /api/v1/admin/games/:id.
func (h *AdminHandler) UpdateGame(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrValidation("id must be a uuid"))
		return
	}

	game, err := bindGame(c, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.adminSvc.UpdateGame(c.Request.Context(), game); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toGameResponse(game))
}

// DeleteGame handles DELETE /api/v1/admin/games/:id.
func (h *AdminHandler) DeleteGame(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrValidation("id must be a uuid"))
		return
	}

	if err := h.adminSvc.DeleteGame(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"deleted": true})
}

// ListProviders handles GET /api/v1/admin/providers.
func (h *AdminHandler) ListProviders(c *gin.Context) {
	providers, err := h.adminSvc.ListProviders(c.Request.Context())
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

// CreateProvider handles POST /api/v1/admin/providers.
func (h *AdminHandler) CreateProvider(c *gin.Context) {
	provider, err := bindProvider(c, uuid.Nil)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.adminSvc.CreateProvider(c.Request.Context(), provider); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toProviderResponse(provider))
}

// UpdateProvider handles PUT /api/v1/admin/providers/:id.
func (h *AdminHandler) UpdateProvider(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrValidation("id must be a uuid"))
		return
	}

	provider, err := bindProvider(c, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.adminSvc.UpdateProvider(c.Request.Context(), provider); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toProviderResponse(provider))
}

// DeleteProvider handles DELETE /api/v1/admin/providers/:id.
func (h *AdminHandler) DeleteProvider(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrValidation("id must be a uuid"))
		return
	}

	if err := h.adminSvc.DeleteProvider(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"deleted": true})
}

// GetSettings handles GET /api/v1/admin/settings. The secret key never
// leaves the server.
func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.adminSvc.GetSettings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.SettingsResponse{
		PublicKey:    settings.PublicKey,
		WebhookToken: settings.WebhookToken,
		UpdatedBy:    settings.UpdatedBy,
		UpdatedAt:    settings.UpdatedAt.Format(time.RFC3339),
	})
}

// UpdateSettings handles PUT /api/v1/admin/settings.
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var req dto.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrValidation(err.Error()))
		return
	}

	username := c.GetString(middleware.CtxAdminUsername)
	if err := h.adminSvc.UpdateSettings(c.Request.Context(), req.PublicKey, req.SecretKey, req.WebhookToken, username); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"updated": true})
}

func bindGame(c *gin.Context, id uuid.UUID) (*domain.Game, error) {
	var req dto.GameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, apperror.ErrValidation(err.Error())
	}
	dto.SanitizeStruct(&req)

	providerID, err := uuid.Parse(req.ProviderID)
	if err != nil {
		return nil, apperror.ErrValidation("provider_id must be a uuid")
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	return &domain.Game{
		ID:         id,
		ProviderID: providerID,
		Code:       req.Code,
		Name:       req.Name,
		Category:   req.Category,
		ImageURL:   req.ImageURL,
		Active:     active,
	}, nil
}

func bindProvider(c *gin.Context, id uuid.UUID) (*domain.Provider, error) {
	var req dto.ProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, apperror.ErrValidation(err.Error())
	}
	dto.SanitizeStruct(&req)

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	return &domain.Provider{
		ID:     id,
		Name:   req.Name,
		Slug:   req.Slug,
		Active: active,
	}, nil
}
