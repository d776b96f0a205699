package handler

import (
	"math"
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

// WalletHandler handles the player-facing wallet endpoints.
type WalletHandler struct {
	accountSvc ports.AccountService
	bonusSvc   ports.BonusService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(accountSvc ports.AccountService, bonusSvc ports.BonusService) *WalletHandler {
	return &WalletHandler{accountSvc: accountSvc, bonusSvc: bonusSvc}
}

// GetWallet handles GET /api/v1/wallet.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	profile, err := h.accountSvc.Get(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toProfileResponse(profile))
}

// UpdatePayout handles PUT /api/v1/wallet/payout.
func (h *WalletHandler) UpdatePayout(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.PayoutUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrValidation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	profile, err := h.accountSvc.UpdatePayout(c.Request.Context(), userID, toContactUpdate(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toProfileResponse(profile))
}

// ListTransactions handles GET /api/v1/wallet/transactions.
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	page, pageSize := parsePaging(c)
	txns, total, err := h.accountSvc.ListTransactions(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toTransactionListResponse(txns, total, page, pageSize))
}

// ClaimBonus handles POST /api/v1/wallet/bonus.
func (h *WalletHandler) ClaimBonus(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	tx, err := h.bonusSvc.Claim(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(tx))
}

// sessionUserID pulls the authenticated profile id set by SessionAuth.
func sessionUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(middleware.CtxUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func parsePaging(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func toProfileResponse(p *domain.Profile) dto.ProfileResponse {
	resp := dto.ProfileResponse{
		ID:               p.ID.String(),
		Email:            p.Email,
		FullName:         p.FullName,
		Phone:            p.Phone,
		CPF:              p.CPF,
		Balance:          p.Balance.StringFixed(2),
		HasDeposited:     p.HasDeposited,
		BonusClaimed:     p.BonusClaimed,
		PixKey:           p.PixKey,
		PixName:          p.PixName,
		WithdrawalAmount: p.WithdrawalAmount.StringFixed(2),
		Blocked:          p.Blocked,
		CreatedAt:        p.CreatedAt.Format(time.RFC3339),
	}
	if p.PixKeyType != nil {
		s := string(*p.PixKeyType)
		resp.PixKeyType = &s
	}
	if p.WithdrawalStatus != nil {
		s := string(*p.WithdrawalStatus)
		resp.WithdrawalStatus = &s
	}
	return resp
}

func toContactUpdate(req *dto.PayoutUpdateRequest) ports.ProfileContactUpdate {
	upd := ports.ProfileContactUpdate{
		FullName: req.FullName,
		Phone:    req.Phone,
		CPF:      req.CPF,
		PixKey:   req.PixKey,
		PixName:  req.PixName,
	}
	if req.PixKeyType != nil {
		kt := domain.PixKeyType(*req.PixKeyType)
		upd.PixKeyType = &kt
	}
	return upd
}

func toTransactionResponse(t *domain.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:            t.ID.String(),
		UserID:        t.UserID.String(),
		Type:          string(t.Type),
		Amount:        t.Amount.StringFixed(2),
		BalanceBefore: t.BalanceBefore.StringFixed(2),
		BalanceAfter:  t.BalanceAfter.StringFixed(2),
		Status:        string(t.Status),
		Description:   t.Description,
		Metadata:      t.Metadata,
		CreatedAt:     t.CreatedAt.Format(time.RFC3339),
	}
}

func toTransactionListResponse(txns []domain.Transaction, total int64, page, pageSize int) dto.TransactionListResponse {
	items := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, toTransactionResponse(&txns[i]))
	}
	return dto.TransactionListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}
}

func toChargeResponse(ch *ports.DepositCharge) dto.ChargeResponse {
	return dto.ChargeResponse{
		GatewayTxID:  ch.GatewayTxID,
		Identifier:   ch.Identifier,
		QRCode:       ch.QRCode,
		QRCodeBase64: ch.QRCodeBase64,
		QRCodeImage:  ch.QRCodeImage,
		Amount:       ch.Amount.StringFixed(2),
	}
}
