package handler

import (
	"casino-wallet-platform/internal/adapter/http/dto"
	"casino-wallet-platform/internal/core/ports"
	"casino-wallet-platform/pkg/apperror"
	"casino-wallet-platform/pkg/response"

	"github.com/gin-gonic/gin"
)

// DepositHandler handles PIX deposit endpoints.
type DepositHandler struct {
	depositSvc ports.DepositService
}

// NewDepositHandler creates a new DepositHandler.
func NewDepositHandler(depositSvc ports.DepositService) *DepositHandler {
	return &DepositHandler{depositSvc: depositSvc}
}

// CreateCharge handles POST /api/v1/wallet/deposits.
func (h *DepositHandler) CreateCharge(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrValidation(err.Error()))
		return
	}

	charge, err := h.depositSvc.CreateCharge(c.Request.Context(), userID, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toChargeResponse(charge))
}
