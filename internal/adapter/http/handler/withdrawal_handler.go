package handler

import (
	"casino-wallet-platform/internal/adapter/http/dto"
	"casino-wallet-platform/internal/core/ports"
	"casino-wallet-platform/pkg/apperror"
	"casino-wallet-platform/pkg/response"

	"github.com/gin-gonic/gin"
)

// WithdrawalHandler handles the withdrawal state machine endpoints.
type WithdrawalHandler struct {
	withdrawalSvc ports.WithdrawalService
}

// NewWithdrawalHandler creates a new WithdrawalHandler.
func NewWithdrawalHandler(withdrawalSvc ports.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalSvc: withdrawalSvc}
}

// Open handles GET /api/v1/wallet/withdrawal. Called on every dialog open;
// a withdrawal observed in 'processing' is reverted to 'awaiting_fee' before
// the state is reported.
func (h *WithdrawalHandler) Open(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	view, err := h.withdrawalSvc.Open(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.WithdrawalViewResponse{
		Amount:      view.Profile.WithdrawalAmount.StringFixed(2),
		FeeAmount:   view.FeeAmount.StringFixed(2),
		FeeRejected: view.FeeRejected,
		Balance:     view.Profile.Balance.StringFixed(2),
	}
	if view.Profile.WithdrawalStatus != nil {
		s := string(*view.Profile.WithdrawalStatus)
		resp.Status = &s
	}

	response.OK(c, resp)
}

// Request handles POST /api/v1/wallet/withdrawals.
func (h *WithdrawalHandler) Request(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrValidation(err.Error()))
		return
	}

	profile, err := h.withdrawalSvc.Request(c.Request.Context(), userID, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toProfileResponse(profile))
}

// CreateFeeCharge handles POST /api/v1/wallet/withdrawal/fee.
func (h *WithdrawalHandler) CreateFeeCharge(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	charge, err := h.withdrawalSvc.CreateFeeCharge(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toChargeResponse(charge))
}

// Cancel handles DELETE /api/v1/wallet/withdrawal.
func (h *WithdrawalHandler) Cancel(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	profile, err := h.withdrawalSvc.Cancel(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toProfileResponse(profile))
}
