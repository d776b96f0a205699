package handler

import (
	"casino-wallet-platform/internal/adapter/http/dto"
	"casino-wallet-platform/internal/core/domain"
	"casino-wallet-platform/internal/core/ports"
	"casino-wallet-platform/pkg/apperror"
	"casino-wallet-platform/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	webhookEventPaid      = "TRANSACTION_PAID"
	webhookStatusComplete = "COMPLETED"

	trackPropUserID = "userId"
	trackPropType   = "type"
	trackTypeFee    = "admin_fee"
)

// WebhookHandler handles inbound gateway webhooks and game-host callbacks.
// Both arrive behind the shared-token middleware.
type WebhookHandler struct {
	depositSvc    ports.DepositService
	withdrawalSvc ports.WithdrawalService
	settlementSvc ports.SettlementService
	log           zerolog.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(
	depositSvc ports.DepositService,
	withdrawalSvc ports.WithdrawalService,
	settlementSvc ports.SettlementService,
	log zerolog.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		depositSvc:    depositSvc,
		withdrawalSvc: withdrawalSvc,
		settlementSvc: settlementSvc,
		log:           log,
	}
}

// HandlePix handles POST /api/v1/webhooks/pix. Deliveries for events other
// than a completed payment are acknowledged and dropped; the gateway retries
// on anything but 2xx.
func (h *WebhookHandler) HandlePix(c *gin.Context) {
	var req dto.PixWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidWebhookPayload())
		return
	}

	if req.Event != webhookEventPaid || req.Status != webhookStatusComplete {
		h.log.Debug().Str("event", req.Event).Str("status", req.Status).
			Str("gateway_tx_id", req.TransactionID).Msg("webhook ignored")
		response.OK(c, gin.H{"applied": false})
		return
	}

	userID, err := uuid.Parse(req.TrackProps[trackPropUserID])
	if err != nil {
		response.Error(c, apperror.ErrInvalidWebhookPayload())
		return
	}

	conf := ports.PaymentConfirmation{
		GatewayTxID: req.TransactionID,
		UserID:      userID,
		Amount:      decimal.New(req.Amount, -2), // gateway reports cents
	}

	// Fee charges are tagged in trackProps; everything else is a deposit.
	if req.TrackProps[trackPropType] == trackTypeFee {
		applied, err := h.withdrawalSvc.ConfirmFee(c.Request.Context(), conf)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"applied": applied})
		return
	}

	tx, err := h.depositSvc.Confirm(c.Request.Context(), conf)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"applied": true, "transaction_id": tx.ID.String()})
}

// HandleGameCallback handles POST /api/v1/callbacks/game.
func (h *WebhookHandler) HandleGameCallback(c *gin.Context) {
	var req dto.GameCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrValidation(err.Error()))
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.Error(c, apperror.ErrValidation("user_id must be a uuid"))
		return
	}

	tx, err := h.settlementSvc.Apply(c.Request.Context(), ports.SettlementRequest{
		UserID:   userID,
		Action:   domain.SettlementAction(req.Action),
		Amount:   req.Amount,
		GameCode: req.GameCode,
		RoundID:  req.RoundID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toTransactionResponse(tx))
}
