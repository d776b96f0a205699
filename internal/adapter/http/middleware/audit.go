package middleware

import (
	"encoding/json"
	"strings"
	"time"

	"casino-wallet-platform/internal/core/domain"
	"casino-wallet-platform/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog creates an audit middleware that records successful back-office
// write operations. It maps route patterns to audit actions.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only audit successful write operations (status 2xx)
		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if c.Request.Method == "GET" || c.Request.Method == "HEAD" || c.Request.Method == "OPTIONS" {
			return
		}

		action, resourceType := mapRouteToAction(c.FullPath(), c.Request.Method)
		if action == "" {
			return
		}

		var adminID *uuid.UUID
		if aid, exists := c.Get(CtxAdminID); exists {
			if id, ok := aid.(uuid.UUID); ok {
				adminID = &id
			}
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			AdminID:      adminID,
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   c.Param("id"),
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now(),
		})
	}
}

func mapRouteToAction(route, method string) (domain.AuditAction, string) {
	switch {
	case route == "/api/v1/admin/users/:id/balance" && method == "POST":
		return domain.AuditActionBalanceAdjust, "profile"
	case route == "/api/v1/admin/users/:id/withdrawal-status" && method == "POST":
		return domain.AuditActionWithdrawalForce, "profile"
	case route == "/api/v1/admin/users/:id/block" && method == "POST":
		return domain.AuditActionUserUpdate, "profile"
	case route == "/api/v1/admin/users/:id" && method == "PUT":
		return domain.AuditActionUserUpdate, "profile"
	case route == "/api/v1/admin/settings" && method == "PUT":
		return domain.AuditActionSettingsUpdate, "gateway_settings"
	case strings.HasPrefix(route, "/api/v1/admin/games"):
		return domain.AuditActionGameWrite, "game"
	case strings.HasPrefix(route, "/api/v1/admin/providers"):
		return domain.AuditActionProviderWrite, "provider"
	}
	return "", ""
}
