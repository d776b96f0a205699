package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"casino-wallet-platform/internal/core/ports"
	"casino-wallet-platform/internal/core/ports/mocks"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ==================== SessionAuth Tests ====================

func TestSessionAuth_MissingHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	verifier := mocks.NewMockSessionVerifier(ctrl)

	router := gin.New()
	router.GET("/test", SessionAuth(verifier, zerolog.Nop()), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionAuth_InvalidToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	verifier := mocks.NewMockSessionVerifier(ctrl)
	verifier.EXPECT().Verify("bad-token").Return(uuid.Nil, errors.New("expired"))

	router := gin.New()
	router.GET("/test", SessionAuth(verifier, zerolog.Nop()), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionAuth_SetsUserID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	verifier := mocks.NewMockSessionVerifier(ctrl)
	verifier.EXPECT().Verify("good-token").Return(userID, nil)

	var seen uuid.UUID
	router := gin.New()
	router.GET("/test", SessionAuth(verifier, zerolog.Nop()), func(c *gin.Context) {
		seen = c.MustGet(CtxUserID).(uuid.UUID)
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, seen)
}

// ==================== JWTAuth Tests ====================

func TestJWTAuth_MissingHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tokenSvc := mocks.NewMockTokenService(ctrl)

	router := gin.New()
	router.GET("/admin", JWTAuth(tokenSvc, zerolog.Nop()), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_SetsAdminContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	adminID := uuid.New()
	tokenSvc := mocks.NewMockTokenService(ctrl)
	tokenSvc.EXPECT().Validate("jwt-token").Return(&ports.AdminClaims{
		AdminID:  adminID,
		Username: "operator",
	}, nil)

	var seenID uuid.UUID
	var seenName string
	router := gin.New()
	router.GET("/admin", JWTAuth(tokenSvc, zerolog.Nop()), func(c *gin.Context) {
		seenID = c.MustGet(CtxAdminID).(uuid.UUID)
		seenName = c.MustGet(CtxAdminUsername).(string)
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer jwt-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, adminID, seenID)
	assert.Equal(t, "operator", seenName)
}

// ==================== WebhookAuth Tests ====================

func webhookRouter(creds ports.CredentialSource) *gin.Engine {
	router := gin.New()
	router.POST("/webhooks/pix", WebhookAuth(creds, zerolog.Nop()), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	return router
}

func TestWebhookAuth_MissingToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	creds := mocks.NewMockCredentialSource(ctrl)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/pix", nil)
	w := httptest.NewRecorder()
	webhookRouter(creds).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookAuth_WrongToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	creds := mocks.NewMockCredentialSource(ctrl)
	creds.EXPECT().Credentials(gomock.Any()).Return(&ports.GatewayCredentials{
		WebhookToken: "expected-token",
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/pix", nil)
	req.Header.Set(HeaderWebhookToken, "wrong-token")
	w := httptest.NewRecorder()
	webhookRouter(creds).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookAuth_ValidToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	creds := mocks.NewMockCredentialSource(ctrl)
	creds.EXPECT().Credentials(gomock.Any()).Return(&ports.GatewayCredentials{
		WebhookToken: "expected-token",
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/pix", nil)
	req.Header.Set(HeaderWebhookToken, "expected-token")
	w := httptest.NewRecorder()
	webhookRouter(creds).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookAuth_EmptyConfiguredTokenRejects(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	creds := mocks.NewMockCredentialSource(ctrl)
	creds.EXPECT().Credentials(gomock.Any()).Return(&ports.GatewayCredentials{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/pix", nil)
	req.Header.Set(HeaderWebhookToken, "")
	w := httptest.NewRecorder()
	webhookRouter(creds).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// ==================== MaxBodySize Tests ====================

func TestMaxBodySize_RejectsOversizedBody(t *testing.T) {
	router := gin.New()
	router.Use(MaxBodySize(16))
	router.POST("/test", func(c *gin.Context) {
		var body map[string]interface{}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "too large"})
			return
		}
		c.JSON(200, gin.H{"ok": true})
	})

	big := bytes.Repeat([]byte("a"), 64)
	req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewReader(big))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

// ==================== RequestLogger Tests ====================

func TestRequestLogger_PassesThrough(t *testing.T) {
	router := gin.New()
	router.Use(RequestLogger(zerolog.Nop()))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"pong": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

// ==================== Recovery Tests ====================

func TestRecovery_CatchesPanic(t *testing.T) {
	router := gin.New()
	router.Use(Recovery(zerolog.Nop()))
	router.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "SYS_001")
}
