package service

import (
	"context"
	"testing"
	"time"

	"casino-wallet-platform/internal/core/domain"
	"casino-wallet-platform/internal/core/ports/mocks"
	"casino-wallet-platform/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type authTestDeps struct {
	svc       *AuthServiceImpl
	adminRepo *mocks.MockAdminRepository
	hashSvc   *mocks.MockHashService
	tokenSvc  *mocks.MockTokenService
	audit     *mocks.MockAuditService
	ctrl      *gomock.Controller
}

func setupAuthService(t *testing.T) *authTestDeps {
	ctrl := gomock.NewController(t)
	d := &authTestDeps{
		adminRepo: mocks.NewMockAdminRepository(ctrl),
		hashSvc:   mocks.NewMockHashService(ctrl),
		tokenSvc:  mocks.NewMockTokenService(ctrl),
		audit:     mocks.NewMockAuditService(ctrl),
		ctrl:      ctrl,
	}
	d.svc = NewAuthService(d.adminRepo, d.hashSvc, d.tokenSvc, d.audit, zerolog.Nop())
	return d
}

func TestAuthService_Login_Success(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	adminID := uuid.New()
	expiry := time.Now().Add(time.Hour)

	d.adminRepo.EXPECT().GetByUsername(ctx, "operator").Return(&domain.AdminUser{
		ID:           adminID,
		Username:     "operator",
		PasswordHash: "$argon2id$...",
	}, nil)
	d.hashSvc.EXPECT().Verify("s3cret", "$argon2id$...").Return(true, nil)
	d.tokenSvc.EXPECT().Generate(adminID, "operator").Return("jwt-token", expiry, nil)
	d.audit.EXPECT().Log(ctx, gomock.Any())

	token, expiresAt, err := d.svc.Login(ctx, "operator", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)
	assert.Equal(t, expiry, expiresAt)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.adminRepo.EXPECT().GetByUsername(ctx, "ghost").Return(nil, nil)

	_, _, err := d.svc.Login(ctx, "ghost", "whatever")
	require.Error(t, err)
	assert.Equal(t, "AUTH_001", err.(*apperror.AppError).Code)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.adminRepo.EXPECT().GetByUsername(ctx, "operator").Return(&domain.AdminUser{
		ID:           uuid.New(),
		Username:     "operator",
		PasswordHash: "$argon2id$...",
	}, nil)
	d.hashSvc.EXPECT().Verify("wrong", "$argon2id$...").Return(false, nil)

	_, _, err := d.svc.Login(ctx, "operator", "wrong")
	require.Error(t, err)
	assert.Equal(t, "AUTH_001", err.(*apperror.AppError).Code)
}
