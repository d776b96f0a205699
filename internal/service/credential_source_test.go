package service

import (
	"context"
	"testing"

	"casino-wallet-platform/config"
	"casino-wallet-platform/internal/core/domain"
	"casino-wallet-platform/internal/core/ports/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSettingsCredentialSource_FromSettingsRow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	settingsRepo := mocks.NewMockSettingsRepository(ctrl)
	encSvc := mocks.NewMockEncryptionService(ctrl)
	src := NewSettingsCredentialSource(settingsRepo, encSvc, config.GatewayConfig{})

	ctx := context.Background()
	settingsRepo.EXPECT().Get(ctx).Return(&domain.GatewaySettings{
		PublicKey:    "pk_configured",
		SecretKeyEnc: "enc_secret",
		WebhookToken: "whk_configured",
	}, nil)
	encSvc.EXPECT().Decrypt("enc_secret").Return("sk_configured", nil)

	creds, err := src.Credentials(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pk_configured", creds.PublicKey)
	assert.Equal(t, "sk_configured", creds.SecretKey)
	assert.Equal(t, "whk_configured", creds.WebhookToken)
}

func TestSettingsCredentialSource_FallbackToConfig(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	settingsRepo := mocks.NewMockSettingsRepository(ctrl)
	encSvc := mocks.NewMockEncryptionService(ctrl)
	src := NewSettingsCredentialSource(settingsRepo, encSvc, config.GatewayConfig{
		PublicKey:    "pk_env",
		SecretKey:    "sk_env",
		WebhookToken: "whk_env",
	})

	ctx := context.Background()
	settingsRepo.EXPECT().Get(ctx).Return(nil, nil)

	creds, err := src.Credentials(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pk_env", creds.PublicKey)
	assert.Equal(t, "sk_env", creds.SecretKey)
	assert.Equal(t, "whk_env", creds.WebhookToken)
}
