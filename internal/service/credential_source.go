package service

import (
	"context"
	"fmt"

	"casino-wallet-platform/config"
	"casino-wallet-platform/internal/core/ports"
	"casino-wallet-platform/pkg/apperror"
)

// SettingsCredentialSource resolves gateway credentials from the
// admin-configured settings row, decrypting the stored secret key. When no
// row exists yet it falls back to the static configuration.
type SettingsCredentialSource struct {
	settingsRepo ports.SettingsRepository
	encSvc       ports.EncryptionService
	fallback     config.GatewayConfig
}

// NewSettingsCredentialSource creates a new SettingsCredentialSource.
func NewSettingsCredentialSource(
	settingsRepo ports.SettingsRepository,
	encSvc ports.EncryptionService,
	fallback config.GatewayConfig,
) *SettingsCredentialSource {
	return &SettingsCredentialSource{
		settingsRepo: settingsRepo,
		encSvc:       encSvc,
		fallback:     fallback,
	}
}

// Credentials returns the current gateway credential set.
func (s *SettingsCredentialSource) Credentials(ctx context.Context) (*ports.GatewayCredentials, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get gateway settings: %w", err))
	}
	if settings == nil {
		return &ports.GatewayCredentials{
			PublicKey:    s.fallback.PublicKey,
			SecretKey:    s.fallback.SecretKey,
			WebhookToken: s.fallback.WebhookToken,
		}, nil
	}

	secretKey, err := s.encSvc.Decrypt(settings.SecretKeyEnc)
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(err)
	}
	return &ports.GatewayCredentials{
		PublicKey:    settings.PublicKey,
		SecretKey:    secretKey,
		WebhookToken: settings.WebhookToken,
	}, nil
}
