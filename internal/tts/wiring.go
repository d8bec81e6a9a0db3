package tts

import (
	"context"

	"notecaster/internal/config"
	"notecaster/internal/storage"
)

// NewRegistryFromConfig populates the registry with the known drivers.
// Adding a provider means adding one Register call here; resolution stays
// purely name-based.
func NewRegistryFromConfig(cfg config.TTS, store storage.Storage) *Registry {
	registry := NewRegistry(cfg.DefaultProvider)

	registry.Register("polly", cfg.Polly.Enabled, func() (Provider, error) {
		return NewPollyProvider(context.Background(), PollyConfig{
			Region:          cfg.Polly.Region,
			AccessKeyID:     cfg.Polly.AccessKeyID,
			SecretAccessKey: cfg.Polly.SecretAccessKey,
		}, store)
	})

	registry.Register("murf", cfg.Murf.Enabled, func() (Provider, error) {
		return NewMurfProvider(MurfConfig{
			APIKey:  cfg.Murf.APIKey,
			BaseURL: cfg.Murf.BaseURL,
		}, store)
	})

	return registry
}
