package secrets

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// SecretSource defines where secrets are loaded from
type SecretSource string

const (
	// SourceEnvironment loads secrets from environment variables
	SourceEnvironment SecretSource = "environment"
	// SourceVault loads secrets from Azure Key Vault
	SourceVault SecretSource = "vault"
	// SourceAuto uses the vault outside development and the environment otherwise
	SourceAuto SecretSource = "auto"
)

// Fetcher retrieves a single named secret from a backing store
type Fetcher interface {
	GetSecret(ctx context.Context, secretName string) (string, error)
}

// Provider resolves secrets from the configured source
type Provider struct {
	source  SecretSource
	fetcher Fetcher
	logger  *zap.Logger
}

// ProviderConfig holds configuration for the secrets provider
type ProviderConfig struct {
	Source       SecretSource
	VaultName    string
	Environment  string
	CacheEnabled bool
	CacheTTL     time.Duration
}

// ResolveSource maps SourceAuto onto a concrete source for the environment
func ResolveSource(source SecretSource, environment string) SecretSource {
	if source != SourceAuto {
		return source
	}
	switch environment {
	case "development", "local", "":
		return SourceEnvironment
	default:
		return SourceVault
	}
}

// NewProvider creates a new secrets provider
func NewProvider(cfg *ProviderConfig, logger *zap.Logger) (*Provider, error) {
	source := ResolveSource(cfg.Source, cfg.Environment)

	switch source {
	case SourceEnvironment:
		return NewProviderWithFetcher(source, envFetcher{}, logger), nil
	case SourceVault:
		if cfg.VaultName == "" {
			return nil, fmt.Errorf("vault name required when using vault secret source")
		}
		vault, err := NewVaultClient(&VaultConfig{
			VaultName:    cfg.VaultName,
			CacheEnabled: cfg.CacheEnabled,
			CacheTTL:     cfg.CacheTTL,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize vault client: %w", err)
		}
		return NewProviderWithFetcher(source, vault, logger), nil
	default:
		return nil, fmt.Errorf("unknown secret source: %s", source)
	}
}

// NewProviderWithFetcher builds a provider around an existing fetcher
func NewProviderWithFetcher(source SecretSource, fetcher Fetcher, logger *zap.Logger) *Provider {
	return &Provider{source: source, fetcher: fetcher, logger: logger}
}

// GetSecret retrieves a secret by name from the configured source
func (p *Provider) GetSecret(ctx context.Context, secretName string) (string, error) {
	return p.fetcher.GetSecret(ctx, secretName)
}

// GetSecretOrEnv prefers an explicitly set environment variable and falls back to the configured source
func (p *Provider) GetSecretOrEnv(ctx context.Context, secretName, envName string) (string, error) {
	if envValue := os.Getenv(envName); envValue != "" {
		p.logger.Debug("Using environment variable override", zap.String("env_name", envName))
		return envValue, nil
	}
	return p.GetSecret(ctx, secretName)
}

// Source returns the current secret source
func (p *Provider) Source() SecretSource {
	return p.source
}

type envFetcher struct{}

func (envFetcher) GetSecret(_ context.Context, secretName string) (string, error) {
	value := os.Getenv(secretName)
	if value == "" {
		return "", fmt.Errorf("environment variable '%s' not set", secretName)
	}
	return value, nil
}
