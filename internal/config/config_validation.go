package config

import "strings"

// validate checks invariants that must hold regardless of which binary
// loaded the configuration. Role-specific requirements are checked by the
// exported Validate* methods called from each binary's main.
func (cfg *StructuredConfig) validate() error {
	return nil
}

// ValidateAuthority checks the configuration groups the authority binary
// requires at startup.
func (cfg *StructuredConfig) ValidateAuthority() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Storage.Tier.BaseURL == "" || cfg.Storage.Tier.Timeout == 0 {
		return ErrInvalidStorageConfigs
	}

	if cfg.App.TokenSignKey == "" || cfg.App.PINHashKey == "" ||
		cfg.App.SessionDuration == 0 || cfg.App.KeyDir == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}

// ValidateCloud checks the configuration groups the storage tier binary
// requires at startup.
func (cfg *StructuredConfig) ValidateCloud() error {
	if cfg.Cloud.HTTPAddress == "" || cfg.Cloud.AuthorityHost == "" ||
		cfg.Cloud.BlobDir == "" || cfg.Cloud.ParamsPath == "" {
		return ErrInvalidCloudConfigs
	}

	return nil
}

// ValidateClient checks the configuration groups the client binary requires
// at startup.
func (cfg *StructuredConfig) ValidateClient() error {
	if cfg.Client.AuthorityBaseURL == "" || cfg.Client.Timeout == 0 {
		return ErrInvalidClientConfigs
	}

	return nil
}
