package config

import "errors"

// Validation errors returned by validate methods when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, empty DSN or missing storage tier URL).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, missing token sign key or key directory).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidCloudConfigs indicates invalid storage-tier node settings
	// (for example, missing blob directory or authority host).
	ErrInvalidCloudConfigs = errors.New("invalid cloud configuration")
	// ErrInvalidClientConfigs indicates invalid client settings
	// (for example, missing authority URL or zero timeout).
	ErrInvalidClientConfigs = errors.New("invalid client configuration")
)
