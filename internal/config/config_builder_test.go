package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewConfigBuilder_InitialState verifies that a freshly created builder
// has no error and an empty parts slice.
func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.parts)
}

// TestBuild_EmptyBuilder verifies that building with no configs returns a
// zero-value StructuredConfig.
func TestBuild_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

// TestBuild_PropagatesBuilderError verifies that a pre-set b.err is wrapped
// and returned, with nil config.
func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_MergesMultipleConfigs verifies that fields from multiple configs
// are merged into a single result, with the earlier-appended source winning
// for fields both sources set.
func TestBuild_MergesMultipleConfigs(t *testing.T) {
	b := newConfigBuilder()
	b.parts = append(b.parts,
		&StructuredConfig{
			App: App{TokenSignKey: "from_env"},
		},
		&StructuredConfig{
			App:     App{TokenSignKey: "from_flags", TokenIssuer: "issuer"},
			Storage: Storage{DB: DB{DSN: "postgres://localhost/db"}},
		},
	)

	cfg, err := b.build()
	require.NoError(t, err)

	assert.Equal(t, "from_env", cfg.App.TokenSignKey)
	assert.Equal(t, "issuer", cfg.App.TokenIssuer)
	assert.Equal(t, "postgres://localhost/db", cfg.Storage.DB.DSN)
}

// TestWithJSON_NoPathSpecified verifies that withJSON is a no-op when no
// earlier source carried a JSON file path.
func TestWithJSON_NoPathSpecified(t *testing.T) {
	b := newConfigBuilder()
	b.parts = append(b.parts, &StructuredConfig{})

	b.withJSON()
	assert.NoError(t, b.err)
	assert.Len(t, b.parts, 1)
}

// TestWithJSON_MissingFile verifies that a specified but unreadable JSON
// path surfaces as a builder error.
func TestWithJSON_MissingFile(t *testing.T) {
	b := newConfigBuilder()
	b.parts = append(b.parts, &StructuredConfig{JSONFilePath: "/no/such/config.json"})

	b.withJSON()
	assert.Error(t, b.err)
}

func TestValidateAuthority(t *testing.T) {
	valid := func() *StructuredConfig {
		return &StructuredConfig{
			App: App{
				PINHashKey:      "pin",
				TokenSignKey:    "sign",
				SessionDuration: time.Hour,
				KeyDir:          "/var/keys",
			},
			Storage: Storage{
				DB:   DB{DSN: "postgres://localhost/bank"},
				Tier: Tier{BaseURL: "http://cloud:8081", Timeout: 30 * time.Second},
			},
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid().ValidateAuthority())
	})

	t.Run("empty dsn", func(t *testing.T) {
		cfg := valid()
		cfg.Storage.DB.DSN = ""
		assert.ErrorIs(t, cfg.ValidateAuthority(), ErrInvalidStorageConfigs)
	})

	t.Run("in-memory dsn", func(t *testing.T) {
		cfg := valid()
		cfg.Storage.DB.DSN = "file::memory:"
		assert.ErrorIs(t, cfg.ValidateAuthority(), ErrInvalidStorageConfigs)
	})

	t.Run("missing tier", func(t *testing.T) {
		cfg := valid()
		cfg.Storage.Tier.BaseURL = ""
		assert.ErrorIs(t, cfg.ValidateAuthority(), ErrInvalidStorageConfigs)
	})

	t.Run("missing sign key", func(t *testing.T) {
		cfg := valid()
		cfg.App.TokenSignKey = ""
		assert.ErrorIs(t, cfg.ValidateAuthority(), ErrInvalidAppConfigs)
	})
}

func TestValidateCloud(t *testing.T) {
	valid := func() *StructuredConfig {
		return &StructuredConfig{
			Cloud: Cloud{
				HTTPAddress:   "0.0.0.0:8081",
				AuthorityHost: "10.0.0.5",
				BlobDir:       "/var/blobs",
				ParamsPath:    "/var/keys/params.bin",
			},
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid().ValidateCloud())
	})

	t.Run("missing authority host", func(t *testing.T) {
		cfg := valid()
		cfg.Cloud.AuthorityHost = ""
		assert.ErrorIs(t, cfg.ValidateCloud(), ErrInvalidCloudConfigs)
	})

	t.Run("missing blob dir", func(t *testing.T) {
		cfg := valid()
		cfg.Cloud.BlobDir = ""
		assert.ErrorIs(t, cfg.ValidateCloud(), ErrInvalidCloudConfigs)
	})
}

func TestValidateClient(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := &StructuredConfig{
			Client: Client{AuthorityBaseURL: "http://authority:8080", Timeout: 15 * time.Second},
		}
		assert.NoError(t, cfg.ValidateClient())
	})

	t.Run("zero timeout", func(t *testing.T) {
		cfg := &StructuredConfig{
			Client: Client{AuthorityBaseURL: "http://authority:8080"},
		}
		assert.ErrorIs(t, cfg.ValidateClient(), ErrInvalidClientConfigs)
	})
}

func TestNetAddress(t *testing.T) {
	t.Run("set and string", func(t *testing.T) {
		var a NetAddress
		require.NoError(t, a.Set("localhost:8080"))
		assert.Equal(t, "localhost", a.Host)
		assert.Equal(t, 8080, a.Port)
		assert.Equal(t, "localhost:8080", a.String())
	})

	t.Run("zero value string", func(t *testing.T) {
		var a NetAddress
		assert.Empty(t, a.String())
	})

	t.Run("rejects missing port", func(t *testing.T) {
		var a NetAddress
		assert.Error(t, a.Set("localhost"))
	})

	t.Run("rejects bad port", func(t *testing.T) {
		var a NetAddress
		assert.Error(t, a.Set("localhost:-1"))
	})

	t.Run("rejects bad ip", func(t *testing.T) {
		var a NetAddress
		assert.Error(t, a.Set("not an ip:8080"))
	})
}
