package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

// configBuilder accumulates partial configs from each source and merges
// them in append order. Earlier sources win: mergo only fills fields the
// merged config does not already carry.
type configBuilder struct {
	parts []*StructuredConfig
	err   error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{parts: make([]*StructuredConfig, 0, 4)}
}

// build merges the collected sources and validates the result. Source
// errors recorded along the way abort the build.
func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	merged := new(StructuredConfig)
	for _, part := range b.parts {
		if err := mergo.Merge(merged, part); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	return merged, merged.validate()
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &StructuredConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.parts = append(b.parts, envCfg)
	return b
}

func (b *configBuilder) withFlags() *configBuilder {
	b.parts = append(b.parts, ParseFlags())
	return b
}

// withJSON loads the JSON file only when an earlier source named one, so
// env and flags decide whether a file takes part at all.
func (b *configBuilder) withJSON() *configBuilder {
	var jsonPath string
	for _, part := range b.parts {
		if part.JSONFilePath != "" {
			jsonPath = part.JSONFilePath
		}
	}

	if jsonPath == "" {
		return b
	}

	jsonCfg, err := parseJSON(jsonPath)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.parts = append(b.parts, jsonCfg)
	return b
}
