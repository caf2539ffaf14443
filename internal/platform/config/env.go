// Package config holds shared configuration helpers for pageslots binaries.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces every environment variable read by ParseEnv.
const EnvPrefix = "PAGESLOTS_"

// ParseEnv loads configuration from PAGESLOTS_-prefixed environment
// variables. Struct tags name variables without the prefix.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
