// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// secretFiles names the *_FILE variants of the secret settings. Each
// variable holds a path whose contents replace the plain variable, which
// keeps keys and passwords out of the process environment.
type secretFiles struct {
	TokenSignKey  string `env:"APP_TOKEN_SIGN_KEY_FILE,file"`
	HashKey       string `env:"APP_HASH_KEY_FILE,file"`
	RedisPassword string `env:"STORAGE_REDIS_PASSWORD_FILE,file"`
	DSN           string `env:"STORAGE_DB_DATABASE_URI_FILE,file"`
}

// parseEnv populates cfg from environment variables through the `env` and
// `envPrefix` tags of [StructuredConfig], then applies any *_FILE secret
// overrides. A file variable wins over its plain counterpart.
func parseEnv(cfg *StructuredConfig) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	var files secretFiles
	if err := env.Parse(&files); err != nil {
		return fmt.Errorf("error reading secret files: %w", err)
	}

	override(&cfg.App.TokenSignKey, files.TokenSignKey)
	override(&cfg.App.HashKey, files.HashKey)
	override(&cfg.Storage.Redis.Password, files.RedisPassword)
	override(&cfg.Storage.DB.DSN, files.DSN)

	return nil
}

// override replaces *dst with the trimmed file contents when there are any.
// Secret files usually end with a newline.
func override(dst *string, fromFile string) {
	if v := strings.TrimSpace(fromFile); v != "" {
		*dst = v
	}
}
