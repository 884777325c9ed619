/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package config loads the emulator's process configuration from
// LOCALSTACK_* environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the emulator's process configuration.
type Config struct {
	// BindAddress is the address the HTTP gateway listens on.
	BindAddress string `env:"LOCALSTACK_BIND_ADDRESS" envDefault:"127.0.0.1:4566"`
	// Region is the emulated region reported by pseudo parameters and ARNs.
	Region string `env:"LOCALSTACK_REGION" envDefault:"us-east-1"`
	// AccountID is the emulated account.
	AccountID string `env:"LOCALSTACK_ACCOUNT_ID" envDefault:"000000000000"`
	// Parallelism bounds how many resources provision concurrently per apply.
	Parallelism int `env:"LOCALSTACK_PARALLELISM" envDefault:"4"`
	// PageSize is the ListStackResources page size.
	PageSize int `env:"LOCALSTACK_PAGE_SIZE" envDefault:"50"`
	// WaitRetries and WaitDelay tune the synchronous wait helper.
	WaitRetries int           `env:"LOCALSTACK_WAIT_RETRIES" envDefault:"30"`
	WaitDelay   time.Duration `env:"LOCALSTACK_WAIT_DELAY" envDefault:"1s"`
	// LogLevel is debug, info, warn or error.
	LogLevel string `env:"LOCALSTACK_LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// Endpoint returns the base URL backing services mint identifiers under.
func (c *Config) Endpoint() string {
	return "http://" + c.BindAddress
}
