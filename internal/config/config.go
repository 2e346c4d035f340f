// Package config loads the settings shared by the formsubmit binaries.
//
// Values are layered, later layers winning:
//
//  1. built-in defaults,
//  2. an optional .env file next to the YAML file,
//  3. the YAML file,
//  4. FORMSUBMIT_ environment variables, where __ separates sections
//     (FORMSUBMIT_HTTP__LISTEN_ADDR sets http.listen_addr).
package config

import (
	"time"
)

// EnvPrefix marks environment overrides.
const EnvPrefix = "FORMSUBMIT_"

// Config is the merged configuration tree.
type Config struct {
	Log  Log  `koanf:"log"`
	HTTP HTTP `koanf:"http"`
	Form Form `koanf:"form"`
	Demo Demo `koanf:"demo"`
}

// Log configures internal/logging.
type Log struct {
	Level  string `koanf:"level"  validate:"omitempty,oneof=debug info warn error"`
	Format string `koanf:"format" validate:"omitempty,oneof=console json"`
	File   string `koanf:"file"`
}

// HTTP holds server tunables.
type HTTP struct {
	ListenAddr   string `koanf:"listen_addr"    validate:"required,hostname_port"`
	MaxBodyBytes int64  `koanf:"max_body_bytes" validate:"gte=0"`
}

// Form selects the form definition and its presentation.
type Form struct {
	// Definition is a YAML form definition or an OpenAPI document.
	Definition string `koanf:"definition"`
	// Operation picks the OpenAPI operation when Definition is a document.
	Operation   string `koanf:"operation"`
	BusyLabel   string `koanf:"busy_label"`
	MaxAttempts int    `koanf:"max_attempts" validate:"gte=1"`
}

// Demo configures the fake login backend.
type Demo struct {
	Delay    time.Duration `koanf:"delay"    validate:"gte=0"`
	Accounts []Account     `koanf:"accounts" validate:"dive"`
}

// Account is a known login for the fake backend.
type Account struct {
	Email    string `koanf:"email"    validate:"required,email"`
	Password string `koanf:"password" validate:"required"`
}

// DemoAccount is accepted when no accounts are configured.
var DemoAccount = Account{Email: "john@example.com", Password: "hunter2"}

// Credentials returns the configured accounts keyed by email.
func (d Demo) Credentials() map[string]string {
	accounts := d.Accounts
	if len(accounts) == 0 {
		accounts = []Account{DemoAccount}
	}
	out := make(map[string]string, len(accounts))
	for _, account := range accounts {
		out[account.Email] = account.Password
	}
	return out
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Log:  Log{Level: "info", Format: "console"},
		HTTP: HTTP{ListenAddr: "127.0.0.1:8080", MaxBodyBytes: 1 << 20},
		Form: Form{BusyLabel: "Processing...", MaxAttempts: 3},
		Demo: Demo{Delay: time.Second},
	}
}
