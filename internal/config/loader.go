package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

var validate = validator.New()

// Load merges defaults, path (optional) and the environment into a
// validated Config. A missing .env file is not an error; a missing YAML
// file is.
func Load(path string, logger *zap.Logger) (*Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	envFile := ".env"
	if path != "" {
		envFile = filepath.Join(filepath.Dir(path), ".env")
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load %s: %w", envFile, err)
	}

	k := koanf.New(".")
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		logger.Debug("config file loaded", zap.String("file", path))
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("config: env overlay: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: invalid: %w", err)
	}

	logger.Info("config loaded",
		zap.String("listen_addr", cfg.HTTP.ListenAddr),
		zap.String("definition", cfg.Form.Definition),
		zap.Int("accounts", len(cfg.Demo.Accounts)),
	)
	return &cfg, nil
}

// envKey maps FORMSUBMIT_HTTP__LISTEN_ADDR to http.listen_addr.
func envKey(name string) string {
	name = strings.TrimPrefix(name, EnvPrefix)
	return strings.ToLower(strings.ReplaceAll(name, "__", "."))
}
