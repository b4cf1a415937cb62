package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dayuer/aibot-go/internal/providers"
	"github.com/dayuer/aibot-go/internal/utils"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// GetConfigPath returns the default config file path (~/.aibot/config.json).
func GetConfigPath() string {
	return filepath.Join(utils.GetDataPath(), "config.json")
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Load reads configuration from a JSON or YAML file (chosen by extension).
// If path is empty, uses the default config path.
// If the file doesn't exist, returns DefaultConfig().
func Load(path string) (Config, error) {
	if path == "" {
		path = GetConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, err
	}

	cfg := DefaultConfig() // start with defaults so zero-value fields get filled
	if isYAML(path) {
		err = yaml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return DefaultConfig(), fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes configuration to a JSON or YAML file.
// If path is empty, uses the default config path.
func Save(cfg Config, path string) error {
	if path == "" {
		path = GetConfigPath()
	}

	if _, err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment (default ".env"). Missing files are skipped; variables that
// are already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overlays environment variables onto cfg. Config file values are
// kept when the variable is unset. getenv is usually os.Getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv("AIBOT_MODEL"); v != "" {
		cfg.Agent.Model = v
	}
	if v := getenv("AIBOT_PROVIDER"); v != "" {
		cfg.Agent.Provider = v
	}
	if v := getenv("AIBOT_REDIS_URL"); v != "" {
		cfg.Cache.URL = v
	}
	if v := getenv("BRAVE_API_KEY"); v != "" && cfg.Tools.Search.APIKey == "" {
		cfg.Tools.Search.APIKey = v
	}

	for _, spec := range providers.Providers {
		key := getenv(spec.EnvKey)
		if key == "" {
			continue
		}
		if cfg.Providers == nil {
			cfg.Providers = map[string]ProviderConfig{}
		}
		pc := cfg.Providers[spec.Name]
		if pc.APIKey == "" {
			pc.APIKey = key
			cfg.Providers[spec.Name] = pc
		}
	}
}

// ProviderFor returns the configured credentials for a provider name.
func (c Config) ProviderFor(name string) ProviderConfig {
	return c.Providers[name]
}
