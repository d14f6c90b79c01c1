// Package file loads service configuration from a TOML file.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/clauseworks/importkit/internal/adapters/driven/oauth"
	"github.com/clauseworks/importkit/internal/core/domain"
)

// Config is the top-level service configuration.
type Config struct {
	Server    ServerConfig              `toml:"server"`
	Log       LogConfig                 `toml:"log"`
	Storage   StorageConfig             `toml:"storage"`
	Providers map[string]ProviderConfig `toml:"providers"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	ListenAddr string `toml:"listen_addr"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

// StorageConfig configures the persistence layer.
type StorageConfig struct {
	DataDir string `toml:"data_dir"`
}

// ProviderConfig holds the OAuth application credentials for one provider.
type ProviderConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server:    ServerConfig{ListenAddr: ":8085"},
		Log:       LogConfig{Level: "info"},
		Storage:   StorageConfig{DataDir: defaultDataDir()},
		Providers: make(map[string]ProviderConfig),
	}
}

// Load reads the configuration file at path, applying defaults for anything
// the file leaves unset. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8085"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = defaultDataDir()
	}
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}

	return cfg, nil
}

// Save writes the configuration to path, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ClientCredentials maps the configured providers to refresher credentials.
// Providers the catalog doesn't know are skipped.
func (c *Config) ClientCredentials() map[domain.Provider]oauth.ClientCredentials {
	creds := make(map[domain.Provider]oauth.ClientCredentials, len(c.Providers))
	for name, p := range c.Providers {
		provider := domain.Provider(name)
		if !domain.IsSupportedProvider(provider) {
			continue
		}
		creds[provider] = oauth.ClientCredentials{
			ClientID:     p.ClientID,
			ClientSecret: p.ClientSecret,
		}
	}
	return creds
}

// defaultDataDir places data under the user config dir, falling back to the
// working directory when the home cannot be resolved.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "data"
	}
	return filepath.Join(home, ".importkit")
}
