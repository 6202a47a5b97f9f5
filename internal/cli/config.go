package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Cache backend names accepted in the config file.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"
)

// Config is the on-disk CLI configuration, read from
// ~/.config/domainmap/config.toml. All fields are optional; the zero value
// plus defaults gives a working file-cached, memory-backed setup.
type Config struct {
	Cache   CacheConfig   `toml:"cache"`
	Server  ServerConfig  `toml:"server"`
	Resolve ResolveConfig `toml:"resolve"`
}

// CacheConfig selects and configures the pipeline cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis" or "none". Defaults to "file".
	Backend string `toml:"backend"`

	// Dir overrides the XDG cache directory for the file backend.
	Dir string `toml:"dir"`

	// RedisAddr is the host:port of the redis instance for the redis backend.
	RedisAddr string `toml:"redis_addr"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	// Listen is the address the HTTP API binds to. Defaults to ":8080".
	Listen string `toml:"listen"`

	// MongoURI enables the MongoDB dataset store when set. Without it,
	// uploaded datasets live in process memory only.
	MongoURI string `toml:"mongo_uri"`
}

// ResolveConfig sets default resolver behavior.
type ResolveConfig struct {
	// LeafDeps restricts dependency label matching to leaf nodes.
	LeafDeps bool `toml:"leaf_deps"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() Config {
	return Config{
		Cache:  CacheConfig{Backend: CacheBackendFile, RedisAddr: "localhost:6379"},
		Server: ServerConfig{Listen: ":8080"},
	}
}

// LoadConfig reads the config file at path, or the default location when path
// is empty. A missing file is not an error and yields the defaults; a file
// that exists but does not parse is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		var err error
		path, err = defaultConfigPath()
		if err != nil {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case "", CacheBackendFile, CacheBackendRedis, CacheBackendNone:
		return nil
	default:
		return fmt.Errorf("unknown cache backend %q (must be file, redis or none)", c.Cache.Backend)
	}
}

// defaultConfigPath returns ~/.config/domainmap/config.toml, honoring
// XDG_CONFIG_HOME.
func defaultConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
