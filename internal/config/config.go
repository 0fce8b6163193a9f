package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"movecalc/internal/model"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load default inputs from a separate YAML (a saved scenario).
	// If both DefaultsFile and Defaults are provided, Defaults overrides DefaultsFile.
	DefaultsFile string          `yaml:"defaults_file"`
	Defaults     model.Inputs    `yaml:"defaults"`
	Server       ServerConfig    `yaml:"server"`
	Storage      StorageConfig   `yaml:"storage"`
	Identity     IdentityConfig  `yaml:"identity"`
	RateLimit    RateLimitConfig `yaml:"rate_limit"`
}

type ServerConfig struct {
	Port           string   `yaml:"port"`
	Env            string   `yaml:"env"`
	StaticDir      string   `yaml:"static_dir"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type StorageConfig struct {
	// LocalPath is the JSON file behind the signed-out ("local") scope.
	LocalPath string `yaml:"local_path"`
	// Remote is the backend for signed-in users: "sqlite" or "redis".
	Remote     string `yaml:"remote"`
	SQLitePath string `yaml:"sqlite_path"`
	RedisAddr  string `yaml:"redis_addr"`
}

type IdentityConfig struct {
	Enabled    bool          `yaml:"enabled"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
	Burst             int `yaml:"burst"`
}

// Default is the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Defaults: model.DefaultInputs(),
		Server: ServerConfig{
			Port:           "8080",
			Env:            "development",
			StaticDir:      "./web/dist",
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Storage: StorageConfig{
			LocalPath:  "movecalc-configs.json",
			Remote:     "sqlite",
			SQLitePath: "movecalc.db",
		},
		Identity: IdentityConfig{
			Enabled:    true,
			SessionTTL: 24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 30,
			Burst:             10,
		},
	}
}

// Load reads path (if non-empty), applies environment overrides and validates.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyEnv(os.Getenv)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// An empty path yields Default().
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file Config
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	defaults := model.DefaultInputs()
	if file.DefaultsFile != "" {
		defaultsPath := file.DefaultsFile
		if !filepath.IsAbs(defaultsPath) {
			// Prefer paths relative to the config file, falling back to cwd.
			cand := filepath.Join(filepath.Dir(path), defaultsPath)
			if _, err := os.Stat(cand); err == nil {
				defaultsPath = cand
			}
		}
		loaded, err := loadDefaultsFile(defaultsPath)
		if err != nil {
			return nil, err
		}
		defaults = model.MergeInputs(defaults, loaded)
	}
	c.DefaultsFile = file.DefaultsFile
	c.Defaults = model.MergeInputs(defaults, file.Defaults).Sanitize()

	c.Server = mergeServer(c.Server, file.Server)
	c.Storage = mergeStorage(c.Storage, file.Storage)
	if file.Identity.SessionTTL != 0 {
		c.Identity.SessionTTL = file.Identity.SessionTTL
	}
	c.Identity.Enabled = file.Identity.Enabled || !hasKey(raw, "identity", "enabled")
	if file.RateLimit.RequestsPerMinute != 0 {
		c.RateLimit.RequestsPerMinute = file.RateLimit.RequestsPerMinute
	}
	if file.RateLimit.Burst != 0 {
		c.RateLimit.Burst = file.RateLimit.Burst
	}
	return c, nil
}

// ApplyEnv overlays the environment variables the deployment sets.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("API_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := getenv("API_ENV"); v != "" {
		c.Server.Env = v
	}
	if v := getenv("STATIC_DIR"); v != "" {
		c.Server.StaticDir = v
	}
	if v := getenv("MOVECALC_LOCAL_STORE"); v != "" {
		c.Storage.LocalPath = v
	}
	if v := getenv("MOVECALC_DB"); v != "" {
		c.Storage.SQLitePath = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Storage.RedisAddr = v
		c.Storage.Remote = "redis"
	}
	if v := getenv("MOVECALC_IDENTITY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Identity.Enabled = b
		}
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("server.port must be numeric: %q", c.Server.Port)
	}
	if c.Storage.LocalPath == "" {
		return errors.New("storage.local_path is required")
	}
	switch c.Storage.Remote {
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return errors.New("storage.sqlite_path is required for the sqlite backend")
		}
	case "redis":
		if c.Storage.RedisAddr == "" {
			return errors.New("storage.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("storage.remote must be sqlite or redis, got %q", c.Storage.Remote)
	}
	// Accounts live in SQLite whatever the remote config backend is.
	if c.Identity.Enabled && c.Storage.SQLitePath == "" {
		return errors.New("storage.sqlite_path is required when identity is enabled")
	}
	if c.Identity.SessionTTL < 0 {
		return errors.New("identity.session_ttl must not be negative")
	}
	if c.RateLimit.RequestsPerMinute < 0 || c.RateLimit.Burst < 0 {
		return errors.New("rate_limit values must not be negative")
	}
	return nil
}

type defaultsFileWrapper struct {
	Defaults model.Inputs `yaml:"defaults"`
}

func loadDefaultsFile(path string) (model.Inputs, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.Inputs{}, err
	}
	var w defaultsFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return model.Inputs{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return w.Defaults, nil
}

func mergeServer(base, override ServerConfig) ServerConfig {
	out := base
	if override.Port != "" {
		out.Port = override.Port
	}
	if override.Env != "" {
		out.Env = override.Env
	}
	if override.StaticDir != "" {
		out.StaticDir = override.StaticDir
	}
	if len(override.AllowedOrigins) > 0 {
		out.AllowedOrigins = override.AllowedOrigins
	}
	return out
}

func mergeStorage(base, override StorageConfig) StorageConfig {
	out := base
	if override.LocalPath != "" {
		out.LocalPath = override.LocalPath
	}
	if override.Remote != "" {
		out.Remote = override.Remote
	}
	if override.SQLitePath != "" {
		out.SQLitePath = override.SQLitePath
	}
	if override.RedisAddr != "" {
		out.RedisAddr = override.RedisAddr
	}
	return out
}

// hasKey reports whether the YAML document sets section.key explicitly.
func hasKey(raw []byte, section, key string) bool {
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return false
	}
	sec, ok := doc[section].(map[string]any)
	if !ok {
		return false
	}
	_, ok = sec[key]
	return ok
}
