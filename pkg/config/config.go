package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment variables read as configuration.
// MEDOPS_STORAGE_BACKEND maps to storage.backend.
const EnvPrefix = "MEDOPS_"

// ConfigFileEnv names an optional YAML file layered under the environment.
const ConfigFileEnv = "MEDOPS_CONFIG"

const maxConfigFileSize = 1024 * 1024

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds the application configuration
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Log     LogConfig     `koanf:"log"`
	Storage StorageConfig `koanf:"storage"`
	Auth    AuthConfig    `koanf:"auth"`
	Events  EventsConfig  `koanf:"events"`
	Worker  WorkerConfig  `koanf:"worker"`
	Tracing TracingConfig `koanf:"tracing"`
}

type ServerConfig struct {
	Port               int           `koanf:"port"`
	Environment        string        `koanf:"environment"`
	CORSAllowedOrigins []string      `koanf:"cors_origins"`
	ShutdownTimeout    time.Duration `koanf:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

// StorageConfig selects the durable slot medium.
type StorageConfig struct {
	// Backend is one of memory, file, redis, postgres.
	Backend      string        `koanf:"backend"`
	Dir          string        `koanf:"dir"`
	RedisURL     string        `koanf:"redis_url"`
	RedisPrefix  string        `koanf:"redis_prefix"`
	DatabaseURL  string        `koanf:"database_url"`
	SeedDemoData bool          `koanf:"seed_demo_data"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

type AuthConfig struct {
	// Mode is demo (any password) or bcrypt (PasswordHashes per email).
	// PasswordHashes entries are "email:bcrypt-hash"; emails cannot be map
	// keys because koanf splits keys on dots.
	Mode           string        `koanf:"mode"`
	LoginDelay     time.Duration `koanf:"login_delay"`
	JWTSecret      string        `koanf:"jwt_secret"`
	TokenTTL       time.Duration `koanf:"token_ttl"`
	PasswordHashes []string      `koanf:"password_hashes"`
	// LoginRate is attempts per minute allowed for one email.
	LoginRate  float64 `koanf:"login_rate"`
	LoginBurst int     `koanf:"login_burst"`
}

type EventsConfig struct {
	AMQPURL   string `koanf:"amqp_url"`
	AMQPQueue string `koanf:"amqp_queue"`
}

type TracingConfig struct {
	OTLPEndpoint string  `koanf:"otlp_endpoint"`
	SampleRatio  float64 `koanf:"sample_ratio"`
}

type WorkerConfig struct {
	StatsInterval time.Duration `koanf:"stats_interval"`
}

// Load reads defaults, then the file named by MEDOPS_CONFIG if set, then
// MEDOPS_* environment variables.
func Load() (*Config, error) {
	return LoadFile(os.Getenv(ConfigFileEnv))
}

// LoadFile is Load with an explicit YAML path. An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(defaultsYAML), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// listKeys are the settings given as comma-separated lists in the environment.
var listKeys = map[string]bool{
	"server.cors_origins":  true,
	"auth.password_hashes": true,
}

// envValue maps the variable name with envKey and splits list settings on
// commas, dropping blank entries.
func envValue(name, value string) (string, any) {
	key := envKey(name)
	if !listKeys[key] {
		return key, value
	}
	items := make([]string, 0)
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

// envKey maps MEDOPS_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

// Validate checks cross-field requirements.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	switch c.Storage.Backend {
	case "memory":
	case "file":
		if c.Storage.Dir == "" {
			return fmt.Errorf("storage.dir required for file backend")
		}
	case "redis":
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("storage.redis_url required for redis backend")
		}
	case "postgres":
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("storage.database_url required for postgres backend")
		}
	default:
		return fmt.Errorf("unknown storage.backend %q", c.Storage.Backend)
	}
	switch c.Auth.Mode {
	case "demo":
	case "bcrypt":
		hashes, err := c.Auth.Hashes()
		if err != nil {
			return err
		}
		if len(hashes) == 0 {
			return fmt.Errorf("auth.password_hashes required for bcrypt mode")
		}
	default:
		return fmt.Errorf("unknown auth.mode %q", c.Auth.Mode)
	}
	if c.Auth.LoginDelay < 0 {
		return fmt.Errorf("auth.login_delay must not be negative")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	if c.IsProduction() && c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret required in production")
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing.sample_ratio must be within [0, 1]")
	}
	if c.Worker.StatsInterval <= 0 {
		return fmt.Errorf("worker.stats_interval must be positive")
	}
	return nil
}

// Hashes parses PasswordHashes into an email -> hash map.
func (a AuthConfig) Hashes() (map[string]string, error) {
	out := make(map[string]string, len(a.PasswordHashes))
	for _, entry := range a.PasswordHashes {
		email, hash, ok := strings.Cut(strings.TrimSpace(entry), ":")
		if !ok || email == "" || hash == "" {
			return nil, fmt.Errorf("auth.password_hashes entry %q is not email:hash", entry)
		}
		out[strings.ToLower(email)] = hash
	}
	return out, nil
}

// IsProduction reports whether the server runs in production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}
