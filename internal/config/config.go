// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/pendergraft/framemint/internal/chains"
	"github.com/pendergraft/framemint/internal/mint"
)

// Config holds all configuration for the server
type Config struct {
	Server    ServerConfig
	Logging   LoggingConfig
	RateLimit RateLimitConfig
	Security  SecurityConfig
	Proxy     ProxyConfig
	Metrics   MetricsConfig
	Frame     FrameConfig
	Crossmint CrossmintConfig
	Neynar    NeynarConfig
	EVM       EVMConfig
	Solana    SolanaConfig
	Views     ViewsConfig

	OutboundTimeout int `validate:"gte=1"` // seconds
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int `validate:"gte=1,lte=65535"`
	Host           string
	ReadTimeout    int // seconds
	WriteTimeout   int // seconds
	IdleTimeout    int // seconds
	RequestTimeout int // seconds
	StaticDir      string
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=text json"`
}

// RateLimitConfig holds rate limiting settings
type RateLimitConfig struct {
	Enabled        bool
	RequestsPerMin int `validate:"gte=1"`
	BurstSize      int `validate:"gte=1"`
	CleanupMinutes int `validate:"gte=1"`
}

// SecurityConfig holds security filter settings
type SecurityConfig struct {
	FilterEnabled bool
	MaxBodySizeKB int `validate:"gte=1"`
}

// ProxyConfig holds trusted proxy settings for X-Forwarded-For handling
type ProxyConfig struct {
	TrustProxy     bool
	TrustedProxies []string `validate:"dive,cidr|ip"`
}

// MetricsConfig holds Prometheus settings
type MetricsConfig struct {
	Enabled bool
}

// FrameConfig holds the public identity of the frame
type FrameConfig struct {
	PublicURL string `validate:"required,url"`
}

// CrossmintConfig holds Crossmint API settings and the per-chain
// collection catalog.
type CrossmintConfig struct {
	Env             string `validate:"oneof=staging www"`
	APIKey          string
	BaseURL         string `validate:"omitempty,url"`
	CollectionsFile string
	Collections     map[chains.Chain]mint.Collection
}

// NeynarConfig holds frame message validation settings
type NeynarConfig struct {
	APIKey           string
	BaseURL          string `validate:"omitempty,url"`
	AllowUnvalidated bool
}

// EVMConfig holds the Ethereum RPC used for ENS lookups
type EVMConfig struct {
	RPCURL string
}

// SolanaConfig holds the Solana RPC used for SNS lookups
type SolanaConfig struct {
	RPCURL string `validate:"required,url"`
}

// ViewsConfig holds view customization settings
type ViewsConfig struct {
	File string
}

// collectionsFile is the TOML document read from COLLECTIONS_FILE.
type collectionsFile map[string]mint.Collection

// Load loads configuration from environment variables. A .env file in the
// working directory is read first; variables already set win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	port := getEnvInt("PORT", 8080)
	cfg := &Config{
		Server: ServerConfig{
			Port:           port,
			Host:           getEnv("HOST", "0.0.0.0"),
			ReadTimeout:    getEnvInt("SERVER_READ_TIMEOUT", 30),
			WriteTimeout:   getEnvInt("SERVER_WRITE_TIMEOUT", 60),
			IdleTimeout:    getEnvInt("SERVER_IDLE_TIMEOUT", 120),
			RequestTimeout: getEnvInt("SERVER_REQUEST_TIMEOUT", 45),
			StaticDir:      getEnv("STATIC_DIR", ""),
		},
		Logging: LoggingConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		RateLimit: RateLimitConfig{
			Enabled:        getEnvBool("RATE_LIMIT_ENABLED", true),
			RequestsPerMin: getEnvInt("RATE_LIMIT_RPM", 120),
			BurstSize:      getEnvInt("RATE_LIMIT_BURST", 20),
			CleanupMinutes: getEnvInt("RATE_LIMIT_CLEANUP_MINUTES", 10),
		},
		Security: SecurityConfig{
			FilterEnabled: getEnvBool("SECURITY_FILTER_ENABLED", true),
			MaxBodySizeKB: getEnvInt("SECURITY_MAX_BODY_SIZE_KB", 64),
		},
		Proxy: ProxyConfig{
			TrustProxy:     getEnvBool("TRUST_PROXY", false),
			TrustedProxies: getEnvStringSlice("TRUSTED_PROXIES", []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
		},
		Frame: FrameConfig{
			PublicURL: strings.TrimRight(getEnv("PUBLIC_URL", fmt.Sprintf("http://localhost:%d", port)), "/"),
		},
		Crossmint: CrossmintConfig{
			Env:             getEnv("CROSSMINT_ENV", "staging"),
			APIKey:          getEnv("CROSSMINT_API_KEY", ""),
			BaseURL:         getEnv("CROSSMINT_BASE_URL", ""),
			CollectionsFile: getEnv("COLLECTIONS_FILE", ""),
			Collections:     make(map[chains.Chain]mint.Collection),
		},
		Neynar: NeynarConfig{
			APIKey:           getEnv("NEYNAR_API_KEY", "NEYNAR_ONCHAIN_KIT"),
			BaseURL:          getEnv("NEYNAR_BASE_URL", ""),
			AllowUnvalidated: getEnvBool("FRAME_ALLOW_UNVALIDATED", false),
		},
		EVM: EVMConfig{
			RPCURL: getEnv("EVM_RPC_URL", "https://cloudflare-eth.com"),
		},
		Solana: SolanaConfig{
			RPCURL: getEnv("SOLANA_RPC_URL", "https://api.mainnet-beta.solana.com"),
		},
		Views: ViewsConfig{
			File: getEnv("VIEWS_FILE", ""),
		},
		OutboundTimeout: getEnvInt("OUTBOUND_TIMEOUT_SECONDS", 30),
	}

	if cfg.Crossmint.CollectionsFile != "" {
		if err := loadCollections(cfg.Crossmint.CollectionsFile, cfg.Crossmint.Collections); err != nil {
			return nil, err
		}
	}

	// Per-chain environment variables override the collections file
	for _, c := range chains.All() {
		col := cfg.Crossmint.Collections[c]
		suffix := strings.ToUpper(string(c))
		col.ID = getEnv("CROSSMINT_COLLECTION_"+suffix, col.ID)
		col.TemplateID = getEnv("CROSSMINT_TEMPLATE_"+suffix, col.TemplateID)
		if col.ID != "" || col.TemplateID != "" {
			cfg.Crossmint.Collections[c] = col
		}
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// loadCollections merges the TOML collections file into dst. Every entry
// must name a supported chain and carry both ids.
func loadCollections(path string, dst map[chains.Chain]mint.Collection) error {
	var file collectionsFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return fmt.Errorf("reading collections file: %w", err)
	}
	for name, col := range file {
		c := chains.Chain(strings.ToLower(name))
		if !c.Valid() {
			return fmt.Errorf("collections file: unknown chain %q", name)
		}
		if err := validate.Struct(col); err != nil {
			return fmt.Errorf("collections file: %s: %w", name, err)
		}
		dst[c] = col
	}
	return nil
}

// Address returns the listen address.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Timeout returns the outbound HTTP timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.OutboundTimeout) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
