package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/pkg/utils"
)

// Transaction history strategies.
const (
	StrategyChain   = "chain"
	StrategyIndexer = "indexer"
)

// Environment variables that override the file.
const (
	EnvExplorerAPIKey = "ETHERSCAN_API_KEY"
	EnvWalletEndpoint = "WALLET_ENDPOINT"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server       ServerConfig             `yaml:"server"`
	Network      entity.NetworkDefinition `yaml:"network"`
	Wallet       WalletConfig             `yaml:"wallet"`
	Transactions TransactionsConfig       `yaml:"transactions"`
	Explorer     ExplorerConfig           `yaml:"explorer"`
	Session      SessionConfig            `yaml:"session"`
	Logging      LoggingConfig            `yaml:"logging"`
	View         ViewConfig               `yaml:"view"`
}

// ServerConfig holds the server-specific configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"` // 0 keeps connect requests open while the wallet prompts
	IdleTimeout  int    `yaml:"idleTimeout"`
	EnablePprof  bool   `yaml:"enablePprof"` // exposes /debug/pprof, keep off in production
}

// WalletConfig points at the JSON-RPC endpoint of the wallet bridge.
type WalletConfig struct {
	Endpoint string `yaml:"endpoint"`
	// RPCTimeoutMs bounds chain reads (balance, block scans). Account requests are never bounded.
	RPCTimeoutMs      int64 `yaml:"rpcTimeoutMs"`
	HistoryScanBlocks int   `yaml:"historyScanBlocks"`
	MaxConcurrent     int   `yaml:"maxConcurrent"`
	RateLimit         int   `yaml:"rateLimit"`
	BurstLimit        int   `yaml:"burstLimit"`
}

// TransactionsConfig selects where recent transactions come from.
type TransactionsConfig struct {
	Strategy      string       `yaml:"strategy"`
	ChainWindow   utils.Window `yaml:"chainWindow"`
	IndexerWindow utils.Window `yaml:"indexerWindow"`
}

// ExplorerConfig holds the configuration for the block-explorer client.
type ExplorerConfig struct {
	BaseURL              string `yaml:"baseURL"`
	APIKey               string `yaml:"apiKey"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	TimestampLayout      string `yaml:"timestampLayout"`
	TimeZone             string `yaml:"timeZone"`
}

// SessionConfig holds configuration for browser sessions.
type SessionConfig struct {
	CookieName             string `yaml:"cookieName"`
	TTLMinutes             int    `yaml:"ttlMinutes"`
	CleanupIntervalMinutes int    `yaml:"cleanupIntervalMinutes"`
	SecureCookie           bool   `yaml:"secureCookie"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
}

// ViewConfig holds presentation settings.
type ViewConfig struct {
	Title              string   `yaml:"title"`
	RefreshSeconds     int      `yaml:"refreshSeconds"`
	CORSAllowedOrigins []string `yaml:"corsAllowedOrigins"`
}

// ErrExplorerKeyMissing is reported by Validate when the indexer strategy has no key.
var ErrExplorerKeyMissing = errors.New("explorer API key is missing")

// LoadConfig loads configuration from a YAML file, then .env and the environment.
// A missing file is not an error: defaults plus environment are enough to run.
func LoadConfig(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
			return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		logrus.Warnf("Config file %s not found, using defaults and environment", path)
	default:
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.Warnf("Failed to load .env file: %v", err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		if errors.Is(err, ErrExplorerKeyMissing) {
			// requests with the indexer strategy fail with ConfigMissing until a key is set
			logrus.Warnf("%v: set %s to enable transaction history", err, EnvExplorerAPIKey)
		} else {
			return nil, err
		}
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvExplorerAPIKey)); v != "" {
		c.Explorer.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvWalletEndpoint)); v != "" {
		c.Wallet.Endpoint = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}

	if _, known := entity.NetworkByChainID(c.Network.ChainID); c.Network.ChainID != 0 && !known {
		logrus.Warnf("Chain ID %d is not predefined, set network fields explicitly", c.Network.ChainID)
	}
	c.Network = c.Network.WithDefaults()

	if c.Wallet.RPCTimeoutMs == 0 {
		c.Wallet.RPCTimeoutMs = 10000
	}
	if c.Wallet.HistoryScanBlocks == 0 {
		c.Wallet.HistoryScanBlocks = 128
	}
	if c.Wallet.MaxConcurrent <= 0 {
		c.Wallet.MaxConcurrent = 8
	}
	if c.Wallet.RateLimit <= 0 {
		c.Wallet.RateLimit = 20
	}
	if c.Wallet.BurstLimit <= 0 {
		c.Wallet.BurstLimit = c.Wallet.MaxConcurrent
	}

	c.Transactions.Strategy = strings.ToLower(strings.TrimSpace(c.Transactions.Strategy))
	if c.Transactions.Strategy == "" {
		c.Transactions.Strategy = StrategyIndexer
		logrus.Infof("Transactions strategy not set, defaulting to %s", c.Transactions.Strategy)
	}
	if c.Transactions.ChainWindow.Size == 0 {
		c.Transactions.ChainWindow = utils.Window{Size: 5, Take: utils.TakeTail}
	}
	if c.Transactions.ChainWindow.Take == "" {
		c.Transactions.ChainWindow.Take = utils.TakeTail
	}
	if c.Transactions.IndexerWindow.Size == 0 {
		c.Transactions.IndexerWindow = utils.Window{Size: 10, Take: utils.TakeHead}
	}
	if c.Transactions.IndexerWindow.Take == "" {
		c.Transactions.IndexerWindow.Take = utils.TakeHead
	}

	if c.Explorer.BaseURL == "" {
		c.Explorer.BaseURL = c.Network.ExplorerAPIURL
	}
	if c.Explorer.BaseURL == "" {
		c.Explorer.BaseURL = entity.Ethereum.ExplorerAPIURL
		logrus.Infof("Explorer.BaseURL not set, defaulting to %s", c.Explorer.BaseURL)
	}
	if c.Explorer.RequestTimeoutMillis == 0 {
		c.Explorer.RequestTimeoutMillis = 10000
	}
	if c.Explorer.TimestampLayout == "" {
		c.Explorer.TimestampLayout = utils.DefaultTimestampLayout
	}

	if c.Session.CookieName == "" {
		c.Session.CookieName = "wallet_session"
	}
	if c.Session.TTLMinutes == 0 {
		c.Session.TTLMinutes = 60
	}
	if c.Session.CleanupIntervalMinutes == 0 {
		c.Session.CleanupIntervalMinutes = 10
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.View.Title == "" {
		c.View.Title = "Ethereum Wallet"
	}
	if c.View.RefreshSeconds == 0 {
		c.View.RefreshSeconds = 2
	}
}

// Validate checks the loaded configuration.
// ErrExplorerKeyMissing is returned alone so callers can treat it as a warning.
func (c *Config) Validate() error {
	switch c.Transactions.Strategy {
	case StrategyChain, StrategyIndexer:
	default:
		return fmt.Errorf("unknown transactions strategy %q, expected %q or %q",
			c.Transactions.Strategy, StrategyChain, StrategyIndexer)
	}
	if err := c.Transactions.ChainWindow.Validate(); err != nil {
		return fmt.Errorf("transactions.chainWindow: %w", err)
	}
	// chain history is oldest first; its window keeps the newest end
	if utils.Take(strings.ToLower(string(c.Transactions.ChainWindow.Take))) != utils.TakeTail {
		return fmt.Errorf("transactions.chainWindow: take must be %q, got %q",
			utils.TakeTail, c.Transactions.ChainWindow.Take)
	}
	if err := c.Transactions.IndexerWindow.Validate(); err != nil {
		return fmt.Errorf("transactions.indexerWindow: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Transactions.Strategy == StrategyIndexer && c.Explorer.APIKey == "" {
		return ErrExplorerKeyMissing
	}
	return nil
}

// Location resolves Explorer.TimeZone; empty means the server's local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Explorer.TimeZone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Explorer.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid explorer.timeZone %q: %w", c.Explorer.TimeZone, err)
	}
	return loc, nil
}

// RPCTimeout returns the chain read timeout.
func (c *Config) RPCTimeout() time.Duration {
	return time.Duration(c.Wallet.RPCTimeoutMs) * time.Millisecond
}

// ExplorerTimeout returns the explorer request timeout.
func (c *Config) ExplorerTimeout() time.Duration {
	return time.Duration(c.Explorer.RequestTimeoutMillis) * time.Millisecond
}

// SessionTTL returns how long an idle session is kept.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}
