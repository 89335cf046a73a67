package configloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"wrmb_dapp/internal/domain/entity"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DataSourceMode selects between on-chain reads and the in-memory simulation.
type DataSourceMode string

const (
	DataSourceLive      DataSourceMode = "live"
	DataSourceSimulated DataSourceMode = "simulated"
)

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port                string   `yaml:"port"`
	EnableCORS          bool     `yaml:"enableCORS"`
	AllowedOrigins      []string `yaml:"allowedOrigins"`
	ShutdownTimeoutSecs int      `yaml:"shutdownTimeoutSeconds"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// WalletConfig configures the keystore wallet provider.
type WalletConfig struct {
	KeyFile        string `yaml:"keyFile"`        // hex private key; empty means watch-only
	Account        string `yaml:"account"`        // watch-only address when no key is configured
	InitialChainID uint64 `yaml:"initialChainId"` // chain selected before any switch
}

// DataSourceConfig picks the data source per product. Empty values use Default.
type DataSourceConfig struct {
	Default DataSourceMode `yaml:"default"`
	Savings DataSourceMode `yaml:"savings"`
	Staking DataSourceMode `yaml:"staking"`
	Farm    DataSourceMode `yaml:"farm"`
	Bonds   DataSourceMode `yaml:"bonds"`
	Wrap    DataSourceMode `yaml:"wrap"`
	Price   DataSourceMode `yaml:"price"`
}

// StoreTiming holds the refresh cadence of one store.
type StoreTiming struct {
	PollIntervalSeconds  int `yaml:"pollIntervalSeconds"`
	QuietIntervalSeconds int `yaml:"quietIntervalSeconds"`
}

// StoresConfig holds aggregation store settings.
type StoresConfig struct {
	Savings StoreTiming `yaml:"savings"`
	Staking StoreTiming `yaml:"staking"`
	Farm    StoreTiming `yaml:"farm"`
	Bonds   StoreTiming `yaml:"bonds"`
	Wrap    StoreTiming `yaml:"wrap"`

	// APYFallbackPercent is reported when fewer than two NAV samples exist.
	APYFallbackPercent string `yaml:"apyFallbackPercent"`
	NAVHistoryDays     int    `yaml:"navHistoryDays"`
	EventLookbackDays  int    `yaml:"eventLookbackDays"`
	BlocksPerDay       uint64 `yaml:"blocksPerDay"`
	FetchTimeoutSecs   int    `yaml:"fetchTimeoutSeconds"`
}

// RetryConfig bounds the retry helper.
type RetryConfig struct {
	MaxRetries  int `yaml:"maxRetries"`
	BaseDelayMs int `yaml:"baseDelayMs"`
}

// RPCConfig holds JSON-RPC client settings.
type RPCConfig struct {
	CallTimeoutSeconds       int     `yaml:"callTimeoutSeconds"`
	ConnectionTimeoutSeconds int     `yaml:"connectionTimeoutSeconds"`
	RateLimit                float64 `yaml:"rateLimit"` // requests per second, 0 disables
	Burst                    int     `yaml:"burst"`
	ReceiptPollMillis        int     `yaml:"receiptPollMillis"`
}

// DEXScreenerConfig holds DEXScreener API specific configurations.
type DEXScreenerConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	ChainID              string `yaml:"chainId"`
	MaxTokensPerRequest  int    `yaml:"maxTokensPerRequest"`
}

// PriceServiceConfig holds configuration for the price service.
type PriceServiceConfig struct {
	CacheTTLMinutes int    `yaml:"cacheTTLMinutes"`
	FallbackPrice   string `yaml:"fallbackPrice"`
}

// PreferencesConfig locates the preference database.
type PreferencesConfig struct {
	Path string `yaml:"path"`
}

// ApprovalsConfig controls the approve amount.
type ApprovalsConfig struct {
	Unlimited bool `yaml:"unlimited"`
}

// NotificationsConfig bounds the notification center.
type NotificationsConfig struct {
	MaxEntries int `yaml:"maxEntries"`
}

// SwapConfig holds Uniswap v4 pool defaults.
type SwapConfig struct {
	DefaultFee  uint32            `yaml:"defaultFee"`
	TickSpacing int32             `yaml:"tickSpacing"`
	Hooks       map[string]string `yaml:"hooks"` // token address -> hooks address
}

// Config is the top-level configuration structure.
type Config struct {
	Server        ServerConfig                `yaml:"server"`
	Logging       LoggingConfig               `yaml:"logging"`
	Wallet        WalletConfig                `yaml:"wallet"`
	Networks      []entity.NetworkDefinition  `yaml:"networks"`
	Contracts     map[uint64]map[string]string `yaml:"contracts"`
	DataSource    DataSourceConfig            `yaml:"dataSource"`
	Stores        StoresConfig                `yaml:"stores"`
	Retry         RetryConfig                 `yaml:"retry"`
	RPC           RPCConfig                   `yaml:"rpc"`
	DEXScreener   DEXScreenerConfig           `yaml:"dexScreener"`
	PriceSvc      PriceServiceConfig          `yaml:"priceService"`
	Preferences   PreferencesConfig           `yaml:"preferences"`
	Approvals     ApprovalsConfig             `yaml:"approvals"`
	Notifications NotificationsConfig         `yaml:"notifications"`
	Swap          SwapConfig                  `yaml:"swap"`
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	logrus.Infof("Loaded environment overrides from %s", path)
	return nil
}

// Load reads the YAML configuration file from the given path and unmarshals it.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML and fills defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data: %w", err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.ShutdownTimeoutSecs <= 0 {
		cfg.Server.ShutdownTimeoutSecs = 5
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Wallet.InitialChainID == 0 {
		cfg.Wallet.InitialChainID = 11155111
		logrus.Infof("Wallet.InitialChainID not set, defaulting to %d", cfg.Wallet.InitialChainID)
	}

	if cfg.DataSource.Default == "" {
		cfg.DataSource.Default = DataSourceLive
	}

	setTiming(&cfg.Stores.Savings, 10, 30)
	setTiming(&cfg.Stores.Staking, 5, 15)
	setTiming(&cfg.Stores.Farm, 5, 15)
	setTiming(&cfg.Stores.Bonds, 10, 30)
	setTiming(&cfg.Stores.Wrap, 5, 15)
	if cfg.Stores.APYFallbackPercent == "" {
		cfg.Stores.APYFallbackPercent = "8.50"
		logrus.Infof("Stores.APYFallbackPercent not set, defaulting to %s", cfg.Stores.APYFallbackPercent)
	}
	if cfg.Stores.NAVHistoryDays <= 0 {
		cfg.Stores.NAVHistoryDays = 30
	}
	if cfg.Stores.EventLookbackDays <= 0 {
		cfg.Stores.EventLookbackDays = 30
	}
	if cfg.Stores.BlocksPerDay == 0 {
		cfg.Stores.BlocksPerDay = 7200
	}
	if cfg.Stores.FetchTimeoutSecs <= 0 {
		cfg.Stores.FetchTimeoutSecs = 20
	}

	if cfg.Retry.MaxRetries <= 0 {
		cfg.Retry.MaxRetries = 3
	}
	if cfg.Retry.BaseDelayMs <= 0 {
		cfg.Retry.BaseDelayMs = 1000
	}

	if cfg.RPC.CallTimeoutSeconds <= 0 {
		cfg.RPC.CallTimeoutSeconds = 10
	}
	if cfg.RPC.ConnectionTimeoutSeconds <= 0 {
		cfg.RPC.ConnectionTimeoutSeconds = 10
	}
	if cfg.RPC.Burst <= 0 {
		cfg.RPC.Burst = 10
	}
	if cfg.RPC.ReceiptPollMillis <= 0 {
		cfg.RPC.ReceiptPollMillis = 1000
	}

	if cfg.DEXScreener.BaseURL == "" {
		cfg.DEXScreener.BaseURL = "https://api.dexscreener.com"
		logrus.Infof("DEXScreener.BaseURL not set, defaulting to %s", cfg.DEXScreener.BaseURL)
	}
	if cfg.DEXScreener.RequestTimeoutMillis == 0 {
		cfg.DEXScreener.RequestTimeoutMillis = 10000
	}
	if cfg.DEXScreener.ChainID == "" {
		cfg.DEXScreener.ChainID = "ethereum"
	}
	if cfg.DEXScreener.MaxTokensPerRequest <= 0 {
		cfg.DEXScreener.MaxTokensPerRequest = 30
	}
	if cfg.PriceSvc.CacheTTLMinutes <= 0 {
		cfg.PriceSvc.CacheTTLMinutes = 5
	}
	if cfg.PriceSvc.FallbackPrice == "" {
		cfg.PriceSvc.FallbackPrice = "0.14"
	}

	if cfg.Preferences.Path == "" {
		cfg.Preferences.Path = "data/preferences"
	}
	if cfg.Notifications.MaxEntries <= 0 {
		cfg.Notifications.MaxEntries = 50
	}
	if cfg.Swap.DefaultFee == 0 {
		cfg.Swap.DefaultFee = 500
	}
	if cfg.Swap.TickSpacing == 0 {
		cfg.Swap.TickSpacing = 10
	}
}

func setTiming(t *StoreTiming, poll, quiet int) {
	if t.PollIntervalSeconds <= 0 {
		t.PollIntervalSeconds = poll
	}
	if t.QuietIntervalSeconds <= 0 {
		t.QuietIntervalSeconds = quiet
	}
}

// Validate rejects settings that cannot work.
func (c *Config) Validate() error {
	modes := map[string]DataSourceMode{
		"default": c.DataSource.Default, "savings": c.DataSource.Savings, "staking": c.DataSource.Staking,
		"farm": c.DataSource.Farm, "bonds": c.DataSource.Bonds, "wrap": c.DataSource.Wrap, "price": c.DataSource.Price,
	}
	for name, m := range modes {
		if m != "" && m != DataSourceLive && m != DataSourceSimulated {
			return fmt.Errorf("dataSource.%s: unknown mode %q", name, m)
		}
	}
	if _, err := decimal.NewFromString(c.Stores.APYFallbackPercent); err != nil {
		return fmt.Errorf("stores.apyFallbackPercent: %w", err)
	}
	if _, err := decimal.NewFromString(c.PriceSvc.FallbackPrice); err != nil {
		return fmt.Errorf("priceService.fallbackPrice: %w", err)
	}
	for i, n := range c.Networks {
		if n.ChainID == 0 {
			return fmt.Errorf("networks[%d]: chainId is required", i)
		}
		if strings.TrimSpace(n.Identifier) == "" {
			logrus.Warnf("Network %d has no identifier; environment overrides will not apply to it", n.ChainID)
		}
	}
	return nil
}

// Mode returns the effective data source for a product name.
func (d DataSourceConfig) Mode(product string) DataSourceMode {
	var m DataSourceMode
	switch product {
	case "savings":
		m = d.Savings
	case "staking":
		m = d.Staking
	case "farm":
		m = d.Farm
	case "bonds":
		m = d.Bonds
	case "wrap":
		m = d.Wrap
	case "price":
		m = d.Price
	}
	if m == "" {
		return d.Default
	}
	return m
}

// APYFallback returns the configured fallback as a decimal.
func (s StoresConfig) APYFallback() decimal.Decimal {
	return decimal.RequireFromString(s.APYFallbackPercent)
}
