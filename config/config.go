package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Config holds the parameters of a local Wareblock node.
type Config struct {
	Registry RegistryConfig  `yaml:"registry"`
	Exchange ExchangeConfig  `yaml:"exchange"`
	State    StateConfig     `yaml:"state"`
	HTTP     HTTPConfig      `yaml:"http"`
	Log      LogConfig       `yaml:"log"`
	Genesis  []GenesisConfig `yaml:"genesis"`
}

type RegistryConfig struct {
	Owner           string `yaml:"owner"`
	SettlementAsset string `yaml:"settlement_asset"`
	NativeAsset     string `yaml:"native_asset"`
}

// ExchangeConfig configures the fixed-rate native -> settlement exchange.
// Price is settlement units per native unit, FeeBps the fee in basis points.
type ExchangeConfig struct {
	Reserve string `yaml:"reserve"`
	Price   string `yaml:"price"`
	FeeBps  uint32 `yaml:"fee_bps"`
}

type StateConfig struct {
	Backend string `yaml:"backend"` // memory, file or badger
	Path    string `yaml:"path"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// GenesisConfig funds an account at first start. Amount is in whole units ("1000.5").
type GenesisConfig struct {
	Asset  string `yaml:"asset"`
	To     string `yaml:"to"`
	Amount string `yaml:"amount"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Registry: RegistryConfig{
			Owner:           "hive:wareblock",
			SettlementAsset: "dai",
			NativeAsset:     "eth",
		},
		Exchange: ExchangeConfig{
			Reserve: "system:exchange",
			Price:   "2000",
			FeeBps:  30,
		},
		State: StateConfig{Backend: "memory"},
		HTTP:  HTTPConfig{Addr: ":8080"},
		Log:   LogConfig{Level: "info"},
	}
}

// Load reads the YAML file at path (skipped when empty), then .env, then
// WAREBLOCK_* environment variables. Later sources win.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setString("WAREBLOCK_OWNER", &c.Registry.Owner)
	setString("WAREBLOCK_SETTLEMENT_ASSET", &c.Registry.SettlementAsset)
	setString("WAREBLOCK_NATIVE_ASSET", &c.Registry.NativeAsset)
	setString("WAREBLOCK_EXCHANGE_RESERVE", &c.Exchange.Reserve)
	setString("WAREBLOCK_EXCHANGE_PRICE", &c.Exchange.Price)
	setString("WAREBLOCK_STATE_BACKEND", &c.State.Backend)
	setString("WAREBLOCK_STATE_PATH", &c.State.Path)
	setString("WAREBLOCK_HTTP_ADDR", &c.HTTP.Addr)
	setString("WAREBLOCK_LOG_LEVEL", &c.Log.Level)
	if v, ok := os.LookupEnv("WAREBLOCK_EXCHANGE_FEE_BPS"); ok {
		fee, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return fmt.Errorf("WAREBLOCK_EXCHANGE_FEE_BPS: %w", err)
		}
		c.Exchange.FeeBps = uint32(fee)
	}
	return nil
}

// Validate checks the fields the node cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Registry.Owner) == "" {
		return errors.New("registry.owner is required")
	}
	if c.Registry.SettlementAsset == "" || c.Registry.NativeAsset == "" {
		return errors.New("registry assets are required")
	}
	switch c.State.Backend {
	case "memory":
	case "file", "badger":
		if c.State.Path == "" {
			return fmt.Errorf("state.path is required for the %s backend", c.State.Backend)
		}
	default:
		return fmt.Errorf("unknown state backend %q", c.State.Backend)
	}
	if c.Exchange.FeeBps >= 10_000 {
		return fmt.Errorf("exchange.fee_bps must be below 10000, got %d", c.Exchange.FeeBps)
	}
	return nil
}
