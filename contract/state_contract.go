package contract

import (
	"fmt"
	"strings"

	"wareblock/sdk"
)

// -----------------------------------------------------------------------------
// Registry Configuration State
// -----------------------------------------------------------------------------

// Config fixes the registry owner and the assets a deployment trades in.
type Config struct {
	Owner           sdk.Address
	SettlementAsset sdk.Asset
	NativeAsset     sdk.Asset
}

func (c Config) validate() error {
	if !c.Owner.IsValid() {
		return fmt.Errorf("%w: owner %q", ErrInvalidAddress, c.Owner)
	}
	if c.SettlementAsset == "" || c.NativeAsset == "" {
		return fmt.Errorf("%w: settlement and native assets are required", ErrInvalidConfiguration)
	}
	if c.SettlementAsset == c.NativeAsset {
		return fmt.Errorf("%w: settlement and native asset must differ", ErrInvalidConfiguration)
	}
	return nil
}

// loadConfig loads the registry configuration, or nil if the state is fresh.
func loadConfig(tx *Txn) (*Config, error) {
	ptr, err := tx.Get(kConfig)
	if err != nil {
		return nil, err
	}
	if ptr == nil || *ptr == "" {
		return nil, nil
	}
	return decodeConfig(*ptr)
}

// saveConfig stores the registry configuration.
func saveConfig(tx *Txn, cfg *Config) error {
	return tx.Set(kConfig, encodeConfig(cfg))
}

// encodeConfig serializes Config to a pipe-delimited string.
// Format: owner|settlement|native
func encodeConfig(cfg *Config) string {
	return cfg.Owner.String() + "|" + cfg.SettlementAsset.String() + "|" + cfg.NativeAsset.String()
}

// decodeConfig deserializes a pipe-delimited string to Config.
func decodeConfig(data string) (*Config, error) {
	parts := strings.Split(data, "|")
	if len(parts) != 3 {
		return nil, fmt.Errorf("corrupt registry config %q", data)
	}
	return &Config{
		Owner:           sdk.Address(parts[0]),
		SettlementAsset: sdk.Asset(parts[1]),
		NativeAsset:     sdk.Asset(parts[2]),
	}, nil
}
