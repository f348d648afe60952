package sdk

// Asset names a fungible ledger balance: the native currency, the pegged
// settlement asset, or a unit token (whose asset name is its contract address).
type Asset string

const (
	AssetEth Asset = "eth"
	AssetDai Asset = "dai"
)

// String returns the raw ticker string for logging or storage keys.
func (a Asset) String() string {
	return string(a)
}

// AssetOf returns the asset under which a token contract's balances are kept.
func AssetOf(token Address) Asset {
	return Asset(token.String())
}
