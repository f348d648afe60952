package contract

import (
	"fmt"

	"wareblock/sdk"
)

// -----------------------------------------------------------------------------
// Identities
// -----------------------------------------------------------------------------

// RegistryAddress is the account the registry acts as when it mints supply
// and wires tokens to their sales. It owns every unit token.
var RegistryAddress = sdk.ContractAddress("wareblock")

// tokenAddress names the unit token of land use `use` in listing `listingID`.
func tokenAddress(listingID uint64, use int) sdk.Address {
	return sdk.ContractAddress(fmt.Sprintf("wb-token-%d-%d", listingID, use))
}

// saleAddress names the sale of land use `use` in listing `listingID`.
func saleAddress(listingID uint64, use int) sdk.Address {
	return sdk.ContractAddress(fmt.Sprintf("wb-sale-%d-%d", listingID, use))
}

// -----------------------------------------------------------------------------
// Storage Key Prefixes
// -----------------------------------------------------------------------------

const (
	// kConfig stores the registry config (owner|settlement|native).
	kConfig = "cfg"
	// kListing stores encoded ListingRecord blobs by listing id.
	kListing = "lst:"
	// kToken stores encoded TokenRecord blobs by token address.
	kToken = "tok:"
	// kSale stores encoded SaleRecord blobs by sale address.
	kSale = "sale:"
	// kDeposit stores cumulative settlement deposits per sale and investor.
	kDeposit = "dep:"
	// kBalance stores per-asset balances.
	kBalance = "bal:"
	// kAllowance stores per-asset spending approvals.
	kAllowance = "alw:"
	// kInvestors indexes the investors of a sale.
	kInvestors = "inv:"
	// kHolders indexes every account that ever held a unit token.
	kHolders = "hold:"
)

// Counter Keys
const (
	// ListingsCount holds the number of listings (and the next listing id).
	ListingsCount = "count:lst"
)

// TokenDecimals is fixed for every unit token.
const TokenDecimals uint8 = 18
