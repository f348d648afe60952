package dao

import (
	"github.com/holiman/uint256"

	"wareblock/sdk"
)

type Address = sdk.Address

// SaleState is the lazily evaluated lifecycle position of a sale.
type SaleState uint8

const (
	SaleStateUnspecified SaleState = 0
	SaleOpen             SaleState = 1
	SaleGoalReached      SaleState = 2
	SaleBlocked          SaleState = 3
	SaleClosedUnreached  SaleState = 4
)

// String prints the sale state as lower-case text for events, views and logs.
func (s SaleState) String() string {
	switch s {
	case SaleOpen:
		return "open"
	case SaleGoalReached:
		return "goal_reached"
	case SaleBlocked:
		return "blocked"
	case SaleClosedUnreached:
		return "closed_unreached"
	default:
		return "unspecified"
	}
}

// Refundable reports whether investors may reclaim deposits in this state.
func (s SaleState) Refundable() bool {
	return s == SaleBlocked || s == SaleClosedUnreached
}

// ListingRecord is one tokenized warehouse with its mutually exclusive land uses.
// Index i of Uses corresponds to the i-th totalSupply/goal pair at creation.
type ListingRecord struct {
	ID          uint64
	Name        string
	Symbol      string
	MetadataURI string
	Beneficiary Address
	CreatedAt   int64
	ClosingTime int64
	Uses        []LandUse
}

// LandUse pairs one unit token with the sale that escrows its supply.
// Rate * Goal == TotalSupply holds exactly.
type LandUse struct {
	TotalSupply *uint256.Int
	Goal        *uint256.Int
	Rate        *uint256.Int
	Token       Address
	Sale        Address
}

// TokenRecord holds the metadata of a unit token. Balances live in the asset ledger
// under sdk.AssetOf(Address).
type TokenRecord struct {
	Address        Address
	ListingID      uint64
	Use            uint32
	Name           string
	Symbol         string
	Decimals       uint8
	TotalSupply    *uint256.Int
	Owner          Address
	AuthorizedSale Address
	MetadataURI    string
}

// SaleRecord holds the mutable accounting of one land-use sale. Deposits are
// stored per investor under their own keys.
type SaleRecord struct {
	Address     Address
	ListingID   uint64
	Use         uint32
	Token       Address
	Wallet      Address
	Goal        *uint256.Int
	Rate        *uint256.Int
	ClosingTime int64
	Raised      *uint256.Int
	Withdrawn   bool
}

// GoalReached is the pure predicate Raised >= Goal.
func (s *SaleRecord) GoalReached() bool {
	return !s.Raised.Lt(s.Goal)
}
