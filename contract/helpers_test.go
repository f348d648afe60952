package contract_test

import (
	"context"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"wareblock/contract"
	"wareblock/contract/dao"
	"wareblock/sdk"
)

const (
	ownerAddress    = sdk.Address("hive:wareblock")
	walletAddress   = sdk.Address("hive:beneficiary")
	investorAddress = sdk.Address("hive:someone")
	otherInvestor   = sdk.Address("hive:someoneelse")
	outsider        = sdk.Address("hive:outsider")
	reserveAddress  = sdk.Address("system:exchange")
)

// swap deadline far in the future, we don't care about it in most tests
const farDeadline int64 = 7961186785

var defaultTime = time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC)

const day = int64(24 * 60 * 60)

type ContractTest struct {
	C     *contract.Contract
	State *contract.MockState
	Sink  *sdk.MemorySink
}

// SetupContractTest builds a contract over a fresh MockState with a 1:1 fee-free
// exchange and funds the usual accounts.
func SetupContractTest(t *testing.T) *ContractTest {
	t.Helper()
	state := contract.NewMockState()
	sink := sdk.NewMemorySink()
	c, err := contract.New(state, contract.Config{
		Owner:           ownerAddress,
		SettlementAsset: sdk.AssetDai,
		NativeAsset:     sdk.AssetEth,
	},
		contract.WithEventSink(sink),
		contract.WithExchange(&contract.FixedRateExchange{
			Reserve:    reserveAddress,
			Price:      decimal.NewFromInt(1),
			Native:     sdk.AssetEth,
			Settlement: sdk.AssetDai,
		}),
	)
	require.NoError(t, err)
	for _, addr := range []sdk.Address{investorAddress, otherInvestor, outsider} {
		require.NoError(t, c.Deposit(sdk.AssetDai, addr, dao.Units(200000)))
		require.NoError(t, c.Deposit(sdk.AssetEth, addr, dao.Units(200000)))
	}
	require.NoError(t, c.Deposit(sdk.AssetDai, reserveAddress, dao.Units(1000000)))
	sink.Reset()
	return &ContractTest{C: c, State: state, Sink: sink}
}

// envAt sends a call from sender at defaultTime + offset seconds.
func envAt(sender sdk.Address, offset int64) sdk.Env {
	return sdk.NewEnv(sender, defaultTime.Add(time.Duration(offset)*time.Second))
}

func units(n uint64) *uint256.Int {
	return dao.Units(n)
}

func amount(t *testing.T, s string) *uint256.Int {
	t.Helper()
	v, err := dao.ParseUnits(s, dao.Decimals)
	require.NoError(t, err)
	return v
}

func unitsList(ns ...uint64) []*uint256.Int {
	out := make([]*uint256.Int, len(ns))
	for i, n := range ns {
		out[i] = dao.Units(n)
	}
	return out
}

// createListing lists a warehouse as the owner at defaultTime.
func createListing(t *testing.T, ct *ContractTest, supplies, goals []*uint256.Int, duration int64) *contract.ListingCreated {
	t.Helper()
	created, err := ct.C.CreateListing(envAt(ownerAddress, 0), contract.CreateListingArgs{
		Name:          "Regie",
		Symbol:        "WB0",
		TotalSupplies: supplies,
		MetadataURI:   "https://wareblock.com/properties/regie.json",
		Goals:         goals,
		Beneficiary:   walletAddress,
		Duration:      duration,
	})
	require.NoError(t, err)
	return created
}

// createDefaultListing is a single land use with 10000 tokens for a 10 DAI goal (rate 1000).
func createDefaultListing(t *testing.T, ct *ContractTest) *contract.ListingCreated {
	t.Helper()
	return createListing(t, ct, unitsList(10000), unitsList(10), 90*day)
}

// buyWithDai approves the sale and buys for investor in one go.
func buyWithDai(ct *ContractTest, sale, investor sdk.Address, amt *uint256.Int, offset int64) (*contract.Purchase, error) {
	if err := ct.C.ApproveSettlement(envAt(investor, offset), sale, amt); err != nil {
		return nil, err
	}
	return ct.C.BuyWithSettlementAsset(envAt(investor, offset), sale, investor, amt)
}

func buyWithEth(ct *ContractTest, sale, investor sdk.Address, value *uint256.Int, offset int64) (*contract.Purchase, error) {
	return ct.C.Buy(context.Background(), envAt(investor, offset), sale, investor, value, uint256.NewInt(1), farDeadline)
}

func balance(t *testing.T, ct *ContractTest, asset sdk.Asset, holder sdk.Address) *uint256.Int {
	t.Helper()
	b, err := ct.C.BalanceOf(asset, holder)
	require.NoError(t, err)
	return b
}

func tokenBalance(t *testing.T, ct *ContractTest, token, holder sdk.Address) *uint256.Int {
	t.Helper()
	b, err := ct.C.TokenBalanceOf(token, holder)
	require.NoError(t, err)
	return b
}

// requireSupplyConserved checks that the balances of every holder add up to the total supply.
func requireSupplyConserved(t *testing.T, ct *ContractTest, token sdk.Address) {
	t.Helper()
	info, err := ct.C.GetToken(token)
	require.NoError(t, err)
	holders, err := ct.C.TokenHolders(token)
	require.NoError(t, err)
	sum := dao.Zero()
	for _, h := range holders {
		sum.Add(sum, tokenBalance(t, ct, token, h))
	}
	require.Equal(t, info.TotalSupply.Dec(), sum.Dec())
}

// requireRaisedWithinGoal checks raised <= goal.
func requireRaisedWithinGoal(t *testing.T, ct *ContractTest, sale sdk.Address) {
	t.Helper()
	s, err := ct.C.GetSale(sale)
	require.NoError(t, err)
	require.False(t, s.Raised.Gt(s.Goal), "raised %s exceeds goal %s", s.Raised.Dec(), s.Goal.Dec())
}
