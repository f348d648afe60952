package dao

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingCodec(t *testing.T) {
	l := &ListingRecord{
		ID:          3,
		Name:        "Basioudi",
		Symbol:      "WB1",
		MetadataURI: "https://wareblock.com/properties/basioudi.json",
		Beneficiary: "hive:beneficiary",
		CreatedAt:   1756857600,
		ClosingTime: 1764633600,
		Uses: []LandUse{
			{TotalSupply: Units(10000), Goal: Units(1000), Rate: uint256.NewInt(10), Token: "contract:wb-token-3-0", Sale: "contract:wb-sale-3-0"},
			{TotalSupply: Units(20000), Goal: Units(2000), Rate: uint256.NewInt(10), Token: "contract:wb-token-3-1", Sale: "contract:wb-sale-3-1"},
		},
	}
	got, err := DecodeListing(EncodeListing(l))
	require.NoError(t, err)
	assert.Equal(t, l, got)
}

func TestSaleCodecKeepsWithdrawnFlag(t *testing.T) {
	s := &SaleRecord{
		Address:     "contract:wb-sale-0-0",
		Token:       "contract:wb-token-0-0",
		Wallet:      "hive:beneficiary",
		Goal:        Units(10),
		Rate:        uint256.NewInt(1000),
		ClosingTime: 99,
		Raised:      Units(10),
		Withdrawn:   true,
	}
	got, err := DecodeSale(EncodeSale(s))
	require.NoError(t, err)
	assert.Equal(t, s, got)
	assert.True(t, got.GoalReached())
}

// TestTokenCodecNilAmount makes sure a missing supply encodes as zero.
func TestTokenCodecNilAmount(t *testing.T) {
	got, err := DecodeToken(EncodeToken(&TokenRecord{Address: "contract:wb-token-0-0", Decimals: 18}))
	require.NoError(t, err)
	assert.True(t, got.TotalSupply.IsZero())
	assert.Equal(t, uint8(18), got.Decimals)
}

func TestDecodeRejectsBadInput(t *testing.T) {
	blob := EncodeSale(&SaleRecord{Address: "contract:wb-sale-0-0"})

	_, err := DecodeSale(blob[:len(blob)-5])
	assert.Error(t, err)

	bumped := append([]byte{}, blob...)
	bumped[0] = codecVersion + 1
	_, err = DecodeSale(bumped)
	assert.ErrorContains(t, err, "unsupported record version")

	_, err = DecodeListing(nil)
	assert.Error(t, err)
}

func TestDecodeListingRejectsHugeUseCount(t *testing.T) {
	blob := EncodeListing(&ListingRecord{ID: 1, Name: "Basioudi", Beneficiary: "hive:beneficiary"})
	// the trailing byte is the zero land use count; replace it with 2^63
	corrupt := append([]byte{}, blob[:len(blob)-1]...)
	corrupt = append(corrupt, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01)

	require.NotPanics(t, func() {
		_, err := DecodeListing(corrupt)
		assert.Error(t, err)
	})
}
