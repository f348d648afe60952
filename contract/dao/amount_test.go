package dao

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnits(t *testing.T) {
	v, err := ParseUnits("0.0001", Decimals)
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(100_000_000_000_000), v)

	v, err = ParseUnits("10000", Decimals)
	require.NoError(t, err)
	assert.Equal(t, Units(10000), v)

	_, err = ParseUnits("-1", Decimals)
	assert.Error(t, err)
	_, err = ParseUnits("0.0000000000000000001", Decimals)
	assert.Error(t, err)
	_, err = ParseUnits("abc", Decimals)
	assert.Error(t, err)
	_, err = ParseUnits("1e80", Decimals)
	assert.Error(t, err)
}

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "0.0001", FormatUnits(uint256.NewInt(100_000_000_000_000), Decimals))
	assert.Equal(t, "1994", FormatUnits(Units(1994), Decimals))
	assert.Equal(t, "0", FormatUnits(nil, Decimals))
}

// TestTokensAtRate checks the scenario numbers: 0.0001 at rate 1000 is 0.1 tokens.
func TestTokensAtRate(t *testing.T) {
	in, err := ParseUnits("0.0001", Decimals)
	require.NoError(t, err)
	out, err := Tokens(in, uint256.NewInt(1000))
	require.NoError(t, err)
	assert.Equal(t, "0.1", FormatUnits(out, Decimals))

	_, err = Tokens(new(uint256.Int).SetAllOne(), uint256.NewInt(2))
	assert.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	v, err := ParseAmount("1000000000000000000")
	require.NoError(t, err)
	assert.Equal(t, Units(1), v)
	_, err = ParseAmount("1.5")
	assert.Error(t, err)
}

func TestSaleStateStrings(t *testing.T) {
	assert.Equal(t, "blocked", SaleBlocked.String())
	assert.Equal(t, "closed_unreached", SaleClosedUnreached.String())
	assert.True(t, SaleBlocked.Refundable())
	assert.False(t, SaleGoalReached.Refundable())
}
