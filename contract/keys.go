package contract

import (
	"strconv"

	"wareblock/sdk"
)

// Composite keys join their parts with '|' since addresses already contain ':'.

func listingKey(id uint64) string {
	return kListing + strconv.FormatUint(id, 10)
}

func tokenKey(token sdk.Address) string {
	return kToken + token.String()
}

func saleKey(sale sdk.Address) string {
	return kSale + sale.String()
}

func depositKey(sale, investor sdk.Address) string {
	return kDeposit + sale.String() + "|" + investor.String()
}

func balanceKey(asset sdk.Asset, holder sdk.Address) string {
	return kBalance + asset.String() + "|" + holder.String()
}

func allowanceKey(asset sdk.Asset, owner, spender sdk.Address) string {
	return kAllowance + asset.String() + "|" + owner.String() + "|" + spender.String()
}

func investorsKey(sale sdk.Address) string {
	return kInvestors + sale.String()
}

func holdersKey(token sdk.Address) string {
	return kHolders + token.String()
}
