package contract

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"

	"wareblock/sdk"
)

// emitListingCreatedEvent lists the token and sale of every land use in creation order.
func emitListingCreatedEvent(tx *Txn, listingID uint64, by sdk.Address, tokens, sales []sdk.Address) {
	tx.emit(fmt.Sprintf(
		"lc|id:%d|by:%s|tokens:%s|sales:%s",
		listingID,
		by,
		joinAddresses(tokens),
		joinAddresses(sales),
	))
}

// emitTokenTransferEvent is the classic transfer line, from is the zero address on mint.
func emitTokenTransferEvent(tx *Txn, token, from, to sdk.Address, amount *uint256.Int) {
	tx.emit(fmt.Sprintf(
		"tt|t:%s|f:%s|to:%s|a:%s",
		token,
		from,
		to,
		amount.Dec(),
	))
}

func emitTokenApprovalEvent(tx *Txn, token, owner, spender sdk.Address, amount *uint256.Int) {
	tx.emit(fmt.Sprintf(
		"ta|t:%s|o:%s|s:%s|a:%s",
		token,
		owner,
		spender,
		amount.Dec(),
	))
}

// emitTokenBurnEvent logs a refund burn so supply trackers can follow along.
func emitTokenBurnEvent(tx *Txn, token, holder sdk.Address, amount *uint256.Int) {
	tx.emit(fmt.Sprintf(
		"tb|t:%s|h:%s|a:%s",
		token,
		holder,
		amount.Dec(),
	))
}

// emitAuthorizedSaleEvent signals which sale may burn the token from now on.
func emitAuthorizedSaleEvent(tx *Txn, token, sale sdk.Address) {
	tx.emit(fmt.Sprintf(
		"as|t:%s|s:%s",
		token,
		sale,
	))
}

// emitSaleBoughtEvent: purchaser pays, beneficiary receives tokens.
func emitSaleBoughtEvent(tx *Txn, sale, purchaser, beneficiary sdk.Address, value, tokens *uint256.Int) {
	tx.emit(fmt.Sprintf(
		"sb|s:%s|p:%s|b:%s|v:%s|t:%s",
		sale,
		purchaser,
		beneficiary,
		value.Dec(),
		tokens.Dec(),
	))
}

func emitSaleRefundEvent(tx *Txn, sale, investor sdk.Address, paid, burned *uint256.Int) {
	tx.emit(fmt.Sprintf(
		"sr|s:%s|i:%s|v:%s|t:%s",
		sale,
		investor,
		paid.Dec(),
		burned.Dec(),
	))
}

func emitSaleWithdrawEvent(tx *Txn, sale, wallet sdk.Address, amount *uint256.Int) {
	tx.emit(fmt.Sprintf(
		"sw|s:%s|w:%s|v:%s",
		sale,
		wallet,
		amount.Dec(),
	))
}

// emitDepositEvent records genesis funding.
func emitDepositEvent(tx *Txn, asset sdk.Asset, to sdk.Address, amount *uint256.Int) {
	tx.emit(fmt.Sprintf(
		"dp|a:%s|to:%s|v:%s",
		asset,
		to,
		amount.Dec(),
	))
}

// emitSwapEvent shows how much settlement asset a native payment turned into.
func emitSwapEvent(tx *Txn, payer sdk.Address, in, out *uint256.Int) {
	tx.emit(fmt.Sprintf(
		"sx|p:%s|in:%s|out:%s",
		payer,
		in.Dec(),
		out.Dec(),
	))
}

func joinAddresses(addrs []sdk.Address) string {
	parts := make([]string, len(addrs))
	for i, a := range addrs {
		parts[i] = a.String()
	}
	return strings.Join(parts, ",")
}
