package contract

import (
	"wareblock/contract/dao"
	"wareblock/sdk"
)

// =============================================================================
// Sibling Group
// =============================================================================

// A listing's sales form its sibling group. Membership is derived from the
// listing record, so the group owns no state of its own.

func siblingSales(l *dao.ListingRecord) []sdk.Address {
	out := make([]sdk.Address, len(l.Uses))
	for i, u := range l.Uses {
		out[i] = u.Sale
	}
	return out
}

// anySiblingReached reports whether a sale other than self reached its goal.
func anySiblingReached(tx *Txn, listingID uint64, self sdk.Address) (bool, error) {
	l, err := loadListing(tx, listingID)
	if err != nil {
		return false, err
	}
	for _, addr := range siblingSales(l) {
		if addr == self {
			continue
		}
		s, err := loadSale(tx, addr)
		if err != nil {
			return false, err
		}
		if s.GoalReached() {
			return true, nil
		}
	}
	return false, nil
}

// Siblings returns every sale of the listing that sale belongs to, sale included.
func (c *Contract) Siblings(sale sdk.Address) ([]sdk.Address, error) {
	var out []sdk.Address
	err := c.view(func(tx *Txn) error {
		s, err := loadSale(tx, sale)
		if err != nil {
			return err
		}
		l, err := loadListing(tx, s.ListingID)
		if err != nil {
			return err
		}
		out = siblingSales(l)
		return nil
	})
	return out, err
}
