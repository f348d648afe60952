package contract

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/holiman/uint256"

	"wareblock/contract/dao"
	"wareblock/sdk"
)

// =============================================================================
// Registry
// =============================================================================

// CreateListingArgs lists a warehouse. TotalSupplies[i] and Goals[i] describe
// land use i; Duration is in seconds from the block time of the call.
type CreateListingArgs struct {
	Name          string
	Symbol        string
	TotalSupplies []*uint256.Int
	MetadataURI   string
	Goals         []*uint256.Int
	Beneficiary   sdk.Address
	Duration      int64
}

// ListingCreated carries the token and sale of every land use in input order.
type ListingCreated struct {
	ID          uint64
	ClosingTime int64
	Tokens      []sdk.Address
	Sales       []sdk.Address
}

// LandUseView is the projection of one land use at query time.
type LandUseView struct {
	Token         sdk.Address
	Sale          sdk.Address
	TotalSupply   *uint256.Int
	Goal          *uint256.Int
	Rate          *uint256.Int
	SupplyForSale *uint256.Int // tokens no longer held by the sale
	EscrowBalance *uint256.Int // tokens still held by the sale
	Raised        *uint256.Int
	State         dao.SaleState
}

type ListingView struct {
	ID          uint64
	Name        string
	Symbol      string
	MetadataURI string
	Beneficiary sdk.Address
	CreatedAt   int64
	ClosingTime int64
	Uses        []LandUseView
}

// validateListing checks every index before anything is written. All
// violations are reported together.
func validateListing(args *CreateListingArgs) error {
	var result *multierror.Error
	if strings.TrimSpace(args.Name) == "" {
		result = multierror.Append(result, fmt.Errorf("name is required"))
	}
	if strings.TrimSpace(args.Symbol) == "" {
		result = multierror.Append(result, fmt.Errorf("symbol is required"))
	}
	if !args.Beneficiary.IsValid() {
		result = multierror.Append(result, fmt.Errorf("beneficiary %q is not a valid address", args.Beneficiary))
	}
	if args.Duration <= 0 {
		result = multierror.Append(result, fmt.Errorf("duration must be positive"))
	}
	if len(args.TotalSupplies) == 0 {
		result = multierror.Append(result, fmt.Errorf("at least one land use is required"))
	}
	if len(args.TotalSupplies) != len(args.Goals) {
		result = multierror.Append(result, fmt.Errorf("%d total supplies but %d goals", len(args.TotalSupplies), len(args.Goals)))
	} else {
		for i := range args.TotalSupplies {
			supply, goal := args.TotalSupplies[i], args.Goals[i]
			switch {
			case supply == nil || supply.IsZero():
				result = multierror.Append(result, fmt.Errorf("land use %d: total supply must be positive", i))
			case goal == nil || goal.IsZero():
				result = multierror.Append(result, fmt.Errorf("land use %d: goal must be positive", i))
			case !new(uint256.Int).Mod(supply, goal).IsZero():
				result = multierror.Append(result, fmt.Errorf("land use %d: total supply is not divisible by goal", i))
			}
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	return nil
}

// CreateListing lists a warehouse with one unit token and one sale per land
// use. Every token's full supply ends up in its sale and all sales share the
// same closing time. Only the registry owner may call it.
func (c *Contract) CreateListing(env sdk.Env, args CreateListingArgs) (*ListingCreated, error) {
	caller, err := requireSender(env)
	if err != nil {
		return nil, err
	}
	if caller != c.cfg.Owner {
		return nil, fmt.Errorf("%w: you are not the owner of the Wareblock contract", ErrUnauthorized)
	}
	if err := validateListing(&args); err != nil {
		return nil, err
	}
	now := nowUnix(env)
	closing := now + args.Duration
	var out *ListingCreated
	err = c.exec(func(tx *Txn) error {
		id, err := getCount(tx, ListingsCount)
		if err != nil {
			return err
		}
		l := &dao.ListingRecord{
			ID:          id,
			Name:        args.Name,
			Symbol:      args.Symbol,
			MetadataURI: args.MetadataURI,
			Beneficiary: args.Beneficiary,
			CreatedAt:   now,
			ClosingTime: closing,
			Uses:        make([]dao.LandUse, len(args.TotalSupplies)),
		}
		created := &ListingCreated{ID: id, ClosingTime: closing}
		for i := range args.TotalSupplies {
			use, err := deployLandUse(tx, l, i, args.TotalSupplies[i], args.Goals[i])
			if err != nil {
				return fmt.Errorf("land use %d: %w", i, err)
			}
			l.Uses[i] = *use
			created.Tokens = append(created.Tokens, use.Token)
			created.Sales = append(created.Sales, use.Sale)
		}
		if err := saveListing(tx, l); err != nil {
			return err
		}
		if err := setCount(tx, ListingsCount, id+1); err != nil {
			return err
		}
		emitListingCreatedEvent(tx, id, caller, created.Tokens, created.Sales)
		out = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// deployLandUse mints the token to the registry, binds its sale and moves the
// whole supply into the sale's escrow.
func deployLandUse(tx *Txn, l *dao.ListingRecord, i int, supply, goal *uint256.Int) (*dao.LandUse, error) {
	rate := new(uint256.Int).Div(supply, goal)
	use := &dao.LandUse{
		TotalSupply: new(uint256.Int).Set(supply),
		Goal:        new(uint256.Int).Set(goal),
		Rate:        rate,
		Token:       tokenAddress(l.ID, i),
		Sale:        saleAddress(l.ID, i),
	}
	token := &dao.TokenRecord{
		Address:     use.Token,
		ListingID:   l.ID,
		Use:         uint32(i),
		Name:        l.Name,
		Symbol:      l.Symbol,
		Decimals:    TokenDecimals,
		TotalSupply: new(uint256.Int).Set(supply),
		Owner:       RegistryAddress,
		MetadataURI: l.MetadataURI,
	}
	if err := mintToken(tx, token); err != nil {
		return nil, err
	}
	sale := &dao.SaleRecord{
		Address:     use.Sale,
		ListingID:   l.ID,
		Use:         uint32(i),
		Token:       use.Token,
		Wallet:      l.Beneficiary,
		Goal:        new(uint256.Int).Set(goal),
		Rate:        new(uint256.Int).Set(rate),
		ClosingTime: l.ClosingTime,
		Raised:      dao.Zero(),
	}
	if err := saveSale(tx, sale); err != nil {
		return nil, err
	}
	if err := setAuthorizedSale(tx, RegistryAddress, use.Token, use.Sale); err != nil {
		return nil, err
	}
	if err := transferToken(tx, use.Token, RegistryAddress, use.Sale, supply); err != nil {
		return nil, err
	}
	return use, nil
}

func loadListing(tx *Txn, id uint64) (*dao.ListingRecord, error) {
	ptr, err := tx.Get(listingKey(id))
	if err != nil {
		return nil, err
	}
	if ptr == nil || *ptr == "" {
		return nil, fmt.Errorf("%w: listing %d", ErrNotFound, id)
	}
	return dao.DecodeListing([]byte(*ptr))
}

func saveListing(tx *Txn, l *dao.ListingRecord) error {
	return tx.Set(listingKey(l.ID), string(dao.EncodeListing(l)))
}

// projectListing derives supply for sale, raised amount and state of every land use at now.
func projectListing(tx *Txn, l *dao.ListingRecord, now int64) (*ListingView, error) {
	v := &ListingView{
		ID:          l.ID,
		Name:        l.Name,
		Symbol:      l.Symbol,
		MetadataURI: l.MetadataURI,
		Beneficiary: l.Beneficiary,
		CreatedAt:   l.CreatedAt,
		ClosingTime: l.ClosingTime,
		Uses:        make([]LandUseView, 0, len(l.Uses)),
	}
	for _, u := range l.Uses {
		s, err := loadSale(tx, u.Sale)
		if err != nil {
			return nil, err
		}
		t, err := loadToken(tx, u.Token)
		if err != nil {
			return nil, err
		}
		escrow, err := getBalance(tx, sdk.AssetOf(u.Token), u.Sale)
		if err != nil {
			return nil, err
		}
		state, err := currentState(tx, s, now)
		if err != nil {
			return nil, err
		}
		// refund burns only ever touch tokens outside the escrow, so escrow <= supply
		sold := new(uint256.Int).Sub(t.TotalSupply, escrow)
		v.Uses = append(v.Uses, LandUseView{
			Token:         u.Token,
			Sale:          u.Sale,
			TotalSupply:   t.TotalSupply,
			Goal:          s.Goal,
			Rate:          s.Rate,
			SupplyForSale: sold,
			EscrowBalance: escrow,
			Raised:        s.Raised,
			State:         state,
		})
	}
	return v, nil
}

// GetListing projects listing id at the env's block time.
func (c *Contract) GetListing(env sdk.Env, id uint64) (*ListingView, error) {
	now := nowUnix(env)
	var out *ListingView
	err := c.view(func(tx *Txn) error {
		l, err := loadListing(tx, id)
		if err != nil {
			return err
		}
		out, err = projectListing(tx, l, now)
		return err
	})
	return out, err
}

// GetAllListings projects every listing in creation order.
func (c *Contract) GetAllListings(env sdk.Env) ([]*ListingView, error) {
	now := nowUnix(env)
	var out []*ListingView
	err := c.view(func(tx *Txn) error {
		n, err := getCount(tx, ListingsCount)
		if err != nil {
			return err
		}
		out = make([]*ListingView, 0, n)
		for id := uint64(0); id < n; id++ {
			l, err := loadListing(tx, id)
			if err != nil {
				return err
			}
			v, err := projectListing(tx, l, now)
			if err != nil {
				return err
			}
			out = append(out, v)
		}
		return nil
	})
	return out, err
}

func (c *Contract) ListingCount() (uint64, error) {
	var n uint64
	err := c.view(func(tx *Txn) error {
		var err error
		n, err = getCount(tx, ListingsCount)
		return err
	})
	return n, err
}

// GetWarehouse returns the ordered token and sale addresses of listing id.
func (c *Contract) GetWarehouse(id uint64) ([]sdk.Address, []sdk.Address, error) {
	var tokens, sales []sdk.Address
	err := c.view(func(tx *Txn) error {
		l, err := loadListing(tx, id)
		if err != nil {
			return err
		}
		for _, u := range l.Uses {
			tokens = append(tokens, u.Token)
			sales = append(sales, u.Sale)
		}
		return nil
	})
	return tokens, sales, err
}
