package api

import (
	"github.com/holiman/uint256"

	"wareblock/contract"
	"wareblock/contract/dao"
)

// Amounts travel as decimal strings in base units, with a formatted copy for humans.

type Amount struct {
	Raw       string `json:"raw"`
	Formatted string `json:"formatted"`
}

func amountOf(v *uint256.Int) Amount {
	v = dao.OrZero(v)
	return Amount{Raw: v.Dec(), Formatted: dao.FormatUnits(v, dao.Decimals)}
}

type LandUseDTO struct {
	Token         string `json:"token"`
	Sale          string `json:"sale"`
	TotalSupply   Amount `json:"totalSupply"`
	Goal          Amount `json:"goal"`
	Rate          string `json:"rate"`
	SupplyForSale Amount `json:"supplyForSale"`
	EscrowBalance Amount `json:"escrowBalance"`
	Raised        Amount `json:"raisedAmount"`
	State         string `json:"state"`
}

type ListingDTO struct {
	ID          uint64       `json:"id"`
	Name        string       `json:"name"`
	Symbol      string       `json:"symbol"`
	TokenURI    string       `json:"tokenURI"`
	Beneficiary string       `json:"beneficiary"`
	CreatedAt   int64        `json:"createdAt"`
	ClosingTime int64        `json:"closingTime"`
	Uses        []LandUseDTO `json:"uses"`
}

func listingDTO(v *contract.ListingView) ListingDTO {
	out := ListingDTO{
		ID:          v.ID,
		Name:        v.Name,
		Symbol:      v.Symbol,
		TokenURI:    v.MetadataURI,
		Beneficiary: v.Beneficiary.String(),
		CreatedAt:   v.CreatedAt,
		ClosingTime: v.ClosingTime,
		Uses:        make([]LandUseDTO, 0, len(v.Uses)),
	}
	for _, u := range v.Uses {
		out.Uses = append(out.Uses, LandUseDTO{
			Token:         u.Token.String(),
			Sale:          u.Sale.String(),
			TotalSupply:   amountOf(u.TotalSupply),
			Goal:          amountOf(u.Goal),
			Rate:          dao.OrZero(u.Rate).Dec(),
			SupplyForSale: amountOf(u.SupplyForSale),
			EscrowBalance: amountOf(u.EscrowBalance),
			Raised:        amountOf(u.Raised),
			State:         u.State.String(),
		})
	}
	return out
}

type SaleDTO struct {
	Address     string   `json:"address"`
	ListingID   uint64   `json:"listingId"`
	Use         uint32   `json:"use"`
	Token       string   `json:"token"`
	Wallet      string   `json:"wallet"`
	Goal        Amount   `json:"goal"`
	Rate        string   `json:"rate"`
	ClosingTime int64    `json:"closingTime"`
	Raised      Amount   `json:"raisedAmount"`
	GoalReached bool     `json:"goalReached"`
	Withdrawn   bool     `json:"withdrawn"`
	State       string   `json:"state"`
	Siblings    []string `json:"siblings"`
}

func saleDTO(s *dao.SaleRecord, state dao.SaleState, siblings []string) SaleDTO {
	return SaleDTO{
		Address:     s.Address.String(),
		ListingID:   s.ListingID,
		Use:         s.Use,
		Token:       s.Token.String(),
		Wallet:      s.Wallet.String(),
		Goal:        amountOf(s.Goal),
		Rate:        dao.OrZero(s.Rate).Dec(),
		ClosingTime: s.ClosingTime,
		Raised:      amountOf(s.Raised),
		GoalReached: s.GoalReached(),
		Withdrawn:   s.Withdrawn,
		State:       state.String(),
		Siblings:    siblings,
	}
}

type TokenDTO struct {
	Address        string `json:"address"`
	ListingID      uint64 `json:"listingId"`
	Use            uint32 `json:"use"`
	Name           string `json:"name"`
	Symbol         string `json:"symbol"`
	Decimals       uint8  `json:"decimals"`
	TotalSupply    Amount `json:"totalSupply"`
	Owner          string `json:"owner"`
	AuthorizedSale string `json:"authorizedSale"`
	TokenURI       string `json:"tokenURI"`
}

func tokenDTO(t *dao.TokenRecord) TokenDTO {
	return TokenDTO{
		Address:        t.Address.String(),
		ListingID:      t.ListingID,
		Use:            t.Use,
		Name:           t.Name,
		Symbol:         t.Symbol,
		Decimals:       t.Decimals,
		TotalSupply:    amountOf(t.TotalSupply),
		Owner:          t.Owner.String(),
		AuthorizedSale: t.AuthorizedSale.String(),
		TokenURI:       t.MetadataURI,
	}
}

type BalanceDTO struct {
	Asset   string `json:"asset"`
	Holder  string `json:"holder"`
	Balance Amount `json:"balance"`
}

type DepositDTO struct {
	Sale     string `json:"sale"`
	Investor string `json:"investor"`
	Deposit  Amount `json:"deposit"`
}

type errorDTO struct {
	Error string `json:"error"`
}
