package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"wareblock/contract"
	"wareblock/contract/dao"
	"wareblock/sdk"
)

// Ledger is the read side of the contract the API needs.
type Ledger interface {
	GetAllListings(env sdk.Env) ([]*contract.ListingView, error)
	GetListing(env sdk.Env, id uint64) (*contract.ListingView, error)
	GetSale(sale sdk.Address) (*dao.SaleRecord, error)
	SaleState(env sdk.Env, sale sdk.Address) (dao.SaleState, error)
	Siblings(sale sdk.Address) ([]sdk.Address, error)
	DepositsOf(sale, investor sdk.Address) (*uint256.Int, error)
	GetToken(token sdk.Address) (*dao.TokenRecord, error)
	BalanceOf(asset sdk.Asset, holder sdk.Address) (*uint256.Int, error)
}

// Server exposes read-only queries over HTTP.
type Server struct {
	ledger Ledger
	logger *zap.Logger
	now    func() time.Time
}

func NewServer(ledger Ledger, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{ledger: ledger, logger: logger.Named("api"), now: time.Now}
}

// Router wires every route onto a fresh gorilla router.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/listings", s.handleListings).Methods(http.MethodGet)
	r.HandleFunc("/listings/{id:[0-9]+}", s.handleListing).Methods(http.MethodGet)
	r.HandleFunc("/sales/{address}", s.handleSale).Methods(http.MethodGet)
	r.HandleFunc("/sales/{address}/deposits/{investor}", s.handleDeposit).Methods(http.MethodGet)
	r.HandleFunc("/tokens/{address}", s.handleToken).Methods(http.MethodGet)
	r.HandleFunc("/balances/{asset}/{holder}", s.handleBalance).Methods(http.MethodGet)
	return r
}

// queryEnv evaluates views at the current wall-clock time.
func (s *Server) queryEnv() sdk.Env {
	return sdk.NewEnv(sdk.ZeroAddress, s.now())
}

func (s *Server) handleListings(w http.ResponseWriter, r *http.Request) {
	views, err := s.ledger.GetAllListings(s.queryEnv())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]ListingDTO, 0, len(views))
	for _, v := range views {
		out = append(out, listingDTO(v))
	}
	s.reply(w, http.StatusOK, out)
}

func (s *Server) handleListing(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		s.reply(w, http.StatusBadRequest, errorDTO{Error: "invalid listing id"})
		return
	}
	v, err := s.ledger.GetListing(s.queryEnv(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.reply(w, http.StatusOK, listingDTO(v))
}

func (s *Server) handleSale(w http.ResponseWriter, r *http.Request) {
	addr := sdk.Address(mux.Vars(r)["address"])
	sale, err := s.ledger.GetSale(addr)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	state, err := s.ledger.SaleState(s.queryEnv(), addr)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	siblings, err := s.ledger.Siblings(addr)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	names := make([]string, len(siblings))
	for i, a := range siblings {
		names[i] = a.String()
	}
	s.reply(w, http.StatusOK, saleDTO(sale, state, names))
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sale, investor := sdk.Address(vars["address"]), sdk.Address(vars["investor"])
	dep, err := s.ledger.DepositsOf(sale, investor)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.reply(w, http.StatusOK, DepositDTO{Sale: sale.String(), Investor: investor.String(), Deposit: amountOf(dep)})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	t, err := s.ledger.GetToken(sdk.Address(mux.Vars(r)["address"]))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.reply(w, http.StatusOK, tokenDTO(t))
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	asset, holder := sdk.Asset(vars["asset"]), sdk.Address(vars["holder"])
	bal, err := s.ledger.BalanceOf(asset, holder)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.reply(w, http.StatusOK, BalanceDTO{Asset: asset.String(), Holder: holder.String(), Balance: amountOf(bal)})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if contract.IsNotFound(err) {
		s.reply(w, http.StatusNotFound, errorDTO{Error: err.Error()})
		return
	}
	s.logger.Error("query failed", zap.String("path", r.URL.Path), zap.Error(err))
	s.reply(w, http.StatusInternalServerError, errorDTO{Error: "internal error"})
}

func (s *Server) reply(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("write response", zap.Error(err))
	}
}
