////////////////////////////////////////////////////////////////////////////////
// Wareblock: land-use crowdsales for tokenized warehouses
////////////////////////////////////////////////////////////////////////////////

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"wareblock/api"
	"wareblock/config"
	"wareblock/contract"
	"wareblock/contract/dao"
	"wareblock/metrics"
	"wareblock/sdk"
)

func main() {
	configPath := flag.String("config", "", "path to the yaml config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}

	err = run(cfg, logger)
	if err != nil {
		logger.Error("node stopped", zap.Error(err))
	}
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if err := zcfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	return zcfg.Build()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	state, closeState, err := openState(cfg.State)
	if err != nil {
		return err
	}
	defer closeState()

	price, err := decimal.NewFromString(cfg.Exchange.Price)
	if err != nil {
		return fmt.Errorf("exchange price: %w", err)
	}
	m := metrics.New()
	settlement := sdk.Asset(cfg.Registry.SettlementAsset)
	native := sdk.Asset(cfg.Registry.NativeAsset)
	exchange := &contract.FixedRateExchange{
		Reserve:    sdk.Address(cfg.Exchange.Reserve),
		Price:      price,
		FeeBps:     cfg.Exchange.FeeBps,
		Native:     native,
		Settlement: settlement,
	}
	c, err := contract.New(state, contract.Config{
		Owner:           sdk.Address(cfg.Registry.Owner),
		SettlementAsset: settlement,
		NativeAsset:     native,
	}, contract.WithEventSink(m.EventSink(sdk.NewZapSink(logger))), contract.WithExchange(exchange))
	if err != nil {
		return err
	}
	if c.Created() {
		if err := applyGenesis(c, cfg.Genesis); err != nil {
			return err
		}
		logger.Info("state initialized", zap.String("owner", cfg.Registry.Owner), zap.Int("genesis", len(cfg.Genesis)))
	}

	router := api.NewServer(c, logger).Router()
	router.Use(m.Middleware)
	router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("query api listening", zap.String("addr", cfg.HTTP.Addr), zap.String("state", cfg.State.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func openState(cfg config.StateConfig) (contract.State, func(), error) {
	switch cfg.Backend {
	case "file":
		st, err := contract.NewFileState(cfg.Path)
		return st, func() {}, err
	case "badger":
		st, err := contract.OpenBadgerState(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return st, func() { _ = st.Close() }, nil
	default:
		return contract.NewMockState(), func() {}, nil
	}
}

func applyGenesis(c *contract.Contract, entries []config.GenesisConfig) error {
	for _, g := range entries {
		amount, err := dao.ParseUnits(g.Amount, dao.Decimals)
		if err != nil {
			return fmt.Errorf("genesis %s for %s: %w", g.Asset, g.To, err)
		}
		if err := c.Deposit(sdk.Asset(g.Asset), sdk.Address(g.To), amount); err != nil {
			return fmt.Errorf("genesis %s for %s: %w", g.Asset, g.To, err)
		}
	}
	return nil
}
