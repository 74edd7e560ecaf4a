package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/app/service"
	"wallet_dashboard/internal/config"
	"wallet_dashboard/internal/infrastructure/bridge"
	"wallet_dashboard/internal/infrastructure/indexer"
	"wallet_dashboard/internal/infrastructure/restapi"
	"wallet_dashboard/internal/infrastructure/session"
	"wallet_dashboard/internal/pkg/logger"
	"wallet_dashboard/internal/pkg/metrics"
	"wallet_dashboard/internal/pkg/utils"
)

func main() {
	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.NewZap(cfg.Logging.Level)
	if err != nil {
		logrus.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync() //nolint:errcheck
	logger.InitSlog(zapLogger)
	appLogger := logger.NewSlogAdapter()

	zapLogger.Info("Configuration loaded",
		zap.String("path", cfgPath),
		zap.String("network", cfg.Network.Name),
		zap.String("strategy", cfg.Transactions.Strategy),
		zap.Bool("wallet_endpoint_set", cfg.Wallet.Endpoint != ""),
	)

	metrics.MustRegisterMetrics()

	provider := bridge.NewProvider(cfg.Wallet.Endpoint, cfg.Network, bridge.OptionsFromConfig(cfg), appLogger)
	defer provider.Close()
	if cfg.Wallet.Endpoint == "" {
		zapLogger.Warn("No wallet endpoint configured, connect requests will report a missing wallet",
			zap.String("env", config.EnvWalletEndpoint))
	}

	source, err := newTransactionSource(cfg, provider, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize transaction source", zap.Error(err))
	}
	zapLogger.Info("Transaction source initialized", zap.String("strategy", source.Name()))

	connectSvc := service.NewConnectService(provider, appLogger)
	accountSvc := service.NewAccountService(provider, source, cfg.Network, appLogger)

	sessions := session.NewStore(cfg.SessionTTL(), time.Duration(cfg.Session.CleanupIntervalMinutes)*time.Minute)

	handler := restapi.NewWalletHandler(connectSvc, accountSvc, provider, sessions, restapi.HandlerOptions{
		Title:          cfg.View.Title,
		Network:        cfg.Network,
		RefreshSeconds: cfg.View.RefreshSeconds,
		Strategy:       source.Name(),
		CookieName:     cfg.Session.CookieName,
		CookieMaxAge:   cfg.SessionTTL(),
		SecureCookie:   cfg.Session.SecureCookie,
	}, appLogger)
	router := restapi.SetupRouter(handler, cfg.View.CORSAllowedOrigins, zapLogger)
	if cfg.Server.EnablePprof {
		restapi.RegisterPprofRoutes(router)
		zapLogger.Info("Pprof endpoints enabled under /debug/pprof")
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on port %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	handler.Wait()

	zapLogger.Info("Server exiting")
}

func newTransactionSource(cfg *config.Config, provider port.BridgeProvider, zapLogger *zap.Logger) (port.TransactionSource, error) {
	switch cfg.Transactions.Strategy {
	case config.StrategyChain:
		return service.NewChainHistorySource(provider, cfg.Transactions.ChainWindow), nil
	case config.StrategyIndexer:
		loc, err := cfg.Location()
		if err != nil {
			return nil, err
		}
		return indexer.NewClient(indexer.Options{
			BaseURL:         cfg.Explorer.BaseURL,
			APIKey:          cfg.Explorer.APIKey,
			Timeout:         cfg.ExplorerTimeout(),
			Window:          cfg.Transactions.IndexerWindow,
			Decimals:        cfg.Network.Decimals,
			TimestampLayout: cfg.Explorer.TimestampLayout,
			Location:        loc,
		}, zapLogger), nil
	default:
		return nil, fmt.Errorf("unknown transactions strategy %q", cfg.Transactions.Strategy)
	}
}
