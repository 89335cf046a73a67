package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wrmb_dapp/internal/app"
	"wrmb_dapp/internal/infrastructure/configloader"
	"wrmb_dapp/internal/infrastructure/network/client"
	networkdefinition "wrmb_dapp/internal/infrastructure/network/definition"
	"wrmb_dapp/internal/infrastructure/prefstore"
	"wrmb_dapp/internal/infrastructure/restapi"
	"wrmb_dapp/internal/infrastructure/wallet"
	"wrmb_dapp/internal/infrastructure/walletloader"
	"wrmb_dapp/internal/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func main() {
	// logrus covers the bootstrap until the configured zap logger exists.
	boot := logrus.New()
	boot.SetFormatter(&logrus.JSONFormatter{})

	if err := configloader.LoadDotEnv(getEnv("DOTENV_PATH", ".env")); err != nil {
		boot.Fatalf("Failed to load .env: %v", err)
	}
	cfgPath := getEnv("CONFIG_PATH", "config/config.yml")
	cfg, err := configloader.Load(cfgPath)
	if err != nil {
		boot.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		boot.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()
	logger.InstallSlog(zapLogger)
	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	networks := networkdefinition.NewNetworkDefinitionProvider(logger.NewZapAdapter(zapLogger), cfg.Networks)
	rpc := client.NewProvider(cfg.RPC, networks, logger.NewZapAdapter(zapLogger.Named("rpc")))
	defer rpc.Close()

	accounts, err := loadAccounts(cfg.Wallet, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to load wallet accounts", zap.Error(err))
	}
	provider := wallet.NewKeystoreProvider(accounts, cfg.Wallet.InitialChainID, rpc, zapLogger)
	defer provider.Close()

	prefs, err := prefstore.Open(cfg.Preferences.Path)
	if err != nil {
		zapLogger.Fatal("Failed to open preferences", zap.Error(err))
	}
	defer func() { _ = prefs.Close() }()

	dapp, err := app.New(app.Options{
		Config:      cfg,
		Wallet:      provider,
		Preferences: prefs,
		Balances:    rpc,
		Networks:    networks,
		Logger:      zapLogger,
	})
	if err != nil {
		zapLogger.Fatal("Failed to build client", zap.Error(err))
	}
	defer dapp.Close()

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := restapi.SetupRouter(dapp, zapLogger)

	initCtx, cancelInit := context.WithTimeout(context.Background(), time.Duration(cfg.RPC.ConnectionTimeoutSeconds+5)*time.Second)
	if err := dapp.Session.InitializeConnection(initCtx); err != nil {
		zapLogger.Warn("Silent reconnect failed", zap.Error(err))
	}
	cancelInit()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zapLogger.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSecs)*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exiting")
}

// loadAccounts reads the key file, or falls back to the configured watch-only account.
func loadAccounts(cfg configloader.WalletConfig, zapLogger *zap.Logger) (walletloader.Accounts, error) {
	if cfg.KeyFile != "" {
		return walletloader.LoadFile(cfg.KeyFile, logger.NewZapAdapter(zapLogger.Named("walletloader")))
	}
	var accounts walletloader.Accounts
	if cfg.Account != "" {
		accounts.Watch = append(accounts.Watch, common.HexToAddress(cfg.Account))
		zapLogger.Info("Watch-only wallet configured", zap.String("account", cfg.Account))
	}
	return accounts, nil
}
