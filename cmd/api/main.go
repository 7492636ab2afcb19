package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fundhub/internal/adapter/repo"
	"fundhub/internal/campaign"
	"fundhub/internal/chain"
	"fundhub/internal/http/handlers"
	"fundhub/internal/http/httpapi"
	"fundhub/internal/infra"
	"fundhub/internal/metadata"
	"fundhub/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer dbpool.Close()

	reader, err := chain.Dial(ctx, cfg.RPCURL, cfg.ContractAddress, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect rpc endpoint")
	}
	defer reader.Close()

	aggregator := campaign.NewAggregator(reader, cfg.AggregatorWorkers, logger)
	defer aggregator.Close()

	files, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("init upload storage")
	}

	app := &handlers.App{
		Logger:     logger,
		JWTSecret:  cfg.JWTSecret,
		TokenTTL:   cfg.TokenTTL,
		Reader:     reader,
		Aggregator: aggregator,
		Metadata: metadata.NewClient(metadata.Options{
			GatewayURL: cfg.IPFSGatewayURL,
			PinBaseURL: cfg.IPFSPinBaseURL,
			PinToken:   cfg.IPFSPinToken,
			Logger:     logger,
		}),
		Users:   repo.NewUserRepository(dbpool),
		Wallets: repo.NewWalletRepository(dbpool),
		Mirror:  repo.NewCampaignMirrorRepository(dbpool),
		Files:   files,
	}

	server := infra.NewHTTPServer(cfg, httpapi.NewRouter(app, cfg))

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown http server")
	}
	logger.Info().Msg("server stopped")
}
