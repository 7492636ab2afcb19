package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"fundhub/internal/adapter/repo"
	"fundhub/internal/chain"
	"fundhub/internal/infra"
	"fundhub/internal/mirror"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv).With().Str("component", "worker").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	syncer := mirror.NewSyncer(reader, repo.NewCampaignMirrorRepository(dbpool), logger)

	logger.Info().Dur("interval", cfg.MirrorSyncInterval).Msg("mirror sync worker started")
	syncer.Run(ctx, cfg.MirrorSyncInterval)
	logger.Info().Msg("worker stopped")
}
