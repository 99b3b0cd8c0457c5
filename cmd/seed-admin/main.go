package main

import (
	"context"
	"os"
	"pos/app/auth"
	"pos/infra/postgres"
	"pos/pkg/config"
	"pos/pkg/logger"
	"time"

	"go.uber.org/zap"
)

func main() {
	appConfig := config.Read()
	defer logger.Setup(appConfig.AppEnv).Sync()

	if appConfig.AdminPassword == "" {
		zap.L().Fatal("ADMIN_PASSWORD is required")
	}

	pgRepository := postgres.NewPgRepository(appConfig.PostgresDSN())
	defer pgRepository.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := auth.SeedAdmin(ctx, pgRepository, appConfig.AdminUsername, appConfig.AdminPassword); err != nil {
		zap.L().Error("Failed to seed admin user", zap.Error(err))
		os.Exit(1)
	}
}
