package main

import (
	"os"
	"os/signal"
	"pos/app/sale"
	"pos/infra/grpc"
	"pos/infra/postgres"
	"pos/pkg/config"
	"pos/pkg/logger"
	"syscall"

	"go.uber.org/zap"
)

func main() {
	appConfig := config.Read()
	defer logger.Setup(appConfig.AppEnv).Sync()

	zap.L().Info("POS reporting gRPC service starting...")

	location, err := appConfig.Location()
	if err != nil {
		zap.L().Fatal("Invalid TIMEZONE", zap.String("timezone", appConfig.Timezone), zap.Error(err))
	}

	grpcServer, err := grpc.NewServer(appConfig)
	if err != nil {
		zap.L().Error("failed to create grpc server", zap.Error(err))
		os.Exit(1)
	}

	pgRepository := postgres.NewPgRepository(appConfig.PostgresDSN())
	defer pgRepository.Close()

	reporting := grpc.NewReportingService(sale.NewLedger(pgRepository, location), pgRepository)
	grpcServer.RegisterReporting(reporting)

	zap.L().Info("starting gRPC server...", zap.String("port", appConfig.GRPCPort))
	go func() {
		if err := grpcServer.Start(); err != nil {
			zap.L().Error("failed to start grpc server", zap.Error(err))
			os.Exit(1)
		}
	}()

	gracefulShutdown(grpcServer)
}

func gracefulShutdown(grpcServer *grpc.Server) {
	// Create channel for shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Wait for shutdown signal
	<-sigChan
	zap.L().Info("Shutting down server...")

	if err := grpcServer.GracefulStop(); err != nil {
		zap.L().Error("Error during server shutdown", zap.Error(err))
	}

	zap.L().Info("Server gracefully stopped")
}
