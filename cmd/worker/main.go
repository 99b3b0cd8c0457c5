package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"pos/infra/rabbitmq"
	"pos/internal/consumers"
	"pos/pkg/aws"
	"pos/pkg/config"
	"pos/pkg/events"
	"pos/pkg/logger"
	"syscall"

	"go.uber.org/zap"
)

const receiptsQueue = "pos.sales.receipts.v1"

func main() {
	appConfig := config.Read()
	defer logger.Setup(appConfig.AppEnv).Sync()

	zap.L().Info("POS receipt worker starting...")
	zap.L().Info("Worker config loaded",
		zap.String("serviceName", appConfig.ServiceName),
		zap.String("bucket", appConfig.AWSBucket),
	)

	if appConfig.RabbitMQURL == "" {
		zap.L().Fatal("RABBITMQ_URL is required for worker service")
	}
	if appConfig.AWSBucket == "" {
		zap.L().Fatal("AWS_BUCKET is required for worker service")
	}

	location, err := appConfig.Location()
	if err != nil {
		zap.L().Fatal("Invalid TIMEZONE", zap.String("timezone", appConfig.Timezone), zap.Error(err))
	}

	bucket := aws.NewS3Bucket(appConfig)
	defer bucket.Close()

	receiptHandler := consumers.NewReceiptEventHandler(bucket, location)

	// Queue name: {service}.{domain}.{purpose}.{version}
	receiptConsumer, err := rabbitmq.NewConsumer(appConfig.RabbitMQURL, rabbitmq.ConsumerConfig{
		Exchange:       events.SalesExchange,
		QueueName:      receiptsQueue,
		RoutingKeys:    []string{events.SaleRecordedEvent + "." + events.EventVersionV1},
		ServiceName:    appConfig.ServiceName,
		PrefetchCount:  10,
		WorkerPoolSize: 4,
	})
	if err != nil {
		zap.L().Fatal("Failed to create receipt consumer", zap.Error(err))
	}
	defer receiptConsumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		zap.L().Info("Starting receipt consumer...", zap.String("queue", receiptsQueue))
		if err := receiptConsumer.Consume(ctx, receiptHandler.HandleEvent); err != nil && !errors.Is(err, context.Canceled) {
			zap.L().Error("Receipt consumer error", zap.Error(err))
		}
	}()

	zap.L().Info("Worker service started successfully. Waiting for events...")

	select {
	case <-sigChan:
		zap.L().Info("Shutdown signal received, stopping worker service...")
	case <-done:
		zap.L().Warn("Receipt consumer stopped")
	}
	cancel()
	<-done

	zap.L().Info("Worker service stopped gracefully")
}
