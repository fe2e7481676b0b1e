package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	v1 "certificate-issuer/api/v1"
	"certificate-issuer/internal/config"
)

func main() {
	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	// Clients live for the whole container, not per invocation.
	clients, err := v1.NewClients(context.Background(), cfg)
	if err != nil {
		logger.Fatal("Failed to initialise AWS clients", zap.Error(err))
	}
	api := v1.SetupCertificatesAPI(cfg, clients, v1.NewGenerator(cfg), logger)

	lambda.Start(api.LambdaHandler.Handle)
}
