package main

import (
	"context"
	"log"

	"clubmanager/infrastructure/config"
	"clubmanager/infrastructure/di"
	"clubmanager/interfaces/lambda/handlers"

	"github.com/aws/aws-lambda-go/lambda"
)

var handler *handlers.DeliverEmailHandler

func init() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	handler = handlers.NewDeliverEmailHandler(container.Consumer, cfg.SQSPartialBatchResponse, container.Logger)
}

func main() {
	lambda.Start(handler.Handle)
}
