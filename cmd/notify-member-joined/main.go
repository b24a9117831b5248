package main

import (
	"context"
	"log"

	"clubmanager/infrastructure/config"
	"clubmanager/infrastructure/di"
	"clubmanager/interfaces/lambda/handlers"

	"github.com/aws/aws-lambda-go/lambda"
)

var handler *handlers.MemberJoinedHandler

func init() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	handler = handlers.NewMemberJoinedHandler(container.Notifications, container.Tracer, container.Logger)
}

func main() {
	lambda.Start(handler.NotifyManager)
}
