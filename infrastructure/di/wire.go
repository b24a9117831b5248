//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"clubmanager/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideSQSClient,
	ProvideSESClient,
	ProvideCloudWatchClient,
	ProvideSchemaRegistry,
	ProvideMemoryDB,
	ProvideClubStore,
	ProvideMemberStore,
	ProvideTransactionExecutor,
	ProvideAtomicWriter,
	ProvideMembershipService,
	ProvideEventPublisher,
	ProvideOutboundEmailQueue,
	ProvideEmailQueuer,
	ProvideMessageQueue,
	ProvideDeliveryTransport,
	ProvideMetrics,
	ProvideTracer,
	ProvideNotificationService,
	ProvideMemberEventForwarder,
	ProvideBatchConsumer,
	ProvideErrorHandler,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}
