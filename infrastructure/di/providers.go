package di

import (
	"context"
	"fmt"

	"clubmanager/application/delivery"
	"clubmanager/application/ports"
	"clubmanager/application/services"
	"clubmanager/domain/club"
	"clubmanager/infrastructure/config"
	"clubmanager/infrastructure/email/ses"
	"clubmanager/infrastructure/messaging/eventbridge"
	"clubmanager/infrastructure/messaging/sqs"
	"clubmanager/infrastructure/persistence/dynamodb"
	"clubmanager/infrastructure/persistence/memory"
	"clubmanager/infrastructure/persistence/schema"
	"clubmanager/infrastructure/persistence/transaction"
	apperrors "clubmanager/pkg/errors"
	"clubmanager/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	awsses "github.com/aws/aws-sdk-go-v2/service/ses"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// ProvideAWSConfig creates AWS configuration. With tracing enabled every SDK
// call is recorded as an X-Ray subsegment.
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.EnableTracing && cfg.IsLambda {
		observability.InstrumentAWSConfig(&awsCfg)
	}
	return awsCfg, nil
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideSQSClient creates an SQS client
func ProvideSQSClient(awsCfg aws.Config) *awssqs.Client {
	return awssqs.NewFromConfig(awsCfg)
}

// ProvideSESClient creates an SES client
func ProvideSESClient(awsCfg aws.Config) *awsses.Client {
	return awsses.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideSchemaRegistry maps entity kinds to the configured tables
func ProvideSchemaRegistry(cfg *config.Config) *schema.Registry {
	return schema.NewRegistry(
		schema.ClubsTable(cfg.ClubsTable, cfg.ClubsVisibilityIndex, cfg.ClubsManagerIndex),
		schema.MembersTable(cfg.MembersTable, cfg.MembersUserIndex),
	)
}

// ProvideMemoryDB creates the in-process store used when STORE_BACKEND=memory
func ProvideMemoryDB() *memory.DB {
	return memory.NewDB()
}

// ProvideClubStore creates the club store for the configured backend
func ProvideClubStore(
	client *awsdynamodb.Client,
	db *memory.DB,
	registry *schema.Registry,
	cfg *config.Config,
	logger *zap.Logger,
) (ports.ClubStore, error) {
	t, err := registry.Table(ports.KindClub)
	if err != nil {
		return nil, err
	}
	if cfg.StoreBackend == config.StoreMemory {
		return memory.NewTable[club.Club, club.Key](db, t), nil
	}
	return dynamodb.NewTable[club.Club, club.Key](client, t, logger), nil
}

// ProvideMemberStore creates the member store for the configured backend
func ProvideMemberStore(
	client *awsdynamodb.Client,
	db *memory.DB,
	registry *schema.Registry,
	cfg *config.Config,
	logger *zap.Logger,
) (ports.MemberStore, error) {
	t, err := registry.Table(ports.KindMember)
	if err != nil {
		return nil, err
	}
	if cfg.StoreBackend == config.StoreMemory {
		return memory.NewTable[club.Member, club.MemberKey](db, t), nil
	}
	return dynamodb.NewTable[club.Member, club.MemberKey](client, t, logger), nil
}

// ProvideTransactionExecutor creates the single-transaction executor for the configured backend
func ProvideTransactionExecutor(
	client *awsdynamodb.Client,
	db *memory.DB,
	registry *schema.Registry,
	cfg *config.Config,
	logger *zap.Logger,
) ports.TransactionExecutor {
	if cfg.StoreBackend == config.StoreMemory {
		return memory.NewExecutor(db, registry)
	}
	return dynamodb.NewTransactionExecutor(client, registry, dynamodb.NewCancellationReasonParser(), logger)
}

// ProvideAtomicWriter creates the chunking transactional writer
func ProvideAtomicWriter(executor ports.TransactionExecutor, cfg *config.Config, logger *zap.Logger) ports.AtomicWriter {
	return transaction.NewWriter(executor, cfg.TransactionItemLimit, cfg.TransactionConcurrency, logger)
}

// ProvideMembershipService creates the membership service
func ProvideMembershipService(
	clubs ports.ClubStore,
	members ports.MemberStore,
	writer ports.AtomicWriter,
	logger *zap.Logger,
) *services.MembershipService {
	return services.NewMembershipService(clubs, members, writer, logger)
}

// ProvideEventPublisher creates the EventBridge publisher
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	return eventbridge.NewPublisher(client, cfg.EventBusName, cfg.EventSource, logger)
}

// ProvideOutboundEmailQueue creates the adapter for the outbound email queue
func ProvideOutboundEmailQueue(client *awssqs.Client, cfg *config.Config, logger *zap.Logger) *sqs.Queue {
	return sqs.NewQueue(client, cfg.OutboundEmailsQueueURL, logger)
}

// ProvideEmailQueuer exposes the outbound queue to producers
func ProvideEmailQueuer(q *sqs.Queue) ports.EmailQueuer {
	return q
}

// ProvideMessageQueue exposes the outbound queue to the consumer
func ProvideMessageQueue(q *sqs.Queue) ports.MessageQueue {
	return q
}

// ProvideDeliveryTransport creates the throttled SES transport
func ProvideDeliveryTransport(client *awsses.Client, cfg *config.Config, logger *zap.Logger) ports.DeliveryTransport {
	settings := ses.DefaultSettings()
	settings.SendRate = cfg.EmailSendRate
	settings.Burst = cfg.EmailSendBurst
	return ses.NewTransport(client, settings, logger)
}

// ProvideMetrics creates the metrics recorder selected by METRICS_BACKEND
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) ports.MetricsRecorder {
	switch cfg.MetricsBackend {
	case config.MetricsCloudWatch:
		return observability.NewCloudWatchMetrics(fmt.Sprintf("ClubManager/%s", cfg.Environment), client, logger)
	case config.MetricsPrometheus:
		return observability.NewPrometheusMetrics("clubmanager", prometheus.DefaultRegisterer, logger)
	default:
		return observability.NopMetrics{}
	}
}

// ProvideTracer creates the X-Ray tracer used by the Lambda handlers
func ProvideTracer() *observability.Tracer {
	return observability.NewTracer("clubmanager")
}

// ProvideNotificationService creates the member notification service
func ProvideNotificationService(
	membership *services.MembershipService,
	queuer ports.EmailQueuer,
	cfg *config.Config,
	logger *zap.Logger,
) *services.NotificationService {
	return services.NewNotificationService(membership, queuer, cfg.DefaultFromEmail, logger)
}

// ProvideMemberEventForwarder creates the stream-to-bus forwarder
func ProvideMemberEventForwarder(publisher ports.EventPublisher, logger *zap.Logger) *services.MemberEventForwarder {
	return services.NewMemberEventForwarder(publisher, logger)
}

// ProvideBatchConsumer creates the email delivery consumer
func ProvideBatchConsumer(
	transport ports.DeliveryTransport,
	queue ports.MessageQueue,
	metrics ports.MetricsRecorder,
	logger *zap.Logger,
) *delivery.BatchConsumer {
	return delivery.NewBatchConsumer(transport, queue, metrics, logger)
}

// ProvideErrorHandler creates the HTTP error handler. Internal detail is only
// exposed in development.
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *apperrors.ErrorHandler {
	return apperrors.NewErrorHandler(logger, cfg.IsDevelopment())
}
