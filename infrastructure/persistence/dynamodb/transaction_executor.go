package dynamodb

import (
	"context"
	"fmt"

	"clubmanager/application/ports"
	"clubmanager/infrastructure/persistence/schema"
	apperrors "clubmanager/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// TransactionExecutor submits one TransactWriteItems call per chunk
type TransactionExecutor struct {
	client   API
	registry *schema.Registry
	parser   ports.FailureReasonParser
	logger   *zap.Logger
}

// NewTransactionExecutor creates a DynamoDB transaction executor
func NewTransactionExecutor(client API, registry *schema.Registry, parser ports.FailureReasonParser, logger *zap.Logger) *TransactionExecutor {
	return &TransactionExecutor{
		client:   client,
		registry: registry,
		parser:   parser,
		logger:   logger,
	}
}

// Execute implements ports.TransactionExecutor
func (e *TransactionExecutor) Execute(ctx context.Context, ops []ports.Operation) error {
	items := make([]types.TransactWriteItem, 0, len(ops))
	for i, op := range ops {
		item, err := e.buildItem(op)
		if err != nil {
			return fmt.Errorf("failed to build transaction item %d: %w", i, err)
		}
		items = append(items, item)
	}

	_, err := e.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err == nil {
		e.logger.Debug("Transaction committed", zap.Int("itemCount", len(items)))
		return nil
	}

	if reasons, ok := e.parser.Parse(err, len(ops)); ok {
		awErr := &apperrors.AtomicWriteError{Reasons: reasons, Cause: err}
		e.logger.Warn("Transaction cancelled",
			zap.Int("itemCount", len(items)),
			zap.Any("reasons", awErr.Failed()),
		)
		return awErr
	}
	return fmt.Errorf("failed to execute transaction: %w", err)
}

func (e *TransactionExecutor) buildItem(op ports.Operation) (types.TransactWriteItem, error) {
	t, err := e.registry.Table(op.Kind)
	if err != nil {
		return types.TransactWriteItem{}, err
	}

	var (
		condition *string
		names     map[string]string
		values    map[string]types.AttributeValue
	)
	if cond, ok := preconditionExpression(t, op.Precondition); ok {
		expr, err := expression.NewBuilder().WithCondition(cond).Build()
		if err != nil {
			return types.TransactWriteItem{}, fmt.Errorf("failed to build condition: %w", err)
		}
		condition, names, values = expr.Condition(), expr.Names(), expr.Values()
	}

	switch op.Type {
	case ports.OperationPut:
		av, err := attributevalue.MarshalMap(op.Item)
		if err != nil {
			return types.TransactWriteItem{}, fmt.Errorf("failed to marshal %s: %w", op.Kind, err)
		}
		return types.TransactWriteItem{
			Put: &types.Put{
				TableName:                 aws.String(t.Name),
				Item:                      av,
				ConditionExpression:       condition,
				ExpressionAttributeNames:  names,
				ExpressionAttributeValues: values,
			},
		}, nil

	case ports.OperationDelete:
		key, err := attributevalue.MarshalMap(op.Key)
		if err != nil {
			return types.TransactWriteItem{}, fmt.Errorf("failed to marshal %s key: %w", op.Kind, err)
		}
		return types.TransactWriteItem{
			Delete: &types.Delete{
				TableName:                 aws.String(t.Name),
				Key:                       key,
				ConditionExpression:       condition,
				ExpressionAttributeNames:  names,
				ExpressionAttributeValues: values,
			},
		}, nil

	default:
		return types.TransactWriteItem{}, fmt.Errorf("unsupported operation type %q", op.Type)
	}
}
