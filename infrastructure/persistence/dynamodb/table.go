package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"sort"

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

// API is the subset of the DynamoDB client used by the adapters
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Table is an EntityStore over one DynamoDB table
type Table[E any, K any] struct {
	client API
	schema schema.Table
	logger *zap.Logger
}

// NewTable creates an entity store for the given table definition
func NewTable[E any, K any](client API, t schema.Table, logger *zap.Logger) *Table[E, K] {
	return &Table[E, K]{
		client: client,
		schema: t,
		logger: logger,
	}
}

// Get retrieves an item by primary key
func (t *Table[E, K]) Get(ctx context.Context, key K) (E, error) {
	var entity E

	keyAV, err := attributevalue.MarshalMap(key)
	if err != nil {
		return entity, fmt.Errorf("failed to marshal key: %w", err)
	}

	result, err := t.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(t.schema.Name),
		Key:       keyAV,
	})
	if err != nil {
		return entity, fmt.Errorf("failed to get %s: %w", t.schema.Kind, err)
	}
	if result.Item == nil {
		return entity, apperrors.NewNotFoundError(string(t.schema.Kind))
	}

	if err := attributevalue.UnmarshalMap(result.Item, &entity); err != nil {
		return entity, fmt.Errorf("failed to unmarshal %s: %w", t.schema.Kind, err)
	}
	return entity, nil
}

// Put writes an item, optionally guarded by a precondition on the hash key
func (t *Table[E, K]) Put(ctx context.Context, entity E, cond ports.Precondition) error {
	item, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", t.schema.Kind, err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(t.schema.Name),
		Item:      item,
	}
	if condition, ok := preconditionExpression(t.schema, cond); ok {
		expr, err := expression.NewBuilder().WithCondition(condition).Build()
		if err != nil {
			return fmt.Errorf("failed to build condition: %w", err)
		}
		input.ConditionExpression = expr.Condition()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	if _, err := t.client.PutItem(ctx, input); err != nil {
		return t.translateWriteError("put", err)
	}

	t.logger.Debug("Put item",
		zap.String("table", t.schema.Name),
		zap.String("precondition", cond.String()),
	)
	return nil
}

// Update sets attributes on an item
func (t *Table[E, K]) Update(ctx context.Context, key K, fields map[string]interface{}, cond ports.Precondition) error {
	if len(fields) == 0 {
		return fmt.Errorf("update of %s has no fields", t.schema.Kind)
	}

	keyAV, err := attributevalue.MarshalMap(key)
	if err != nil {
		return fmt.Errorf("failed to marshal key: %w", err)
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var update expression.UpdateBuilder
	for i, name := range names {
		if i == 0 {
			update = expression.Set(expression.Name(name), expression.Value(fields[name]))
			continue
		}
		update = update.Set(expression.Name(name), expression.Value(fields[name]))
	}

	builder := expression.NewBuilder().WithUpdate(update)
	if condition, ok := preconditionExpression(t.schema, cond); ok {
		builder = builder.WithCondition(condition)
	}
	expr, err := builder.Build()
	if err != nil {
		return fmt.Errorf("failed to build update expression: %w", err)
	}

	_, err = t.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(t.schema.Name),
		Key:                       keyAV,
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return t.translateWriteError("update", err)
	}
	return nil
}

// QueryByIndex queries one page of an index. A zero limit lets DynamoDB
// size the page.
func (t *Table[E, K]) QueryByIndex(ctx context.Context, index string, value string, opts ports.PageOptions) (ports.Page[E], error) {
	var page ports.Page[E]

	idx, err := t.schema.ResolveIndex(index)
	if err != nil {
		return page, err
	}
	startKey, err := schema.DecodeCursor(opts.Cursor)
	if err != nil {
		return page, err
	}

	keyCond := expression.Key(idx.HashKey).Equal(expression.Value(value))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return page, fmt.Errorf("failed to build key condition: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(t.schema.Name),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ExclusiveStartKey:         startKey,
	}
	if !idx.IsPrimary() {
		input.IndexName = aws.String(idx.Name)
	}
	if opts.Limit > 0 {
		input.Limit = aws.Int32(opts.Limit)
	}

	result, err := t.client.Query(ctx, input)
	if err != nil {
		return page, fmt.Errorf("failed to query %s by %s: %w", t.schema.Kind, index, err)
	}

	page.Items = make([]E, 0, len(result.Items))
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &page.Items); err != nil {
		return ports.Page[E]{}, fmt.Errorf("failed to unmarshal %s items: %w", t.schema.Kind, err)
	}
	if page.NextCursor, err = schema.EncodeCursor(result.LastEvaluatedKey); err != nil {
		return ports.Page[E]{}, err
	}

	t.logger.Debug("Queried index",
		zap.String("table", t.schema.Name),
		zap.String("index", index),
		zap.Int("count", len(page.Items)),
		zap.Bool("hasMore", page.NextCursor != ""),
	)
	return page, nil
}

// Delete removes an item. DynamoDB treats deleting a missing key as success.
func (t *Table[E, K]) Delete(ctx context.Context, key K) error {
	keyAV, err := attributevalue.MarshalMap(key)
	if err != nil {
		return fmt.Errorf("failed to marshal key: %w", err)
	}

	if _, err := t.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(t.schema.Name),
		Key:       keyAV,
	}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", t.schema.Kind, err)
	}
	return nil
}

func (t *Table[E, K]) translateWriteError(op string, err error) error {
	var conditionalCheckFailed *types.ConditionalCheckFailedException
	if errors.As(err, &conditionalCheckFailed) {
		t.logger.Debug("Conditional write rejected",
			zap.String("table", t.schema.Name),
			zap.String("operation", op),
		)
		return apperrors.NewConditionFailedError(err)
	}
	return fmt.Errorf("failed to %s %s: %w", op, t.schema.Kind, err)
}

// preconditionExpression guards on the hash key, which every stored item carries
func preconditionExpression(t schema.Table, cond ports.Precondition) (expression.ConditionBuilder, bool) {
	switch cond {
	case ports.PreconditionMustNotExist:
		return expression.AttributeNotExists(expression.Name(t.HashKey)), true
	case ports.PreconditionMustExist:
		return expression.AttributeExists(expression.Name(t.HashKey)), true
	default:
		return expression.ConditionBuilder{}, false
	}
}
