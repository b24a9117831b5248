package memory

import (
	"context"
	"fmt"

	"clubmanager/application/ports"
	"clubmanager/infrastructure/persistence/schema"
	apperrors "clubmanager/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
)

// Executor applies a transaction to the in-memory tables with the same
// all-or-nothing semantics and per-operation reasons as TransactWriteItems.
type Executor struct {
	db       *DB
	registry *schema.Registry
}

// NewExecutor creates an executor over db
func NewExecutor(db *DB, registry *schema.Registry) *Executor {
	return &Executor{db: db, registry: registry}
}

type resolvedOp struct {
	op    ports.Operation
	table string
	key   string
	item  item
}

func (e *Executor) resolve(op ports.Operation) (resolvedOp, error) {
	t, err := e.registry.Table(op.Kind)
	if err != nil {
		return resolvedOp{}, err
	}

	var source interface{}
	switch op.Type {
	case ports.OperationPut:
		source = op.Item
	case ports.OperationDelete:
		source = op.Key
	default:
		return resolvedOp{}, fmt.Errorf("unsupported operation type %q", op.Type)
	}

	av, err := attributevalue.MarshalMap(source)
	if err != nil {
		return resolvedOp{}, fmt.Errorf("failed to marshal %s %s: %w", op.Type, op.Kind, err)
	}
	k, err := canonicalKey(t, av)
	if err != nil {
		return resolvedOp{}, err
	}
	return resolvedOp{op: op, table: t.Name, key: k, item: av}, nil
}

// Execute applies ops atomically
func (e *Executor) Execute(ctx context.Context, ops []ports.Operation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	resolved := make([]resolvedOp, len(ops))
	for i, op := range ops {
		r, err := e.resolve(op)
		if err != nil {
			return fmt.Errorf("operation %d: %w", i, err)
		}
		resolved[i] = r
	}

	e.db.mu.Lock()
	defer e.db.mu.Unlock()

	reasons := make([]apperrors.ItemFailure, len(resolved))
	seen := make(map[string]bool, len(resolved))
	rejected := false
	for i, r := range resolved {
		reasons[i] = apperrors.ItemFailure{OperationIndex: i, Reason: apperrors.ReasonNone, RawCode: string(apperrors.ReasonNone)}

		target := r.table + "/" + r.key
		if seen[target] {
			reasons[i].Reason = apperrors.ReasonValidationError
			reasons[i].RawCode = string(apperrors.ReasonValidationError)
			rejected = true
			continue
		}
		seen[target] = true

		_, exists := e.db.table(r.table)[r.key]
		if !satisfied(r.op.Precondition, exists) {
			reasons[i].Reason = apperrors.ReasonConditionalCheckFailed
			reasons[i].RawCode = string(apperrors.ReasonConditionalCheckFailed)
			rejected = true
		}
	}
	if rejected {
		return &apperrors.AtomicWriteError{Reasons: reasons}
	}

	for _, r := range resolved {
		items := e.db.table(r.table)
		if r.op.Type == ports.OperationPut {
			items[r.key] = r.item
		} else {
			delete(items, r.key)
		}
	}
	return nil
}
