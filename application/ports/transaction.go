package ports

import (
	"context"

	apperrors "clubmanager/pkg/errors"
)

// OperationType is the kind of write in an atomic batch
type OperationType string

const (
	OperationPut    OperationType = "PUT"
	OperationDelete OperationType = "DELETE"
)

// Operation is one write of an atomic batch. Item is used by puts, Key by deletes.
type Operation struct {
	Type         OperationType
	Kind         EntityKind
	Item         interface{}
	Key          interface{}
	Precondition Precondition
}

// PutOp builds a put operation
func PutOp(kind EntityKind, item interface{}, cond Precondition) Operation {
	return Operation{Type: OperationPut, Kind: kind, Item: item, Precondition: cond}
}

// DeleteOp builds a delete operation
func DeleteOp(kind EntityKind, key interface{}, cond Precondition) Operation {
	return Operation{Type: OperationDelete, Kind: kind, Key: key, Precondition: cond}
}

// AtomicWriter applies operations all-or-nothing. Batches larger than the
// store's per-call limit are split into chunks, and atomicity only holds
// within a chunk.
type AtomicWriter interface {
	ExecuteAtomic(ctx context.Context, ops []Operation) error
}

// TransactionExecutor submits a single provider transaction. It never sees
// more operations than the provider limit. Rejections are returned as
// *errors.AtomicWriteError with indexes relative to ops.
type TransactionExecutor interface {
	Execute(ctx context.Context, ops []Operation) error
}

// FailureReasonParser turns a provider cancellation payload into per-operation
// reasons. ok is false when err is not a cancellation at all. Payloads that
// cannot be read yield ReasonUnknown for every operation.
type FailureReasonParser interface {
	Parse(err error, opCount int) (reasons []apperrors.ItemFailure, ok bool)
}
