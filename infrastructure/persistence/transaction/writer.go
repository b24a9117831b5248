package transaction

import (
	"context"
	"errors"
	"fmt"

	"clubmanager/application/ports"
	apperrors "clubmanager/pkg/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultItemLimit is the per-transaction item limit of DynamoDB
	DefaultItemLimit = 25
	// DefaultConcurrency bounds in-flight chunks
	DefaultConcurrency = 3
)

// Writer implements ports.AtomicWriter on top of a provider executor.
//
// Operations beyond the item limit are split into chunks that are committed
// independently. A failure in one chunk does not roll back the others and
// every chunk is attempted. Nothing is retried here.
type Writer struct {
	executor    ports.TransactionExecutor
	limit       int
	concurrency int
	logger      *zap.Logger
	tracer      trace.Tracer
}

// NewWriter creates a writer. Non-positive limits fall back to the defaults.
func NewWriter(executor ports.TransactionExecutor, limit, concurrency int, logger *zap.Logger) *Writer {
	if limit <= 0 {
		limit = DefaultItemLimit
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Writer{
		executor:    executor,
		limit:       limit,
		concurrency: concurrency,
		logger:      logger,
		tracer:      otel.Tracer("clubmanager/transaction"),
	}
}

// ExecuteAtomic applies ops, chunked to the item limit
func (w *Writer) ExecuteAtomic(ctx context.Context, ops []ports.Operation) error {
	if len(ops) == 0 {
		return nil
	}

	chunks := Chunk(ops, w.limit)
	ctx, span := w.tracer.Start(ctx, "transaction.execute_atomic",
		trace.WithAttributes(
			attribute.Int("transaction.operations", len(ops)),
			attribute.Int("transaction.chunks", len(chunks)),
		),
	)
	defer span.End()

	if len(chunks) > 1 {
		w.logger.Warn("Atomic write exceeds item limit, committing in independent chunks",
			zap.Int("operationCount", len(ops)),
			zap.Int("chunkCount", len(chunks)),
			zap.Int("itemLimit", w.limit),
		)
	}

	results := make([]error, len(chunks))
	var g errgroup.Group
	g.SetLimit(w.concurrency)
	for i, chunk := range chunks {
		g.Go(func() error {
			results[i] = w.executor.Execute(ctx, chunk)
			return nil
		})
	}
	_ = g.Wait()

	err := mergeChunkErrors(results, w.limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "atomic write failed")
		w.logger.Error("Atomic write failed",
			zap.Int("operationCount", len(ops)),
			zap.Error(err),
		)
	}
	return err
}

// mergeChunkErrors folds per-chunk results into one error. Reasons of
// rejected chunks are re-indexed against the full operation list.
func mergeChunkErrors(results []error, limit int) error {
	if len(results) == 1 {
		return results[0]
	}

	var (
		reasons []apperrors.ItemFailure
		causes  []error
		others  []error
		failed  int
	)
	for i, err := range results {
		if err == nil {
			continue
		}
		failed++
		offset := i * limit

		if awErr, ok := apperrors.AsAtomicWriteError(err); ok {
			for _, r := range awErr.Reasons {
				r.OperationIndex += offset
				reasons = append(reasons, r)
			}
			if awErr.Cause != nil {
				causes = append(causes, awErr.Cause)
			}
			continue
		}
		others = append(others, fmt.Errorf("chunk %d: %w", i, err))
	}

	if failed == 0 {
		return nil
	}

	var merged *apperrors.AtomicWriteError
	if len(reasons) > 0 {
		merged = &apperrors.AtomicWriteError{Reasons: reasons, Cause: errors.Join(causes...)}
	}
	if len(others) == 0 {
		return merged
	}
	if merged != nil {
		others = append(others, merged)
	}
	return fmt.Errorf("failed to execute %d of %d transaction chunks: %w", failed, len(results), errors.Join(others...))
}

// Chunk splits items into consecutive slices of at most size elements
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = len(items)
	}
	chunks := make([][]T, 0, (len(items)+size-1)/max(size, 1))
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
