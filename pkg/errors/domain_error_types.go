package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ReasonCode is the per-operation outcome reported when an atomic write is cancelled.
type ReasonCode string

const (
	ReasonConditionalCheckFailed ReasonCode = "ConditionalCheckFailed"
	ReasonValidationError        ReasonCode = "ValidationError"
	ReasonNone                   ReasonCode = "None"
	ReasonUnknown                ReasonCode = "Unknown"
)

// ItemFailure describes why a single operation of an atomic write was rejected.
// OperationIndex is relative to the slice the caller submitted.
type ItemFailure struct {
	OperationIndex int        `json:"operationIndex"`
	Reason         ReasonCode `json:"reason"`
	RawCode        string     `json:"rawCode,omitempty"`
}

// AtomicWriteError is returned when a store rejects an all-or-nothing write.
type AtomicWriteError struct {
	Reasons []ItemFailure
	Cause   error
}

func (e *AtomicWriteError) Error() string {
	parts := make([]string, 0, len(e.Reasons))
	for _, r := range e.Reasons {
		if r.Reason == ReasonNone {
			continue
		}
		parts = append(parts, fmt.Sprintf("#%d=%s", r.OperationIndex, r.Reason))
	}
	if len(parts) == 0 {
		return "atomic write failed"
	}
	return fmt.Sprintf("atomic write failed: %s", strings.Join(parts, ", "))
}

func (e *AtomicWriteError) Unwrap() error {
	return e.Cause
}

// Failed returns only the reasons that are not None.
func (e *AtomicWriteError) Failed() []ItemFailure {
	var failed []ItemFailure
	for _, r := range e.Reasons {
		if r.Reason != ReasonNone {
			failed = append(failed, r)
		}
	}
	return failed
}

// HasReason reports whether any operation failed with the given code.
func (e *AtomicWriteError) HasReason(code ReasonCode) bool {
	for _, r := range e.Reasons {
		if r.Reason == code {
			return true
		}
	}
	return false
}

// NewConditionFailedError is the single-item form of an atomic write rejection.
func NewConditionFailedError(cause error) *AtomicWriteError {
	return &AtomicWriteError{
		Reasons: []ItemFailure{{OperationIndex: 0, Reason: ReasonConditionalCheckFailed, RawCode: string(ReasonConditionalCheckFailed)}},
		Cause:   cause,
	}
}

// AsAtomicWriteError extracts an AtomicWriteError from an error chain.
func AsAtomicWriteError(err error) (*AtomicWriteError, bool) {
	var awErr *AtomicWriteError
	if errors.As(err, &awErr) {
		return awErr, true
	}
	return nil, false
}

// IsAtomicWriteFailed checks if an error is an atomic write rejection
func IsAtomicWriteFailed(err error) bool {
	_, ok := AsAtomicWriteError(err)
	return ok
}

// IsConditionFailed checks if any operation was rejected by its precondition
func IsConditionFailed(err error) bool {
	awErr, ok := AsAtomicWriteError(err)
	return ok && awErr.HasReason(ReasonConditionalCheckFailed)
}

// PublishFailedError is returned when the event bus rejects at least one entry.
// The whole publish call is considered failed.
type PublishFailedError struct {
	FailedCount int
	Total       int
	Cause       error
}

func (e *PublishFailedError) Error() string {
	return fmt.Sprintf("failed to publish %d of %d events", e.FailedCount, e.Total)
}

func (e *PublishFailedError) Unwrap() error {
	return e.Cause
}

// IsPublishFailed checks if an error is a publish rejection
func IsPublishFailed(err error) bool {
	var pfErr *PublishFailedError
	return errors.As(err, &pfErr)
}

var (
	// ErrDeliveryFailed marks a per-message transport failure inside a batch.
	ErrDeliveryFailed = errors.New("delivery failed")

	// ErrAckFailed marks a failure to remove an already delivered message from its queue.
	ErrAckFailed = errors.New("acknowledge failed")
)

// BatchFailedError signals that one or more messages of a batch were not processed
// and must be redelivered by the queue.
type BatchFailedError struct {
	FailedCount int
	Total       int
	// FailedMessageIDs lists the unacknowledged messages.
	FailedMessageIDs []string
}

func (e *BatchFailedError) Error() string {
	return fmt.Sprintf("processing of %d of %d messages failed", e.FailedCount, e.Total)
}

// Is lets callers match a batch failure against ErrDeliveryFailed.
func (e *BatchFailedError) Is(target error) bool {
	return target == ErrDeliveryFailed
}

// AsBatchFailedError extracts a BatchFailedError from an error chain
func AsBatchFailedError(err error) (*BatchFailedError, bool) {
	var bfErr *BatchFailedError
	if errors.As(err, &bfErr) {
		return bfErr, true
	}
	return nil, false
}

// IsBatchFailed checks if an error is a batch-level failure
func IsBatchFailed(err error) bool {
	_, ok := AsBatchFailedError(err)
	return ok
}
