package dynamodb

import (
	"errors"
	"regexp"
	"strings"

	apperrors "clubmanager/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

const transactionCanceledCode = "TransactionCanceledException"

// The message form lists one code per operation:
// "Transaction cancelled, please refer cancellation reasons for specific reasons [ConditionalCheckFailed, None]"
var cancellationListPattern = regexp.MustCompile(`\[([^\]]*)\]`)

// CancellationReasonParser reads TransactWriteItems cancellations.
//
// The typed exception carries CancellationReasons, but they are not always
// populated, so the error message is used as a fallback. Anything that cannot
// be read maps every operation to Unknown.
type CancellationReasonParser struct{}

// NewCancellationReasonParser creates the DynamoDB failure parser
func NewCancellationReasonParser() *CancellationReasonParser {
	return &CancellationReasonParser{}
}

// Parse implements ports.FailureReasonParser
func (p *CancellationReasonParser) Parse(err error, opCount int) ([]apperrors.ItemFailure, bool) {
	if err == nil {
		return nil, false
	}

	var canceled *types.TransactionCanceledException
	if errors.As(err, &canceled) {
		if len(canceled.CancellationReasons) == opCount {
			reasons := make([]apperrors.ItemFailure, opCount)
			for i, r := range canceled.CancellationReasons {
				reasons[i] = itemFailure(i, aws.ToString(r.Code))
			}
			return reasons, true
		}
		return fromMessage(canceled.ErrorMessage(), opCount), true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == transactionCanceledCode {
		return fromMessage(apiErr.ErrorMessage(), opCount), true
	}

	return nil, false
}

func fromMessage(message string, opCount int) []apperrors.ItemFailure {
	match := cancellationListPattern.FindStringSubmatch(message)
	if match == nil {
		return unknownReasons(opCount)
	}

	codes := strings.Split(match[1], ",")
	if len(codes) != opCount {
		return unknownReasons(opCount)
	}

	reasons := make([]apperrors.ItemFailure, opCount)
	for i, code := range codes {
		reasons[i] = itemFailure(i, strings.TrimSpace(code))
	}
	return reasons
}

func unknownReasons(opCount int) []apperrors.ItemFailure {
	reasons := make([]apperrors.ItemFailure, opCount)
	for i := range reasons {
		reasons[i] = apperrors.ItemFailure{OperationIndex: i, Reason: apperrors.ReasonUnknown}
	}
	return reasons
}

func itemFailure(index int, code string) apperrors.ItemFailure {
	failure := apperrors.ItemFailure{OperationIndex: index, RawCode: code}
	switch code {
	case "", "None":
		failure.Reason = apperrors.ReasonNone
	case "ConditionalCheckFailed":
		failure.Reason = apperrors.ReasonConditionalCheckFailed
	case "ValidationError":
		failure.Reason = apperrors.ReasonValidationError
	default:
		// TransactionConflict, ThrottlingError and friends keep their raw code
		failure.Reason = apperrors.ReasonUnknown
	}
	return failure
}
