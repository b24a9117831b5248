package ses

import (
	"context"
	"fmt"
	"time"

	"clubmanager/domain/email"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// API is the subset of the SES client used by the transport
type API interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Settings tunes the transport's throttling and breaker
type Settings struct {
	// SendRate is the sustained sends per second
	SendRate float64
	// Burst is the number of sends allowed at once
	Burst int

	BreakerMaxRequests uint32
	BreakerInterval    time.Duration
	BreakerTimeout     time.Duration
	// BreakerFailureRatio trips the breaker once BreakerMinRequests have been seen
	BreakerFailureRatio float64
	BreakerMinRequests  uint32
}

// DefaultSettings matches the default SES sandbox send rate
func DefaultSettings() Settings {
	return Settings{
		SendRate:            14,
		Burst:               14,
		BreakerMaxRequests:  5,
		BreakerInterval:     30 * time.Second,
		BreakerTimeout:      60 * time.Second,
		BreakerFailureRatio: 0.8,
		BreakerMinRequests:  5,
	}
}

// Transport implements ports.DeliveryTransport using SES
type Transport struct {
	client  API
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewTransport creates an SES delivery transport
func NewTransport(client API, settings Settings, logger *zap.Logger) *Transport {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ses",
		MaxRequests: settings.BreakerMaxRequests,
		Interval:    settings.BreakerInterval,
		Timeout:     settings.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.BreakerMinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= settings.BreakerFailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Transport{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(settings.SendRate), settings.Burst),
		breaker: breaker,
		logger:  logger,
	}
}

// Send delivers one email and returns the SES message id
func (t *Transport) Send(ctx context.Context, req email.SendRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("invalid email request: %w", err)
	}
	if err := t.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("send rate wait aborted: %w", err)
	}

	out, err := t.breaker.Execute(func() (interface{}, error) {
		return t.client.SendEmail(ctx, &ses.SendEmailInput{
			Source: aws.String(req.FromAddress),
			Destination: &types.Destination{
				ToAddresses: req.DestinationAddresses,
			},
			Message: &types.Message{
				Subject: &types.Content{Data: aws.String(req.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(req.BodyHTML), Charset: aws.String("UTF-8")},
				},
			},
		})
	})
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	messageID := aws.ToString(out.(*ses.SendEmailOutput).MessageId)
	t.logger.Info("SES message sent",
		zap.String("sesMessageID", messageID),
		zap.Strings("destinationAddresses", req.DestinationAddresses),
	)
	return messageID, nil
}
