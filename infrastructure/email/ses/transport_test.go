package ses

import (
	"context"
	"errors"
	"testing"
	"time"

	"clubmanager/domain/email"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockSES struct {
	mock.Mock
}

func (m *MockSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*ses.SendEmailOutput)
	return out, args.Error(1)
}

func testRequest() email.SendRequest {
	return email.SendRequest{
		FromAddress:          "noreply@example.com",
		DestinationAddresses: []string{"player@example.com"},
		Subject:              "Welcome to Rovers!",
		BodyHTML:             "You have joined the club Rovers.",
	}
}

func fastSettings() Settings {
	s := DefaultSettings()
	s.SendRate = 1000
	s.Burst = 100
	return s
}

func TestTransport_Send(t *testing.T) {
	// Arrange
	api := new(MockSES)
	transport := NewTransport(api, fastSettings(), zap.NewNop())
	api.On("SendEmail", mock.Anything, mock.MatchedBy(func(in *ses.SendEmailInput) bool {
		return aws.ToString(in.Source) == "noreply@example.com" &&
			len(in.Destination.ToAddresses) == 1 &&
			aws.ToString(in.Message.Subject.Data) == "Welcome to Rovers!" &&
			aws.ToString(in.Message.Body.Html.Data) == "You have joined the club Rovers."
	})).Return(&ses.SendEmailOutput{MessageId: aws.String("ses-1")}, nil)

	// Act
	id, err := transport.Send(context.Background(), testRequest())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "ses-1", id)
	api.AssertExpectations(t)
}

func TestTransport_SendError(t *testing.T) {
	api := new(MockSES)
	transport := NewTransport(api, fastSettings(), zap.NewNop())
	boom := errors.New("MessageRejected")
	api.On("SendEmail", mock.Anything, mock.Anything).Return(nil, boom)

	_, err := transport.Send(context.Background(), testRequest())

	assert.ErrorIs(t, err, boom)
}

func TestTransport_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	api := new(MockSES)
	settings := fastSettings()
	settings.BreakerMinRequests = 3
	settings.BreakerTimeout = time.Hour
	transport := NewTransport(api, settings, zap.NewNop())
	api.On("SendEmail", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	for i := 0; i < 3; i++ {
		_, err := transport.Send(context.Background(), testRequest())
		require.Error(t, err)
	}
	_, err := transport.Send(context.Background(), testRequest())

	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	api.AssertNumberOfCalls(t, "SendEmail", 3)
}

func TestTransport_InvalidRequestNeverSent(t *testing.T) {
	api := new(MockSES)
	transport := NewTransport(api, fastSettings(), zap.NewNop())

	_, err := transport.Send(context.Background(), email.SendRequest{})

	assert.Error(t, err)
	api.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
}

func TestTransport_CancelledContextWhileThrottled(t *testing.T) {
	api := new(MockSES)
	settings := fastSettings()
	settings.SendRate = 0.001
	settings.Burst = 1
	transport := NewTransport(api, settings, zap.NewNop())
	api.On("SendEmail", mock.Anything, mock.Anything).Return(&ses.SendEmailOutput{MessageId: aws.String("ses-1")}, nil).Once()

	_, err := transport.Send(context.Background(), testRequest())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = transport.Send(ctx, testRequest())

	assert.Error(t, err)
	api.AssertNumberOfCalls(t, "SendEmail", 1)
}
