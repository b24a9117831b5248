package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockCloudWatch struct {
	mock.Mock
}

func (m *MockCloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*cloudwatch.PutMetricDataOutput)
	return out, args.Error(1)
}

func TestCloudWatchMetrics_IncrementCounter(t *testing.T) {
	client := new(MockCloudWatch)
	metrics := NewCloudWatchMetrics("ClubManager", client, zap.NewNop())
	client.On("PutMetricData", mock.Anything, mock.MatchedBy(func(in *cloudwatch.PutMetricDataInput) bool {
		d := in.MetricData[0]
		return aws.ToString(in.Namespace) == "ClubManager" &&
			aws.ToString(d.MetricName) == "EmailsDelivered" &&
			aws.ToFloat64(d.Value) == 3 &&
			len(d.Dimensions) == 2 &&
			aws.ToString(d.Dimensions[0].Name) == "Consumer"
	})).Return(&cloudwatch.PutMetricDataOutput{}, nil)

	metrics.IncrementCounter(context.Background(), "EmailsDelivered", 3, map[string]string{"Stage": "prod", "Consumer": "deliver-email"})

	client.AssertExpectations(t)
}

func TestCloudWatchMetrics_ErrorsAreSwallowed(t *testing.T) {
	client := new(MockCloudWatch)
	metrics := NewCloudWatchMetrics("ClubManager", client, zap.NewNop())
	client.On("PutMetricData", mock.Anything, mock.Anything).Return(nil, errors.New("denied"))

	assert.NotPanics(t, func() {
		metrics.IncrementCounter(context.Background(), "EmailsDelivered", 1, nil)
	})
}

func TestPrometheusMetrics_IncrementCounter(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewPrometheusMetrics("clubmanager", registry, zap.NewNop())
	dims := map[string]string{"consumer": "deliver-email"}

	metrics.IncrementCounter(context.Background(), "EmailsDelivered", 2, dims)
	metrics.IncrementCounter(context.Background(), "EmailsDelivered", 1, dims)

	vec := metrics.counters["EmailsDelivered"]
	require.NotNil(t, vec)
	assert.Equal(t, 3.0, testutil.ToFloat64(vec.WithLabelValues("deliver-email")))

	families, err := registry.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "clubmanager_emails_delivered_total", families[0].GetName())
}

func TestPrometheusMetrics_MismatchedLabelsAreDropped(t *testing.T) {
	metrics := NewPrometheusMetrics("clubmanager", prometheus.NewRegistry(), zap.NewNop())
	metrics.IncrementCounter(context.Background(), "HttpRequests", 1, map[string]string{"route": "/clubs"})

	assert.NotPanics(t, func() {
		metrics.IncrementCounter(context.Background(), "HttpRequests", 1, map[string]string{"status": "200"})
	})
}

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "emails_delivered", toSnakeCase("EmailsDelivered"))
	assert.Equal(t, "http_requests", toSnakeCase("HttpRequests"))
	assert.Equal(t, "already_snake", toSnakeCase("already_snake"))
}
