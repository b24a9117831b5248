package observability

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var invalidMetricChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// PrometheusMetrics implements ports.MetricsRecorder with one counter vector
// per metric name. The label set of a metric is fixed by its first use.
type PrometheusMetrics struct {
	namespace  string
	registerer prometheus.Registerer
	logger     *zap.Logger

	mu       sync.Mutex
	counters map[string]*prometheus.CounterVec
}

// NewPrometheusMetrics creates a recorder registering on r
func NewPrometheusMetrics(namespace string, r prometheus.Registerer, logger *zap.Logger) *PrometheusMetrics {
	return &PrometheusMetrics{
		namespace:  sanitizeMetricName(namespace),
		registerer: r,
		logger:     logger,
		counters:   make(map[string]*prometheus.CounterVec),
	}
}

// IncrementCounter adds value to the named counter
func (m *PrometheusMetrics) IncrementCounter(_ context.Context, name string, value float64, dimensions map[string]string) {
	labels := make(prometheus.Labels, len(dimensions))
	for k, v := range dimensions {
		labels[sanitizeMetricName(k)] = v
	}

	vec, err := m.counterVec(name, labels)
	if err != nil {
		m.logger.Warn("Failed to register counter", zap.String("metric", name), zap.Error(err))
		return
	}
	counter, err := vec.GetMetricWith(labels)
	if err != nil {
		m.logger.Warn("Counter labels do not match", zap.String("metric", name), zap.Error(err))
		return
	}
	counter.Add(value)
}

func (m *PrometheusMetrics) counterVec(name string, labels prometheus.Labels) (*prometheus.CounterVec, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if vec, ok := m.counters[name]; ok {
		return vec, nil
	}

	labelNames := make([]string, 0, len(labels))
	for k := range labels {
		labelNames = append(labelNames, k)
	}
	sort.Strings(labelNames)

	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      toSnakeCase(name) + "_total",
		Help:      name + " counter",
	}, labelNames)
	if err := m.registerer.Register(vec); err != nil {
		return nil, err
	}
	m.counters[name] = vec
	return vec, nil
}

// toSnakeCase turns CamelCase metric names into Prometheus style
func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return sanitizeMetricName(b.String())
}

func sanitizeMetricName(s string) string {
	return invalidMetricChars.ReplaceAllString(s, "_")
}
