package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "clubs", cfg.ClubsTable)
	assert.Equal(t, "club-members", cfg.MembersTable)
	assert.Equal(t, "ClubsByVisibility", cfg.ClubsVisibilityIndex)
	assert.Equal(t, 25, cfg.TransactionItemLimit)
	assert.Equal(t, 3, cfg.TransactionConcurrency)
	assert.Equal(t, "rest-api", cfg.EventSource)
	assert.Equal(t, "club-profiles/", cfg.ClubProfilePhotosPrefix)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfig_FileOverlayThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
clubsTable: clubs-from-file
membersTable: members-from-file
transactionItemLimit: 10
storeBackend: memory
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DDB_TABLE_MEMBERS", "members-from-env")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "clubs-from-file", cfg.ClubsTable)
	assert.Equal(t, "members-from-env", cfg.MembersTable)
	assert.Equal(t, 10, cfg.TransactionItemLimit)
	assert.Equal(t, StoreMemory, cfg.StoreBackend)
}

func TestLoadConfig_HTTPSettingsFromEnv(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, http://localhost:3000,")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "50")
	t.Setenv("SQS_PARTIAL_BATCH_RESPONSE", "true")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.example.com", "http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, 50, cfg.RateLimitPerMinute)
	assert.True(t, cfg.SQSPartialBatchResponse)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := LoadConfig()

	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"unknown store", func(c *Config) { c.StoreBackend = "redis" }, "STORE_BACKEND"},
		{"unknown metrics", func(c *Config) { c.MetricsBackend = "statsd" }, "METRICS_BACKEND"},
		{"item limit too high", func(c *Config) { c.TransactionItemLimit = 101 }, "TRANSACTION_ITEM_LIMIT"},
		{"zero send rate", func(c *Config) { c.EmailSendRate = 0 }, "EMAIL_SEND_RATE"},
		{"zero send burst", func(c *Config) { c.EmailSendBurst = 0 }, "EMAIL_SEND_BURST"},
		{"negative send burst", func(c *Config) { c.EmailSendBurst = -1 }, "EMAIL_SEND_BURST"},
		{"production needs bus", func(c *Config) {
			c.Environment = "production"
			c.OutboundEmailsQueueURL = "https://sqs/q"
			c.DefaultFromEmail = "noreply@example.com"
		}, "EVENTBRIDGE_SERVICE_BUS_NAME"},
		{"production rejects memory store", func(c *Config) {
			c.Environment = "production"
			c.StoreBackend = StoreMemory
		}, "STORE_BACKEND"},
		{"production complete", func(c *Config) {
			c.Environment = "production"
			c.EventBusName = "service-bus"
			c.OutboundEmailsQueueURL = "https://sqs/q"
			c.DefaultFromEmail = "noreply@example.com"
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
