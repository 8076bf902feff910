//go:build unit

package config_test

import (
	"testing"
	"time"

	"medrecords-gateway/internal/pkg/config"

	"github.com/stretchr/testify/assert"
)

func TestWebhookConfig_Validate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(c *config.WebhookConfig)
		wantErr string
	}{
		{name: "テスト設定はOK", mutate: func(*config.WebhookConfig) {}},
		{name: "FUTURE_SKEW 0はOK", mutate: func(c *config.WebhookConfig) { c.MaxFutureSkew = 0 }},
		{name: "シークレット空NG", mutate: func(c *config.WebhookConfig) { c.Secret = "" }, wantErr: "WEBHOOK_SECRET"},
		{name: "RATE_LIMIT 0 NG", mutate: func(c *config.WebhookConfig) { c.RateLimit = 0 }, wantErr: "WEBHOOK_RATE_LIMIT"},
		{name: "RATE_LIMIT負NG", mutate: func(c *config.WebhookConfig) { c.RateLimit = -3 }, wantErr: "WEBHOOK_RATE_LIMIT"},
		{name: "RATE_WINDOW 0 NG", mutate: func(c *config.WebhookConfig) { c.RateWindow = 0 }, wantErr: "WEBHOOK_RATE_WINDOW"},
		{name: "BODY上限0 NG", mutate: func(c *config.WebhookConfig) { c.MaxBodyBytes = 0 }, wantErr: "WEBHOOK_MAX_BODY_BYTES"},
		{name: "MAX_AGE 0 NG", mutate: func(c *config.WebhookConfig) { c.MaxAge = 0 }, wantErr: "WEBHOOK_MAX_AGE"},
		{name: "FUTURE_SKEW負NG", mutate: func(c *config.WebhookConfig) { c.MaxFutureSkew = -time.Second }, wantErr: "WEBHOOK_MAX_FUTURE_SKEW"},
		{name: "TTL 0 NG", mutate: func(c *config.WebhookConfig) { c.IdempotencyTTL = 0 }, wantErr: "WEBHOOK_IDEMPOTENCY_TTL"},
		{name: "SWEEP_INTERVAL 0 NG", mutate: func(c *config.WebhookConfig) { c.SweepInterval = 0 }, wantErr: "WEBHOOK_SWEEP_INTERVAL"},
		{name: "RATE_SWEEP_INTERVAL負NG", mutate: func(c *config.WebhookConfig) { c.RateSweepInterval = -time.Minute }, wantErr: "WEBHOOK_RATE_SWEEP_INTERVAL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.NewTestConfig().Webhook
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestLoadConfig_RejectsZeroRateLimit(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "x")
	t.Setenv("DB_NAME", "medrecords")
	t.Setenv("JWT_SECRET", "jwt")
	t.Setenv("WEBHOOK_SECRET", "dev-secret-key")
	t.Setenv("WEBHOOK_RATE_LIMIT", "0")

	_, err := config.LoadConfig()
	assert.ErrorContains(t, err, "WEBHOOK_RATE_LIMIT")
}
