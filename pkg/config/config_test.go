package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SUBMISSION_TRANSPORT", "")
	t.Setenv("FORMS_TIMEZONE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, TransportSimulated, cfg.Submission.Transport)
	assert.Equal(t, time.Second, cfg.Submission.SimulatedDelay)
	assert.Equal(t, 2*time.Second, cfg.Forms.AppointmentSuccessWindow)
	assert.Equal(t, 3*time.Second, cfg.Forms.ConsultSuccessWindow)
	assert.Equal(t, 3*time.Second, cfg.Forms.SupportSuccessWindow)
	assert.Equal(t, "premier_session", cfg.Session.CookieName)
	assert.Equal(t, "Asia/Ho_Chi_Minh", cfg.Forms.Location().String())
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SUBMISSION_TRANSPORT", TransportWebhook)
	t.Setenv("SUBMISSION_WEBHOOK_URL", "http://crm.local/hooks/premier")
	t.Setenv("FORMS_APPOINTMENT_SUCCESS_WINDOW", "500ms")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, TransportWebhook, cfg.Submission.Transport)
	assert.Equal(t, "http://crm.local/hooks/premier", cfg.Submission.WebhookURL)
	assert.Equal(t, 500*time.Millisecond, cfg.Forms.AppointmentSuccessWindow)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "simulated is always valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "webhook needs a url",
			mutate:  func(c *Config) { c.Submission.Transport = TransportWebhook },
			wantErr: "SUBMISSION_WEBHOOK_URL",
		},
		{
			name:    "redis transport needs redis",
			mutate:  func(c *Config) { c.Submission.Transport = TransportRedis },
			wantErr: "REDIS_ENABLED",
		},
		{
			name:    "unknown transport",
			mutate:  func(c *Config) { c.Submission.Transport = "carrier-pigeon" },
			wantErr: "unknown submission transport",
		},
		{
			name:    "bad time zone",
			mutate:  func(c *Config) { c.Forms.TimeZone = "Mars/Olympus" },
			wantErr: "FORMS_TIMEZONE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Submission: SubmissionConfig{Transport: TransportSimulated},
				Forms:      FormsConfig{TimeZone: "UTC"},
				Session:    SessionConfig{TTL: time.Minute},
			}
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
