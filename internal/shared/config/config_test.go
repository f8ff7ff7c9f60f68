package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUCTION_API_BASE_URL", "https://api.example.com/")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.Equal(t, 20, cfg.BidHistoryLimit)
	assert.Equal(t, 1024, cfg.SessionCapacity)
	assert.Equal(t, "Asia/Seoul", cfg.TimeZone)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Seoul", loc.String())
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("AUCTION_API_BASE_URL", "https://api.example.com")
	t.Setenv("AUCTION_SESSION_CAPACITY", "8")
	t.Setenv("AUCTION_HTTP_ADDR", ":7000")

	cfg, err := Load([]string{"--http.addr=:8080", "--api.timeout=3s"})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.Equal(t, 8, cfg.SessionCapacity)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing base url", nil, nil},
		{"zero capacity", map[string]string{"AUCTION_API_BASE_URL": "http://x", "AUCTION_SESSION_CAPACITY": "0"}, nil},
		{"unknown time zone", map[string]string{"AUCTION_API_BASE_URL": "http://x"}, []string{"--display.timezone=Mars/Olympus"}},
		{"unknown flag", map[string]string{"AUCTION_API_BASE_URL": "http://x"}, []string{"--nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("AUCTION_API_BASE_URL", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(tt.args)
			assert.Error(t, err)
		})
	}
}
