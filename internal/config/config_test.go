package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://abcdefgh.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon-key")
	t.Setenv("SUPABASE_KEY", "")
	t.Setenv("STORAGE_BUCKET", "")
	t.Setenv("BID_INCREMENT", "")
}

func TestLoadConfigDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "https://abcdefgh.supabase.co", cfg.SupabaseURL)
	require.Equal(t, "abcdefgh", cfg.SupabaseProjectRef)
	require.Equal(t, "anon-key", cfg.SupabaseAnonKey)
	require.Equal(t, "auctions", cfg.StorageBucket)
	require.True(t, cfg.BidIncrement.Equal(decimal.NewFromInt(100)))
}

func TestLoadConfigFallbackKey(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SUPABASE_ANON_KEY", "")
	t.Setenv("SUPABASE_KEY", "legacy-key")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "legacy-key", cfg.SupabaseAnonKey)
}

func TestLoadConfigTrimsTrailingSlash(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SUPABASE_URL", "https://abcdefgh.supabase.co/")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "https://abcdefgh.supabase.co", cfg.SupabaseURL)
}

func TestLoadConfigBidIncrement(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected decimal.Decimal
	}{
		{name: "custom", raw: "250", expected: decimal.NewFromInt(250)},
		{name: "fractional", raw: "0.5", expected: decimal.RequireFromString("0.5")},
		{name: "garbage_falls_back", raw: "mucho", expected: decimal.NewFromInt(100)},
		{name: "negative_falls_back", raw: "-50", expected: decimal.NewFromInt(100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv("BID_INCREMENT", tt.raw)

			cfg, err := LoadConfig()
			require.NoError(t, err)
			require.True(t, cfg.BidIncrement.Equal(tt.expected))
		})
	}
}

func TestEndpointURLs(t *testing.T) {
	cfg := &Config{
		SupabaseURL:     "https://abcdefgh.supabase.co",
		SupabaseAnonKey: "anon-key",
	}

	require.Equal(t, "https://abcdefgh.supabase.co/rest/v1", cfg.RestURL())
	require.Equal(t, "https://abcdefgh.supabase.co/storage/v1", cfg.StorageURL())
	require.Equal(t,
		"wss://abcdefgh.supabase.co/realtime/v1/websocket?apikey=anon-key&vsn=1.0.0",
		cfg.RealtimeURL())
}

func TestRealtimeURLLocalBackend(t *testing.T) {
	cfg := &Config{
		SupabaseURL:     "http://127.0.0.1:54321",
		SupabaseAnonKey: "anon-key",
	}

	require.Equal(t,
		"ws://127.0.0.1:54321/realtime/v1/websocket?apikey=anon-key&vsn=1.0.0",
		cfg.RealtimeURL())
}
