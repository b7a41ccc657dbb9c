package config

import (
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/shopspring/decimal"
)

// Default bid increment used to seed the proposed amount of a bid form.
var defaultBidIncrement = decimal.NewFromInt(100)

type Config struct {
	SupabaseURL        string
	SupabaseProjectRef string
	SupabaseAnonKey    string

	// Bucket holding auction images
	StorageBucket string

	// Added on top of the current price when seeding a bid draft
	BidIncrement decimal.Decimal

	// Optional credentials for the terminal shell
	ShellEmail    string
	ShellPassword string
}

func LoadConfig() (*Config, error) {
	key := os.Getenv("SUPABASE_ANON_KEY")
	if key == "" {
		key = os.Getenv("SUPABASE_KEY")
	}

	supabaseURL := strings.TrimRight(os.Getenv("SUPABASE_URL"), "/")

	// Extract project ref key
	projectRef := supabaseURL
	if idx := strings.Index(supabaseURL, ".supabase.co"); idx != -1 {
		projectRef = supabaseURL[:idx]
	}
	projectRef = strings.TrimPrefix(strings.TrimPrefix(projectRef, "https://"), "http://")

	bucket := os.Getenv("STORAGE_BUCKET")
	if bucket == "" {
		bucket = "auctions"
	}

	increment := defaultBidIncrement
	if raw := os.Getenv("BID_INCREMENT"); raw != "" {
		if parsed, err := decimal.NewFromString(raw); err == nil && parsed.IsPositive() {
			increment = parsed
		}
	}

	cfg := &Config{
		SupabaseURL:        supabaseURL,
		SupabaseProjectRef: projectRef,
		SupabaseAnonKey:    key,
		StorageBucket:      bucket,
		BidIncrement:       increment,
		ShellEmail:         os.Getenv("REMATA_EMAIL"),
		ShellPassword:      os.Getenv("REMATA_PASSWORD"),
	}

	return cfg, nil
}

// RestURL is the PostgREST endpoint of the backend.
func (c *Config) RestURL() string {
	return c.SupabaseURL + "/rest/v1"
}

// StorageURL is the file storage endpoint of the backend.
func (c *Config) StorageURL() string {
	return c.SupabaseURL + "/storage/v1"
}

// RealtimeURL is the websocket endpoint delivering record-change events.
func (c *Config) RealtimeURL() string {
	ws := strings.Replace(c.SupabaseURL, "https://", "wss://", 1)
	ws = strings.Replace(ws, "http://", "ws://", 1)
	return ws + "/realtime/v1/websocket?apikey=" + c.SupabaseAnonKey + "&vsn=1.0.0"
}
