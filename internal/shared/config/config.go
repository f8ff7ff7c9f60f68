package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// configuration keys, also used as flag names; as env vars they are prefixed
// with AUCTION_ and use underscores (http.addr -> AUCTION_HTTP_ADDR)
const (
	KeyHTTPAddr        = "http.addr"
	KeyAPIBaseURL      = "api.base_url"
	KeyAPITimeout      = "api.timeout"
	KeyBidHistoryLimit = "detail.bid_history_limit"
	KeySessionCapacity = "session.capacity"
	KeyTimeZone        = "display.timezone"
	KeyLogLevel        = "log.level"
)

type Config struct {
	HTTPAddr        string
	APIBaseURL      string
	APITimeout      time.Duration
	BidHistoryLimit int
	SessionCapacity int
	TimeZone        string
	LogLevel        string
}

// Load reads the configuration from, in order of precedence, command line
// flags, AUCTION_* environment variables (a .env file is loaded first if
// present) and defaults.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("AUCTION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	fs := pflag.NewFlagSet("auction-detail", pflag.ContinueOnError)
	fs.String(KeyHTTPAddr, ":9000", "address the HTTP server listens on")
	fs.String(KeyAPIBaseURL, "", "base URL of the auction service")
	fs.Duration(KeyAPITimeout, 10*time.Second, "timeout of one auction service request")
	fs.Int(KeyBidHistoryLimit, 20, "bid history entries fetched on mount")
	fs.Int(KeySessionCapacity, 1024, "detail sessions kept in memory")
	fs.String(KeyTimeZone, "Asia/Seoul", "time zone dates are displayed in")
	fs.String(KeyLogLevel, "", "log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("config: parse flags: %w", err)
	}
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("config: bind flags: %w", err)
	}

	cfg := &Config{
		HTTPAddr:        v.GetString(KeyHTTPAddr),
		APIBaseURL:      strings.TrimRight(v.GetString(KeyAPIBaseURL), "/"),
		APITimeout:      v.GetDuration(KeyAPITimeout),
		BidHistoryLimit: v.GetInt(KeyBidHistoryLimit),
		SessionCapacity: v.GetInt(KeySessionCapacity),
		TimeZone:        v.GetString(KeyTimeZone),
		LogLevel:        v.GetString(KeyLogLevel),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.APIBaseURL == "":
		return errors.New("config: api.base_url is required")
	case c.APITimeout <= 0:
		return errors.New("config: api.timeout must be positive")
	case c.BidHistoryLimit < 0:
		return errors.New("config: detail.bid_history_limit cannot be negative")
	case c.SessionCapacity <= 0:
		return errors.New("config: session.capacity must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location loads the display time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("config: display.timezone: %w", err)
	}
	return loc, nil
}
