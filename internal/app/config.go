package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
)

const defaultAddr = "0.0.0.0:8080"

// Config holds the complete application configuration, loadable from
// environment variables (PAGE_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"HTTP server listen address"`
	Premium     bool   `default:"false" usage:"Visitor is a premium member (free shipping)"`
	OnSale      bool   `default:"false" usage:"Show the product as on sale" flag:"on-sale"`
	ShippingFee string `default:"2.99" usage:"Shipping fee for non-premium visitors" flag:"shipping-fee"`
	GzipLevel   int    `default:"-1" usage:"Response gzip level (-1 default, 0 disables)" flag:"gzip-level"`
	Session     SessionConfig
	Cookie      CookieConfig
	RateLimit   RateLimitConfig
	Graceful    GracefulConfig

	// fee is ShippingFee parsed by LoadConfig.
	fee decimal.Decimal
}

// SessionConfig controls in-memory visitor sessions.
type SessionConfig struct {
	TTL           time.Duration `default:"30m" usage:"Idle time before a session is discarded"`
	Capacity      int           `default:"10000" usage:"Maximum live sessions (0 = unlimited)"`
	SweepInterval time.Duration `default:"1m" usage:"Interval between expired session sweeps" flag:"sweep-interval"`
}

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string `default:"page_session" usage:"Session cookie name"`
	Secure bool   `default:"false" usage:"Set the Secure cookie attribute"`
}

// RateLimitConfig controls the per-client sliding window limiter on mutating
// requests.
type RateLimitConfig struct {
	Max    int           `default:"120" usage:"Max mutating requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config files,
// and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	return loadConfig(false)
}

func loadConfig(skipFlags bool) (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipFlags: skipFlags,
		EnvPrefix: "PAGE",
		Files:     []string{"config.yaml", "/etc/product-page/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Fee returns the parsed shipping fee.
func (c *Config) Fee() decimal.Decimal { return c.fee }

func (c *Config) validate() error {
	fee, err := decimal.NewFromString(c.ShippingFee)
	if err != nil {
		return errors.Wrapf(err, "invalid shipping fee %q", c.ShippingFee)
	}
	if fee.IsNegative() {
		return errors.Errorf("shipping fee %s is negative", fee)
	}
	c.fee = fee

	if c.Session.TTL <= 0 {
		return errors.New("session TTL must be positive")
	}
	if c.Session.SweepInterval <= 0 {
		return errors.New("session sweep interval must be positive")
	}
	if c.Session.Capacity < 0 {
		return errors.New("session capacity must not be negative")
	}
	if c.RateLimit.Max <= 0 {
		return errors.New("rate limit max must be positive")
	}
	if c.RateLimit.Window <= 0 {
		return errors.New("rate limit window must be positive")
	}
	if c.GzipLevel < pgzip.DefaultCompression || c.GzipLevel > pgzip.BestCompression {
		return errors.Errorf("gzip level %d out of range", c.GzipLevel)
	}
	return nil
}

// applyPlatformDefaults maps the platform-provided PORT variable (Railway,
// Render, etc.) onto the listen address.
func (c *Config) applyPlatformDefaults() {
	if port := os.Getenv("PORT"); port != "" && c.Addr == defaultAddr {
		c.Addr = "0.0.0.0:" + port
	}
}
