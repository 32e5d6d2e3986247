package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := loadConfig(true)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr)
	assert.False(t, cfg.Premium)
	assert.False(t, cfg.OnSale)
	assert.Equal(t, "2.99", cfg.Fee().StringFixed(2))
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 10000, cfg.Session.Capacity)
	assert.Equal(t, "page_session", cfg.Cookie.Name)
	assert.Equal(t, 120, cfg.RateLimit.Max)
	assert.Equal(t, 3*time.Second, cfg.Graceful.ReadinessDelay)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("PAGE_PREMIUM", "true")
	t.Setenv("PAGE_ON_SALE", "true")
	t.Setenv("PAGE_SHIPPING_FEE", "4.5")
	t.Setenv("PAGE_SESSION_TTL", "5m")
	t.Setenv("PORT", "9000")

	cfg, err := loadConfig(true)
	require.NoError(t, err)

	assert.True(t, cfg.Premium)
	assert.True(t, cfg.OnSale)
	assert.Equal(t, "4.50", cfg.Fee().StringFixed(2))
	assert.Equal(t, 5*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "0.0.0.0:9000", cfg.Addr)
}

func TestLoadConfig_RejectsZeroRateLimit(t *testing.T) {
	t.Setenv("PAGE_RATE_LIMIT_WINDOW", "0s")
	t.Setenv("PAGE_RATE_LIMIT_MAX", "0")

	_, err := loadConfig(true)
	require.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			ShippingFee: "2.99",
			GzipLevel:   -1,
			Session:     SessionConfig{TTL: time.Minute, SweepInterval: time.Second},
			RateLimit:   RateLimitConfig{Max: 10, Window: time.Minute},
		}
	}

	for _, tt := range []struct {
		name   string
		mutate func(c *Config)
	}{
		{"BadFee", func(c *Config) { c.ShippingFee = "cheap" }},
		{"NegativeFee", func(c *Config) { c.ShippingFee = "-1" }},
		{"ZeroTTL", func(c *Config) { c.Session.TTL = 0 }},
		{"ZeroSweep", func(c *Config) { c.Session.SweepInterval = 0 }},
		{"NegativeCapacity", func(c *Config) { c.Session.Capacity = -1 }},
		{"ZeroRateLimitMax", func(c *Config) { c.RateLimit.Max = 0 }},
		{"ZeroRateLimitWindow", func(c *Config) { c.RateLimit.Window = 0 }},
		{"GzipLevel", func(c *Config) { c.GzipLevel = 12 }},
	} {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			assert.Error(t, c.validate())
		})
	}

	c := valid()
	require.NoError(t, c.validate())
	assert.Equal(t, "2.99", c.Fee().String())
}
