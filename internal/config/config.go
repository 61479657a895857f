package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	DatabaseURL string `env:"DATABASE_URL,required"`
	Port        int    `env:"PORT" envDefault:"8080"`
	AdminToken  string `env:"ADMIN_TOKEN"`

	// Payment gateway
	GatewayURL        string `env:"PAYMENT_GATEWAY_URL" envDefault:"https://api.paylane.example/v1"`
	GatewayMerchantID string `env:"PAYMENT_GATEWAY_MERCHANT_ID"`
	GatewayAPIKey     string `env:"PAYMENT_GATEWAY_API_KEY"`

	// Coupon cache (optional; empty disables)
	RedisURL       string        `env:"REDIS_URL"`
	CouponCacheTTL time.Duration `env:"COUPON_CACHE_TTL" envDefault:"30s"`

	// Order events (optional; empty brokers disable the relay)
	KafkaBrokers       string        `env:"KAFKA_BROKERS"`
	OrderEventsTopic   string        `env:"ORDER_EVENTS_TOPIC" envDefault:"order.events"`
	OutboxPollInterval time.Duration `env:"OUTBOX_POLL_INTERVAL" envDefault:"2s"`

	// Telegram ops notifications (optional; empty token disables)
	OpsBotToken string `env:"OPS_BOT_TOKEN"`
	OpsChatID   int64  `env:"OPS_CHAT_ID"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
