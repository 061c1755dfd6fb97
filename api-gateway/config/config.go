package config

import (
	"os"
	"strings"
	"time"
)

// ServiceConfig holds configuration for the backend order service
type ServiceConfig struct {
	Name        string
	Instances   []string
	Timeout     time.Duration
	HealthCheck string
}

// GatewayConfig holds the main gateway configuration
type GatewayConfig struct {
	Port          string
	RedisAddr     string
	RedisPassword string

	// Sliding-window rate limit
	RateLimitMax    int
	RateLimitWindow time.Duration

	// TTL for cached report responses
	CacheTTL time.Duration

	Service ServiceConfig
}

// LoadConfig loads the gateway configuration from the environment
func LoadConfig() *GatewayConfig {
	instances := strings.Split(getEnv("ORDER_SERVICE_URLS", "http://localhost:8080"), ",")

	return &GatewayConfig{
		Port:            getEnv("GATEWAY_PORT", "8000"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RateLimitMax:    100,
		RateLimitWindow: time.Minute,
		CacheTTL:        time.Minute,
		Service: ServiceConfig{
			Name:        "order-service",
			Instances:   instances,
			Timeout:     30 * time.Second,
			HealthCheck: "/health",
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
