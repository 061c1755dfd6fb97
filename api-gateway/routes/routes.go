package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/kh199/add-product-to-order/api-gateway/config"
	"github.com/kh199/add-product-to-order/api-gateway/health"
	"github.com/kh199/add-product-to-order/api-gateway/middleware"
	"github.com/kh199/add-product-to-order/api-gateway/proxy"
)

// Setup registers all gateway routes
func Setup(app *fiber.App, cfg *config.GatewayConfig, redisClient *redis.Client) {
	rp := proxy.NewReverseProxy(cfg)
	checker := health.NewChecker(cfg)

	rateLimiter := middleware.NewRateLimiter(redisClient, cfg.RateLimitMax, cfg.RateLimitWindow)
	app.Use(rateLimiter.Middleware())

	app.Get("/health", checker.Handler())

	forward := func(c *fiber.Ctx) error {
		return rp.ProxyRequest(c)
	}

	// The core operation and order reads
	app.Post("/api/orders/add_product", forward)
	app.Get("/api/orders/report/customer-totals",
		middleware.CacheMiddleware(redisClient, cfg.CacheTTL), forward)
	app.Get("/api/orders/:order_id/items", forward)
	app.Get("/api/orders/:order_id/items/:nomenclature_id", forward)

	// Catalog reads are public, mutations are admin only
	app.Get("/api/products", cacheFor(redisClient, cfg, 30*time.Second), forward)
	app.Get("/api/products/:id", forward)
	app.Get("/api/products/:id/stock", forward)
	app.Post("/api/products",
		middleware.AuthMiddleware(), middleware.AdminMiddleware(), forward)
}

func cacheFor(redisClient *redis.Client, cfg *config.GatewayConfig, ttl time.Duration) fiber.Handler {
	if ttl <= 0 {
		ttl = cfg.CacheTTL
	}
	return middleware.CacheMiddleware(redisClient, ttl)
}
