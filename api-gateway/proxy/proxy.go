package proxy

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kh199/add-product-to-order/api-gateway/config"
	"github.com/kh199/add-product-to-order/api-gateway/loadbalancer"
	"github.com/kh199/add-product-to-order/pkg/logger"
)

// ReverseProxy forwards requests to the order service instances
type ReverseProxy struct {
	client *http.Client
	lb     *loadbalancer.RoundRobin
}

// NewReverseProxy creates a new reverse proxy
func NewReverseProxy(cfg *config.GatewayConfig) *ReverseProxy {
	return &ReverseProxy{
		lb: loadbalancer.NewRoundRobin(cfg.Service.Instances),
		client: &http.Client{
			Timeout: cfg.Service.Timeout,
		},
	}
}

// ProxyRequest forwards the request to the next backend instance
func (p *ReverseProxy) ProxyRequest(c *fiber.Ctx) error {
	serverURL := p.lb.Next()
	if serverURL == "" {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "No available backend instances",
		})
	}

	targetURL := serverURL + c.OriginalURL()

	req, err := http.NewRequestWithContext(
		c.UserContext(),
		c.Method(),
		targetURL,
		bytes.NewReader(c.Body()),
	)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create request",
		})
	}

	p.copyRequestHeaders(c, req)

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		logger.Logger.Error().
			Err(err).
			Str("target", targetURL).
			Msg("Backend request failed")

		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to reach backend service",
		})
	}
	defer resp.Body.Close()

	logger.Logger.Debug().
		Str("target", targetURL).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Backend request completed")

	for key, values := range resp.Header {
		for _, value := range values {
			c.Response().Header.Add(key, value)
		}
	}

	c.Status(resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to read backend response",
		})
	}

	return c.Send(body)
}

func (p *ReverseProxy) copyRequestHeaders(c *fiber.Ctx, req *http.Request) {
	c.Request().Header.VisitAll(func(key, value []byte) {
		req.Header.Set(string(key), string(value))
	})
	req.Header.Set("X-Forwarded-For", c.IP())
}
