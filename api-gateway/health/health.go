package health

import (
	"net/http"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kh199/add-product-to-order/api-gateway/config"
)

// InstanceStatus is the health of one backend instance
type InstanceStatus struct {
	URL     string `json:"url"`
	Healthy bool   `json:"healthy"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Checker polls backend instances for liveness
type Checker struct {
	cfg    *config.GatewayConfig
	client *http.Client
}

// NewChecker creates a new health checker
func NewChecker(cfg *config.GatewayConfig) *Checker {
	return &Checker{
		cfg: cfg,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Handler serves the aggregated gateway health endpoint
func (h *Checker) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		statuses := h.checkAll()

		healthy := false
		for _, s := range statuses {
			if s.Healthy {
				healthy = true
				break
			}
		}

		status := fiber.StatusOK
		if !healthy {
			status = fiber.StatusServiceUnavailable
		}

		return c.Status(status).JSON(fiber.Map{
			"gateway":   "healthy",
			"service":   h.cfg.Service.Name,
			"instances": statuses,
		})
	}
}

// checkAll polls every instance concurrently
func (h *Checker) checkAll() []InstanceStatus {
	instances := h.cfg.Service.Instances
	statuses := make([]InstanceStatus, len(instances))

	var wg sync.WaitGroup
	for i, instance := range instances {
		wg.Add(1)
		go func(i int, instance string) {
			defer wg.Done()
			statuses[i] = h.check(instance)
		}(i, instance)
	}
	wg.Wait()

	return statuses
}

func (h *Checker) check(instance string) InstanceStatus {
	start := time.Now()

	resp, err := h.client.Get(instance + h.cfg.Service.HealthCheck)
	if err != nil {
		return InstanceStatus{URL: instance, Healthy: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	return InstanceStatus{
		URL:     instance,
		Healthy: resp.StatusCode == http.StatusOK,
		Latency: time.Since(start).Round(time.Millisecond).String(),
	}
}
