package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

const readinessTimeout = 2 * time.Second

// Pinger is a dependency the readiness check checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness checks.
type HealthHandler struct {
	serviceName  string
	version      string
	startedAt    time.Time
	dependencies map[string]Pinger
}

// NewHealthHandler returns a handler. A nil Pinger is reported as not
// configured and makes the service unready.
func NewHealthHandler(serviceName, version string, dependencies map[string]Pinger) *HealthHandler {
	return &HealthHandler{
		serviceName:  serviceName,
		version:      version,
		startedAt:    time.Now(),
		dependencies: dependencies,
	}
}

// Live handles GET /health/live.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":         "alive",
		"service":        h.serviceName,
		"version":        h.version,
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
	})
}

type dependencyCheck struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// Ready handles GET /health/ready. Dependencies are pinged concurrently.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
	defer cancel()

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		checks = make(map[string]dependencyCheck, len(h.dependencies))
		ready  = true
	)
	for name, dep := range h.dependencies {
		if dep == nil {
			checks[name] = dependencyCheck{Status: "not configured"}
			ready = false
			continue
		}
		wg.Add(1)
		go func(name string, dep Pinger) {
			defer wg.Done()
			start := time.Now()
			err := dep.Ping(ctx)
			check := dependencyCheck{Status: "ok", LatencyMS: time.Since(start).Milliseconds()}
			if err != nil {
				check.Status = "down"
				check.Error = err.Error()
			}
			mu.Lock()
			defer mu.Unlock()
			checks[name] = check
			if err != nil {
				ready = false
			}
		}(name, dep)
	}
	wg.Wait()

	if ready {
		return c.JSON(fiber.Map{"status": "ready", "dependencies": checks})
	}
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": checks,
		},
	})
}
