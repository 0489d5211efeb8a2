// Package health serves the console's health endpoints.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Status values reported per check and overall.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusUnknown   = "unknown"
)

// Checker is a component that can report its health.
type Checker interface {
	HealthCheck(ctx context.Context) error
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc func(ctx context.Context) error

// HealthCheck calls f.
func (f CheckerFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

// Config holds health checker configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	CheckTimeout   time.Duration
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	LastCheck time.Time `json:"last_check"`
}

// Response is the body of /health and /health/live.
type Response struct {
	Status    string                  `json:"status"`
	Service   string                  `json:"service"`
	Version   string                  `json:"version"`
	Timestamp time.Time               `json:"timestamp"`
	Uptime    string                  `json:"uptime"`
	Checks    map[string]*CheckStatus `json:"checks,omitempty"`
}

// HealthChecker runs the registered checks.
type HealthChecker struct {
	config    Config
	startedAt time.Time

	mu     sync.RWMutex
	checks map[string]Checker
	last   map[string]*CheckStatus
}

// NewChecker creates a new health checker.
func NewChecker(config Config) *HealthChecker {
	if config.CheckTimeout == 0 {
		config.CheckTimeout = 2 * time.Second
	}
	return &HealthChecker{
		config:    config,
		startedAt: time.Now(),
		checks:    make(map[string]Checker),
		last:      make(map[string]*CheckStatus),
	}
}

// AddCheck registers a check under name, replacing any previous one.
func (h *HealthChecker) AddCheck(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = checker
	h.last[name] = &CheckStatus{Name: name, Status: StatusUnknown}
}

// Names returns the registered check names in sorted order.
func (h *HealthChecker) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Check runs every check concurrently and returns the combined result.
func (h *HealthChecker) Check(ctx context.Context) *Response {
	h.mu.RLock()
	checks := make(map[string]Checker, len(h.checks))
	for name, c := range h.checks {
		checks[name] = c
	}
	h.mu.RUnlock()

	resp := h.response(StatusHealthy)
	resp.Checks = make(map[string]*CheckStatus, len(checks))

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for name, c := range checks {
		wg.Add(1)
		go func(name string, c Checker) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, h.config.CheckTimeout)
			defer cancel()

			status := &CheckStatus{Name: name, Status: StatusHealthy, LastCheck: time.Now()}
			if err := c.HealthCheck(checkCtx); err != nil {
				status.Status = StatusUnhealthy
				status.Error = err.Error()
			}

			mu.Lock()
			resp.Checks[name] = status
			if status.Status != StatusHealthy {
				resp.Status = StatusUnhealthy
			}
			mu.Unlock()
		}(name, c)
	}
	wg.Wait()

	h.mu.Lock()
	for name, status := range resp.Checks {
		h.last[name] = status
	}
	h.mu.Unlock()

	return resp
}

// LastStatus returns the result of the most recent run of a check.
func (h *HealthChecker) LastStatus(name string) (CheckStatus, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.last[name]
	if !ok {
		return CheckStatus{}, false
	}
	return *s, true
}

// HealthHandler serves /health: 200 when every check passes, 503 otherwise.
func (h *HealthChecker) HealthHandler(w http.ResponseWriter, r *http.Request) {
	resp := h.Check(r.Context())

	code := http.StatusOK
	if resp.Status != StatusHealthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

// LivenessHandler serves /health/live. It only reports that the process runs.
func (h *HealthChecker) LivenessHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.response(StatusHealthy))
}

func (h *HealthChecker) response(status string) *Response {
	return &Response{
		Status:    status,
		Service:   h.config.ServiceName,
		Version:   h.config.ServiceVersion,
		Timestamp: time.Now(),
		Uptime:    time.Since(h.startedAt).Truncate(time.Second).String(),
	}
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
