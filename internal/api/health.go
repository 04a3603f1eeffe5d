package api

import (
	"context"
	"sync"
	"time"
)

// SystemStatus represents the overall health state of the service or a
// component.
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusDegraded SystemStatus = "degraded"
	StatusCritical SystemStatus = "critical"
)

// Pinger reports whether one backing component is reachable.
type Pinger interface {
	Health(ctx context.Context) error
}

// Component is one monitored dependency. A failing critical component makes
// the whole service critical; a failing optional one only degrades it.
type Component struct {
	Name     string
	Critical bool
	Pinger   Pinger
}

// ComponentHealth is the reported state of one component.
type ComponentHealth struct {
	Name   string       `json:"name"`
	Status SystemStatus `json:"status"`
	Error  string       `json:"error,omitempty"`
}

// Monitor aggregates health status from the service's backing components.
type Monitor struct {
	components []Component
	lastCheck  time.Time
	lastReport []ComponentHealth
	mu         sync.Mutex
}

// NewMonitor creates a new health monitor.
func NewMonitor(components ...Component) *Monitor {
	return &Monitor{components: components}
}

// CheckHealth pings every component. Results are cached briefly so probe
// traffic cannot hammer the backends.
func (m *Monitor) CheckHealth(ctx context.Context) []ComponentHealth {
	m.mu.Lock()
	defer m.mu.Unlock()

	if time.Since(m.lastCheck) < 10*time.Second && m.lastReport != nil {
		return m.lastReport
	}

	report := make([]ComponentHealth, 0, len(m.components))
	for _, c := range m.components {
		health := ComponentHealth{Name: c.Name, Status: StatusHealthy}
		if err := c.Pinger.Health(ctx); err != nil {
			health.Error = err.Error()
			if c.Critical {
				health.Status = StatusCritical
			} else {
				health.Status = StatusDegraded
			}
		}
		report = append(report, health)
	}

	m.lastCheck = time.Now()
	m.lastReport = report
	return report
}

// Aggregate reduces a report to one status; the worst component wins.
func Aggregate(report []ComponentHealth) SystemStatus {
	status := StatusHealthy
	for _, c := range report {
		if c.Status == StatusCritical {
			return StatusCritical
		}
		if c.Status == StatusDegraded {
			status = StatusDegraded
		}
	}
	return status
}
