package mocks

import (
	"sync"
	"time"

	"github.com/0xsj/overwatch-follows/internal/domain/model"
)

// Observation is one recorded ObserveLookup call.
type Observation struct {
	Outcome     model.LookupOutcome
	Step        string
	Duration    time.Duration
	FollowCount int
}

// LookupMetrics is a mock implementation of metrics.LookupMetrics.
type LookupMetrics struct {
	mu           sync.Mutex
	observations []Observation
}

// NewLookupMetrics creates a new mock LookupMetrics.
func NewLookupMetrics() *LookupMetrics {
	return &LookupMetrics{}
}

func (m *LookupMetrics) ObserveLookup(outcome model.LookupOutcome, step string, duration time.Duration, followCount int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observations = append(m.observations, Observation{
		Outcome:     outcome,
		Step:        step,
		Duration:    duration,
		FollowCount: followCount,
	})
}

// Observations returns all recorded observations.
func (m *LookupMetrics) Observations() []Observation {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]Observation, len(m.observations))
	copy(result, m.observations)
	return result
}
