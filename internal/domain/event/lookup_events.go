package event

import (
	"github.com/0xsj/overwatch-follows/internal/domain/model"
)

// LookupSucceeded is emitted when a follows lookup returns.
type LookupSucceeded struct {
	BaseEvent
	Handle      string `json:"handle"`
	DID         string `json:"did"`
	PDSEndpoint string `json:"pds_endpoint"`
	FollowCount int    `json:"follow_count"`
	DurationMS  int64  `json:"duration_ms"`
}

// NewLookupSucceeded creates a LookupSucceeded event from a recorded lookup.
func NewLookupSucceeded(l *model.Lookup) LookupSucceeded {
	return LookupSucceeded{
		BaseEvent:   NewBaseEvent(EventTypeLookupSucceeded, l.ID(), AggregateTypeLookup),
		Handle:      l.Handle().String(),
		DID:         l.DID().String(),
		PDSEndpoint: l.PDSEndpoint(),
		FollowCount: l.FollowCount(),
		DurationMS:  l.Duration().Milliseconds(),
	}
}

// LookupFailed is emitted when a follows lookup aborts.
type LookupFailed struct {
	BaseEvent
	Handle     string `json:"handle"`
	FailedStep string `json:"failed_step"`
	Error      string `json:"error"`
	DurationMS int64  `json:"duration_ms"`
}

// NewLookupFailed creates a LookupFailed event from a recorded lookup.
func NewLookupFailed(l *model.Lookup) LookupFailed {
	return LookupFailed{
		BaseEvent:  NewBaseEvent(EventTypeLookupFailed, l.ID(), AggregateTypeLookup),
		Handle:     l.Handle().String(),
		FailedStep: l.FailedStep(),
		Error:      l.ErrorMessage(),
		DurationMS: l.Duration().Milliseconds(),
	}
}

// FromLookup returns the event matching the lookup's outcome.
func FromLookup(l *model.Lookup) Event {
	if l.Succeeded() {
		return NewLookupSucceeded(l)
	}
	return NewLookupFailed(l)
}
