package model

import (
	"time"

	"github.com/0xsj/overwatch-pkg/types"

	domainerror "github.com/0xsj/overwatch-follows/internal/domain/error"
)

// LookupOutcome is the result of a follows lookup.
type LookupOutcome string

const (
	LookupOutcomeSucceeded LookupOutcome = "succeeded"
	LookupOutcomeFailed    LookupOutcome = "failed"
)

func (o LookupOutcome) String() string {
	return string(o)
}

func (o LookupOutcome) IsValid() bool {
	switch o {
	case LookupOutcomeSucceeded, LookupOutcomeFailed:
		return true
	default:
		return false
	}
}

// Lookup is an observation of one pipeline run. It is written to the audit
// log and published as an event; nothing reads it back into the pipeline.
type Lookup struct {
	id          types.ID
	handle      Handle
	did         DID
	pdsEndpoint string
	followCount int
	outcome     LookupOutcome
	failedStep  string
	errMessage  string
	duration    time.Duration
	occurredAt  types.Timestamp
}

// NewSucceededLookup records a lookup that returned follows.
func NewSucceededLookup(handle Handle, did DID, pdsEndpoint string, followCount int, duration time.Duration) (*Lookup, error) {
	if handle.IsEmpty() {
		return nil, domainerror.ErrHandleRequired
	}

	return &Lookup{
		id:          types.NewID(),
		handle:      handle,
		did:         did,
		pdsEndpoint: pdsEndpoint,
		followCount: followCount,
		outcome:     LookupOutcomeSucceeded,
		duration:    duration,
		occurredAt:  types.Now(),
	}, nil
}

// NewFailedLookup records a lookup that aborted. handle may be empty when
// validation was the step that failed.
func NewFailedLookup(handle Handle, cause error, duration time.Duration) *Lookup {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}

	return &Lookup{
		id:         types.NewID(),
		handle:     handle,
		outcome:    LookupOutcomeFailed,
		failedStep: domainerror.Step(cause),
		errMessage: msg,
		duration:   duration,
		occurredAt: types.Now(),
	}
}

// ReconstructLookup creates a Lookup from persisted data.
func ReconstructLookup(
	id types.ID,
	handle Handle,
	did DID,
	pdsEndpoint string,
	followCount int,
	outcome LookupOutcome,
	failedStep string,
	errMessage string,
	duration time.Duration,
	occurredAt types.Timestamp,
) *Lookup {
	return &Lookup{
		id:          id,
		handle:      handle,
		did:         did,
		pdsEndpoint: pdsEndpoint,
		followCount: followCount,
		outcome:     outcome,
		failedStep:  failedStep,
		errMessage:  errMessage,
		duration:    duration,
		occurredAt:  occurredAt,
	}
}

// Getters

func (l *Lookup) ID() types.ID                { return l.id }
func (l *Lookup) Handle() Handle              { return l.handle }
func (l *Lookup) DID() DID                    { return l.did }
func (l *Lookup) PDSEndpoint() string         { return l.pdsEndpoint }
func (l *Lookup) FollowCount() int            { return l.followCount }
func (l *Lookup) Outcome() LookupOutcome      { return l.outcome }
func (l *Lookup) FailedStep() string          { return l.failedStep }
func (l *Lookup) ErrorMessage() string        { return l.errMessage }
func (l *Lookup) Duration() time.Duration     { return l.duration }
func (l *Lookup) OccurredAt() types.Timestamp { return l.occurredAt }

// Queries

func (l *Lookup) Succeeded() bool {
	return l.outcome == LookupOutcomeSucceeded
}
