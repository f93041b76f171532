package service

import (
	"context"
	"time"

	"github.com/0xsj/overwatch-follows/internal/domain/event"
	"github.com/0xsj/overwatch-follows/internal/domain/model"
	"github.com/0xsj/overwatch-follows/internal/port/inbound/query"
	"github.com/0xsj/overwatch-follows/internal/port/outbound/messaging"
	"github.com/0xsj/overwatch-follows/internal/port/outbound/metrics"
	"github.com/0xsj/overwatch-follows/internal/port/outbound/repository"
)

// Logger is the logging surface the recorder needs.
type Logger interface {
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
}

// DefaultSinkTimeout bounds each audit write and event publish when
// RecorderConfig.SinkTimeout is not set.
const DefaultSinkTimeout = 5 * time.Second

// RecorderConfig holds the optional sinks a lookup is reported to.
// Any of them may be nil.
type RecorderConfig struct {
	LookupRepo repository.LookupRepository
	Publisher  messaging.EventPublisher
	Metrics    metrics.LookupMetrics
	Logger     Logger
	// SinkTimeout bounds each sink call. Zero means DefaultSinkTimeout.
	SinkTimeout time.Duration
}

// recordingLookupHandler wraps a LookupFollowsHandler and reports every
// lookup to the audit log, the event stream and metrics. Reporting never
// changes the lookup's result.
type recordingLookupHandler struct {
	next       query.LookupFollowsHandler
	lookupRepo repository.LookupRepository
	publisher  messaging.EventPublisher
	metrics    metrics.LookupMetrics
	logger     Logger
	timeout    time.Duration
}

// NewRecordingLookupHandler creates a LookupFollowsHandler that reports lookups run by next.
func NewRecordingLookupHandler(next query.LookupFollowsHandler, cfg RecorderConfig) query.LookupFollowsHandler {
	timeout := cfg.SinkTimeout
	if timeout <= 0 {
		timeout = DefaultSinkTimeout
	}
	return &recordingLookupHandler{
		next:       next,
		lookupRepo: cfg.LookupRepo,
		publisher:  cfg.Publisher,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
		timeout:    timeout,
	}
}

func (h *recordingLookupHandler) Handle(ctx context.Context, qry query.LookupFollows) (query.LookupFollowsResult, error) {
	start := time.Now()
	result, err := h.next.Handle(ctx, qry)
	elapsed := time.Since(start)

	h.record(context.WithoutCancel(ctx), newLookup(qry, result, err, elapsed))

	return result, err
}

func newLookup(qry query.LookupFollows, result query.LookupFollowsResult, err error, elapsed time.Duration) *model.Lookup {
	if err == nil {
		lookup, buildErr := model.NewSucceededLookup(result.Handle, result.DID, result.PDSEndpoint, len(result.Follows), elapsed)
		if buildErr == nil {
			return lookup
		}
		err = buildErr
	}

	// Validation may have been what failed, so keep whatever handle parses.
	handle, _ := model.ParseHandle(qry.Handle)
	return model.NewFailedLookup(handle, err, elapsed)
}

func (h *recordingLookupHandler) record(ctx context.Context, lookup *model.Lookup) {
	if h.metrics != nil {
		h.metrics.ObserveLookup(lookup.Outcome(), lookup.FailedStep(), lookup.Duration(), lookup.FollowCount())
	}

	if h.lookupRepo != nil {
		sinkCtx, cancel := context.WithTimeout(ctx, h.timeout)
		err := h.lookupRepo.Create(sinkCtx, lookup)
		cancel()
		if err != nil {
			h.warn("failed to append lookup to audit log", "lookup_id", lookup.ID().String(), "error", err.Error())
		}
	}

	if h.publisher != nil {
		sinkCtx, cancel := context.WithTimeout(ctx, h.timeout)
		err := h.publisher.Publish(sinkCtx, event.FromLookup(lookup))
		cancel()
		if err != nil {
			h.warn("failed to publish lookup event", "lookup_id", lookup.ID().String(), "error", err.Error())
		}
	}

	if h.logger == nil {
		return
	}
	if lookup.Succeeded() {
		h.logger.Info("follows lookup succeeded",
			"handle", lookup.Handle().String(),
			"did", lookup.DID().String(),
			"pds", lookup.PDSEndpoint(),
			"follows", lookup.FollowCount(),
			"duration", lookup.Duration().String(),
		)
		return
	}
	h.logger.Warn("follows lookup failed",
		"handle", lookup.Handle().String(),
		"step", lookup.FailedStep(),
		"error", lookup.ErrorMessage(),
		"duration", lookup.Duration().String(),
	)
}

func (h *recordingLookupHandler) warn(msg string, keysAndValues ...any) {
	if h.logger != nil {
		h.logger.Warn(msg, keysAndValues...)
	}
}
