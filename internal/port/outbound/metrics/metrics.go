package metrics

import (
	"time"

	"github.com/0xsj/overwatch-follows/internal/domain/model"
)

// LookupMetrics records lookup outcomes.
type LookupMetrics interface {
	// ObserveLookup records one finished lookup. step is empty on success.
	ObserveLookup(outcome model.LookupOutcome, step string, duration time.Duration, followCount int)
}
