package query

import (
	"context"

	"github.com/0xsj/overwatch-follows/internal/domain/model"
)

// DefaultFollowsLimit is used when a lookup does not ask for a limit.
const DefaultFollowsLimit = 10

// MaxFollowsLimit is the largest page getFollows accepts.
const MaxFollowsLimit = 100

// LookupFollows retrieves the accounts a handle follows.
type LookupFollows struct {
	Handle string
	Limit  int
}

func (q LookupFollows) QueryName() string {
	return "follows.lookup"
}

// EffectiveLimit returns the limit sent to the remote service.
func (q LookupFollows) EffectiveLimit() int {
	switch {
	case q.Limit <= 0:
		return DefaultFollowsLimit
	case q.Limit > MaxFollowsLimit:
		return MaxFollowsLimit
	default:
		return q.Limit
	}
}

// LookupFollowsResult contains the resolved identity and its follows, in the
// order the remote service returned them.
type LookupFollowsResult struct {
	Handle      model.Handle
	DID         model.DID
	PDSEndpoint string
	Follows     []model.FollowerRecord
}

// LookupFollowsHandler handles the LookupFollows query.
type LookupFollowsHandler interface {
	Handle(ctx context.Context, qry LookupFollows) (LookupFollowsResult, error)
}
