package atproto

import (
	"context"
	"fmt"
	"net/http"

	appbsky "github.com/bluesky-social/indigo/api/bsky"
	"github.com/bluesky-social/indigo/xrpc"

	domainerror "github.com/0xsj/overwatch-follows/internal/domain/error"
	"github.com/0xsj/overwatch-follows/internal/domain/model"
	"github.com/0xsj/overwatch-follows/internal/port/outbound/atproto"
)

var _ atproto.FollowsFetcher = (*FollowsFetcher)(nil)

// FollowsFetcher calls app.bsky.graph.getFollows on the actor's PDS.
type FollowsFetcher struct {
	httpClient *http.Client
	userAgent  string
}

// NewFollowsFetcher creates a new FollowsFetcher.
func NewFollowsFetcher(cfg Config, httpClient *http.Client) *FollowsFetcher {
	return &FollowsFetcher{
		httpClient: httpClient,
		userAgent:  cfg.UserAgent,
	}
}

func (f *FollowsFetcher) GetFollows(
	ctx context.Context,
	pdsEndpoint string,
	actor model.DID,
	limit int,
	session *model.SessionCredential,
) ([]model.FollowerRecord, error) {
	if session == nil {
		return nil, fmt.Errorf("%w: no session", domainerror.ErrFollowsFetchFailed)
	}

	client := newXRPCClient(pdsEndpoint, f.httpClient, f.userAgent)
	client.Auth = &xrpc.AuthInfo{
		AccessJwt: session.AccessJwt(),
		Did:       session.DID(),
		Handle:    session.Handle(),
	}

	out, err := appbsky.GraphGetFollows(ctx, client, actor.String(), "", int64(limit))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domainerror.ErrFollowsFetchFailed, describe(err))
	}

	return toFollowerRecords(out.Follows), nil
}
