package query

import (
	"context"

	domainerror "github.com/0xsj/overwatch-follows/internal/domain/error"
	"github.com/0xsj/overwatch-follows/internal/domain/model"
	"github.com/0xsj/overwatch-follows/internal/port/inbound/query"
	"github.com/0xsj/overwatch-follows/internal/port/outbound/atproto"
)

var _ query.Handler[query.LookupFollows, query.LookupFollowsResult] = (*lookupFollowsHandler)(nil)

// lookupFollowsHandler implements query.LookupFollowsHandler.
//
// Each call runs four dependent steps in order: log in, resolve the handle,
// locate the PDS from the DID document, fetch follows from the PDS. The first
// failing step aborts the lookup; nothing is retried or reused between calls.
type lookupFollowsHandler struct {
	authenticator atproto.SessionAuthenticator
	resolver      atproto.HandleResolver
	directory     atproto.DIDDirectory
	fetcher       atproto.FollowsFetcher
}

// NewLookupFollowsHandler creates a new LookupFollowsHandler.
func NewLookupFollowsHandler(
	authenticator atproto.SessionAuthenticator,
	resolver atproto.HandleResolver,
	directory atproto.DIDDirectory,
	fetcher atproto.FollowsFetcher,
) query.LookupFollowsHandler {
	return &lookupFollowsHandler{
		authenticator: authenticator,
		resolver:      resolver,
		directory:     directory,
		fetcher:       fetcher,
	}
}

func (h *lookupFollowsHandler) Handle(ctx context.Context, qry query.LookupFollows) (query.LookupFollowsResult, error) {
	handle, err := model.ParseHandle(qry.Handle)
	if err != nil {
		return query.LookupFollowsResult{}, err
	}

	// 1. Log in with the service account
	session, err := h.authenticator.CreateSession(ctx)
	if err != nil {
		return query.LookupFollowsResult{}, err
	}

	// 2. Resolve handle to DID
	did, err := h.resolver.ResolveHandle(ctx, handle)
	if err != nil {
		return query.LookupFollowsResult{}, err
	}

	// 3. Fetch the DID document to find the account's PDS
	doc, err := h.directory.GetDocument(ctx, did)
	if err != nil {
		return query.LookupFollowsResult{}, err
	}
	pdsEndpoint, ok := doc.PDSEndpoint()
	if !ok {
		return query.LookupFollowsResult{}, domainerror.PDSEndpointNotFound(did.String())
	}

	// 4. Fetch follows from the PDS
	follows, err := h.fetcher.GetFollows(ctx, pdsEndpoint, did, qry.EffectiveLimit(), session)
	if err != nil {
		return query.LookupFollowsResult{}, err
	}
	if follows == nil {
		follows = []model.FollowerRecord{}
	}

	return query.LookupFollowsResult{
		Handle:      handle,
		DID:         did,
		PDSEndpoint: pdsEndpoint,
		Follows:     follows,
	}, nil
}
