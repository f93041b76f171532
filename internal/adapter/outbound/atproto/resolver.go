package atproto

import (
	"context"
	"fmt"
	"net/http"

	comatproto "github.com/bluesky-social/indigo/api/atproto"

	domainerror "github.com/0xsj/overwatch-follows/internal/domain/error"
	"github.com/0xsj/overwatch-follows/internal/domain/model"
	"github.com/0xsj/overwatch-follows/internal/port/outbound/atproto"
)

var _ atproto.HandleResolver = (*HandleResolver)(nil)

// HandleResolver resolves handles with com.atproto.identity.resolveHandle.
type HandleResolver struct {
	serviceURL string
	httpClient *http.Client
	userAgent  string
}

// NewHandleResolver creates a new HandleResolver.
func NewHandleResolver(cfg Config, httpClient *http.Client) *HandleResolver {
	return &HandleResolver{
		serviceURL: cfg.ServiceURL,
		httpClient: httpClient,
		userAgent:  cfg.UserAgent,
	}
}

func (r *HandleResolver) ResolveHandle(ctx context.Context, handle model.Handle) (model.DID, error) {
	client := newXRPCClient(r.serviceURL, r.httpClient, r.userAgent)

	out, err := comatproto.IdentityResolveHandle(ctx, client, handle.String())
	if err != nil {
		return "", fmt.Errorf("%w: %s: %s", domainerror.ErrHandleResolutionFailed, handle, describe(err))
	}
	if out.Did == "" {
		return "", fmt.Errorf("%w: %s: response has no did", domainerror.ErrHandleResolutionFailed, handle)
	}

	did, err := model.ParseDID(out.Did)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", domainerror.ErrHandleResolutionFailed, handle, err)
	}

	return did, nil
}
