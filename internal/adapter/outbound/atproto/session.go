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

var _ atproto.SessionAuthenticator = (*SessionAuthenticator)(nil)

// SessionAuthenticator logs in with com.atproto.server.createSession.
type SessionAuthenticator struct {
	serviceURL string
	identifier string
	password   string
	httpClient *http.Client
	userAgent  string
}

// NewSessionAuthenticator creates a new SessionAuthenticator.
func NewSessionAuthenticator(cfg Config, httpClient *http.Client) *SessionAuthenticator {
	return &SessionAuthenticator{
		serviceURL: cfg.ServiceURL,
		identifier: cfg.Identifier,
		password:   cfg.Password,
		httpClient: httpClient,
		userAgent:  cfg.UserAgent,
	}
}

func (a *SessionAuthenticator) CreateSession(ctx context.Context) (*model.SessionCredential, error) {
	client := newXRPCClient(a.serviceURL, a.httpClient, a.userAgent)

	out, err := comatproto.ServerCreateSession(ctx, client, &comatproto.ServerCreateSession_Input{
		Identifier: a.identifier,
		Password:   a.password,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domainerror.ErrAuthenticationFailed, describe(err))
	}

	return model.NewSessionCredential(out.Did, out.Handle, out.AccessJwt)
}
