package atproto

import (
	"context"

	"github.com/0xsj/overwatch-follows/internal/domain/model"
)

// SessionAuthenticator logs the service account in.
// Failures wrap domainerror.ErrAuthenticationFailed.
type SessionAuthenticator interface {
	CreateSession(ctx context.Context) (*model.SessionCredential, error)
}

// HandleResolver resolves a handle to its DID.
// Failures, including a response without a DID, wrap domainerror.ErrHandleResolutionFailed.
type HandleResolver interface {
	ResolveHandle(ctx context.Context, handle model.Handle) (model.DID, error)
}

// DIDDirectory fetches DID documents.
// Failures wrap domainerror.ErrPDSEndpointNotFound.
type DIDDirectory interface {
	GetDocument(ctx context.Context, did model.DID) (*model.DIDDocument, error)
}

// FollowsFetcher lists the accounts an actor follows from the actor's PDS.
// Failures wrap domainerror.ErrFollowsFetchFailed.
type FollowsFetcher interface {
	GetFollows(ctx context.Context, pdsEndpoint string, actor model.DID, limit int, session *model.SessionCredential) ([]model.FollowerRecord, error)
}
