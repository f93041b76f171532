package mocks

import (
	"context"
	"sync"

	"github.com/0xsj/overwatch-follows/internal/domain/model"
)

// --- SessionAuthenticator Mock ---

// SessionAuthenticator is a mock implementation of atproto.SessionAuthenticator.
type SessionAuthenticator struct {
	mu sync.Mutex

	// Session returned on success
	Session *model.SessionCredential

	// Call tracking
	Calls struct {
		CreateSession int
	}

	// Error injection
	Errors struct {
		CreateSession error
	}
}

// NewSessionAuthenticator creates a mock that returns session.
func NewSessionAuthenticator(session *model.SessionCredential) *SessionAuthenticator {
	return &SessionAuthenticator{Session: session}
}

func (m *SessionAuthenticator) CreateSession(ctx context.Context) (*model.SessionCredential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.CreateSession++

	if m.Errors.CreateSession != nil {
		return nil, m.Errors.CreateSession
	}
	return m.Session, nil
}

// --- HandleResolver Mock ---

// HandleResolver is a mock implementation of atproto.HandleResolver.
type HandleResolver struct {
	mu sync.Mutex

	// Storage
	dids map[model.Handle]model.DID

	// Recorded inputs
	Handles []model.Handle

	Calls struct {
		ResolveHandle int
	}

	Errors struct {
		ResolveHandle error
	}
}

// NewHandleResolver creates a new mock HandleResolver.
func NewHandleResolver() *HandleResolver {
	return &HandleResolver{dids: make(map[model.Handle]model.DID)}
}

// Set registers the DID a handle resolves to.
func (m *HandleResolver) Set(handle model.Handle, did model.DID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dids[handle] = did
}

func (m *HandleResolver) ResolveHandle(ctx context.Context, handle model.Handle) (model.DID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.ResolveHandle++
	m.Handles = append(m.Handles, handle)

	if m.Errors.ResolveHandle != nil {
		return "", m.Errors.ResolveHandle
	}
	return m.dids[handle], nil
}

// --- DIDDirectory Mock ---

// DIDDirectory is a mock implementation of atproto.DIDDirectory.
type DIDDirectory struct {
	mu sync.Mutex

	// Storage
	docs map[model.DID]*model.DIDDocument

	// Recorded inputs
	DIDs []model.DID

	Calls struct {
		GetDocument int
	}

	Errors struct {
		GetDocument error
	}
}

// NewDIDDirectory creates a new mock DIDDirectory.
func NewDIDDirectory() *DIDDirectory {
	return &DIDDirectory{docs: make(map[model.DID]*model.DIDDocument)}
}

// Set registers the document returned for did.
func (m *DIDDirectory) Set(did model.DID, doc *model.DIDDocument) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[did] = doc
}

func (m *DIDDirectory) GetDocument(ctx context.Context, did model.DID) (*model.DIDDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.GetDocument++
	m.DIDs = append(m.DIDs, did)

	if m.Errors.GetDocument != nil {
		return nil, m.Errors.GetDocument
	}
	doc, ok := m.docs[did]
	if !ok {
		return &model.DIDDocument{ID: did.String()}, nil
	}
	return doc, nil
}

// --- FollowsFetcher Mock ---

// GetFollowsCall records the arguments of one GetFollows call.
type GetFollowsCall struct {
	PDSEndpoint string
	Actor       model.DID
	Limit       int
	Session     *model.SessionCredential
}

// FollowsFetcher is a mock implementation of atproto.FollowsFetcher.
type FollowsFetcher struct {
	mu sync.Mutex

	// Follows returned on success
	Follows []model.FollowerRecord

	// Recorded inputs
	Requests []GetFollowsCall

	Calls struct {
		GetFollows int
	}

	Errors struct {
		GetFollows error
	}
}

// NewFollowsFetcher creates a mock that returns follows.
func NewFollowsFetcher(follows []model.FollowerRecord) *FollowsFetcher {
	return &FollowsFetcher{Follows: follows}
}

func (m *FollowsFetcher) GetFollows(
	ctx context.Context,
	pdsEndpoint string,
	actor model.DID,
	limit int,
	session *model.SessionCredential,
) ([]model.FollowerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.GetFollows++
	m.Requests = append(m.Requests, GetFollowsCall{
		PDSEndpoint: pdsEndpoint,
		Actor:       actor,
		Limit:       limit,
		Session:     session,
	})

	if m.Errors.GetFollows != nil {
		return nil, m.Errors.GetFollows
	}
	return m.Follows, nil
}

// LastRequest returns the most recent GetFollows call.
func (m *FollowsFetcher) LastRequest() (GetFollowsCall, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Requests) == 0 {
		return GetFollowsCall{}, false
	}
	return m.Requests[len(m.Requests)-1], true
}
