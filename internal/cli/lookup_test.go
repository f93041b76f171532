package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appquery "github.com/0xsj/overwatch-follows/internal/app/query"
	domainerror "github.com/0xsj/overwatch-follows/internal/domain/error"
	"github.com/0xsj/overwatch-follows/internal/domain/model"
	"github.com/0xsj/overwatch-follows/tests/testutil"
	"github.com/0xsj/overwatch-follows/tests/testutil/mocks"
)

type pipeline struct {
	auth      *mocks.SessionAuthenticator
	resolver  *mocks.HandleResolver
	directory *mocks.DIDDirectory
	fetcher   *mocks.FollowsFetcher
}

const (
	testHandle model.Handle = "coilysiren.me"
	testDID    model.DID    = "did:plc:abc123"
)

func newPipeline(follows []model.FollowerRecord) *pipeline {
	p := &pipeline{
		auth:      mocks.NewSessionAuthenticator(testutil.Fixtures.Session()),
		resolver:  mocks.NewHandleResolver(),
		directory: mocks.NewDIDDirectory(),
		fetcher:   mocks.NewFollowsFetcher(follows),
	}
	p.resolver.Set(testHandle, testDID)
	p.directory.Set(testDID, testutil.Fixtures.DIDDocument(testDID, "https://pds.example"))
	return p
}

func (p *pipeline) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewLookupCommand(appquery.NewLookupFollowsHandler(p.auth, p.resolver, p.directory, p.fetcher))

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

var follows = []model.FollowerRecord{
	{DID: "did:plc:f1", Handle: "alice.example", DisplayName: "Alice", Avatar: "https://cdn.example/a.jpg"},
	{DID: "did:plc:f2", Handle: "bob.example", DisplayName: "Bob"},
}

func TestLookup_Table(t *testing.T) {
	p := newPipeline(follows)

	out, err := p.run(t, "@CoilySiren.me")
	require.NoError(t, err)

	assert.Contains(t, out, "@coilysiren.me (did:plc:abc123) follows 2 accounts via https://pds.example")
	assert.Contains(t, out, "https://bsky.app/profile/alice.example")
	assert.Contains(t, out, "@bob.example")
	assert.Less(t, bytes.Index([]byte(out), []byte("alice")), bytes.Index([]byte(out), []byte("bob")))

	req, ok := p.fetcher.LastRequest()
	require.True(t, ok)
	assert.Equal(t, 10, req.Limit)
	assert.Equal(t, testDID, req.Actor)
}

func TestLookup_Empty(t *testing.T) {
	p := newPipeline(nil)

	out, err := p.run(t, "coilysiren.me")
	require.NoError(t, err)

	assert.Contains(t, out, "follows 0 accounts")
	assert.Contains(t, out, "Not following anyone yet.")
}

func TestLookup_JSON(t *testing.T) {
	p := newPipeline(follows)

	out, err := p.run(t, "coilysiren.me", "--json", "-n", "5")
	require.NoError(t, err)

	var doc lookupJSON
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "coilysiren.me", doc.Handle)
	assert.Equal(t, "did:plc:abc123", doc.DID)
	assert.Equal(t, "https://pds.example", doc.PDSEndpoint)
	require.Len(t, doc.Follows, 2)
	assert.Equal(t, "Alice", doc.Follows[0].DisplayName)
	assert.Empty(t, doc.Follows[1].Avatar)

	req, _ := p.fetcher.LastRequest()
	assert.Equal(t, 5, req.Limit)
}

func TestLookup_Errors(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(p *pipeline)
		handle   string
		wantErr  error
		wantStep string
	}{
		{
			name: "authentication",
			setup: func(p *pipeline) {
				p.auth.Errors.CreateSession = fmt.Errorf("%w: 401", domainerror.ErrAuthenticationFailed)
			},
			handle:   "coilysiren.me",
			wantErr:  domainerror.ErrAuthenticationFailed,
			wantStep: "authenticate",
		},
		{
			name:     "resolution",
			setup:    func(p *pipeline) { p.resolver.Errors.ResolveHandle = domainerror.ErrHandleResolutionFailed },
			handle:   "coilysiren.me",
			wantErr:  domainerror.ErrHandleResolutionFailed,
			wantStep: "resolve_handle",
		},
		{
			name:     "endpoint discovery",
			setup:    func(p *pipeline) { p.directory.Set(testDID, &model.DIDDocument{ID: testDID.String()}) },
			handle:   "coilysiren.me",
			wantErr:  domainerror.ErrPDSEndpointNotFound,
			wantStep: "discover_pds",
		},
		{
			name:     "fetch",
			setup:    func(p *pipeline) { p.fetcher.Errors.GetFollows = domainerror.ErrFollowsFetchFailed },
			handle:   "coilysiren.me",
			wantErr:  domainerror.ErrFollowsFetchFailed,
			wantStep: "fetch_follows",
		},
		{
			name:     "invalid handle",
			setup:    func(*pipeline) {},
			handle:   "not a handle",
			wantErr:  domainerror.ErrHandleInvalid,
			wantStep: "validate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPipeline(follows)
			tt.setup(p)

			out, err := p.run(t, tt.handle)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), "lookup failed at "+tt.wantStep)
			assert.Empty(t, out)
		})
	}
}

func TestLookup_RequiresHandle(t *testing.T) {
	p := newPipeline(follows)

	_, err := p.run(t)

	require.Error(t, err)
	assert.Zero(t, p.auth.Calls.CreateSession)
}
