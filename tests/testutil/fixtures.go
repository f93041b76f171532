package testutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/0xsj/overwatch-follows/internal/domain/model"
)

// Fixtures provides builders for domain models in tests.
var Fixtures = &fixtures{}

type fixtures struct{}

// --- Identity ---

// Handle returns a new parsed handle.
func (f *fixtures) Handle() model.Handle {
	h, err := model.ParseHandle(Fake.Handle())
	if err != nil {
		panic("fixtures: failed to create handle: " + err.Error())
	}
	return h
}

// DID returns a new parsed DID.
func (f *fixtures) DID() model.DID {
	did, err := model.ParseDID(Fake.DID())
	if err != nil {
		panic("fixtures: failed to create DID: " + err.Error())
	}
	return did
}

// Session returns a session credential for the service account.
func (f *fixtures) Session() *model.SessionCredential {
	s, err := model.NewSessionCredential(Fake.DID(), "service.example.com", Fake.AccessJwt())
	if err != nil {
		panic("fixtures: failed to create session: " + err.Error())
	}
	return s
}

// DIDDocument returns a document whose only service is a PDS at pdsEndpoint.
func (f *fixtures) DIDDocument(did model.DID, pdsEndpoint string) *model.DIDDocument {
	return &model.DIDDocument{
		ID: did.String(),
		Service: []model.ServiceEndpoint{
			{ID: "#atproto_pds", Type: model.ServiceTypePDS, ServiceEndpoint: pdsEndpoint},
		},
	}
}

// --- Follows ---

// Follower returns a fully populated follower record.
func (f *fixtures) Follower() model.FollowerRecord {
	handle := Fake.Handle()
	return model.FollowerRecord{
		DID:         Fake.DID(),
		Handle:      handle,
		DisplayName: Fake.DisplayName(),
		Avatar:      fmt.Sprintf("https://cdn.example.com/avatar/%s.jpg", handle),
		Description: "Posting about " + handle,
	}
}

// Followers returns n follower records.
func (f *fixtures) Followers(n int) []model.FollowerRecord {
	records := make([]model.FollowerRecord, n)
	for i := range records {
		records[i] = f.Follower()
	}
	return records
}

// --- Lookup ---

// SucceededLookup returns a recorded successful lookup.
func (f *fixtures) SucceededLookup() *model.Lookup {
	l, err := model.NewSucceededLookup(f.Handle(), f.DID(), "https://pds.example.com", 3, 120*time.Millisecond)
	if err != nil {
		panic("fixtures: failed to create lookup: " + err.Error())
	}
	return l
}

// FailedLookup returns a recorded lookup that failed with cause.
func (f *fixtures) FailedLookup(cause error) *model.Lookup {
	if cause == nil {
		cause = errors.New("lookup failed")
	}
	return model.NewFailedLookup(f.Handle(), cause, 80*time.Millisecond)
}
