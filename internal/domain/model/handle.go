package model

import (
	"fmt"
	"strings"

	"github.com/bluesky-social/indigo/atproto/syntax"

	domainerror "github.com/0xsj/overwatch-follows/internal/domain/error"
)

// ProfileBaseURL is where account profiles are linked to from rendered pages.
const ProfileBaseURL = "https://bsky.app/profile/"

// Handle is a human-readable account identifier, e.g. "name.example".
type Handle string

// ParseHandle validates and normalizes a handle.
// A leading "@" is accepted and stripped; the result is lower-cased.
func ParseHandle(raw string) (Handle, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "@")
	if raw == "" {
		return "", domainerror.ErrHandleRequired
	}

	h, err := syntax.ParseHandle(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domainerror.ErrHandleInvalid, err)
	}

	return Handle(h.Normalize().String()), nil
}

func (h Handle) String() string {
	return string(h)
}

func (h Handle) IsEmpty() bool {
	return h == ""
}

// ProfileURL returns the public profile page for the handle.
func (h Handle) ProfileURL() string {
	return ProfileBaseURL + string(h)
}

// DID is a decentralized identifier, e.g. "did:plc:abc123".
type DID string

// ParseDID validates a DID string returned by a remote service.
func ParseDID(raw string) (DID, error) {
	d, err := syntax.ParseDID(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return DID(d.String()), nil
}

func (d DID) String() string {
	return string(d)
}

func (d DID) IsEmpty() bool {
	return d == ""
}
