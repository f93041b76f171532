package model

import (
	domainerror "github.com/0xsj/overwatch-follows/internal/domain/error"
)

// SessionCredential is the access token obtained by logging in with the
// service account. It lives for one lookup and is never refreshed or stored.
type SessionCredential struct {
	did       string
	handle    string
	accessJwt string
}

// NewSessionCredential creates a SessionCredential.
func NewSessionCredential(did, handle, accessJwt string) (*SessionCredential, error) {
	if accessJwt == "" {
		return nil, domainerror.ErrAuthenticationFailed
	}
	return &SessionCredential{
		did:       did,
		handle:    handle,
		accessJwt: accessJwt,
	}, nil
}

// Getters

func (s *SessionCredential) DID() string       { return s.did }
func (s *SessionCredential) Handle() string    { return s.handle }
func (s *SessionCredential) AccessJwt() string { return s.accessJwt }
