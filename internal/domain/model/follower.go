package model

// FollowerRecord is one entry of an account's follows list.
// Records are passed through as the remote service returns them.
type FollowerRecord struct {
	DID         string `json:"did"`
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar"`
	Description string `json:"description"`
}

// ProfileURL returns the public profile page for the record's handle.
func (r FollowerRecord) ProfileURL() string {
	return ProfileBaseURL + r.Handle
}
