package atproto

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/bluesky-social/indigo/atproto/identity"
	"github.com/bluesky-social/indigo/atproto/syntax"

	domainerror "github.com/0xsj/overwatch-follows/internal/domain/error"
	"github.com/0xsj/overwatch-follows/internal/domain/model"
	"github.com/0xsj/overwatch-follows/internal/port/outbound/atproto"
)

var _ atproto.DIDDirectory = (*PLCDirectory)(nil)

// PLCDirectory fetches DID documents from the configured PLC directory.
// It resolves documents only; handles and caching stay out of it.
type PLCDirectory struct {
	dir *identity.BaseDirectory
}

// NewPLCDirectory creates a new PLCDirectory.
// httpClient may be nil.
func NewPLCDirectory(cfg Config, httpClient *http.Client) *PLCDirectory {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &PLCDirectory{
		dir: &identity.BaseDirectory{
			PLCURL:     strings.TrimRight(cfg.DirectoryURL, "/"),
			HTTPClient: *httpClient,
			UserAgent:  cfg.UserAgent,
		},
	}
}

func (d *PLCDirectory) GetDocument(ctx context.Context, did model.DID) (*model.DIDDocument, error) {
	parsed, err := syntax.ParseDID(did.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domainerror.ErrPDSEndpointNotFound, err)
	}

	doc, err := d.dir.ResolveDID(ctx, parsed)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve DID document for %s: %w", domainerror.ErrPDSEndpointNotFound, did, err)
	}

	return toDIDDocument(doc), nil
}
