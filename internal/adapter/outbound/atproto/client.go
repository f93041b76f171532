package atproto

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bluesky-social/indigo/xrpc"
)

// Default endpoints of the public network.
const (
	DefaultServiceURL   = "https://bsky.social"
	DefaultDirectoryURL = "https://plc.directory"
)

// Config holds configuration for the atproto adapters.
type Config struct {
	// ServiceURL is the entryway used for login and handle resolution.
	ServiceURL string
	// DirectoryURL is the PLC directory DID documents are fetched from.
	DirectoryURL string
	// Identifier and Password are the service account credentials.
	// An empty password is sent as is.
	Identifier string
	Password   string
	// Timeout bounds every outbound request. Zero disables it.
	Timeout   time.Duration
	UserAgent string
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.ServiceURL == "" {
		return fmt.Errorf("service URL is required")
	}
	if c.DirectoryURL == "" {
		return fmt.Errorf("directory URL is required")
	}
	if c.Identifier == "" {
		return fmt.Errorf("service account identifier is required")
	}
	return nil
}

// Client bundles the adapters for the four lookup steps. It holds no
// per-lookup state and is safe for concurrent use.
type Client struct {
	*SessionAuthenticator
	*HandleResolver
	*PLCDirectory
	*FollowsFetcher
}

// NewClient creates all atproto adapters sharing one http.Client.
// httpClient may be nil.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid atproto config: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		SessionAuthenticator: NewSessionAuthenticator(cfg, httpClient),
		HandleResolver:       NewHandleResolver(cfg, httpClient),
		PLCDirectory:         NewPLCDirectory(cfg, httpClient),
		FollowsFetcher:       NewFollowsFetcher(cfg, httpClient),
	}, nil
}

func newXRPCClient(host string, httpClient *http.Client, userAgent string) *xrpc.Client {
	c := &xrpc.Client{
		Client: httpClient,
		Host:   strings.TrimRight(host, "/"),
	}
	if userAgent != "" {
		ua := userAgent
		c.UserAgent = &ua
	}
	return c
}

// describe renders an xrpc failure with its HTTP status when there is one.
func describe(err error) string {
	var xerr *xrpc.Error
	if errors.As(err, &xerr) {
		return fmt.Sprintf("status %d: %v", xerr.StatusCode, xerr.Wrapped)
	}
	return err.Error()
}
