package error

import (
	stderrors "errors"
	"fmt"

	"github.com/0xsj/overwatch-pkg/errors"
)

// Domain error codes
const (
	// Input errors
	CodeHandleRequired errors.Code = "HANDLE_REQUIRED"
	CodeHandleInvalid  errors.Code = "HANDLE_INVALID"

	// Lookup pipeline errors, one per step
	CodeAuthenticationFailed   errors.Code = "AUTHENTICATION_FAILED"
	CodeHandleResolutionFailed errors.Code = "HANDLE_RESOLUTION_FAILED"
	CodePDSEndpointNotFound    errors.Code = "PDS_ENDPOINT_NOT_FOUND"
	CodeFollowsFetchFailed     errors.Code = "FOLLOWS_FETCH_FAILED"

	// Edge errors
	CodeRateLimited errors.Code = "RATE_LIMITED"
)

// Input errors
var (
	ErrHandleRequired = errors.New(errors.KindValidation, CodeHandleRequired, "handle is required")

	ErrHandleInvalid = errors.New(errors.KindValidation, CodeHandleInvalid, "handle is not a valid atproto handle")
)

// Lookup pipeline errors
var (
	ErrAuthenticationFailed = errors.New(errors.KindUnauthorized, CodeAuthenticationFailed, "service account authentication failed")

	ErrHandleResolutionFailed = errors.New(errors.KindNotFound, CodeHandleResolutionFailed, "failed to resolve handle to DID")

	ErrPDSEndpointNotFound = errors.New(errors.KindNotFound, CodePDSEndpointNotFound, "failed to determine PDS endpoint")

	ErrFollowsFetchFailed = errors.New(errors.KindDomain, CodeFollowsFetchFailed, "failed to fetch follows")
)

// Edge errors
var (
	ErrRateLimited = errors.New(errors.KindForbidden, CodeRateLimited, "rate limit exceeded")
)

// Step names the pipeline step an error belongs to. Returns "unknown" for
// errors that did not come out of the lookup pipeline.
func Step(err error) string {
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, ErrHandleRequired), stderrors.Is(err, ErrHandleInvalid):
		return "validate"
	case stderrors.Is(err, ErrAuthenticationFailed):
		return "authenticate"
	case stderrors.Is(err, ErrHandleResolutionFailed):
		return "resolve_handle"
	case stderrors.Is(err, ErrPDSEndpointNotFound):
		return "discover_pds"
	case stderrors.Is(err, ErrFollowsFetchFailed):
		return "fetch_follows"
	default:
		return "unknown"
	}
}

// Helper functions

// PDSEndpointNotFound reports a DID document without a usable PDS service.
func PDSEndpointNotFound(did string) error {
	return fmt.Errorf("%w: no AtprotoPersonalDataServer service for %s", ErrPDSEndpointNotFound, did)
}
