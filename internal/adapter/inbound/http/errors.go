package http

import (
	"context"
	"errors"
	"net/http"

	domainerror "github.com/0xsj/overwatch-follows/internal/domain/error"
)

// statusForError maps lookup errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domainerror.ErrHandleRequired), errors.Is(err, domainerror.ErrHandleInvalid):
		return http.StatusBadRequest
	case errors.Is(err, domainerror.ErrHandleResolutionFailed):
		return http.StatusNotFound
	case errors.Is(err, domainerror.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domainerror.ErrAuthenticationFailed),
		errors.Is(err, domainerror.ErrPDSEndpointNotFound),
		errors.Is(err, domainerror.ErrFollowsFetchFailed):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is what a visitor sees for an error. Upstream details stay in the logs.
func publicMessage(err error) string {
	switch {
	case errors.Is(err, domainerror.ErrHandleRequired):
		return domainerror.ErrHandleRequired.Error()
	case errors.Is(err, domainerror.ErrHandleInvalid):
		return domainerror.ErrHandleInvalid.Error()
	case errors.Is(err, domainerror.ErrAuthenticationFailed):
		return domainerror.ErrAuthenticationFailed.Error()
	case errors.Is(err, domainerror.ErrHandleResolutionFailed):
		return domainerror.ErrHandleResolutionFailed.Error()
	case errors.Is(err, domainerror.ErrPDSEndpointNotFound):
		return domainerror.ErrPDSEndpointNotFound.Error()
	case errors.Is(err, domainerror.ErrFollowsFetchFailed):
		return domainerror.ErrFollowsFetchFailed.Error()
	case errors.Is(err, domainerror.ErrRateLimited):
		return domainerror.ErrRateLimited.Error()
	default:
		return "internal error"
	}
}

var (
	errInvalidLimit  = errors.New("limit must be a positive integer")
	errAuditDisabled = errors.New("lookup audit log is not enabled")
)
