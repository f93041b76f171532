package http

import (
	"github.com/0xsj/overwatch-follows/internal/port/inbound/query"
	"github.com/0xsj/overwatch-follows/internal/port/outbound/repository"
)

// PageContent is the static part of the rendered page.
type PageContent struct {
	Title         string
	ProfileHandle string
	Intro         string
	Limit         int
}

// HandlerConfig holds the dependencies of the HTTP handlers.
type HandlerConfig struct {
	LookupFollowsHandler query.LookupFollowsHandler
	// LookupRepo is optional; without it the recent lookups route reports 404.
	LookupRepo repository.LookupRepository
	Page       PageContent
}

// Handler serves the follows page and the JSON API.
type Handler struct {
	lookupFollows query.LookupFollowsHandler
	lookupRepo    repository.LookupRepository
	page          PageContent
}

// NewHandler creates a new Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		lookupFollows: cfg.LookupFollowsHandler,
		lookupRepo:    cfg.LookupRepo,
		page:          cfg.Page,
	}
}
