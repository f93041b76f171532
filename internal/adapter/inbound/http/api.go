package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domainerror "github.com/0xsj/overwatch-follows/internal/domain/error"
	"github.com/0xsj/overwatch-follows/internal/domain/model"
	"github.com/0xsj/overwatch-follows/internal/port/inbound/query"
)

// basicResponse is the body of every failed API call.
type basicResponse struct {
	Ok    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Step  string `json:"step,omitempty"`
}

type followsResponse struct {
	Ok          bool                   `json:"ok"`
	Handle      string                 `json:"handle"`
	DID         string                 `json:"did"`
	PDSEndpoint string                 `json:"pdsEndpoint"`
	Follows     []model.FollowerRecord `json:"follows"`
}

type lookupResponse struct {
	ID          string `json:"id"`
	Handle      string `json:"handle"`
	DID         string `json:"did,omitempty"`
	FollowCount int    `json:"followCount"`
	Outcome     string `json:"outcome"`
	FailedStep  string `json:"failedStep,omitempty"`
	DurationMS  int64  `json:"durationMs"`
	OccurredAt  string `json:"occurredAt"`
}

func (h *Handler) apiGetFollows(c *gin.Context) {
	limit := h.page.Limit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, basicResponse{Ok: false, Error: errInvalidLimit.Error()})
			return
		}
		limit = n
	}

	result, err := h.lookupFollows.Handle(c.Request.Context(), query.LookupFollows{
		Handle: c.Param("handle"),
		Limit:  limit,
	})
	if err != nil {
		c.Error(err)
		c.JSON(statusForError(err), basicResponse{Ok: false, Error: publicMessage(err), Step: domainerror.Step(err)})
		return
	}

	c.JSON(http.StatusOK, followsResponse{
		Ok:          true,
		Handle:      result.Handle.String(),
		DID:         result.DID.String(),
		PDSEndpoint: result.PDSEndpoint,
		Follows:     result.Follows,
	})
}

func (h *Handler) apiListLookups(c *gin.Context) {
	if h.lookupRepo == nil {
		c.JSON(http.StatusNotFound, basicResponse{Ok: false, Error: errAuditDisabled.Error()})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 100 {
			c.JSON(http.StatusBadRequest, basicResponse{Ok: false, Error: errInvalidLimit.Error()})
			return
		}
		limit = n
	}

	lookups, err := h.lookupRepo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, basicResponse{Ok: false, Error: "internal error"})
		return
	}

	resp := make([]lookupResponse, 0, len(lookups))
	for _, l := range lookups {
		resp = append(resp, lookupResponse{
			ID:          l.ID().String(),
			Handle:      l.Handle().String(),
			DID:         l.DID().String(),
			FollowCount: l.FollowCount(),
			Outcome:     l.Outcome().String(),
			FailedStep:  l.FailedStep(),
			DurationMS:  l.Duration().Milliseconds(),
			OccurredAt:  l.OccurredAt().Time().UTC().Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) healthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
