package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainerror "github.com/0xsj/overwatch-follows/internal/domain/error"
	"github.com/0xsj/overwatch-follows/internal/domain/model"
	"github.com/0xsj/overwatch-follows/internal/port/inbound/query"
)

// pageView is the data the follows template renders.
type pageView struct {
	Title     string
	Handle    model.Handle
	Intro     string
	Follows   []model.FollowerRecord
	Error     string
	ErrorCode string
}

func (h *Handler) pageHome(c *gin.Context) {
	h.renderFollows(c, h.page.ProfileHandle, h.page.Intro)
}

func (h *Handler) pageProfile(c *gin.Context) {
	h.renderFollows(c, c.Param("handle"), "")
}

// renderFollows runs a lookup and renders it. A failed lookup still renders
// the page header, with a notice in place of the list.
func (h *Handler) renderFollows(c *gin.Context, handle, intro string) {
	result, err := h.lookupFollows.Handle(c.Request.Context(), query.LookupFollows{
		Handle: handle,
		Limit:  h.page.Limit,
	})

	view := pageView{
		Title:   h.page.Title,
		Handle:  result.Handle,
		Intro:   intro,
		Follows: result.Follows,
	}
	if view.Handle.IsEmpty() {
		view.Handle = model.Handle(strings.TrimPrefix(strings.TrimSpace(handle), "@"))
	}
	if view.Title == "" {
		view.Title = "@" + view.Handle.String()
	}

	if err != nil {
		c.Error(err)
		view.Error = publicMessage(err)
		view.ErrorCode = domainerror.Step(err)
		c.HTML(statusForError(err), "follows.html", view)
		return
	}

	c.HTML(http.StatusOK, "follows.html", view)
}
