// Usage reporting HTTP handlers.
//
// This file exposes the dashboard read model for metering:
//   - GET /usage       (quota position)
//   - GET /usage/logs  (per-request rows, paginated, newest first)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linpap/safecaption/internal/domain"
	"github.com/linpap/safecaption/internal/services"
)

// ListUsageResponse wraps a page of usage rows and pagination information.
type ListUsageResponse struct {
	Logs       []domain.UsageLog `json:"logs"`
	Pagination Pagination        `json:"pagination"`
}

// UsageSummary godoc
// @ID          usageSummary
// @Summary     Current quota position
// @Description Returns the user's plan, monthly limit, consumed calls, and per-minute ceiling.
// @Tags        Usage
// @Produce     json
// @Security    SessionAuth
//
// @Success     200  {object}  services.Summary
// @Failure     401  {object}  handlers.ErrorResponse "Missing session"
// @Failure     404  {object}  handlers.ErrorResponse "User not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /usage [get]
func (h *Handlers) UsageSummary(c *gin.Context) {
	s, err := h.usageSvc.Summary(c.Request.Context(), userID(c))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, s)
}

// ListUsage godoc
// @ID          listUsage
// @Summary     List usage rows (paginated)
// @Description Returns a page of the user's metering rows, newest first.
// @Tags        Usage
// @Produce     json
// @Security    SessionAuth
//
// @Param       page       query  int  false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false  "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListUsageResponse
// @Failure     401  {object}  handlers.ErrorResponse "Missing session"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /usage/logs [get]
func (h *Handlers) ListUsage(c *gin.Context) {
	page, pageSize := clampPagination(c)

	items, total, err := h.usageSvc.ListPage(c.Request.Context(), userID(c), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, ListUsageResponse{
		Logs:       items,
		Pagination: newPagination(page, pageSize, total),
	})
}
