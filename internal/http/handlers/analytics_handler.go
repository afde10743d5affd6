package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pharmetrika/workflow-backend/internal/utils"
)

// AnalyticsOverview handles GET /analytics/overview (admin). The aggregation
// window defaults to 30 days and can be narrowed or widened via ?days=,
// bounded to one year.
func (h *Handlers) AnalyticsOverview(c *gin.Context) {
	days := utils.ClampRange(utils.AtoiDefault(c.Query("days"), 0), 0, 365)
	ov, err := h.analytics.Compute(c.Request.Context(), days)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ov)
}

// UserSegments handles GET /analytics/segments (admin).
func (h *Handlers) UserSegments(c *gin.Context) {
	segs, err := h.analytics.Segments(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"items": segs, "total": len(segs)})
}
