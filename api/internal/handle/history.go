package handle

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// History handles GET /api/v1/tutor/history?limit=N.
func (h *Handle) History(c *gin.Context) {
	if h.history == nil {
		writeDetail(c, http.StatusNotFound, "history is disabled")
		return
	}
	limit := defaultHistoryLimit
	if s := c.Query("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			writeDetail(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(v, maxHistoryLimit)
	}

	rows, err := h.history.Recent(c.Request.Context(), limit)
	if err != nil {
		h.log.Error("load history", zap.Error(err))
		writeDetail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": rows})
}
