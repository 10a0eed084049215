package handler

import (
	"github.com/pankaj3399/time-track-sub001/utils"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	stats StatsService
}

func NewStatsHandler(stats StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

func (h *StatsHandler) GetUserStats(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	stats, err := h.stats.UserStats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "fetch stats")
		return
	}
	utils.Success(c, stats)
}
