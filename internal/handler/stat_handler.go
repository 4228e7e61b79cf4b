package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"refillmap.com/gamification/internal/service"
	"refillmap.com/gamification/pkg/response"
)

type StatHandler struct {
	statService service.StatService
}

func NewStatHandler(statService service.StatService) *StatHandler {
	return &StatHandler{
		statService: statService,
	}
}

func (h *StatHandler) GetImpactStats(c *gin.Context) {
	stats, err := h.statService.GetImpactStats(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
