package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"refillmap.com/gamification/internal/service"
	"refillmap.com/gamification/pkg/response"
)

type AchievementHandler struct {
	gamificationService service.GamificationService
	profileService      service.ProfileService
}

func NewAchievementHandler(gamificationService service.GamificationService, profileService service.ProfileService) *AchievementHandler {
	return &AchievementHandler{
		gamificationService: gamificationService,
		profileService:      profileService,
	}
}

func (h *AchievementHandler) ListAchievements(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.profileService.ListAchievements(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}

// Evaluate re-runs achievement evaluation for the caller. It is safe to
// retry: a second run with no new activity unlocks nothing.
func (h *AchievementHandler) Evaluate(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.gamificationService.EvaluateAchievements(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
