package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"refillmap.com/gamification/internal/dto"
	"refillmap.com/gamification/internal/model"
	"refillmap.com/gamification/internal/service"
	"refillmap.com/gamification/pkg/response"
)

type ActivityHandler struct {
	gamificationService service.GamificationService
	profileService      service.ProfileService
}

func NewActivityHandler(gamificationService service.GamificationService, profileService service.ProfileService) *ActivityHandler {
	return &ActivityHandler{
		gamificationService: gamificationService,
		profileService:      profileService,
	}
}

func (h *ActivityHandler) RecordActivity(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.RecordActivityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	res, err := h.gamificationService.RecordActivity(c.Request.Context(), userID, model.ActivityType(input.ActivityType), input.Description)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *ActivityHandler) ListActivities(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var filter dto.ActivityFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	res, err := h.profileService.ListActivities(c.Request.Context(), userID, filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
