package handler

import (
	"net/http"
	"time"

	"gameportal/backend/internal/auth"
	"gameportal/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type AchievementResponse struct {
	Code        string     `json:"code" example:"first-play"`
	Name        string     `json:"name" example:"First Steps"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Rule        string     `json:"rule" example:"total_plays"`
	Threshold   int64      `json:"threshold" example:"1"`
	CategoryID  *uint      `json:"category_id,omitempty"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}

func newAchievementResponse(a models.Achievement) AchievementResponse {
	return AchievementResponse{
		Code:        a.Code,
		Name:        a.Name,
		Description: a.Description,
		Icon:        a.Icon,
		Rule:        string(a.Rule),
		Threshold:   a.Threshold,
		CategoryID:  a.CategoryID,
	}
}

// ListAchievements godoc
// @Summary      List achievements
// @Description  Returns every achievement definition.
// @Tags         achievements
// @Produce      json
// @Success      200 {array} AchievementResponse
// @Router       /achievements [get]
func (h *Handler) ListAchievements(c *gin.Context) {
	list, err := h.achievements.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	response := make([]AchievementResponse, 0, len(list))
	for _, a := range list {
		response = append(response, newAchievementResponse(a))
	}
	c.JSON(http.StatusOK, response)
}

// GetMyAchievements godoc
// @Summary      Get current user's achievements
// @Description  Lists the achievements the user has unlocked, oldest first.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array}  AchievementResponse
// @Failure      401 {object} ErrorResponse
// @Router       /users/me/achievements [get]
func (h *Handler) GetMyAchievements(c *gin.Context) {
	unlocked, err := h.achievements.ForUser(c.Request.Context(), auth.UserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response := make([]AchievementResponse, 0, len(unlocked))
	for _, ua := range unlocked {
		item := newAchievementResponse(ua.Achievement)
		at := ua.UnlockedAt
		item.UnlockedAt = &at
		response = append(response, item)
	}
	c.JSON(http.StatusOK, response)
}
