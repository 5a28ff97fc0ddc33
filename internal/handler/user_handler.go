package handler

import (
	"net/http"
	"time"

	"gameportal/backend/internal/auth"
	"gameportal/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// UserResponse is a user as seen by the user themself or an admin.
type UserResponse struct {
	ID        uint      `json:"id" example:"1"`
	Nickname  string    `json:"nickname" example:"testuser"`
	Email     string    `json:"email" example:"test@example.com"`
	AvatarURL string    `json:"avatar_url"`
	Role      string    `json:"role" example:"user"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Nickname:  u.Nickname,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// ProfileResponse is the signed-in user's profile summary.
type ProfileResponse struct {
	UserResponse
	TotalPlays       int64          `json:"total_plays"`
	DistinctGames    int64          `json:"distinct_games"`
	AchievementCount int            `json:"achievement_count"`
	Favorites        []GameResponse `json:"favorites"`
}

type PlayHistoryResponse struct {
	ID              uint      `json:"id"`
	GameID          uint      `json:"game_id"`
	GameSlug        string    `json:"game_slug,omitempty"`
	GameName        string    `json:"game_name,omitempty"`
	PlayedAt        time.Time `json:"played_at"`
	DurationSeconds int       `json:"duration_seconds"`
}

// PaginatedPlayHistoryResponse defines the structure for a paginated play history.
type PaginatedPlayHistoryResponse struct {
	Data []PlayHistoryResponse `json:"data"`
	Meta PaginationMeta        `json:"meta"`
}

// PaginatedUserResponse defines the structure for a paginated list of users.
type PaginatedUserResponse struct {
	Data []UserResponse `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

type RoleInput struct {
	Role string `json:"role" binding:"required,oneof=user admin"`
}

// endregion

// region --- User Handlers ---

// GetMe godoc
// @Summary      Get current user's profile
// @Description  Retrieves the profile, play totals and favorites of the authenticated user.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} ProfileResponse
// @Failure      401 {object} ErrorResponse
// @Router       /users/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	profile, err := h.users.Profile(c.Request.Context(), auth.UserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	favorites := make([]GameResponse, 0, len(profile.Favorites))
	for _, g := range profile.Favorites {
		favorites = append(favorites, newGameResponse(g, map[uint]bool{g.ID: true}))
	}
	c.JSON(http.StatusOK, ProfileResponse{
		UserResponse:     newUserResponse(profile.User),
		TotalPlays:       profile.TotalPlays,
		DistinctGames:    profile.DistinctGames,
		AchievementCount: profile.AchievementCount,
		Favorites:        favorites,
	})
}

// GetMyHistory godoc
// @Summary      Get current user's play history
// @Description  Lists the user's plays, newest first.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(20)
// @Success      200 {object} PaginatedPlayHistoryResponse
// @Failure      401 {object} ErrorResponse
// @Router       /users/me/history [get]
func (h *Handler) GetMyHistory(c *gin.Context) {
	page, limit := pageParams(c)
	plays, total, err := h.plays.History(c.Request.Context(), auth.UserID(c), page, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := make([]PlayHistoryResponse, 0, len(plays))
	for _, p := range plays {
		item := PlayHistoryResponse{
			ID:              p.ID,
			GameID:          p.GameID,
			PlayedAt:        p.PlayedAt,
			DurationSeconds: p.DurationSeconds,
		}
		if p.Game.ID != 0 {
			item.GameSlug = p.Game.Slug
			item.GameName = p.Game.Name
		}
		response = append(response, item)
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(response, total, page, limit))
}

// endregion

// region --- Admin Handlers ---

// ListUsers godoc
// @Summary      Search users
// @Description  Searches users by nickname or email.
// @Tags         admin-users
// @Produce      json
// @Security     BearerAuth
// @Param        q     query string false "Nickname or email fragment"
// @Param        page  query int    false "Page number" default(1)
// @Param        limit query int    false "Items per page" default(20)
// @Success      200 {object} PaginatedUserResponse
// @Failure      403 {object} ErrorResponse "Admin access required"
// @Router       /admin/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	page, limit := pageParams(c)
	users, total, err := h.users.List(c.Request.Context(), c.Query("q"), page, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := make([]UserResponse, 0, len(users))
	for _, u := range users {
		response = append(response, newUserResponse(u))
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(response, total, page, limit))
}

// SetUserRole godoc
// @Summary      Change a user's role
// @Tags         admin-users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int       true "User ID"
// @Param        input body RoleInput true "New role"
// @Success      200 {object} UserResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "User not found"
// @Router       /admin/users/{id}/role [put]
func (h *Handler) SetUserRole(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	var input RoleInput
	if !h.bindJSON(c, &input) {
		return
	}
	if err := h.users.SetRole(c.Request.Context(), id, input.Role); err != nil {
		h.respondError(c, err)
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(*user))
}

// endregion
