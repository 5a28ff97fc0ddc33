package handler

import (
	"net/http"

	"gameportal/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type TagInput struct {
	Name string `json:"name" binding:"required,max=100"`
}

type TagResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	ActiveGames int64  `json:"active_games"`
}

func newTagResponse(tag models.Tag, activeGames int64) TagResponse {
	return TagResponse{
		ID:          tag.ID,
		Name:        tag.Name,
		ActiveGames: activeGames,
	}
}

// GetTags godoc
// @Summary      Get all tags
// @Description  Retrieves every tag with the number of active games carrying it.
// @Tags         tags
// @Produce      json
// @Success      200  {array}   TagResponse
// @Router       /tags [get]
func (h *Handler) GetTags(c *gin.Context) {
	tags, err := h.tags.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := make([]TagResponse, 0, len(tags))
	for _, tag := range tags {
		response = append(response, newTagResponse(tag.Tag, tag.ActiveGames))
	}
	c.JSON(http.StatusOK, response)
}

// UpdateTag godoc
// @Summary      Rename a tag
// @Description  Updates the name of an existing tag.
// @Tags         admin-tags
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int      true  "Tag ID"
// @Param        input body TagInput true "New Tag Info"
// @Success      200  {object}  TagResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      404  {object}  ErrorResponse "Tag not found"
// @Failure      409  {object}  ErrorResponse "Tag already exists"
// @Router       /admin/tags/{id} [put]
func (h *Handler) UpdateTag(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	var input TagInput
	if !h.bindJSON(c, &input) {
		return
	}

	tag, err := h.tags.Rename(c.Request.Context(), id, input.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, TagResponse{ID: tag.ID, Name: tag.Name})
}

// DeleteTag godoc
// @Summary      Delete a tag
// @Description  Removes a tag from every game and deletes it.
// @Tags         admin-tags
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Tag ID"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      404  {object}  ErrorResponse "Tag not found"
// @Router       /admin/tags/{id} [delete]
func (h *Handler) DeleteTag(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.tags.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "tag deleted"})
}
