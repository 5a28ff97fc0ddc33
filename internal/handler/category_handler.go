package handler

import (
	"net/http"

	"gameportal/backend/internal/models"
	"gameportal/backend/internal/repository"
	"gameportal/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type CategoryInput struct {
	Name        string `json:"name" binding:"required,max=255"`
	Slug        string `json:"slug" binding:"omitempty,max=100"`
	Description string `json:"description"`
	Color       string `json:"color" binding:"omitempty,hexcolor"`
	Icon        string `json:"icon" binding:"omitempty,max=100"`
}

func (in CategoryInput) params() service.CategoryParams {
	return service.CategoryParams{
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		Color:       in.Color,
		Icon:        in.Icon,
	}
}

type MoveInput struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

type SwapInput struct {
	FirstID  uint `json:"first_id" binding:"required"`
	SecondID uint `json:"second_id" binding:"required"`
}

type CategoryResponse struct {
	ID          uint   `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
	SortOrder   int    `json:"sort_order"`
	ActiveGames *int64 `json:"active_games,omitempty"`
}

func newCategoryResponse(c models.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Slug:        c.Slug,
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		Icon:        c.Icon,
		SortOrder:   c.SortOrder,
	}
}

func newCategoryListResponse(list []repository.CategoryWithCount) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(list))
	for _, c := range list {
		resp := newCategoryResponse(c.Category)
		count := c.ActiveGames
		resp.ActiveGames = &count
		out = append(out, resp)
	}
	return out
}

// endregion

// region --- Public Handlers ---

// ListCategories godoc
// @Summary      List categories
// @Description  Returns all categories in display order with their active game counts.
// @Tags         categories
// @Produce      json
// @Success      200 {array} CategoryResponse
// @Router       /categories [get]
func (h *Handler) ListCategories(c *gin.Context) {
	list, err := h.categories.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCategoryListResponse(list))
}

// GetCategory godoc
// @Summary      Get a category
// @Description  Looks a category up by slug or numeric ID.
// @Tags         categories
// @Produce      json
// @Param        slug path string true "Category slug or ID"
// @Success      200 {object} CategoryResponse
// @Failure      404 {object} ErrorResponse "Category not found"
// @Router       /categories/{slug} [get]
func (h *Handler) GetCategory(c *gin.Context) {
	category, err := h.categories.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCategoryResponse(*category))
}

// endregion

// region --- Admin Handlers ---

// CreateCategory godoc
// @Summary      Create a category
// @Description  Creates a category at the end of the display order.
// @Tags         admin-categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body CategoryInput true "Category Info"
// @Success      201 {object} CategoryResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse "Admin access required"
// @Failure      409 {object} ErrorResponse "Slug already in use"
// @Router       /admin/categories [post]
func (h *Handler) CreateCategory(c *gin.Context) {
	var input CategoryInput
	if !h.bindJSON(c, &input) {
		return
	}
	category, err := h.categories.Create(c.Request.Context(), input.params())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newCategoryResponse(*category))
}

// UpdateCategory godoc
// @Summary      Update a category
// @Tags         admin-categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int           true "Category ID"
// @Param        input body CategoryInput true "New Category Info"
// @Success      200 {object} CategoryResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Category not found"
// @Router       /admin/categories/{id} [put]
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	var input CategoryInput
	if !h.bindJSON(c, &input) {
		return
	}
	category, err := h.categories.Update(c.Request.Context(), id, input.params())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCategoryResponse(*category))
}

// DeleteCategory godoc
// @Summary      Delete a category
// @Description  Deletes a category that no active game references.
// @Tags         admin-categories
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Category ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse "Category not found"
// @Failure      409 {object} ErrorResponse "Category still has active games"
// @Router       /admin/categories/{id} [delete]
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "category deleted"})
}

// MoveCategory godoc
// @Summary      Move a category up or down
// @Description  Swaps the category with its neighbour. Moving past either end changes nothing.
// @Tags         admin-categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int       true "Category ID"
// @Param        input body MoveInput true "Direction"
// @Success      200 {array}  CategoryResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Category not found"
// @Router       /admin/categories/{id}/move [post]
func (h *Handler) MoveCategory(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	var input MoveInput
	if !h.bindJSON(c, &input) {
		return
	}
	list, err := h.categories.Move(c.Request.Context(), id, input.Direction)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCategoryListResponse(list))
}

// SwapCategories godoc
// @Summary      Swap two categories
// @Description  Exchanges the display positions of two categories atomically.
// @Tags         admin-categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body SwapInput true "Categories to swap"
// @Success      200 {array}  CategoryResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Category not found"
// @Router       /admin/categories/swap [post]
func (h *Handler) SwapCategories(c *gin.Context) {
	var input SwapInput
	if !h.bindJSON(c, &input) {
		return
	}
	if err := h.categories.Swap(c.Request.Context(), input.FirstID, input.SecondID); err != nil {
		h.respondError(c, err)
		return
	}
	h.ListCategories(c)
}

// endregion
