package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"gameportal/backend/internal/auth"
	"gameportal/backend/internal/catalog"
	apperrors "gameportal/backend/internal/errors"
	"gameportal/backend/internal/models"
	"gameportal/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type GameInput struct {
	Name         string   `json:"name" binding:"required,max=255"`
	Slug         string   `json:"slug" binding:"omitempty,max=100"`
	Description  string   `json:"description"`
	ThumbnailURL string   `json:"thumbnail_url" binding:"omitempty,url"`
	CategoryID   uint     `json:"category_id" binding:"required"`
	Difficulty   string   `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	Rating       float64  `json:"rating" binding:"gte=0,lte=5"`
	IsFeatured   bool     `json:"is_featured"`
	IsPopular    bool     `json:"is_popular"`
	IsNew        bool     `json:"is_new"`
	Tags         []string `json:"tags" binding:"max=10,dive,required,max=100"`
}

func (in GameInput) params() service.GameParams {
	return service.GameParams{
		Name:         in.Name,
		Slug:         in.Slug,
		Description:  in.Description,
		ThumbnailURL: in.ThumbnailURL,
		CategoryID:   in.CategoryID,
		Difficulty:   in.Difficulty,
		Rating:       in.Rating,
		IsFeatured:   in.IsFeatured,
		IsPopular:    in.IsPopular,
		IsNew:        in.IsNew,
		Tags:         in.Tags,
	}
}

type GameResponse struct {
	ID           uint      `json:"id"`
	Slug         string    `json:"slug"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnail_url"`
	CategoryID   uint      `json:"category_id"`
	Tags         []string  `json:"tags"`
	Difficulty   string    `json:"difficulty"`
	Rating       float64   `json:"rating"`
	PlayCount    int64     `json:"play_count"`
	IsFeatured   bool      `json:"is_featured"`
	IsPopular    bool      `json:"is_popular"`
	IsNew        bool      `json:"is_new"`
	Status       string    `json:"status"`
	IsFavorite   bool      `json:"is_favorite"`
	CreatedAt    time.Time `json:"created_at"`
}

func newGameResponse(game models.Game, favoriteIDs map[uint]bool) GameResponse {
	tags := game.TagNames()
	if tags == nil {
		tags = []string{}
	}
	return GameResponse{
		ID:           game.ID,
		Slug:         game.Slug,
		Name:         game.Name,
		Description:  game.Description,
		ThumbnailURL: game.ThumbnailURL,
		CategoryID:   game.CategoryID,
		Tags:         tags,
		Difficulty:   string(game.Difficulty),
		Rating:       game.Rating,
		PlayCount:    game.PlayCount,
		IsFeatured:   game.IsFeatured,
		IsPopular:    game.IsPopular,
		IsNew:        game.IsNew,
		Status:       string(game.Status),
		IsFavorite:   favoriteIDs[game.ID],
		CreatedAt:    game.CreatedAt,
	}
}

// PaginatedGameResponse defines the structure for a paginated list of games.
type PaginatedGameResponse struct {
	Data []GameResponse `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

type PlayInput struct {
	DurationSeconds int `json:"duration_seconds" binding:"gte=0"`
}

type PlayResponse struct {
	Counted  bool       `json:"counted"`
	PlayedAt *time.Time `json:"played_at,omitempty"`
}

type FavoriteResponse struct {
	IsFavorite bool `json:"is_favorite"`
}

// endregion

// region --- Admin Handlers ---

// CreateGame godoc
// @Summary      Create a new game
// @Description  Creates a game. Tags are given by name and created when missing.
// @Tags         admin-games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body GameInput true "Game Info"
// @Success      201  {object}  GameResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      409  {object}  ErrorResponse "Slug already in use"
// @Router       /admin/games [post]
func (h *Handler) CreateGame(c *gin.Context) {
	var input GameInput
	if !h.bindJSON(c, &input) {
		return
	}

	game, err := h.games.Create(c.Request.Context(), input.params())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newGameResponse(*game, nil))
}

// UpdateGame godoc
// @Summary      Update a game
// @Description  Updates a game's details and replaces its tags.
// @Tags         admin-games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int       true  "Game ID"
// @Param        input body      GameInput true  "New Game Info"
// @Success      200   {object}  GameResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse "Admin access required"
// @Failure      404   {object}  ErrorResponse "Game not found"
// @Router       /admin/games/{id} [put]
func (h *Handler) UpdateGame(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	var input GameInput
	if !h.bindJSON(c, &input) {
		return
	}

	game, err := h.games.Update(c.Request.Context(), id, input.params())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newGameResponse(*game, nil))
}

// GetGameAdmin godoc
// @Summary      Get any game by ID
// @Description  Returns a game regardless of its status.
// @Tags         admin-games
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200 {object} GameResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /admin/games/{id} [get]
func (h *Handler) GetGameAdmin(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	game, err := h.games.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newGameResponse(*game, nil))
}

// DeactivateGame godoc
// @Summary      Deactivate a game
// @Description  Hides a game from the catalog. Games are never hard-deleted.
// @Tags         admin-games
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse "Admin access required"
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /admin/games/{id}/deactivate [post]
func (h *Handler) DeactivateGame(c *gin.Context) {
	h.setGameActive(c, false)
}

// ActivateGame godoc
// @Summary      Activate a game
// @Description  Makes a game visible in the catalog again.
// @Tags         admin-games
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse "Admin access required"
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /admin/games/{id}/activate [post]
func (h *Handler) ActivateGame(c *gin.Context) {
	h.setGameActive(c, true)
}

func (h *Handler) setGameActive(c *gin.Context, active bool) {
	id, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.games.SetActive(c.Request.Context(), id, active); err != nil {
		h.respondError(c, err)
		return
	}
	msg := "game deactivated"
	if active {
		msg = "game activated"
	}
	c.JSON(http.StatusOK, MessageResponse{Message: msg})
}

// endregion

// region --- Public Handlers ---

// SearchGames godoc
// @Summary      Search the game catalog
// @Description  Lists active games matching every given filter. Omitted filters do not constrain the result.
// @Tags         games
// @Produce      json
// @Param        q           query  string  false  "Case-insensitive text in name or description"
// @Param        category_id query  int     false  "Category ID"
// @Param        tags        query  string  false  "Comma-separated tags; a game must carry all of them"
// @Param        min_rating  query  number  false  "Minimum rating (0-5)"
// @Param        max_rating  query  number  false  "Maximum rating (0-5)"
// @Param        difficulty  query  string  false  "easy, medium or hard"
// @Param        sort_by     query  string  false  "relevance, rating, play_count or created_at" default(relevance)
// @Param        sort_order  query  string  false  "asc or desc" default(desc)
// @Param        featured    query  bool    false  "Featured flag"
// @Param        popular     query  bool    false  "Popular flag"
// @Param        new         query  bool    false  "New flag"
// @Param        page        query  int     false  "Page number" default(1)
// @Param        limit       query  int     false  "Items per page, capped at 50" default(20)
// @Success      200 {object} PaginatedGameResponse
// @Failure      400 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse "Catalog provider unavailable"
// @Failure      504 {object} ErrorResponse "Catalog provider timed out"
// @Router       /games [get]
func (h *Handler) SearchGames(c *gin.Context) {
	req, err := filterFromQuery(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	page, err := h.catalog.Search(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	favoriteIDs, err := h.favoriteIDs(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := make([]GameResponse, 0, len(page.Items))
	for _, game := range page.Items {
		response = append(response, newGameResponse(game, favoriteIDs))
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(response, page.Total, page.Page, page.Limit))
}

// GetGame godoc
// @Summary      Get a single game by slug
// @Description  Retrieves an active game with its tags and favorite status.
// @Tags         games
// @Produce      json
// @Param        slug path string true "Game slug"
// @Success      200 {object} GameResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /games/{slug} [get]
func (h *Handler) GetGame(c *gin.Context) {
	game, err := h.games.GetBySlug(c.Request.Context(), c.Param("slug"), false)
	if err != nil {
		h.respondError(c, err)
		return
	}
	favoriteIDs, err := h.favoriteIDs(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newGameResponse(*game, favoriteIDs))
}

// RecordPlay godoc
// @Summary      Record a play session
// @Description  Counts a play unless the same user played the same game moments ago.
// @Tags         games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int       true  "Game ID"
// @Param        input body PlayInput false "Session details"
// @Success      200 {object} PlayResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /games/{id}/play [post]
func (h *Handler) RecordPlay(c *gin.Context) {
	gameID, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	var input PlayInput
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &input) {
		return
	}

	res, err := h.plays.RecordPlay(c.Request.Context(), auth.UserID(c), gameID, input.DurationSeconds)
	if err != nil {
		h.respondError(c, err)
		return
	}
	resp := PlayResponse{Counted: res.Counted}
	if res.Play != nil {
		resp.PlayedAt = &res.Play.PlayedAt
	}
	c.JSON(http.StatusOK, resp)
}

// ToggleFavoriteGame godoc
// @Summary      Toggle a game in favorites
// @Description  Adds or removes a game from the user's favorites list.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200 {object} FavoriteResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /games/{id}/favorite [post]
func (h *Handler) ToggleFavoriteGame(c *gin.Context) {
	gameID, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	fav, err := h.users.ToggleFavorite(c.Request.Context(), auth.UserID(c), gameID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, FavoriteResponse{IsFavorite: fav})
}

func (h *Handler) favoriteIDs(c *gin.Context) (map[uint]bool, error) {
	userID := auth.UserID(c)
	if userID == 0 {
		return nil, nil
	}
	return h.users.FavoriteIDs(c.Request.Context(), userID)
}

// filterFromQuery maps query parameters onto a FilterRequest. Parameters that
// are absent stay nil; present but malformed ones are validation errors.
func filterFromQuery(c *gin.Context) (catalog.FilterRequest, error) {
	var req catalog.FilterRequest
	var err error

	if q, ok := c.GetQuery("q"); ok {
		req.Query = &q
	}
	if raw, ok := c.GetQuery("category_id"); ok {
		id, perr := strconv.ParseUint(raw, 10, 32)
		if perr != nil {
			return req, apperrors.NewValidationError("category_id", "must be a positive integer")
		}
		v := uint(id)
		req.CategoryID = &v
	}
	req.Tags = splitCommaSeparated(c.QueryArray("tags"))
	if req.MinRating, err = queryFloat(c, "min_rating"); err != nil {
		return req, err
	}
	if req.MaxRating, err = queryFloat(c, "max_rating"); err != nil {
		return req, err
	}
	if d, ok := c.GetQuery("difficulty"); ok {
		req.Difficulty = &d
	}
	req.SortBy = catalog.SortKey(c.Query("sort_by"))
	req.SortOrder = catalog.SortOrder(c.Query("sort_order"))
	if req.Featured, err = queryBool(c, "featured"); err != nil {
		return req, err
	}
	if req.Popular, err = queryBool(c, "popular"); err != nil {
		return req, err
	}
	if req.New, err = queryBool(c, "new"); err != nil {
		return req, err
	}
	if req.Page, err = queryInt(c, "page"); err != nil {
		return req, err
	}
	if req.Limit, err = queryInt(c, "limit"); err != nil {
		return req, err
	}
	return req, nil
}

func queryFloat(c *gin.Context, name string) (*float64, error) {
	raw, ok := c.GetQuery(name)
	if !ok {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperrors.NewValidationError(name, "must be a number")
	}
	return &v, nil
}

func queryBool(c *gin.Context, name string) (*bool, error) {
	raw, ok := c.GetQuery(name)
	if !ok {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperrors.NewValidationError(name, "must be true or false")
	}
	return &v, nil
}

// Helper to split comma-separated strings
func splitCommaSeparated(values []string) []string {
	var result []string
	for _, s := range values {
		for _, part := range strings.Split(s, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
	}
	return result
}

// endregion
