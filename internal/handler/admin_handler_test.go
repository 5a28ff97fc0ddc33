package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"gameportal/backend/internal/handler"
	"gameportal/backend/internal/models"
	"gameportal/backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRoutesRequireAdmin(t *testing.T) {
	env := newTestEnv(t)
	input := handler.CategoryInput{Name: "Puzzle"}

	w := env.do(t, http.MethodPost, "/api/v1/admin/categories", "", input)
	requireStatus(t, w, http.StatusUnauthorized)

	w = env.do(t, http.MethodPost, "/api/v1/admin/categories", token(t, "player"), input)
	requireStatus(t, w, http.StatusForbidden)
	assert.Equal(t, "FORBIDDEN", decode[handler.ErrorResponse](t, w).Error.Code)
}

func TestAdminCatalogLifecycle(t *testing.T) {
	env := newTestEnv(t)
	testutil.SeedUser(t, env.db, "root", models.RoleAdmin)
	admin := token(t, "root")

	w := env.do(t, http.MethodPost, "/api/v1/admin/categories", admin, handler.CategoryInput{Name: "Puzzle Games", Color: "#7c3aed"})
	requireStatus(t, w, http.StatusCreated)
	puzzle := decode[handler.CategoryResponse](t, w)
	assert.Equal(t, "puzzle-games", puzzle.Slug)

	w = env.do(t, http.MethodPost, "/api/v1/admin/categories", admin, handler.CategoryInput{Name: "Arcade"})
	requireStatus(t, w, http.StatusCreated)
	arcade := decode[handler.CategoryResponse](t, w)

	w = env.do(t, http.MethodPost, "/api/v1/admin/games", admin, handler.GameInput{
		Name: "Mind Maze", CategoryID: puzzle.ID, Rating: 4.8, Difficulty: "medium", Tags: []string{"Puzzle", "brain"},
	})
	requireStatus(t, w, http.StatusCreated)
	game := decode[handler.GameResponse](t, w)
	assert.Equal(t, "mind-maze", game.Slug)

	w = env.do(t, http.MethodPost, "/api/v1/admin/games", admin, handler.GameInput{Name: "Mind Maze", CategoryID: puzzle.ID})
	requireStatus(t, w, http.StatusConflict)

	w = env.do(t, http.MethodPost, "/api/v1/admin/games", admin, handler.GameInput{Name: "Bad", CategoryID: puzzle.ID, Rating: 9})
	requireStatus(t, w, http.StatusBadRequest)

	// Referential guard: nothing changes while an active game uses the category.
	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/admin/categories/%d", puzzle.ID), admin, nil)
	requireStatus(t, w, http.StatusConflict)
	assert.Equal(t, "CATEGORY_IN_USE", decode[handler.ErrorResponse](t, w).Error.Code)
	w = env.do(t, http.MethodGet, "/api/v1/categories/puzzle-games", "", nil)
	requireStatus(t, w, http.StatusOK)

	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/admin/games/%d/deactivate", game.ID), admin, nil)
	requireStatus(t, w, http.StatusOK)
	w = env.do(t, http.MethodGet, "/api/v1/games/mind-maze", "", nil)
	requireStatus(t, w, http.StatusNotFound)
	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/admin/games/%d", game.ID), admin, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "inactive", decode[handler.GameResponse](t, w).Status)

	// Category order: [puzzle, arcade] -> move arcade up -> [arcade, puzzle].
	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/admin/categories/%d/move", arcade.ID), admin, handler.MoveInput{Direction: "up"})
	requireStatus(t, w, http.StatusOK)
	list := decode[[]handler.CategoryResponse](t, w)
	require.Len(t, list, 2)
	assert.Equal(t, []uint{arcade.ID, puzzle.ID}, []uint{list[0].ID, list[1].ID})

	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/admin/categories/%d/move", arcade.ID), admin, handler.MoveInput{Direction: "up"})
	requireStatus(t, w, http.StatusOK)
	list = decode[[]handler.CategoryResponse](t, w)
	assert.Equal(t, arcade.ID, list[0].ID, "moving past the top changes nothing")

	w = env.do(t, http.MethodPost, "/api/v1/admin/categories/swap", admin, handler.SwapInput{FirstID: arcade.ID, SecondID: puzzle.ID})
	requireStatus(t, w, http.StatusOK)
	list = decode[[]handler.CategoryResponse](t, w)
	assert.Equal(t, []uint{puzzle.ID, arcade.ID}, []uint{list[0].ID, list[1].ID})

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/admin/categories/%d", puzzle.ID), admin, nil)
	requireStatus(t, w, http.StatusOK)
}

func TestAdminTagsAndUsers(t *testing.T) {
	env := newTestEnv(t)
	rootUser := testutil.SeedUser(t, env.db, "root", models.RoleAdmin)
	player := testutil.SeedUser(t, env.db, "player", models.RoleUser)
	admin := token(t, "root")

	cat := testutil.SeedCategory(t, env.db, "arcade", 1)
	testutil.SeedGame(t, env.db, models.Game{Slug: "snake", Name: "Snake", CategoryID: cat.ID}, "classic")

	w := env.do(t, http.MethodGet, "/api/v1/tags", "", nil)
	requireStatus(t, w, http.StatusOK)
	tags := decode[[]handler.TagResponse](t, w)
	require.Len(t, tags, 1)
	assert.Equal(t, int64(1), tags[0].ActiveGames)

	w = env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/admin/tags/%d", tags[0].ID), admin, handler.TagInput{Name: "Retro"})
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "retro", decode[handler.TagResponse](t, w).Name)

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/admin/tags/%d", tags[0].ID), admin, nil)
	requireStatus(t, w, http.StatusOK)

	w = env.do(t, http.MethodGet, "/api/v1/admin/users?q=play", admin, nil)
	requireStatus(t, w, http.StatusOK)
	users := decode[handler.PaginatedResponse[handler.UserResponse]](t, w)
	require.Len(t, users.Data, 1)
	assert.Equal(t, player.ID, users.Data[0].ID)

	w = env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/admin/users/%d/role", player.ID), admin, handler.RoleInput{Role: "admin"})
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "admin", decode[handler.UserResponse](t, w).Role)

	w = env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/admin/users/%d/role", rootUser.ID), admin, map[string]string{"role": "owner"})
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "BAD_REQUEST", decode[handler.ErrorResponse](t, w).Error.Code)
}
