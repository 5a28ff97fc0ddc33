package repository

import (
	"context"
	"testing"
	"time"

	"gameportal/backend/internal/catalog"
	"gameportal/backend/internal/models"
	"gameportal/backend/internal/testutil"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type GameRepositorySuite struct {
	suite.Suite
	db       *gorm.DB
	repo     *GormGameRepository
	ctx      context.Context
	category models.Category
	a, b, c  models.Game
}

func (s *GameRepositorySuite) SetupTest() {
	t := s.T()
	s.db = testutil.NewTestDB(t)
	s.repo = NewGormGameRepository(s.db)
	s.ctx = context.Background()
	s.category = testutil.SeedCategory(t, s.db, "puzzles", 1)

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	seed := func(id uint, name, desc string, rating float64, tags ...string) models.Game {
		return testutil.SeedGame(t, s.db, models.Game{
			Model:       gorm.Model{ID: id, CreatedAt: created},
			Slug:        name,
			Name:        name,
			Description: desc,
			Rating:      rating,
			CategoryID:  s.category.ID,
		}, tags...)
	}
	s.a = seed(1, "A", "slide tiles", 4.5, "puzzle")
	s.b = seed(2, "B", "100% action", 3.0, "action")
	s.c = seed(3, "C", "logic grid", 4.8, "puzzle", "brain")
}

func TestGameRepositorySuite(t *testing.T) {
	suite.Run(t, new(GameRepositorySuite))
}

func (s *GameRepositorySuite) search(req catalog.FilterRequest) []string {
	q, err := catalog.BuildQuery(req, catalog.DefaultLimits)
	s.Require().NoError(err)
	games, err := s.repo.Find(s.ctx, q)
	s.Require().NoError(err)
	out := make([]string, len(games))
	for i, g := range games {
		out[i] = g.Name
	}
	return out
}

func (s *GameRepositorySuite) count(req catalog.FilterRequest) int64 {
	q, err := catalog.BuildQuery(req, catalog.DefaultLimits)
	s.Require().NoError(err)
	n, err := s.repo.Count(s.ctx, q.Predicates())
	s.Require().NoError(err)
	return n
}

func strPtr(v string) *string    { return &v }
func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool       { return &v }

func (s *GameRepositorySuite) TestWorkedExamples() {
	s.Equal([]string{"C", "A"}, s.search(catalog.FilterRequest{
		Tags: []string{"puzzle"}, SortBy: catalog.SortRating, SortOrder: catalog.SortDesc,
	}))
	s.Equal([]string{"A", "C"}, s.search(catalog.FilterRequest{MinRating: floatPtr(4.0)}))
	s.Empty(s.search(catalog.FilterRequest{Query: strPtr("nonexistent")}))
}

func (s *GameRepositorySuite) TestTagsContainAll() {
	s.Equal([]string{"C"}, s.search(catalog.FilterRequest{Tags: []string{"Puzzle", "BRAIN"}}))
	s.EqualValues(1, s.count(catalog.FilterRequest{Tags: []string{"puzzle", "brain"}}))
	s.Empty(s.search(catalog.FilterRequest{Tags: []string{"puzzle", "action"}}))
}

func (s *GameRepositorySuite) TestTextMatchesNameOrDescriptionCaseInsensitive() {
	s.Equal([]string{"C"}, s.search(catalog.FilterRequest{Query: strPtr("LOGIC")}))
	// LIKE wildcards in the query are literal.
	s.Equal([]string{"B"}, s.search(catalog.FilterRequest{Query: strPtr("100%")}))
	s.Empty(s.search(catalog.FilterRequest{Query: strPtr("_x")}))
}

func (s *GameRepositorySuite) TestInactiveGamesAreHidden() {
	s.Require().NoError(s.repo.SetStatus(s.ctx, s.c.ID, models.GameStatusInactive))
	s.Equal([]string{"A"}, s.search(catalog.FilterRequest{Tags: []string{"puzzle"}}))
	s.EqualValues(2, s.count(catalog.FilterRequest{}))
}

func (s *GameRepositorySuite) TestFacetsAndRanges() {
	s.Require().NoError(s.db.Model(&models.Game{}).Where("id = ?", s.b.ID).
		Updates(map[string]interface{}{"is_featured": true, "difficulty": "hard"}).Error)

	s.Equal([]string{"B"}, s.search(catalog.FilterRequest{Featured: boolPtr(true)}))
	s.ElementsMatch([]string{"A", "C"}, s.search(catalog.FilterRequest{Featured: boolPtr(false)}))
	s.Equal([]string{"B"}, s.search(catalog.FilterRequest{Difficulty: strPtr("hard")}))
	s.Equal([]string{"A"}, s.search(catalog.FilterRequest{MinRating: floatPtr(4.5), MaxRating: floatPtr(4.5)}))

	other := testutil.SeedCategory(s.T(), s.db, "arcade", 2)
	s.Empty(s.search(catalog.FilterRequest{CategoryID: &other.ID}))
}

func (s *GameRepositorySuite) TestOrderingAndPagination() {
	s.Require().NoError(s.db.Model(&models.Game{}).Where("id IN ?", []uint{1, 2}).Update("play_count", 7).Error)

	s.Equal([]string{"A", "B", "C"}, s.search(catalog.FilterRequest{SortBy: catalog.SortPlayCount}))
	s.Equal([]string{"C", "A", "B"}, s.search(catalog.FilterRequest{SortBy: catalog.SortPlayCount, SortOrder: catalog.SortAsc}))
	s.Equal([]string{"B"}, s.search(catalog.FilterRequest{SortBy: catalog.SortRating, SortOrder: catalog.SortAsc, Limit: 1}))
	s.Equal([]string{"A"}, s.search(catalog.FilterRequest{SortBy: catalog.SortRating, SortOrder: catalog.SortAsc, Limit: 1, Page: 2}))
}

func (s *GameRepositorySuite) TestFindLoadsTags() {
	q, err := catalog.BuildQuery(catalog.FilterRequest{Tags: []string{"brain"}}, catalog.DefaultLimits)
	s.Require().NoError(err)
	games, err := s.repo.Find(s.ctx, q)
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.ElementsMatch([]string{"puzzle", "brain"}, games[0].TagNames())
}

func (s *GameRepositorySuite) TestCreateAndUpdateReplaceTags() {
	g := &models.Game{
		Slug: "new-game", Name: "New Game", CategoryID: s.category.ID,
		Difficulty: models.DifficultyEasy, Status: models.GameStatusActive, Rating: 2,
	}
	s.Require().NoError(s.repo.Create(s.ctx, g, []string{"puzzle", "casual"}))
	s.NotZero(g.ID)

	g.Name = "Renamed"
	g.IsNew = true
	s.Require().NoError(s.repo.Update(s.ctx, g, []string{"casual"}))

	stored, err := s.repo.GetBySlug(s.ctx, "new-game")
	s.Require().NoError(err)
	s.Equal("Renamed", stored.Name)
	s.True(stored.IsNew)
	s.Equal([]string{"casual"}, stored.TagNames())
	s.Require().NotNil(stored.Category)
	s.Equal("puzzles", stored.Category.Slug)

	var tagCount int64
	s.db.Model(&models.Tag{}).Where("name = ?", "puzzle").Count(&tagCount)
	s.EqualValues(1, tagCount, "existing tag reused")
}

func (s *GameRepositorySuite) TestUpdateKeepsPlayCountAndStatus() {
	stale, err := s.repo.GetByID(s.ctx, s.a.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.db.Model(&models.Game{}).Where("id = ?", s.a.ID).
		Updates(map[string]interface{}{"play_count": 6, "status": models.GameStatusInactive}).Error)

	stale.Rating = 3.9
	s.Require().NoError(s.repo.Update(s.ctx, stale, []string{"puzzle"}))

	var stored models.Game
	s.Require().NoError(s.db.First(&stored, s.a.ID).Error)
	s.Equal(3.9, stored.Rating)
	s.EqualValues(6, stored.PlayCount)
	s.Equal(models.GameStatusInactive, stored.Status)
	s.Equal(s.a.CreatedAt.Unix(), stored.CreatedAt.Unix())
}

func (s *GameRepositorySuite) TestLookupsAndSlugs() {
	_, err := s.repo.GetByID(s.ctx, 999)
	s.ErrorIs(err, ErrNotFound)
	_, err = s.repo.GetBySlug(s.ctx, "missing")
	s.ErrorIs(err, ErrNotFound)
	s.ErrorIs(s.repo.SetStatus(s.ctx, 999, models.GameStatusInactive), ErrNotFound)

	exists, err := s.repo.SlugExists(s.ctx, "A", 0)
	s.Require().NoError(err)
	s.True(exists)
	exists, err = s.repo.SlugExists(s.ctx, "A", s.a.ID)
	s.Require().NoError(err)
	s.False(exists)
}
