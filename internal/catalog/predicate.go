package catalog

import (
	"fmt"
	"strings"

	"gameportal/backend/internal/models"
)

// Predicate is a single catalog constraint. A query's predicates are
// combined conjunctively. Providers translate each concrete type into their
// own query language; Match evaluates it in process.
type Predicate interface {
	Match(g *models.Game) bool
	String() string
}

// StatusIs restricts results to games in the given lifecycle status.
type StatusIs struct {
	Status models.GameStatus
}

func (p StatusIs) Match(g *models.Game) bool { return g.Status == p.Status }
func (p StatusIs) String() string           { return fmt.Sprintf("status = %s", p.Status) }

// TextContains matches a case-insensitive substring of the name or description.
// Text is stored lowercased.
type TextContains struct {
	Text string
}

func (p TextContains) Match(g *models.Game) bool {
	return strings.Contains(strings.ToLower(g.Name), p.Text) ||
		strings.Contains(strings.ToLower(g.Description), p.Text)
}
func (p TextContains) String() string { return fmt.Sprintf("text ~ %q", p.Text) }

// CategoryIs matches games in one category.
type CategoryIs struct {
	CategoryID uint
}

func (p CategoryIs) Match(g *models.Game) bool { return g.CategoryID == p.CategoryID }
func (p CategoryIs) String() string           { return fmt.Sprintf("category = %d", p.CategoryID) }

// TagsContainAll matches games whose tag set is a superset of Tags.
// Tags are lowercased and deduplicated.
type TagsContainAll struct {
	tags []string
}

func newTagsContainAll(tags []string) TagsContainAll {
	return TagsContainAll{tags: append([]string(nil), tags...)}
}

// Tags returns a copy of the required tag names.
func (p TagsContainAll) Tags() []string { return append([]string(nil), p.tags...) }

func (p TagsContainAll) Match(g *models.Game) bool {
	have := make(map[string]struct{}, len(g.Tags))
	for _, name := range g.TagNames() {
		have[strings.ToLower(name)] = struct{}{}
	}
	for _, want := range p.tags {
		if _, ok := have[want]; !ok {
			return false
		}
	}
	return true
}
func (p TagsContainAll) String() string { return fmt.Sprintf("tags contain all %v", p.tags) }

// RatingAtLeast is an inclusive lower rating bound.
type RatingAtLeast struct {
	Min float64
}

func (p RatingAtLeast) Match(g *models.Game) bool { return g.Rating >= p.Min }
func (p RatingAtLeast) String() string           { return fmt.Sprintf("rating >= %g", p.Min) }

// RatingAtMost is an inclusive upper rating bound.
type RatingAtMost struct {
	Max float64
}

func (p RatingAtMost) Match(g *models.Game) bool { return g.Rating <= p.Max }
func (p RatingAtMost) String() string           { return fmt.Sprintf("rating <= %g", p.Max) }

// DifficultyIs matches one difficulty level.
type DifficultyIs struct {
	Difficulty models.Difficulty
}

func (p DifficultyIs) Match(g *models.Game) bool { return g.Difficulty == p.Difficulty }
func (p DifficultyIs) String() string           { return fmt.Sprintf("difficulty = %s", p.Difficulty) }

// Flag names a boolean facet column.
type Flag string

const (
	FlagFeatured Flag = "is_featured"
	FlagPopular  Flag = "is_popular"
	FlagNew      Flag = "is_new"
)

// FlagIs matches games whose facet equals Value. A false value is a real
// constraint, distinct from the facet being absent from the request.
type FlagIs struct {
	Flag  Flag
	Value bool
}

func (p FlagIs) Match(g *models.Game) bool {
	switch p.Flag {
	case FlagFeatured:
		return g.IsFeatured == p.Value
	case FlagPopular:
		return g.IsPopular == p.Value
	case FlagNew:
		return g.IsNew == p.Value
	}
	return false
}
func (p FlagIs) String() string { return fmt.Sprintf("%s = %t", p.Flag, p.Value) }

// MatchAll reports whether g satisfies every predicate.
func MatchAll(preds []Predicate, g *models.Game) bool {
	for _, p := range preds {
		if !p.Match(g) {
			return false
		}
	}
	return true
}
