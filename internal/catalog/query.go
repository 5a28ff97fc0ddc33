package catalog

import (
	"math"
	"strings"

	apperrors "gameportal/backend/internal/errors"
	"gameportal/backend/internal/models"
)

// SortField is a sortable game column.
type SortField string

const (
	FieldRating    SortField = "rating"
	FieldPlayCount SortField = "play_count"
	FieldCreatedAt SortField = "created_at"
	FieldID        SortField = "id"
)

// OrderTerm is one ORDER BY component.
type OrderTerm struct {
	Field SortField
	Desc  bool
}

// Limits bounds page sizes.
type Limits struct {
	Default int
	Max     int
}

// DefaultLimits mirrors the configuration defaults.
var DefaultLimits = Limits{Default: 20, Max: 50}

// Query is the provider-neutral form of a validated FilterRequest.
// It is immutable once built; accessors return copies.
type Query struct {
	predicates []Predicate
	order      []OrderTerm
	page       int
	limit      int
}

func (q Query) Predicates() []Predicate { return append([]Predicate(nil), q.predicates...) }
func (q Query) Order() []OrderTerm      { return append([]OrderTerm(nil), q.order...) }
func (q Query) Page() int               { return q.page }
func (q Query) Limit() int              { return q.limit }
func (q Query) Offset() int             { return (q.page - 1) * q.limit }

// BuildQuery validates req and composes its predicates, ordering and page window.
func BuildQuery(req FilterRequest, limits Limits) (Query, error) {
	if err := req.Validate(); err != nil {
		return Query{}, err
	}

	preds := []Predicate{StatusIs{Status: models.GameStatusActive}}

	if req.HasQuery() {
		preds = append(preds, TextContains{Text: strings.ToLower(strings.TrimSpace(*req.Query))})
	}
	if req.CategoryID != nil {
		preds = append(preds, CategoryIs{CategoryID: *req.CategoryID})
	}
	if tags := normalizeTags(req.Tags); len(tags) > 0 {
		preds = append(preds, newTagsContainAll(tags))
	}
	if req.MinRating != nil {
		preds = append(preds, RatingAtLeast{Min: *req.MinRating})
	}
	if req.MaxRating != nil {
		preds = append(preds, RatingAtMost{Max: *req.MaxRating})
	}
	if req.Difficulty != nil {
		preds = append(preds, DifficultyIs{Difficulty: models.Difficulty(*req.Difficulty)})
	}
	if req.Featured != nil {
		preds = append(preds, FlagIs{Flag: FlagFeatured, Value: *req.Featured})
	}
	if req.Popular != nil {
		preds = append(preds, FlagIs{Flag: FlagPopular, Value: *req.Popular})
	}
	if req.New != nil {
		preds = append(preds, FlagIs{Flag: FlagNew, Value: *req.New})
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = limits.Default
	}
	if limits.Max > 0 && limit > limits.Max {
		limit = limits.Max
	}
	if page > math.MaxInt/limit {
		return Query{}, apperrors.NewValidationError("page", "is out of range")
	}

	return Query{
		predicates: preds,
		order:      resolveOrder(req),
		page:       page,
		limit:      limit,
	}, nil
}

// resolveOrder maps the requested sort onto columns. Relevance has no
// scoring yet: with a text query it ranks by rating, otherwise newest first.
// The id term is always last so equal keys paginate deterministically.
func resolveOrder(req FilterRequest) []OrderTerm {
	desc := req.SortOrder != SortAsc

	var primary OrderTerm
	switch req.SortBy {
	case SortRating:
		primary = OrderTerm{Field: FieldRating, Desc: desc}
	case SortPlayCount:
		primary = OrderTerm{Field: FieldPlayCount, Desc: desc}
	case SortCreatedAt:
		primary = OrderTerm{Field: FieldCreatedAt, Desc: desc}
	default:
		// TODO: replace the relevance stand-in with full-text ranking (tsvector on postgres).
		if req.HasQuery() {
			primary = OrderTerm{Field: FieldRating, Desc: true}
		} else {
			primary = OrderTerm{Field: FieldCreatedAt, Desc: true}
		}
	}

	return []OrderTerm{primary, {Field: FieldID}}
}
