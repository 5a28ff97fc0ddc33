package catalog

import (
	"reflect"
	"strings"

	apperrors "gameportal/backend/internal/errors"

	"github.com/go-playground/validator/v10"
)

// SortKey selects the catalog ordering.
type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortRating    SortKey = "rating"
	SortPlayCount SortKey = "play_count"
	SortCreatedAt SortKey = "created_at"
)

// SortOrder is the requested direction for non-relevance sorts.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// FilterRequest describes one catalog search. Nil pointers and empty slices
// mean "no constraint"; a non-nil pointer to a zero value is a constraint.
type FilterRequest struct {
	Query      *string   `json:"query"`
	CategoryID *uint     `json:"category_id"`
	Tags       []string  `json:"tags" validate:"max=10,dive,required,max=100"`
	MinRating  *float64  `json:"min_rating" validate:"omitempty,gte=0,lte=5"`
	MaxRating  *float64  `json:"max_rating" validate:"omitempty,gte=0,lte=5"`
	Difficulty *string   `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	SortBy     SortKey   `json:"sort_by" validate:"omitempty,oneof=relevance rating play_count created_at"`
	SortOrder  SortOrder `json:"sort_order" validate:"omitempty,oneof=asc desc"`
	Featured   *bool     `json:"featured"`
	Popular    *bool     `json:"popular"`
	New        *bool     `json:"new"`
	Page       int       `json:"page" validate:"gte=0"`
	Limit      int       `json:"limit" validate:"gte=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks field-level rules and cross-field bounds.
func (r FilterRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return apperrors.NewValidationError(fe.Field(), describe(fe))
		}
		return apperrors.NewValidationError("filter", err.Error())
	}
	if r.MinRating != nil && r.MaxRating != nil && *r.MinRating > *r.MaxRating {
		return apperrors.NewValidationError("min_rating", "must not exceed max_rating")
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte":
		return "must be >= " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	case "max":
		return "must have at most " + fe.Param() + " items"
	case "required":
		return "must not be empty"
	}
	return "failed " + fe.Tag()
}

// HasQuery reports whether a non-blank text query was supplied.
func (r FilterRequest) HasQuery() bool {
	return r.Query != nil && strings.TrimSpace(*r.Query) != ""
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
