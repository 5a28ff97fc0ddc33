package service

import (
	"errors"
	"strings"

	apperrors "gameportal/backend/internal/errors"
	"gameportal/backend/internal/repository"
	"gameportal/backend/internal/worker"
)

// JobSubmitter queues background work without blocking the caller.
type JobSubmitter interface {
	TrySubmit(job worker.Job) bool
}

// mapRepoErr converts repository sentinels into application errors.
func mapRepoErr(err error, resource string, id interface{}) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFoundError(resource, id)
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.NewConflictError(resource + " already exists")
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}
	return apperrors.NewInternalError(err)
}

// MakeSlug converts a title into lower-kebab ASCII, at most 100 characters.
// Runs of anything outside [a-z0-9] become a single dash; an empty result
// becomes "item".
func MakeSlug(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	lastWasDash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastWasDash = false
		default:
			if !lastWasDash {
				b.WriteRune('-')
				lastWasDash = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "item"
	}
	if len(slug) > 100 {
		slug = strings.TrimRight(slug[:100], "-")
	}
	return slug
}

func normalizeTagNames(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
