package catalog

import (
	"cmp"
	"context"
	"sort"
	"sync"

	"gameportal/backend/internal/models"
)

// MemoryStore is an in-process Store evaluating predicates directly.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[uint]models.Game
}

func NewMemoryStore(games ...models.Game) *MemoryStore {
	s := &MemoryStore{games: make(map[uint]models.Game)}
	s.Put(games...)
	return s
}

// Put inserts or replaces games by ID.
func (s *MemoryStore) Put(games ...models.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range games {
		s.games[g.ID] = g
	}
}

func (s *MemoryStore) Find(ctx context.Context, q Query) ([]models.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	matched := s.filter(q.Predicates())
	s.mu.RUnlock()

	order := q.Order()
	sort.SliceStable(matched, func(i, j int) bool {
		return less(&matched[i], &matched[j], order)
	})

	offset := max(q.Offset(), 0)
	if offset >= len(matched) {
		return []models.Game{}, nil
	}
	end := offset + q.Limit()
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (s *MemoryStore) Count(ctx context.Context, preds []Predicate) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.filter(preds))), nil
}

func (s *MemoryStore) filter(preds []Predicate) []models.Game {
	out := make([]models.Game, 0, len(s.games))
	for _, g := range s.games {
		g := g
		if MatchAll(preds, &g) {
			out = append(out, g)
		}
	}
	return out
}

func less(a, b *models.Game, order []OrderTerm) bool {
	for _, term := range order {
		c := compare(a, b, term.Field)
		if c == 0 {
			continue
		}
		if term.Desc {
			return c > 0
		}
		return c < 0
	}
	return false
}

func compare(a, b *models.Game, field SortField) int {
	switch field {
	case FieldRating:
		return cmp.Compare(a.Rating, b.Rating)
	case FieldPlayCount:
		return cmp.Compare(a.PlayCount, b.PlayCount)
	case FieldCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case FieldID:
		return cmp.Compare(a.ID, b.ID)
	}
	return 0
}
