package catalog

import (
	"context"
	"errors"
	"time"

	apperrors "gameportal/backend/internal/errors"
	"gameportal/backend/internal/metrics"
	"gameportal/backend/internal/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Page is one window of search results with total-count metadata.
type Page struct {
	Items      []models.Game
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// Options configures a Service.
type Options struct {
	Limits  Limits
	Timeout time.Duration
}

// Service answers catalog searches against an injected Store. It holds no
// mutable state and is safe for concurrent use.
type Service struct {
	store   Store
	limits  Limits
	timeout time.Duration
	log     *zap.SugaredLogger
}

func NewService(store Store, opts Options, log *zap.SugaredLogger) *Service {
	if opts.Limits.Max <= 0 {
		opts.Limits.Max = DefaultLimits.Max
	}
	if opts.Limits.Default <= 0 || opts.Limits.Default > opts.Limits.Max {
		opts.Limits.Default = min(DefaultLimits.Default, opts.Limits.Max)
	}
	return &Service{
		store:   store,
		limits:  opts.Limits,
		timeout: opts.Timeout,
		log:     log.Named("catalog"),
	}
}

// Search validates req, then fetches the requested page and the total match
// count from the store in parallel. Store failures are never reported as an
// empty page. There are no retries.
func (s *Service) Search(ctx context.Context, req FilterRequest) (*Page, error) {
	start := time.Now()
	defer func() { metrics.CatalogQueryDuration.Observe(time.Since(start).Seconds()) }()

	q, err := BuildQuery(req, s.limits)
	if err != nil {
		metrics.CatalogQueriesTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var (
		games []models.Game
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.store.Count(gctx, q.Predicates())
		return err
	})
	g.Go(func() error {
		var err error
		games, err = s.store.Find(gctx, q)
		return err
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			metrics.CatalogQueriesTotal.WithLabelValues("timeout").Inc()
			s.log.Warnw("catalog query timed out", "timeout", s.timeout, "predicates", len(q.predicates))
			return nil, apperrors.NewProviderTimeoutError(err)
		}
		metrics.CatalogQueriesTotal.WithLabelValues("unavailable").Inc()
		s.log.Errorw("catalog provider failed", "error", err)
		return nil, apperrors.NewProviderUnavailableError(err)
	}

	if games == nil {
		games = []models.Game{}
	}
	metrics.CatalogQueriesTotal.WithLabelValues("ok").Inc()

	return &Page{
		Items:      games,
		Total:      total,
		Page:       q.Page(),
		Limit:      q.Limit(),
		TotalPages: int((total + int64(q.Limit()) - 1) / int64(q.Limit())),
	}, nil
}

// Limits returns the effective page size bounds.
func (s *Service) Limits() Limits { return s.limits }
