package service

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"ereader/internal/modules/pagination/domain"
	paginationout "ereader/internal/modules/pagination/port/out"
	"ereader/internal/platform/workerpool"
)

const DefaultCacheSize = 64

// Result is the outcome of one pagination.
type Result struct {
	Pages       []domain.PageRange
	ContentHash string
	Fingerprint string
	Cached      bool
}

// PaginationService runs pagination on the worker pool and keeps finished
// page sequences, keyed by content hash and context. Cached sequences are
// shared between callers and must not be modified.
type PaginationService struct {
	engine paginationout.LayoutEngine
	pool   *workerpool.Pool
	cache  *lru.Cache[string, []domain.PageRange]
	group  singleflight.Group
	logger zerolog.Logger
}

func NewPaginationService(engine paginationout.LayoutEngine, pool *workerpool.Pool, cacheSize int, logger zerolog.Logger) (*PaginationService, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, []domain.PageRange](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("new pagination cache: %w", err)
	}
	return &PaginationService{engine: engine, pool: pool, cache: cache, logger: logger}, nil
}

// Paginate returns the pages of text under mc. The layout itself runs on a
// pool worker; concurrent calls for the same key share one computation.
func (s *PaginationService) Paginate(ctx context.Context, text []rune, mc domain.MeasurementContext) (Result, error) {
	if err := mc.Validate(); err != nil {
		return Result{}, err
	}
	hash := domain.ContentHash(text)
	fingerprint := domain.Fingerprint(hash, mc)
	result := Result{ContentHash: hash, Fingerprint: fingerprint}

	if pages, ok := s.cache.Get(fingerprint); ok {
		s.logger.Debug().Str("fingerprint", fingerprint).Int("pages", len(pages)).Msg("pagination cache hit")
		result.Pages = pages
		result.Cached = true
		return result, nil
	}

	// Joined callers share one computation; it ignores each caller's
	// cancellation, and each caller stops waiting on its own ctx.
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(fingerprint, func() (any, error) {
		var pages []domain.PageRange
		var perr error
		if err := s.pool.Run(shared, func() {
			pages, perr = s.compute(shared, text, mc)
		}); err != nil {
			return nil, err
		}
		if perr != nil {
			return nil, perr
		}
		s.cache.Add(fingerprint, pages)
		return pages, nil
	})
	var v any
	select {
	case res := <-ch:
		if res.Err != nil {
			return Result{}, fmt.Errorf("paginate: %w", res.Err)
		}
		v = res.Val
	case <-ctx.Done():
		return Result{}, fmt.Errorf("paginate: %w", ctx.Err())
	}
	result.Pages = v.([]domain.PageRange)
	s.logger.Debug().
		Str("fingerprint", fingerprint).
		Str("context", mc.Key()).
		Int("characters", len(text)).
		Int("pages", len(result.Pages)).
		Msg("paginated")
	return result, nil
}

// PaginateAsync runs Paginate on its own goroutine and delivers the outcome
// on the returned channel, which receives exactly one value.
func (s *PaginationService) PaginateAsync(ctx context.Context, text []rune, mc domain.MeasurementContext) <-chan AsyncResult {
	out := make(chan AsyncResult, 1)
	go func() {
		res, err := s.Paginate(ctx, text, mc)
		out <- AsyncResult{Result: res, Err: err}
	}()
	return out
}

type AsyncResult struct {
	Result Result
	Err    error
}

// Invalidate drops every cached page sequence.
func (s *PaginationService) Invalidate() {
	s.cache.Purge()
}

func (s *PaginationService) compute(ctx context.Context, text []rune, mc domain.MeasurementContext) ([]domain.PageRange, error) {
	fitter, release, err := s.engine.NewFitter(mc)
	if err != nil {
		return nil, err
	}
	defer release()
	return domain.Paginate(ctx, text, mc, fitter)
}
