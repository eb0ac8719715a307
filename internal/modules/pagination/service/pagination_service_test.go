package service_test

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	paginationadapter "ereader/internal/modules/pagination/adapter/out"
	"ereader/internal/modules/pagination/domain"
	paginationout "ereader/internal/modules/pagination/port/out"
	"ereader/internal/modules/pagination/service"
	apperrors "ereader/internal/platform/errors"
	"ereader/internal/platform/typeset"
	"ereader/internal/platform/workerpool"
)

type countingEngine struct {
	inner    paginationout.LayoutEngine
	calls    atomic.Int32
	released atomic.Int32
}

func (e *countingEngine) NewFitter(mc domain.MeasurementContext) (domain.Fitter, func(), error) {
	e.calls.Add(1)
	fitter, release, err := e.inner.NewFitter(mc)
	if err != nil {
		return nil, nil, err
	}
	return fitter, func() {
		e.released.Add(1)
		release()
	}, nil
}

func newService(t *testing.T) (*service.PaginationService, *countingEngine) {
	t.Helper()
	engine := &countingEngine{inner: paginationadapter.NewTypesetEngine(typeset.Fixed7x13{})}
	svc, err := service.NewPaginationService(engine, workerpool.New(2), 8, zerolog.Nop())
	require.NoError(t, err)
	return svc, engine
}

var pageOf500 = domain.MeasurementContext{Display: domain.Rect{Width: 350, Height: 130}}

func TestPaginateCachesByContentAndContext(t *testing.T) {
	t.Parallel()
	svc, engine := newService(t)
	text := []rune(strings.Repeat("abcdefghij", 1000))

	first, err := svc.Paginate(context.Background(), text, pageOf500)
	require.NoError(t, err)
	assert.Len(t, first.Pages, 20)
	assert.False(t, first.Cached)

	second, err := svc.Paginate(context.Background(), text, pageOf500)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.Equal(t, int32(1), engine.calls.Load())
	assert.Equal(t, int32(1), engine.released.Load())

	larger := pageOf500.WithDisplay(350, 260)
	third, err := svc.Paginate(context.Background(), text, larger)
	require.NoError(t, err)
	assert.Len(t, third.Pages, 10)
	assert.NotEqual(t, first.Fingerprint, third.Fingerprint)
	assert.Equal(t, int32(2), engine.calls.Load())

	svc.Invalidate()
	_, err = svc.Paginate(context.Background(), text, pageOf500)
	require.NoError(t, err)
	assert.Equal(t, int32(3), engine.calls.Load())
}

func TestPaginateConcurrentCallersShareResult(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t)
	text := []rune(strings.Repeat("lorem ipsum ", 2000))

	var wg sync.WaitGroup
	results := make([]service.Result, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.Paginate(context.Background(), text, pageOf500)
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()
	for _, res := range results {
		assert.Equal(t, results[0].Pages, res.Pages)
		assert.NoError(t, domain.Verify(res.Pages, len(text)))
	}
}

func TestCancelledCallerDoesNotFailJoinedCaller(t *testing.T) {
	t.Parallel()
	engine := &countingEngine{inner: paginationadapter.NewTypesetEngine(typeset.Fixed7x13{})}
	pool := workerpool.New(1)
	svc, err := service.NewPaginationService(engine, pool, 8, zerolog.Nop())
	require.NoError(t, err)
	text := []rune(strings.Repeat("abcdefghij", 1000))

	hold := make(chan struct{})
	held := make(chan struct{})
	pool.Go(context.Background(), func() {
		close(held)
		<-hold
	})
	<-held

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := svc.Paginate(ctxA, text, pageOf500)
		errA <- err
	}()
	type outcome struct {
		res service.Result
		err error
	}
	outB := make(chan outcome, 1)
	go func() {
		res, err := svc.Paginate(context.Background(), text, pageOf500)
		outB <- outcome{res, err}
	}()

	time.Sleep(20 * time.Millisecond)
	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	close(hold)
	b := <-outB
	require.NoError(t, b.err)
	assert.Len(t, b.res.Pages, 20)
	assert.Equal(t, int32(1), engine.calls.Load())
	pool.Wait()
}

func TestPaginateErrors(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t)
	_, err := svc.Paginate(context.Background(), []rune("abc"), domain.MeasurementContext{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidGeometry)

	_, err = svc.Paginate(context.Background(), []rune("abc"), pageOf500.WithDisplay(350, 4))
	assert.ErrorIs(t, err, apperrors.ErrNoForwardProgress)
}

func TestPaginateAsync(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t)
	res := <-svc.PaginateAsync(context.Background(), []rune("hello world"), pageOf500)
	require.NoError(t, res.Err)
	assert.Equal(t, []domain.PageRange{{Start: 0, Length: 11}}, res.Result.Pages)
}

func TestCellEngine(t *testing.T) {
	t.Parallel()
	svc, err := service.NewPaginationService(paginationadapter.NewCellEngine(), workerpool.New(1), 0, zerolog.Nop())
	require.NoError(t, err)
	res, err := svc.Paginate(context.Background(), []rune(strings.Repeat("x", 100)), domain.MeasurementContext{Display: domain.Rect{Width: 10, Height: 3}})
	require.NoError(t, err)
	assert.Len(t, res.Pages, 4)
}
