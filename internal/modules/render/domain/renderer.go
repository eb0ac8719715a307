package domain

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	pagedomain "ereader/internal/modules/pagination/domain"
)

// Token is the generation a render request was issued under. Tokens grow
// monotonically per Renderer; zero means no request yet.
type Token uint64

type State uint8

const (
	StateIdle State = iota
	StatePending
	StateCommitted
	StateSuperseded
	// StateFailed marks a latest request whose work returned an error; the
	// previously committed drawable stays on the surface.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateCommitted:
		return "committed"
	case StateSuperseded:
		return "superseded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrSuperseded is returned by work that stopped early because its request
// was no longer current.
var ErrSuperseded = errors.New("render superseded")

// Request is one page to draw. Text is the whole document and is shared
// read-only between requests.
type Request struct {
	DocumentID string
	PageIndex  int
	Text       []rune
	Page       pagedomain.PageRange
	Context    pagedomain.MeasurementContext
}

// PageText returns the runes of the requested page.
func (r Request) PageText() []rune {
	start, end := r.Page.Start, r.Page.End()
	if start < 0 {
		start = 0
	}
	if end > len(r.Text) {
		end = len(r.Text)
	}
	if start >= end {
		return nil
	}
	return r.Text[start:end]
}

// Tail returns the text from the start of the page to the end of the
// document. Laying out the tail reproduces the line breaks pagination chose.
func (r Request) Tail() []rune {
	if r.Page.Start < 0 || r.Page.Start >= len(r.Text) {
		return nil
	}
	return r.Text[r.Page.Start:]
}

// Work draws a request. current reports whether the request is still the
// latest one; long-running work may stop early once it turns false.
type Work[D any] func(ctx context.Context, req Request, current func() bool) (D, error)

// Surface displays committed drawables. Present is never called
// concurrently and only ever with the latest generation.
type Surface[D any] interface {
	Present(token Token, req Request, drawable D)
}

// Dispatcher runs work off the calling goroutine.
type Dispatcher interface {
	Go(ctx context.Context, fn func())
}

type Stats struct {
	Committed  uint64
	Superseded uint64
	Failed     uint64
}

// Renderer draws pages in the background and commits only the result of the
// most recent request. Each request mints a new token; a result whose token
// is no longer current when it arrives is discarded without reaching the
// surface.
type Renderer[D any] struct {
	dispatcher Dispatcher
	surface    Surface[D]

	generation atomic.Uint64

	mu        sync.Mutex
	committed Token
	failed    Token

	commits     atomic.Uint64
	supersedes  atomic.Uint64
	failures    atomic.Uint64
	onDiscarded func(Token)
}

func NewRenderer[D any](dispatcher Dispatcher, surface Surface[D]) *Renderer[D] {
	return &Renderer[D]{dispatcher: dispatcher, surface: surface}
}

// OnDiscarded registers a hook called with every superseded token.
func (r *Renderer[D]) OnDiscarded(fn func(Token)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onDiscarded = fn
}

// RequestRender mints a token and schedules work on the dispatcher.
func (r *Renderer[D]) RequestRender(ctx context.Context, req Request, work Work[D]) Token {
	token := r.bump()
	r.dispatcher.Go(ctx, func() {
		current := func() bool { return r.Current(token) }
		if !current() {
			r.discard(token)
			return
		}
		drawable, err := work(ctx, req, current)
		switch {
		case errors.Is(err, ErrSuperseded):
			r.discard(token)
		case err != nil:
			r.fail(token)
		default:
			r.commit(token, req, drawable)
		}
	})
	return token
}

// RequestRenderSync draws on the calling goroutine and commits immediately.
// It still mints a token, so any older in-flight result is discarded.
func (r *Renderer[D]) RequestRenderSync(ctx context.Context, req Request, work Work[D]) (Token, error) {
	token := r.bump()
	drawable, err := work(ctx, req, func() bool { return r.Current(token) })
	if errors.Is(err, ErrSuperseded) {
		r.discard(token)
		return token, nil
	}
	if err != nil {
		r.fail(token)
		return token, err
	}
	r.commit(token, req, drawable)
	return token, nil
}

// Invalidate advances the generation without scheduling work, so every
// in-flight result is discarded when it arrives.
func (r *Renderer[D]) Invalidate() Token {
	return r.bump()
}

// Current reports whether token is the latest generation.
func (r *Renderer[D]) Current(token Token) bool {
	return Token(r.generation.Load()) == token
}

// Generation returns the latest minted token.
func (r *Renderer[D]) Generation() Token {
	return Token(r.generation.Load())
}

// Status reports the state of the request issued under token.
func (r *Renderer[D]) Status(token Token) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	gen := Token(r.generation.Load())
	switch {
	case token == 0 || token > gen:
		return StateIdle
	case token == r.committed:
		return StateCommitted
	case token < gen:
		return StateSuperseded
	case token == r.failed:
		return StateFailed
	default:
		return StatePending
	}
}

// Committed returns the token of the drawable currently on the surface.
func (r *Renderer[D]) Committed() Token {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.committed
}

func (r *Renderer[D]) Stats() Stats {
	return Stats{
		Committed:  r.commits.Load(),
		Superseded: r.supersedes.Load(),
		Failed:     r.failures.Load(),
	}
}

// bump mints the next token. It holds mu so a commit never straddles a
// generation change.
func (r *Renderer[D]) bump() Token {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Token(r.generation.Add(1))
}

func (r *Renderer[D]) commit(token Token, req Request, drawable D) {
	r.mu.Lock()
	if !r.Current(token) {
		hook := r.onDiscarded
		r.mu.Unlock()
		r.supersedes.Add(1)
		if hook != nil {
			hook(token)
		}
		return
	}
	defer r.mu.Unlock()
	r.surface.Present(token, req, drawable)
	r.committed = token
	r.commits.Add(1)
}

func (r *Renderer[D]) discard(token Token) {
	r.supersedes.Add(1)
	r.mu.Lock()
	hook := r.onDiscarded
	r.mu.Unlock()
	if hook != nil {
		hook(token)
	}
}

func (r *Renderer[D]) fail(token Token) {
	r.failures.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Current(token) {
		r.failed = token
	}
}
