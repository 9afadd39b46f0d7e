// Package pager drives incremental loading of the news listing: it decides
// when to replace the accumulated articles, when to append, and when to stop.
//
// A Controller lets at most one fetch be outstanding. Incremental triggers
// that arrive while a fetch is outstanding are dropped. Reset triggers
// (filter changes, resubmitted searches) supersede it instead: the
// outstanding request is cancelled, its result is discarded when it returns,
// and the reset is issued right after.
package pager

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/matheuskafuri/trendly/internal/newsapi"
)

// Fetcher performs one listing request. *newsapi.Client implements it.
type Fetcher interface {
	FetchPage(ctx context.Context, p newsapi.Params) (*newsapi.Response, error)
}

type Controller struct {
	fetcher  Fetcher
	logger   *slog.Logger
	observer Observer

	mu       sync.Mutex
	filters  Filters
	state    State
	page     int
	articles []newsapi.Article
	seen     map[string]struct{}
	total    int
	lastErr  error

	// gen identifies the latest issued request; results from older ones are stale.
	gen     uint64
	cancel  context.CancelFunc
	pending bool
}

type Option func(*Controller)

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(c *Controller) {
		if o != nil {
			c.observer = o
		}
	}
}

func New(f Fetcher, filters Filters, opts ...Option) *Controller {
	c := &Controller{
		fetcher:  f,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		observer: nopObserver{},
		filters:  filters,
		state:    Idle,
		page:     1,
		seen:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load is an accepted trigger. Run performs the fetch and merges the result.
// Run must be called exactly once; until it returns the controller reports
// itself as fetching.
type Load struct {
	c      *Controller
	parent context.Context
	first  *ticket
}

type ticket struct {
	gen    uint64
	kind   Kind
	params newsapi.Params
	ctx    context.Context
	cancel context.CancelFunc
}

// Run blocks until the fetch, and any reset that superseded it, has been
// merged. Run on a nil Load does nothing.
func (l *Load) Run() {
	if l == nil {
		return
	}
	t := l.first
	l.first = nil
	for t != nil {
		start := time.Now()
		resp, err := l.c.fetcher.FetchPage(t.ctx, t.params)
		t = l.c.finish(l.parent, t, resp, err, time.Since(start))
	}
}

// LoadNext requests the next page, or page 1 when reset is true, and blocks
// until it is merged. It reports whether this call issued a fetch.
func (c *Controller) LoadNext(ctx context.Context, reset bool) bool {
	l := c.begin(ctx, reset, nil)
	if l == nil {
		return false
	}
	l.Run()
	return true
}

func (c *Controller) SetQuery(ctx context.Context, q string) *Load {
	return c.begin(ctx, true, func(f *Filters) { f.Query = q })
}

func (c *Controller) SetSortBy(ctx context.Context, sortBy string) *Load {
	return c.begin(ctx, true, func(f *Filters) { f.SortBy = sortBy })
}

func (c *Controller) SetLanguage(ctx context.Context, lang string) *Load {
	return c.begin(ctx, true, func(f *Filters) { f.Language = lang })
}

// SubmitSearch reloads the first page for the current filters.
func (c *Controller) SubmitSearch(ctx context.Context) *Load {
	return c.begin(ctx, true, nil)
}

// RequestMore asks for the next page. It returns nil while a fetch is
// outstanding or once the listing is exhausted.
func (c *Controller) RequestMore(ctx context.Context) *Load {
	return c.begin(ctx, false, nil)
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Filters:      c.filters,
		Articles:     slices.Clone(c.articles),
		Page:         c.page,
		State:        c.state,
		TotalResults: c.total,
		Err:          c.lastErr,
	}
}

func (c *Controller) begin(ctx context.Context, reset bool, mutate func(*Filters)) *Load {
	c.mu.Lock()
	defer c.mu.Unlock()

	if mutate != nil {
		mutate(&c.filters)
	}

	if c.state.fetching() {
		if reset {
			c.supersedeLocked()
		}
		return nil
	}
	if !reset && c.state == Exhausted {
		return nil
	}

	kind := KindMore
	if reset {
		kind = KindReset
	}
	return &Load{c: c, parent: ctx, first: c.startLocked(ctx, kind)}
}

func (c *Controller) supersedeLocked() {
	c.gen++
	c.pending = true
	c.state = FetchingReset
	if c.cancel != nil {
		c.cancel()
	}
	c.logger.Debug("superseding outstanding fetch", "generation", c.gen)
}

func (c *Controller) startLocked(ctx context.Context, kind Kind) *ticket {
	c.gen++

	page := c.page
	c.state = FetchingMore
	if kind == KindReset {
		page = 1
		c.state = FetchingReset
	}

	fctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	t := &ticket{
		gen:  c.gen,
		kind: kind,
		params: newsapi.Params{
			Query:    c.filters.Query,
			SortBy:   c.filters.SortBy,
			Language: c.filters.Language,
			Page:     page,
		},
		ctx:    fctx,
		cancel: cancel,
	}
	c.logger.Debug("fetch start",
		"kind", kind,
		"page", page,
		"generation", t.gen,
		"query", t.params.Query,
		"sort_by", t.params.SortBy,
		"language", t.params.Language,
	)
	return t
}

// finish merges a completed fetch and returns the pending reset to run next, if any.
func (c *Controller) finish(parent context.Context, t *ticket, resp *newsapi.Response, err error, took time.Duration) *ticket {
	t.cancel()
	ev := Event{Kind: t.kind, Duration: took}
	var next *ticket

	c.mu.Lock()
	switch {
	case t.gen != c.gen:
		ev.Outcome = OutcomeStale
		c.logger.Debug("discarding stale fetch", "generation", t.gen, "latest", c.gen)
		if c.pending {
			c.pending = false
			next = c.startLocked(parent, KindReset)
		} else {
			c.state = Idle
		}
	case err != nil:
		ev.Outcome = OutcomeFailed
		c.state = Exhausted
		c.lastErr = err
		c.logger.Error("fetch failed",
			"error", err,
			"kind", t.kind,
			"page", t.params.Page,
			"query", t.params.Query,
		)
	case t.kind == KindReset:
		ev.Outcome, ev.Added = c.replaceLocked(resp)
	default:
		ev.Outcome, ev.Added = c.appendLocked(resp, t.params.Page)
	}
	if next == nil {
		c.cancel = nil
	}
	c.mu.Unlock()

	c.observer.Observe(ev)
	return next
}

func (c *Controller) replaceLocked(resp *newsapi.Response) (Outcome, int) {
	incoming := articlesOf(resp)
	c.lastErr = nil
	c.total = totalOf(resp)

	c.seen = make(map[string]struct{}, len(incoming))
	c.articles = make([]newsapi.Article, 0, len(incoming))
	for _, a := range incoming {
		if _, dup := c.seen[a.URL]; dup {
			continue
		}
		c.seen[a.URL] = struct{}{}
		c.articles = append(c.articles, a)
	}
	c.page = 2

	if len(incoming) == 0 {
		c.state = Exhausted
		c.logger.Info("listing exhausted", "query", c.filters.Query, "page", 1)
		return OutcomeExhausted, 0
	}
	c.state = Idle
	return OutcomeReplaced, len(c.articles)
}

func (c *Controller) appendLocked(resp *newsapi.Response, page int) (Outcome, int) {
	c.lastErr = nil
	if resp != nil {
		c.total = resp.TotalResults
	}

	added := 0
	for _, a := range articlesOf(resp) {
		if _, dup := c.seen[a.URL]; dup {
			continue
		}
		c.seen[a.URL] = struct{}{}
		c.articles = append(c.articles, a)
		added++
	}

	if added == 0 {
		c.state = Exhausted
		c.logger.Info("listing exhausted", "query", c.filters.Query, "page", page)
		return OutcomeExhausted, 0
	}
	c.page++
	c.state = Idle
	return OutcomeAppended, added
}

func articlesOf(resp *newsapi.Response) []newsapi.Article {
	if resp == nil {
		return nil
	}
	return resp.Articles
}

func totalOf(resp *newsapi.Response) int {
	if resp == nil {
		return 0
	}
	return resp.TotalResults
}
