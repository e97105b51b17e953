// Package controller drives the blog index: it loads the post collection
// once, then re-renders the card grid and pagination bar whenever the
// search, category, sort or page changes.
package controller

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sbeverly/blogindex/cmd/posts"
	"github.com/sbeverly/blogindex/internal/listing"
	"github.com/sbeverly/blogindex/internal/source"
	"github.com/sbeverly/blogindex/internal/view"
)

// SearchDelay is the quiet period after the last search keystroke.
const SearchDelay = 300 * time.Millisecond

// State is the load state of the controller.
type State int

const (
	Pending State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "pending"
	}
}

// Markup renders the fragments the controller writes into the view.
// *view.Markup implements it.
type Markup interface {
	Cards(list []posts.Post) (string, error)
	Pagination(controls []listing.Control) (string, error)
	ErrorNotice() string
}

// Controller owns the loaded collection, the visible set and the current
// page. Every event handler runs under one lock, so a debounced search and
// a page click never interleave.
type Controller struct {
	mu sync.Mutex

	source   source.PostDataSource
	view     view.Renderer
	markup   Markup
	log      zerolog.Logger
	refresh  func()
	pageSize int
	search   *Debouncer

	all     []posts.Post
	query   listing.Query
	visible []posts.Post
	page    int
	total   int
	state   State
	err     error
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger load failures are reported to.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithRefresh sets the hook called after new cards are inserted, e.g. to
// let an entrance-animation library rescan the grid.
func WithRefresh(fn func()) Option {
	return func(c *Controller) {
		if fn != nil {
			c.refresh = fn
		}
	}
}

// WithPageSize overrides listing.PageSize.
func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithSearchDelay overrides SearchDelay.
func WithSearchDelay(d time.Duration) Option {
	return func(c *Controller) { c.search = NewDebouncer(d, c.ApplyFilters) }
}

// New returns a controller rendering into r with m.
func New(src source.PostDataSource, r view.Renderer, m Markup, opts ...Option) *Controller {
	c := &Controller{
		source:   src,
		view:     r,
		markup:   m,
		log:      zerolog.Nop(),
		refresh:  func() {},
		pageSize: listing.PageSize,
		query:    listing.Query{Category: listing.AllCategories, Page: 1},
		page:     1,
	}
	c.search = NewDebouncer(SearchDelay, c.ApplyFilters)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches the collection and renders the first page. A failure is
// final: the error notice replaces the grid and later events are ignored.
func (c *Controller) Load(ctx context.Context) error {
	list, err := c.source.Fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.log.Error().Err(err).Msg("Error loading blog posts")
		c.state = Failed
		c.err = err
		c.view.SetHTML(view.Grid, c.markup.ErrorNotice())
		return err
	}

	c.all = list
	c.query = listing.Query{Category: listing.AllCategories, Page: 1}
	c.state = Ready

	c.populateCategories()
	c.render()
	c.log.Debug().Int("posts", len(list)).Msg("blog posts loaded")
	return nil
}

// SearchInput records a keystroke in the search box. The filters run once
// the input has been quiet for the search delay.
func (c *Controller) SearchInput() {
	c.search.Trigger()
}

// ApplyFilters reruns the pipeline with the current control values and
// returns to the first page.
func (c *Controller) ApplyFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Failed {
		return
	}

	c.query = listing.Query{
		Search:   c.view.Value(view.SearchInput),
		Category: c.view.Value(view.CategoryFilter),
		Sort:     c.view.Value(view.SortFilter),
		Page:     1,
	}
	c.render()
}

// GoToPage shows page n of the visible set and scrolls the list into view.
// Requests for the current page or a page below 1 are ignored; pages past
// the end are clamped to the last page.
func (c *Controller) GoToPage(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Ready {
		return
	}
	target := listing.Control{Kind: listing.ControlNumber, Page: n}
	if !target.Navigable(c.page) {
		return
	}
	if listing.Clamp(n, c.total) == c.page {
		return
	}

	c.query.Page = n
	c.render()
	c.view.ScrollIntoView(view.Section)
}

// Close drops a pending debounced search.
func (c *Controller) Close() {
	c.search.Stop()
}

// Posts returns a copy of the loaded collection.
func (c *Controller) Posts() []posts.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]posts.Post(nil), c.all...)
}

// Visible returns a copy of the visible set.
func (c *Controller) Visible() []posts.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]posts.Post(nil), c.visible...)
}

// Page returns the current page number.
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// TotalPages returns the page count of the visible set.
func (c *Controller) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// State returns the load state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the load error, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Controller) populateCategories() {
	categories := posts.Categories(c.all)
	opts := make([]view.Option, len(categories))
	for i, cat := range categories {
		opts[i] = view.Option{Value: cat, Label: cat}
	}
	c.view.AddOptions(view.CategoryFilter, opts)
}

// render runs the pipeline for c.query and writes the page window and the
// pagination bar. Callers hold c.mu.
func (c *Controller) render() {
	r := listing.Apply(c.all, c.query, c.pageSize)
	c.visible = r.Visible
	c.page = r.Page
	c.query.Page = r.Page
	c.total = r.TotalPages

	if r.Empty() {
		c.view.SetHTML(view.Grid, "")
		c.view.SetVisible(view.NoResults, true)
		c.view.SetHTML(view.Pagination, "")
		return
	}
	c.view.SetVisible(view.NoResults, false)

	cards, err := c.markup.Cards(r.Items)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to render cards")
		c.view.SetHTML(view.Grid, "")
		c.view.SetHTML(view.Pagination, "")
		return
	}
	c.view.SetHTML(view.Grid, cards)
	c.refresh()

	bar, err := c.markup.Pagination(listing.Controls(r.Page, r.TotalPages))
	if err != nil {
		c.log.Error().Err(err).Msg("failed to render pagination")
		return
	}
	c.view.SetHTML(view.Pagination, bar)
}
