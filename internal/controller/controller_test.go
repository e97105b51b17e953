package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbeverly/blogindex/cmd/posts"
	"github.com/sbeverly/blogindex/internal/listing"
	"github.com/sbeverly/blogindex/internal/source"
	"github.com/sbeverly/blogindex/internal/view"
)

type stubSource struct {
	posts []posts.Post
	err   error
	calls int
}

func (s *stubSource) Fetch(ctx context.Context) ([]posts.Post, error) {
	s.calls++
	return s.posts, s.err
}

func numbered(n int) []posts.Post {
	out := make([]posts.Post, n)
	for i := range out {
		out[i] = posts.Post{
			Slug:       fmt.Sprintf("post-%d", i+1),
			Title:      fmt.Sprintf("Post %d", i+1),
			Excerpt:    "Lorem ipsum.",
			Date:       fmt.Sprintf("2024-01-%02d", i+1),
			Categories: []string{"General"},
		}
	}
	return out
}

func newController(t *testing.T, src source.PostDataSource, opts ...Option) (*Controller, *view.Document) {
	t.Helper()
	m, err := view.NewMarkup()
	require.NoError(t, err)
	doc := view.NewDocument()
	c := New(src, doc, m, opts...)
	t.Cleanup(c.Close)
	return c, doc
}

// flakyMarkup wraps view.Markup and fails Cards while fail is set.
type flakyMarkup struct {
	*view.Markup
	fail bool
}

func (m *flakyMarkup) Cards(list []posts.Post) (string, error) {
	if m.fail {
		return "", errors.New("template exploded")
	}
	return m.Markup.Cards(list)
}

func TestLoad_TenPosts(t *testing.T) {
	c, doc := newController(t, &stubSource{posts: numbered(10)})

	require.NoError(t, c.Load(context.Background()))

	assert.Equal(t, Ready, c.State())
	assert.Equal(t, 1, c.Page())
	assert.Equal(t, 2, c.TotalPages())
	assert.Equal(t, 9, strings.Count(doc.HTML(view.Grid), `class="blog-card"`))
	assert.False(t, doc.Visible(view.NoResults))

	bar := doc.HTML(view.Pagination)
	assert.Contains(t, bar, `data-page="1">1</a>`)
	assert.Contains(t, bar, `data-page="2">2</a>`)
	assert.NotContains(t, bar, "...")

	c.GoToPage(2)

	assert.Equal(t, 2, c.Page())
	assert.Equal(t, 1, strings.Count(doc.HTML(view.Grid), `class="blog-card"`))
	assert.Contains(t, doc.HTML(view.Grid), "Post 10")
	assert.Equal(t, []string{view.Section}, doc.Scrolled())
}

func TestLoad_PopulatesCategories(t *testing.T) {
	src := &stubSource{posts: []posts.Post{
		{Slug: "a", Title: "A", Categories: []string{"Web", "Go"}},
		{Slug: "b", Title: "B", Categories: []string{"Go"}},
	}}
	c, doc := newController(t, src)

	require.NoError(t, c.Load(context.Background()))

	assert.Equal(t, []view.Option{
		{Value: "all", Label: "All Categories"},
		{Value: "Go", Label: "Go"},
		{Value: "Web", Label: "Web"},
	}, doc.Options(view.CategoryFilter))
}

func TestLoad_Failure(t *testing.T) {
	src := &stubSource{err: fmt.Errorf("%w: 500", source.ErrStatus)}
	c, doc := newController(t, src)

	err := c.Load(context.Background())
	require.Error(t, err)

	assert.Equal(t, Failed, c.State())
	assert.True(t, errors.Is(c.Err(), source.ErrStatus))
	assert.Contains(t, doc.HTML(view.Grid), "Unable to load blog posts")
	assert.NotContains(t, doc.HTML(view.Grid), "blog-card")
	assert.Empty(t, c.Posts())

	doc.SetValue(view.SearchInput, "anything")
	c.ApplyFilters()
	c.GoToPage(2)
	assert.Contains(t, doc.HTML(view.Grid), "Unable to load blog posts")
	assert.Equal(t, 1, src.calls)
}

func TestLoad_EmptyCollection(t *testing.T) {
	c, doc := newController(t, &stubSource{posts: []posts.Post{}})

	require.NoError(t, c.Load(context.Background()))

	assert.True(t, doc.Visible(view.NoResults))
	assert.Empty(t, doc.HTML(view.Grid))
	assert.Empty(t, doc.HTML(view.Pagination))
}

func TestApplyFilters_Search(t *testing.T) {
	src := &stubSource{posts: []posts.Post{
		{Slug: "guide", Title: "Beginner's Guide", Excerpt: "Start here."},
		{Slug: "tips", Title: "Advanced Tips", Excerpt: "Go further."},
	}}
	c, doc := newController(t, src)
	require.NoError(t, c.Load(context.Background()))

	doc.SetValue(view.SearchInput, "guide")
	c.ApplyFilters()

	visible := c.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "guide", visible[0].Slug)
	assert.Contains(t, doc.HTML(view.Grid), "posts/guide.html")
	assert.NotContains(t, doc.HTML(view.Grid), "Advanced Tips")
}

func TestApplyFilters_NoResults(t *testing.T) {
	c, doc := newController(t, &stubSource{posts: numbered(12)})
	require.NoError(t, c.Load(context.Background()))
	require.NotEmpty(t, doc.HTML(view.Pagination))

	doc.SetValue(view.CategoryFilter, "Missing")
	c.ApplyFilters()

	assert.Empty(t, doc.HTML(view.Grid))
	assert.True(t, doc.Visible(view.NoResults))
	assert.Empty(t, doc.HTML(view.Pagination))
	assert.Equal(t, 0, c.TotalPages())

	doc.SetValue(view.CategoryFilter, "all")
	c.ApplyFilters()
	assert.False(t, doc.Visible(view.NoResults))
}

func TestApplyFilters_ResetsPage(t *testing.T) {
	c, doc := newController(t, &stubSource{posts: numbered(30)})
	require.NoError(t, c.Load(context.Background()))

	c.GoToPage(3)
	require.Equal(t, 3, c.Page())

	doc.SetValue(view.SortFilter, "newest")
	c.ApplyFilters()

	assert.Equal(t, 1, c.Page())
	visible := c.Visible()
	require.Len(t, visible, 30)
	assert.Equal(t, "post-30", visible[0].Slug)
	assert.Len(t, c.Posts(), 30)
	assert.Equal(t, "post-1", c.Posts()[0].Slug)
}

func TestGoToPage_Bounds(t *testing.T) {
	c, doc := newController(t, &stubSource{posts: numbered(20)})
	require.NoError(t, c.Load(context.Background()))

	c.GoToPage(1)
	c.GoToPage(0)
	c.GoToPage(-1)
	assert.Equal(t, 1, c.Page())
	assert.Empty(t, doc.Scrolled())

	c.GoToPage(99)
	assert.Equal(t, 3, c.Page())
	assert.Contains(t, doc.HTML(view.Grid), "Post 20")
	assert.Len(t, doc.Scrolled(), 1)
}

func TestGoToPage_KeepsFilters(t *testing.T) {
	list := numbered(20)
	for i := range list {
		if i%2 == 0 {
			list[i].Tags = []string{"even"}
		}
	}
	c, doc := newController(t, &stubSource{posts: list})
	require.NoError(t, c.Load(context.Background()))

	doc.SetValue(view.SearchInput, "EVEN")
	c.ApplyFilters()
	require.Equal(t, 2, c.TotalPages())

	c.GoToPage(2)
	assert.Equal(t, 1, strings.Count(doc.HTML(view.Grid), `class="blog-card"`))
	assert.Contains(t, doc.HTML(view.Grid), "Post 19")
}

func TestRender_Defaults(t *testing.T) {
	src := &stubSource{posts: []posts.Post{{Slug: "bare", Title: "Bare", Date: "2024-06-01"}}}
	c, doc := newController(t, src)
	require.NoError(t, c.Load(context.Background()))

	grid := doc.HTML(view.Grid)
	assert.Contains(t, grid, posts.DefaultImage)
	assert.Contains(t, grid, posts.DefaultReadTime)
	assert.Contains(t, grid, "June 1, 2024")
	assert.Empty(t, doc.HTML(view.Pagination))
}

func TestRefreshHook(t *testing.T) {
	var calls int32
	c, doc := newController(t, &stubSource{posts: numbered(10)}, WithRefresh(func() {
		atomic.AddInt32(&calls, 1)
	}))
	require.NoError(t, c.Load(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	c.GoToPage(2)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	doc.SetValue(view.SearchInput, "no such post")
	c.ApplyFilters()
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSearchInput_Debounced(t *testing.T) {
	c, doc := newController(t, &stubSource{posts: numbered(12)}, WithSearchDelay(20*time.Millisecond))
	require.NoError(t, c.Load(context.Background()))

	for _, term := range []string{"p", "po", "post 1"} {
		doc.SetValue(view.SearchInput, term)
		c.SearchInput()
	}
	assert.Len(t, c.Visible(), 12, "filters must wait for the quiet period")

	assert.Eventually(t, func() bool {
		return len(c.Visible()) == 4
	}, time.Second, 5*time.Millisecond)
}

func TestWithPageSize(t *testing.T) {
	c, doc := newController(t, &stubSource{posts: numbered(10)}, WithPageSize(4))
	require.NoError(t, c.Load(context.Background()))

	assert.Equal(t, 3, c.TotalPages())
	assert.Equal(t, 4, strings.Count(doc.HTML(view.Grid), `class="blog-card"`))
}

func TestRender_CardsFailureClearsPagination(t *testing.T) {
	base, err := view.NewMarkup()
	require.NoError(t, err)
	m := &flakyMarkup{Markup: base}
	doc := view.NewDocument()
	c := New(&stubSource{posts: numbered(20)}, doc, m)
	t.Cleanup(c.Close)

	require.NoError(t, c.Load(context.Background()))
	require.NotEmpty(t, doc.HTML(view.Pagination))
	require.NotEmpty(t, doc.HTML(view.Grid))

	m.fail = true
	c.GoToPage(2)

	assert.Empty(t, doc.HTML(view.Pagination))
	assert.Empty(t, doc.HTML(view.Grid))
	assert.False(t, doc.Visible(view.NoResults))

	m.fail = false
	c.GoToPage(3)
	assert.Contains(t, doc.HTML(view.Pagination), `data-page="3">3</a>`)
}

func TestApplyFilters_MatchesPipeline(t *testing.T) {
	list := numbered(25)
	list[4].Categories = []string{"Go"}
	list[17].Categories = []string{"Go"}
	c, doc := newController(t, &stubSource{posts: list})
	require.NoError(t, c.Load(context.Background()))

	doc.SetValue(view.CategoryFilter, "Go")
	doc.SetValue(view.SortFilter, listing.SortOldest)
	c.ApplyFilters()

	want := listing.Apply(list, listing.Query{Category: "Go", Sort: listing.SortOldest, Page: 1}, listing.PageSize)
	assert.Equal(t, want.Visible, c.Visible())
	assert.Equal(t, want.Page, c.Page())
	assert.Equal(t, want.TotalPages, c.TotalPages())
	assert.Equal(t, 2, strings.Count(doc.HTML(view.Grid), `class="blog-card"`))
}

func TestGoToPage_IgnoresCurrentAfterClamp(t *testing.T) {
	c, doc := newController(t, &stubSource{posts: numbered(20)})
	require.NoError(t, c.Load(context.Background()))

	c.GoToPage(3)
	require.Equal(t, 3, c.Page())
	require.Len(t, doc.Scrolled(), 1)

	c.GoToPage(50)
	assert.Equal(t, 3, c.Page())
	assert.Len(t, doc.Scrolled(), 1)
}
