// Package listing implements the filter, search, sort and pagination
// pipeline behind the blog index. It has no rendering dependency.
package listing

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sbeverly/blogindex/cmd/posts"
)

// PageSize is the number of cards on one page.
const PageSize = 9

// Category and sort values understood by the pipeline.
const (
	AllCategories = "all"
	SortNewest    = "newest"
	SortOldest    = "oldest"
)

// Query holds the control values a pipeline run depends on.
type Query struct {
	Search   string
	Category string
	Sort     string
	Page     int
}

// Result is the outcome of one pipeline run.
type Result struct {
	// Visible is the whole filtered and sorted set.
	Visible []posts.Post
	// Items is the window of Visible on Page.
	Items      []posts.Post
	Page       int
	TotalPages int
}

// Total returns the size of the visible set.
func (r Result) Total() int { return len(r.Visible) }

// Empty reports whether nothing matched.
func (r Result) Empty() bool { return len(r.Visible) == 0 }

// Apply runs the full pipeline over all. all is never modified.
func Apply(all []posts.Post, q Query, pageSize int) Result {
	visible := Filter(all, q)
	items, page, total := Paginate(visible, q.Page, pageSize)
	return Result{
		Visible:    visible,
		Items:      items,
		Page:       page,
		TotalPages: total,
	}
}

// Filter returns a fresh slice holding the posts of all that match the
// search term and category, ordered by the sort mode. Category must be
// AllCategories to keep every category; any other value, the empty string
// included, is matched exactly.
func Filter(all []posts.Post, q Query) []posts.Post {
	out := make([]posts.Post, len(all))
	copy(out, all)

	if term := normalize(q.Search); term != "" {
		out = keep(out, func(p posts.Post) bool { return matches(p, term) })
	}

	if q.Category != AllCategories {
		out = keep(out, func(p posts.Post) bool { return p.HasCategory(q.Category) })
	}

	switch q.Sort {
	case SortNewest:
		sortByDate(out, true)
	case SortOldest:
		sortByDate(out, false)
	}
	return out
}

type dated struct {
	post posts.Post
	at   time.Time
}

// sortByDate stably orders list by date, parsing each date once.
func sortByDate(list []posts.Post, newest bool) {
	keyed := make([]dated, len(list))
	for i, p := range list {
		keyed[i] = dated{post: p, at: p.Time()}
	}
	sort.SliceStable(keyed, func(i, j int) bool {
		if newest {
			return keyed[i].at.After(keyed[j].at)
		}
		return keyed[i].at.Before(keyed[j].at)
	})
	for i, d := range keyed {
		list[i] = d.post
	}
}

// TotalPages returns ceil(n/pageSize).
func TotalPages(n, pageSize int) int {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	return (n + pageSize - 1) / pageSize
}

// Clamp bounds page to [1, total]. With no pages it returns 1.
func Clamp(page, total int) int {
	if page > total {
		page = total
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Paginate returns the window of visible on page after clamping it, the
// clamped page and the total page count.
func Paginate(visible []posts.Post, page, pageSize int) ([]posts.Post, int, int) {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	total := TotalPages(len(visible), pageSize)
	page = Clamp(page, total)

	start := (page - 1) * pageSize
	if start >= len(visible) {
		return []posts.Post{}, page, total
	}
	end := start + pageSize
	if end > len(visible) {
		end = len(visible)
	}
	return visible[start:end], page, total
}

func normalize(term string) string {
	return lower(strings.TrimSpace(term))
}

func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

func matches(p posts.Post, term string) bool {
	if strings.Contains(lower(p.Title), term) || strings.Contains(lower(p.Excerpt), term) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(lower(tag), term) {
			return true
		}
	}
	return false
}

func keep(list []posts.Post, fn func(posts.Post) bool) []posts.Post {
	out := list[:0]
	for _, p := range list {
		if fn(p) {
			out = append(out, p)
		}
	}
	return out
}
