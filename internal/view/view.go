// Package view holds the surface the blog index writes into: the Renderer
// contract, an in-memory Document implementing it, and the mustache markup
// for cards, pagination and notices.
package view

// Stable identifiers of the index page regions and controls.
const (
	SearchInput    = "searchInput"
	CategoryFilter = "categoryFilter"
	SortFilter     = "sortFilter"
	Grid           = "blogGrid"
	Pagination     = "pagination"
	NoResults      = "noResults"
	Section        = "blog"
)

// Option is an entry of a select control.
type Option struct {
	Value string
	Label string
}

// Renderer is the passive surface the controller renders into. It reads
// control values and replaces region contents; it never calls back.
type Renderer interface {
	SetHTML(id, html string)
	SetVisible(id string, visible bool)
	Value(id string) string
	AddOptions(id string, opts []Option)
	ScrollIntoView(id string)
}
