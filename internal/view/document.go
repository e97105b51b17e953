package view

import (
	"sync"

	"github.com/sbeverly/blogindex/internal/listing"
)

// Document is an in-memory Renderer. Control values are set with SetValue
// and region contents are read back with HTML.
type Document struct {
	mu       sync.RWMutex
	html     map[string]string
	hidden   map[string]bool
	values   map[string]string
	options  map[string][]Option
	scrolled []string
}

// NewDocument returns a document with the index page defaults: the
// category select on "all", no sort, an empty search box and the
// no-results notice hidden.
func NewDocument() *Document {
	return &Document{
		html:   make(map[string]string),
		hidden: map[string]bool{NoResults: true},
		values: map[string]string{
			SearchInput:    "",
			CategoryFilter: listing.AllCategories,
			SortFilter:     "",
		},
		options: map[string][]Option{
			CategoryFilter: {{Value: listing.AllCategories, Label: "All Categories"}},
			SortFilter: {
				{Value: "", Label: "Default"},
				{Value: listing.SortNewest, Label: "Newest First"},
				{Value: listing.SortOldest, Label: "Oldest First"},
			},
		},
	}
}

func (d *Document) SetHTML(id, html string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.html[id] = html
}

func (d *Document) SetVisible(id string, visible bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hidden[id] = !visible
}

func (d *Document) Value(id string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.values[id]
}

func (d *Document) AddOptions(id string, opts []Option) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.options[id] = append(d.options[id], opts...)
}

func (d *Document) ScrollIntoView(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scrolled = append(d.scrolled, id)
}

// SetValue sets the value of a form control.
func (d *Document) SetValue(id, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.values[id] = value
}

// HTML returns the current contents of a region.
func (d *Document) HTML(id string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.html[id]
}

// Visible reports whether a region is shown.
func (d *Document) Visible(id string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return !d.hidden[id]
}

// Options returns the entries of a select control.
func (d *Document) Options(id string) []Option {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]Option(nil), d.options[id]...)
}

// Scrolled returns the ids passed to ScrollIntoView, oldest first.
func (d *Document) Scrolled() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]string(nil), d.scrolled...)
}

// Snapshot captures the document state for the page template.
func (d *Document) Snapshot() PageData {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return PageData{
		Search:         d.values[SearchInput],
		Grid:           d.html[Grid],
		Pagination:     d.html[Pagination],
		ShowNoResults:  !d.hidden[NoResults],
		CategoryFilter: selectOptions(d.options[CategoryFilter], d.values[CategoryFilter]),
		SortFilter:     selectOptions(d.options[SortFilter], d.values[SortFilter]),
	}
}

func selectOptions(opts []Option, selected string) []pageOption {
	out := make([]pageOption, len(opts))
	for i, o := range opts {
		out[i] = pageOption{Value: o.Value, Label: o.Label, Selected: o.Value == selected}
	}
	return out
}
