package view

import (
	"fmt"
	"strconv"
	"time"

	"github.com/cbroglie/mustache"
	"golang.org/x/text/language"

	"github.com/sbeverly/blogindex/cmd/posts"
	"github.com/sbeverly/blogindex/internal/listing"
)

// DateLayout is the long date form used on cards, e.g. "January 15, 2024".
const DateLayout = "January 2, 2006"

const invalidDate = "Invalid Date"

const (
	prevIcon = `<i class="bi bi-chevron-left"></i>`
	nextIcon = `<i class="bi bi-chevron-right"></i>`
)

// DateFormatter turns a post date into its card label.
type DateFormatter func(time.Time) string

// LongDate formats dates in DateLayout in loc. A zero time renders as
// "Invalid Date".
func LongDate(loc *time.Location) DateFormatter {
	if loc == nil {
		loc = time.UTC
	}
	return func(t time.Time) string {
		if t.IsZero() {
			return invalidDate
		}
		return t.In(loc).Format(DateLayout)
	}
}

// Markup renders the index page fragments.
type Markup struct {
	cards      *mustache.Template
	pagination *mustache.Template
	page       *mustache.Template
	formatDate DateFormatter
	lang       language.Tag
	title      string
}

// MarkupOption configures a Markup.
type MarkupOption func(*Markup)

// WithDateFormatter replaces the card date formatter.
func WithDateFormatter(f DateFormatter) MarkupOption {
	return func(m *Markup) { m.formatDate = f }
}

// WithLanguage sets the language tag of the page shell.
func WithLanguage(tag language.Tag) MarkupOption {
	return func(m *Markup) { m.lang = tag }
}

// WithTitle sets the page shell title.
func WithTitle(title string) MarkupOption {
	return func(m *Markup) { m.title = title }
}

// NewMarkup parses the templates.
func NewMarkup(opts ...MarkupOption) (*Markup, error) {
	m := &Markup{
		formatDate: LongDate(time.UTC),
		lang:       language.AmericanEnglish,
		title:      "Blog",
	}
	for _, opt := range opts {
		opt(m)
	}

	var err error
	if m.cards, err = mustache.ParseString(cardsTemplate); err != nil {
		return nil, fmt.Errorf("failed to parse cards template: %w", err)
	}
	if m.pagination, err = mustache.ParseString(paginationTemplate); err != nil {
		return nil, fmt.Errorf("failed to parse pagination template: %w", err)
	}
	if m.page, err = mustache.ParseString(pageTemplate); err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}
	return m, nil
}

type card struct {
	Title     string
	Excerpt   string
	URL       string
	Image     string
	Date      string
	ReadTime  string
	Badges    []string
	HasBadges bool
}

type control struct {
	Page     int
	Label    string
	Active   bool
	Disabled bool
	Gap      bool
}

type pageOption struct {
	Value    string
	Label    string
	Selected bool
}

// PageData is the state of the index page shell.
type PageData struct {
	Lang           string
	Title          string
	Search         string
	Grid           string
	Pagination     string
	ShowNoResults  bool
	CategoryFilter []pageOption
	SortFilter     []pageOption
}

// card returns the view model of one post card.
func (m *Markup) card(p posts.Post) card {
	badges := p.Badges()
	return card{
		Title:     p.Title,
		Excerpt:   p.Excerpt,
		URL:       p.URL(),
		Image:     p.Image(),
		Date:      m.formatDate(p.Time()),
		ReadTime:  p.ReadTimeLabel(),
		Badges:    badges,
		HasBadges: len(badges) > 0,
	}
}

// Cards renders one card per post, in order.
func (m *Markup) Cards(list []posts.Post) (string, error) {
	cards := make([]card, len(list))
	for i, p := range list {
		cards[i] = m.card(p)
	}
	out, err := m.cards.Render(map[string]interface{}{"Cards": cards})
	if err != nil {
		return "", fmt.Errorf("failed to render cards: %w", err)
	}
	return out, nil
}

// Pagination renders the pagination bar.
func (m *Markup) Pagination(controls []listing.Control) (string, error) {
	if len(controls) == 0 {
		return "", nil
	}
	items := make([]control, len(controls))
	for i, c := range controls {
		item := control{Page: c.Page, Active: c.Active, Disabled: c.Disabled}
		switch c.Kind {
		case listing.ControlPrev:
			item.Label = prevIcon
		case listing.ControlNext:
			item.Label = nextIcon
		case listing.ControlEllipsis:
			item.Gap = true
		default:
			item.Label = strconv.Itoa(c.Page)
		}
		items[i] = item
	}
	out, err := m.pagination.Render(map[string]interface{}{"Controls": items})
	if err != nil {
		return "", fmt.Errorf("failed to render pagination: %w", err)
	}
	return out, nil
}

// ErrorNotice returns the notice shown when the posts cannot be loaded.
func (m *Markup) ErrorNotice() string {
	return errorTemplate
}

// Page renders the full index page around the document regions.
func (m *Markup) Page(doc *Document) (string, error) {
	data := doc.Snapshot()
	data.Lang = m.lang.String()
	data.Title = m.title
	out, err := m.page.Render(data)
	if err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}
	return out, nil
}
