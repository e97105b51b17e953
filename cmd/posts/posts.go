package posts

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const (
	// DefaultImage is shown on a card when a post has no featured image.
	DefaultImage = "../assets/img/blog-default.jpg"
	// DefaultReadTime is shown on a card when a post has no read time.
	DefaultReadTime = "5 min read"

	detailDir    = "posts/"
	detailSuffix = ".html"
)

// Post represents a single entry of the blog index.
type Post struct {
	Slug          string   `json:"slug"`
	Title         string   `json:"title"`
	Excerpt       string   `json:"excerpt"`
	Date          string   `json:"date"`
	Categories    []string `json:"categories,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	FeaturedImage string   `json:"featuredImage,omitempty"`
	ReadTime      string   `json:"readTime,omitempty"`
}

// Collection is the document served at data/blogs.json.
type Collection struct {
	Posts []Post `json:"posts"`
}

// URL returns the detail page address of the post.
func (p Post) URL() string {
	return detailDir + p.Slug + detailSuffix
}

// Image returns the featured image or the default one.
func (p Post) Image() string {
	if p.FeaturedImage == "" {
		return DefaultImage
	}
	return p.FeaturedImage
}

// DetailImage returns Image as seen from a detail page, one directory
// below the index. Absolute URLs and root-relative paths are kept as is.
func (p Post) DetailImage() string {
	img := p.Image()
	if strings.HasPrefix(img, "/") {
		return img
	}
	if u, err := url.Parse(img); err == nil && u.IsAbs() {
		return img
	}
	return "../" + img
}

// ReadTimeLabel returns the read time or the default label.
func (p Post) ReadTimeLabel() string {
	if p.ReadTime == "" {
		return DefaultReadTime
	}
	return p.ReadTime
}

// Badges returns the categories shown on a card, at most two.
func (p Post) Badges() []string {
	if len(p.Categories) > 2 {
		return p.Categories[:2]
	}
	return p.Categories
}

// Time parses Date. Dates without a zone are read as UTC; an unparseable
// date yields the zero time.
func (p Post) Time() time.Time {
	if p.Date == "" {
		return time.Time{}
	}
	t, err := dateparse.ParseIn(p.Date, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}

// HasCategory reports whether category is one of the post's categories.
func (p Post) HasCategory(category string) bool {
	for _, c := range p.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Decode reads a collection document. A document without a posts field
// decodes to an empty slice.
func Decode(r io.Reader) ([]Post, error) {
	var c Collection
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}
	if c.Posts == nil {
		return []Post{}, nil
	}
	return c.Posts, nil
}

// Load reads the collection document at path.
func Load(path string) ([]Post, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open posts file %s: %w", path, err)
	}
	defer f.Close()

	return Decode(f)
}

// Encode writes posts as a collection document.
func Encode(w io.Writer, list []Post) error {
	if list == nil {
		list = []Post{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Collection{Posts: list})
}

// Categories returns the distinct categories across list, sorted.
func Categories(list []Post) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range list {
		for _, c := range p.Categories {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// Validate reports the first record missing a slug or a title.
func Validate(list []Post) error {
	for i, p := range list {
		if p.Slug == "" {
			return fmt.Errorf("post %d (%q) has no slug", i, p.Title)
		}
		if p.Title == "" {
			return fmt.Errorf("post %d (%s) has no title", i, p.Slug)
		}
	}
	return nil
}
