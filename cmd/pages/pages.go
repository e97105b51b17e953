package pages

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/adrg/frontmatter"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sbeverly/blogindex/cmd/posts"
)

const (
	wordsPerMinute = 200
	excerptLength  = 160
)

// Page is a post source: its index entry plus the rendered body of its
// detail page.
type Page struct {
	Post        posts.Post
	ContentHTML template.HTML
}

type meta struct {
	Slug          string   `yaml:"slug"`
	Title         string   `yaml:"title"`
	Excerpt       string   `yaml:"excerpt"`
	Date          string   `yaml:"date"`
	Categories    []string `yaml:"categories"`
	Tags          []string `yaml:"tags"`
	FeaturedImage string   `yaml:"featuredImage"`
	ReadTime      string   `yaml:"readTime"`
	Draft         bool     `yaml:"draft"`
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
)

// Load reads all .md files from contentDir and parses them into pages,
// newest first. Files that cannot be read are skipped with a warning;
// drafts are left out.
func Load(contentDir string, log zerolog.Logger) ([]Page, error) {
	var loaded []Page
	files, err := os.ReadDir(contentDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read content directory %s: %w", contentDir, err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".md") {
			continue
		}
		filePath := filepath.Join(contentDir, file.Name())
		content, err := os.ReadFile(filePath)
		if err != nil {
			log.Warn().Err(err).Str("file", filePath).Msg("failed to read post source")
			continue
		}

		page, draft, err := Parse(strings.TrimSuffix(file.Name(), ".md"), content)
		if err != nil {
			log.Warn().Err(err).Str("file", filePath).Msg("failed to parse post source")
			continue
		}
		if draft {
			log.Debug().Str("file", filePath).Msg("skipping draft")
			continue
		}
		loaded = append(loaded, page)
	}

	sort.SliceStable(loaded, func(i, j int) bool {
		return loaded[i].Post.Time().After(loaded[j].Post.Time())
	})
	return loaded, nil
}

// Parse builds a page from a markdown source named baseName. It also
// reports whether the source is marked as a draft.
func Parse(baseName string, content []byte) (Page, bool, error) {
	var m meta
	body, err := frontmatter.Parse(bytes.NewReader(content), &m)
	if err != nil {
		// No usable front matter: treat the whole file as markdown.
		body = content
		m = meta{}
	}

	var buf bytes.Buffer
	if err := markdown.Convert(body, &buf); err != nil {
		return Page{}, false, fmt.Errorf("failed to convert markdown: %w", err)
	}

	slug := m.Slug
	if slug == "" {
		slug = baseName
	}
	title := m.Title
	if title == "" {
		// Derive title from slug (e.g., "my-post" -> "My Post")
		title = cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
	}
	if title == "" {
		title = "Untitled Post"
	}
	excerpt := m.Excerpt
	if excerpt == "" {
		excerpt = firstParagraph(body)
	}
	readTime := m.ReadTime
	if readTime == "" {
		readTime = estimateReadTime(body)
	}

	return Page{
		Post: posts.Post{
			Slug:          slug,
			Title:         title,
			Excerpt:       excerpt,
			Date:          m.Date,
			Categories:    m.Categories,
			Tags:          m.Tags,
			FeaturedImage: m.FeaturedImage,
			ReadTime:      readTime,
		},
		ContentHTML: template.HTML(buf.String()),
	}, m.Draft, nil
}

func estimateReadTime(body []byte) string {
	words := len(strings.Fields(string(body)))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

// firstParagraph returns the first prose line of a markdown body, cut to
// excerptLength runes.
func firstParagraph(body []byte) string {
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "```") || strings.HasPrefix(line, "!") {
			continue
		}
		if utf8.RuneCountInString(line) <= excerptLength {
			return line
		}
		runes := []rune(line)
		return strings.TrimSpace(string(runes[:excerptLength])) + "…"
	}
	return ""
}
