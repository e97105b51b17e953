package pages

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/sbeverly/blogindex/cmd/posts"
)

const detailTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.Post.Title}} | {{.SiteTitle}}</title>
</head>
<body>
<article class="blog-post">
  <img src="{{.Post.DetailImage}}" alt="{{.Post.Title}}" class="img-fluid">
  <h1>{{.Post.Title}}</h1>
  <div class="post-meta">
    <span class="post-date">{{.Date}}</span>
    <span class="post-read-time">{{.Post.ReadTimeLabel}}</span>
  </div>
  {{range .Post.Categories}}<span class="badge bg-primary me-1">{{.}}</span>{{end}}
  <div class="post-body">{{.ContentHTML}}</div>
  <a href="../index.html" class="back-link">Back to all posts</a>
</article>
</body>
</html>
`

var detail = template.Must(template.New("post").Parse(detailTemplate))

// Writer renders pages into an output tree.
type Writer struct {
	OutputDir  string
	SiteTitle  string
	FormatDate func(posts.Post) string
	Log        zerolog.Logger
}

// Write renders each page to posts/<slug>.html and the collection index to
// data/blogs.json under OutputDir.
func (w Writer) Write(pages []Page) error {
	postsDir := filepath.Join(w.OutputDir, "posts")
	dataDir := filepath.Join(w.OutputDir, "data")
	for _, dir := range []string{postsDir, dataDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	index := make([]posts.Post, 0, len(pages))
	for _, page := range pages {
		filePath := filepath.Join(w.OutputDir, page.Post.URL())
		if err := w.writePage(filePath, page); err != nil {
			w.Log.Warn().Err(err).Str("file", filePath).Msg("failed to write post page")
			continue
		}
		w.Log.Info().Str("file", filePath).Msg("generated post page")
		index = append(index, page.Post)
	}

	indexPath := filepath.Join(dataDir, "blogs.json")
	file, err := os.Create(indexPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", indexPath, err)
	}
	encodeErr := posts.Encode(file, index)
	closeErr := file.Close()
	if encodeErr != nil {
		return fmt.Errorf("failed to write %s: %w", indexPath, encodeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close %s: %w", indexPath, closeErr)
	}
	w.Log.Info().Str("file", indexPath).Int("posts", len(index)).Msg("generated post index")
	return nil
}

func (w Writer) writePage(filePath string, page Page) error {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}

	date := page.Post.Date
	if w.FormatDate != nil {
		date = w.FormatDate(page.Post)
	}
	data := struct {
		Page
		SiteTitle string
		Date      string
	}{page, w.SiteTitle, date}

	// Closed explicitly to catch errors sooner in the loop
	executeErr := detail.Execute(file, data)
	closeErr := file.Close()
	if executeErr != nil {
		return executeErr
	}
	return closeErr
}
