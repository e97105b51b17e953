// Package source fetches the post collection the blog index renders.
package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sbeverly/blogindex/cmd/posts"
)

// DefaultPath is where the collection lives relative to the blog root.
const DefaultPath = "data/blogs.json"

// ErrStatus is returned when the collection request gets a non-success
// response.
var ErrStatus = errors.New("unexpected response status")

// PostDataSource returns the post collection.
type PostDataSource interface {
	Fetch(ctx context.Context) ([]posts.Post, error)
}

// HTTP fetches the collection from a web server.
type HTTP struct {
	BaseURL string
	Path    string
	Client  *http.Client
}

// NewHTTP returns a source reading DefaultPath under baseURL.
func NewHTTP(baseURL string) *HTTP {
	return &HTTP{
		BaseURL: baseURL,
		Path:    DefaultPath,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// URL resolves Path against BaseURL.
func (h *HTTP) URL() (string, error) {
	base, err := url.Parse(h.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url %s: %w", h.BaseURL, err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	ref, err := url.Parse(h.Path)
	if err != nil {
		return "", fmt.Errorf("invalid path %s: %w", h.Path, err)
	}
	return base.ResolveReference(ref).String(), nil
}

func (h *HTTP) Fetch(ctx context.Context) ([]posts.Post, error) {
	target, err := h.URL()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", target, err)
	}
	req.Header.Set("Accept", "application/json")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %d", ErrStatus, target, resp.StatusCode)
	}
	return posts.Decode(resp.Body)
}

// File reads the collection from disk.
type File struct {
	Path string
}

func (f File) Fetch(ctx context.Context) ([]posts.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(f.Path); err != nil {
		return nil, fmt.Errorf("posts file %s: %w", f.Path, err)
	}
	return posts.Load(f.Path)
}

// For returns an HTTP source for http(s) locations and a File source
// otherwise. An HTTP location is the blog root the collection lives under.
func For(location string) PostDataSource {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTP(location)
	}
	return File{Path: location}
}
