package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTP_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/blog/data/blogs.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"posts": [{"slug": "a", "title": "A"}, {"slug": "b", "title": "B"}]}`))
	}))
	defer srv.Close()

	list, err := NewHTTP(srv.URL + "/blog").Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestHTTP_FetchStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewHTTP(srv.URL).Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStatus))
}

func TestHTTP_FetchTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTP(url).Fetch(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrStatus))
}

func TestHTTP_URL(t *testing.T) {
	tests := []struct {
		base, want string
	}{
		{"https://example.com", "https://example.com/data/blogs.json"},
		{"https://example.com/blog/", "https://example.com/blog/data/blogs.json"},
		{"https://example.com/blog", "https://example.com/blog/data/blogs.json"},
	}
	for _, tt := range tests {
		got, err := NewHTTP(tt.base).URL()
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestFile_Fetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blogs.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0644))

	list, err := File{Path: path}.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = File{Path: filepath.Join(t.TempDir(), "missing.json")}.Fetch(context.Background())
	assert.Error(t, err)
}

func TestFor(t *testing.T) {
	assert.IsType(t, &HTTP{}, For("http://localhost:8080"))
	assert.IsType(t, File{}, For("public/data/blogs.json"))
}
