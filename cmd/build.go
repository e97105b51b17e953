package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sbeverly/blogindex/cmd/pages"
	"github.com/sbeverly/blogindex/cmd/posts"
	"github.com/sbeverly/blogindex/cmd/static"
	"github.com/sbeverly/blogindex/internal/config"
	"github.com/sbeverly/blogindex/internal/logger"
	"github.com/sbeverly/blogindex/internal/view"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Builds the post pages and the posts collection",
	Long: `The build command copies the site assets from the static directory,
renders every markdown post under the content directory to posts/<slug>.html,
and writes the data/blogs.json collection the index loads.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(appConfig)
	},
}

func runBuild(cfg config.Config) error {
	log := logger.With("build")
	log.Info().Str("content", cfg.ContentDir).Str("output", cfg.OutputDir).Msg("building site")

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", cfg.OutputDir, err)
	}

	if _, err := os.Stat(cfg.StaticDir); !os.IsNotExist(err) {
		n, err := static.CopyAll(cfg.StaticDir, cfg.OutputDir, log)
		if err != nil {
			return fmt.Errorf("failed to copy static assets: %w", err)
		}
		log.Info().Int("files", n).Msg("static assets copied")
	} else {
		log.Info().Str("dir", cfg.StaticDir).Msg("static directory not found, skipping")
	}

	var sources []pages.Page
	if _, err := os.Stat(cfg.ContentDir); !os.IsNotExist(err) {
		sources, err = pages.Load(cfg.ContentDir, log)
		if err != nil {
			return fmt.Errorf("failed to load posts from %s: %w", cfg.ContentDir, err)
		}
	} else {
		log.Info().Str("dir", cfg.ContentDir).Msg("content directory not found, skipping")
	}
	if len(sources) == 0 {
		log.Warn().Str("dir", cfg.ContentDir).Msg("no posts found")
	}

	list := make([]posts.Post, len(sources))
	for i, s := range sources {
		list[i] = s.Post
	}
	if err := posts.Validate(list); err != nil {
		return fmt.Errorf("invalid post sources: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	w := pages.Writer{
		OutputDir: cfg.OutputDir,
		SiteTitle: cfg.SiteTitle,
		FormatDate: func(p posts.Post) string {
			t := p.Time()
			if t.IsZero() {
				return p.Date
			}
			return t.In(loc).Format(view.DateLayout)
		},
		Log: log,
	}
	if err := w.Write(sources); err != nil {
		return err
	}

	log.Info().Int("posts", len(sources)).Msg("site build complete")
	return nil
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
