package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sbeverly/blogindex/internal/config"
	"github.com/sbeverly/blogindex/internal/controller"
	"github.com/sbeverly/blogindex/internal/logger"
	"github.com/sbeverly/blogindex/internal/source"
	"github.com/sbeverly/blogindex/internal/view"
)

type renderOptions struct {
	data     string
	search   string
	category string
	sort     string
	page     int
	out      string
}

var renderOpts renderOptions

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Renders the blog index for the given search, category, sort and page",
	Long: `The render command loads the post collection from a file or a blog URL,
applies the search term, category and sort order, and prints the index page
for the requested page number. A collection that cannot be loaded renders the
error notice and exits with an error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if renderOpts.out != "" {
			f, err := os.Create(renderOpts.out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", renderOpts.out, err)
			}
			defer f.Close()
			out = f
		}
		return runRender(cmd.Context(), appConfig, renderOpts, out)
	},
}

func newMarkup(cfg config.Config) (*view.Markup, error) {
	tag, err := cfg.Language()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return view.NewMarkup(
		view.WithLanguage(tag),
		view.WithTitle(cfg.SiteTitle),
		view.WithDateFormatter(view.LongDate(loc)),
	)
}

func runRender(ctx context.Context, cfg config.Config, opts renderOptions, out io.Writer) error {
	markup, err := newMarkup(cfg)
	if err != nil {
		return err
	}

	location := opts.data
	if location == "" {
		location = cfg.DataURL
	}

	doc := view.NewDocument()
	c := controller.New(source.For(location), doc, markup,
		controller.WithLogger(logger.With("controller")),
	)
	defer c.Close()

	loadErr := c.Load(ctx)
	if loadErr == nil {
		if opts.search != "" || opts.category != "" || opts.sort != "" {
			doc.SetValue(view.SearchInput, opts.search)
			if opts.category != "" {
				doc.SetValue(view.CategoryFilter, opts.category)
			}
			doc.SetValue(view.SortFilter, opts.sort)
			c.ApplyFilters()
		}
		if opts.page > 1 {
			c.GoToPage(opts.page)
		}
	}

	page, err := markup.Page(doc)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(out, page); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}
	if loadErr != nil {
		return fmt.Errorf("unable to load blog posts from %s: %w", location, loadErr)
	}
	return nil
}

func init() {
	f := renderCmd.Flags()
	f.StringVar(&renderOpts.data, "data", "", "posts collection file or blog URL (default from config dataURL)")
	f.StringVarP(&renderOpts.search, "search", "s", "", "search term")
	f.StringVarP(&renderOpts.category, "category", "c", "", "category filter (\"all\" for every category)")
	f.StringVar(&renderOpts.sort, "sort", "", "sort order: newest or oldest")
	f.IntVarP(&renderOpts.page, "page", "p", 1, "page number")
	f.StringVarP(&renderOpts.out, "out", "o", "", "write the page to a file instead of stdout")
	rootCmd.AddCommand(renderCmd)
}
