package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sbeverly/blogindex/cmd/posts"
	"github.com/sbeverly/blogindex/internal/config"
	"github.com/sbeverly/blogindex/internal/controller"
	"github.com/sbeverly/blogindex/internal/logger"
	"github.com/sbeverly/blogindex/internal/source"
)

const rebuildDelay = 500 * time.Millisecond

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Builds the site, serves it locally and rebuilds on changes",
	Long: `The serve command performs an initial build, serves the output directory
over HTTP, and watches the content and static directories, rebuilding the
site once changes settle.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}
		return runServe(cmd.Context(), cfg)
	},
}

func runServe(ctx context.Context, cfg config.Config) error {
	log := logger.With("serve")

	if err := rebuild(cfg, log); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	builds := controller.NewDebouncer(rebuildDelay, func() {
		if err := rebuild(cfg, log); err != nil {
			log.Error().Err(err).Msg("rebuild failed")
		}
	})
	defer builds.Stop()

	for _, dir := range []string{cfg.ContentDir, cfg.StaticDir} {
		watchTree(watcher, dir, log)
	}
	go watch(ctx, watcher, builds, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           newRouter(cfg.OutputDir, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("dir", cfg.OutputDir).Str("addr", "http://localhost"+srv.Addr).Msg("serving site")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// rebuild builds the site and checks the collection it produced loads.
func rebuild(cfg config.Config, log zerolog.Logger) error {
	if err := runBuild(cfg); err != nil {
		return err
	}
	dataPath := filepath.Join(cfg.OutputDir, source.DefaultPath)
	list, err := source.File{Path: dataPath}.Fetch(context.Background())
	if err != nil {
		return err
	}
	log.Info().
		Int("posts", len(list)).
		Strs("categories", posts.Categories(list)).
		Msg("collection ready")
	return nil
}

func newRouter(outputDir string, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))
	r.Use(middleware.NoCache)

	files := http.FileServer(http.Dir(outputDir))
	r.Get("/*", func(w http.ResponseWriter, req *http.Request) {
		// Serve "/posts/slug" from "posts/slug.html" when no such file exists.
		diskPath := filepath.Join(outputDir, filepath.FromSlash(req.URL.Path))
		if _, err := os.Stat(diskPath); os.IsNotExist(err) {
			req.URL.Path += ".html"
		}
		files.ServeHTTP(w, req)
	})
	return r
}

func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		})
	}
}

func watchTree(watcher *fsnotify.Watcher, root string, log zerolog.Logger) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		log.Info().Str("dir", root).Msg("directory not found, not watching")
		return
	}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("walk failed")
			return nil
		}
		if d.IsDir() {
			if err := watcher.Add(path); err != nil {
				log.Warn().Err(err).Str("dir", path).Msg("failed to watch")
			}
		}
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str("dir", root).Msg("failed to walk directory")
	}
}

func watch(ctx context.Context, watcher *fsnotify.Watcher, builds *controller.Debouncer, log zerolog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			log.Info().Str("file", event.Name).Str("op", event.Op.String()).Msg("change detected")
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					watchTree(watcher, event.Name, log)
				}
			}
			builds.Trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("watcher error")
		}
	}
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "port to serve the site on (default from config port)")
	rootCmd.AddCommand(serveCmd)
}
