package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sbeverly/blogindex/internal/config"
	"github.com/sbeverly/blogindex/internal/logger"
)

var (
	cfgFile   string
	appConfig config.Config
)

var rootCmd = &cobra.Command{
	Use:   "blogindex",
	Short: "Builds, previews and serves a blog index",
	Long: `blogindex turns markdown post sources into detail pages and the
data/blogs.json collection, renders the filterable, paginated index over
that collection, and serves the result locally.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded := config.LoadDotEnv()
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		appConfig = cfg
		logger.Init(cfg.Env)
		if len(loaded) > 0 {
			logger.Get().Debug().Strs("files", loaded).Msg("loaded env files")
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}
