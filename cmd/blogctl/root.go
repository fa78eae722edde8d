package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"blog-agent/internal/di"
	"blog-agent/internal/domain"
	"blog-agent/internal/infra"
	"blog-agent/internal/infra/config"
	"blog-agent/internal/infra/logger"
)

var (
	verbose     bool
	useDB       bool
	profilePath string
	cfg         *config.Config
	profile     *config.StyleProfile
	log         *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "blogctl",
	Short: "Style-aware blog post generator",
	Long: `blogctl gathers reference posts, materials and web results, infers a
writing style from past posts and asks a language model for a new post.

Example usage:
  blogctl generate --topic "Go generics" --platform medium
  blogctl prompt --topic "서울 카페 투어" --platform naver
  blogctl style --dir ./posts
  blogctl ingest --dir ./posts
  blogctl migrate`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the root command, cancelling its context on SIGINT or SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&useDB, "db", false, "connect to PostgreSQL for the database post source")
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "style profile YAML (default: $STYLE_PROFILE_PATH)")
}

func initConfig() error {
	level := "info"
	if verbose {
		level = "debug"
	}
	log = logger.NewForCLI(level)

	cfg = config.Load()
	if profilePath != "" {
		cfg.Style.ProfilePath = profilePath
	}
	var err error
	profile, err = config.LoadStyleProfile(cfg.Style.ProfilePath)
	if err != nil {
		return fmt.Errorf("load style profile: %w", err)
	}
	return nil
}

// openPool connects to PostgreSQL when --db is set. The returned close func is never nil.
func openPool(ctx context.Context) (*pgxpool.Pool, func(), error) {
	if !useDB {
		return nil, func() {}, nil
	}
	pool, err := infra.NewPostgresDB(ctx, cfg.DB.DSN(), infra.PoolConfig{
		MaxConns: cfg.DB.MaxConns,
		MinConns: cfg.DB.MinConns,
	})
	if err != nil {
		return nil, func() {}, err
	}
	return pool, pool.Close, nil
}

// buildComponents wires the pipeline. A nil client is allowed for prompt-only commands.
func buildComponents(ctx context.Context, client domain.GenerationClient) (*di.ApplicationComponents, func(), error) {
	pool, closePool, err := openPool(ctx)
	if err != nil {
		return nil, closePool, err
	}
	components, err := di.NewApplicationComponents(cfg, profile, pool, client, log)
	if err != nil {
		closePool()
		return nil, func() {}, err
	}
	return components, closePool, nil
}
