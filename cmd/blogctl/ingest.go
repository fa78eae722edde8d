package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"blog-agent/internal/adapter/repository"
	"blog-agent/internal/infra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Store posts from a directory in the post database",
	Long: `Read markdown, HTML and PDF posts from a directory and upsert them into
PostgreSQL. Posts whose content is unchanged are skipped.

Examples:
  blogctl ingest --dir ./posts`,
	RunE: runIngest,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the post database schema",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(migrateCmd)

	ingestCmd.Flags().String("dir", "", "directory containing posts (required)")
	ingestCmd.Flags().Int("limit", 500, "maximum posts read per file type")
	_ = ingestCmd.MarkFlagRequired("dir")
}

func runIngest(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	limit, _ := cmd.Flags().GetInt("limit")

	useDB = true
	components, closeAll, err := buildComponents(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer closeAll()
	if components.IngestUsecase == nil {
		return errors.New("ingest requires a database")
	}

	posts, err := loadDirPosts(cmd, dir, limit)
	if err != nil {
		return err
	}
	result, err := components.IngestUsecase.Execute(cmd.Context(), posts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "stored %d, unchanged %d\n", result.Stored, result.Unchanged)
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	conn, err := infra.NewMigrationConn(cmd.Context(), cfg.DB.DSN())
	if err != nil {
		return err
	}
	defer conn.Close(cmd.Context())

	if err := repository.Migrate(cmd.Context(), conn); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
	return nil
}
