package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"blog-agent/internal/adapter/postsource"
	"blog-agent/internal/domain"
	"blog-agent/internal/usecase"
)

var styleCmd = &cobra.Command{
	Use:   "style",
	Short: "Infer the writing style of posts in a directory",
	Long: `Read markdown, HTML and PDF posts from a directory, merge their styles
and print the resulting style guide.

Examples:
  blogctl style --dir ./posts
  blogctl style --dir ./posts --json`,
	RunE: runStyle,
}

func init() {
	rootCmd.AddCommand(styleCmd)

	styleCmd.Flags().String("dir", "", "directory containing posts (required)")
	styleCmd.Flags().Int("limit", 50, "maximum posts read per file type")
	styleCmd.Flags().Bool("json", false, "output the merged style as JSON")
	_ = styleCmd.MarkFlagRequired("dir")
}

// dirSources returns one source per supported file type rooted at dir.
func dirSources(dir string) []domain.PostSource {
	return []domain.PostSource{
		postsource.NewMarkdownSource(dir, log),
		postsource.NewHTMLSource(dir, log),
		postsource.NewPDFSource(dir, log),
	}
}

func loadDirPosts(cmd *cobra.Command, dir string, limit int) ([]domain.ReferencePost, error) {
	var posts []domain.ReferencePost
	for _, src := range dirSources(dir) {
		found, err := src.FetchPosts(cmd.Context(), "", limit)
		if err != nil {
			return nil, err
		}
		posts = append(posts, found...)
	}
	return posts, nil
}

func runStyle(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	posts, err := loadDirPosts(cmd, dir, limit)
	if err != nil {
		return err
	}
	styles := make([]domain.WritingStyle, 0, len(posts))
	for _, p := range posts {
		styles = append(styles, p.Style)
	}

	styleConfig := usecase.StyleConfig{
		Preferences:       profile.Preferences,
		KoreanPreferences: profile.KoreanPreferences,
	}
	if profile.DefaultStyle != nil {
		styleConfig.DefaultStyle = *profile.DefaultStyle
	}
	merged := usecase.NewStyleAggregator(styleConfig, log).Merge(styles)

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(merged)
	}
	fmt.Fprintf(out, "Analyzed %d posts\n\n", len(posts))
	fmt.Fprint(out, usecase.DescribeStyle(merged))
	return nil
}
