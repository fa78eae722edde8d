package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"

	"blog-agent/internal/di"
	"blog-agent/internal/domain"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a blog post",
	Long: `Gather context, build the prompt and generate a post with the configured model.

Examples:
  blogctl generate --topic "Go generics" --platform medium
  blogctl generate --topic "서울 카페 투어" --platform naver --search "서울 카페" --html post.html`,
	RunE: runGenerate,
}

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the assembled prompt without generating",
	RunE:  runPrompt,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(promptCmd)

	for _, c := range []*cobra.Command{generateCmd, promptCmd} {
		c.Flags().String("topic", "", "post topic (required)")
		c.Flags().String("platform", "", "target platform: naver, medium or empty")
		c.Flags().String("audience", "", "target audience")
		c.Flags().String("length", domain.LengthMedium, "length preset: short, medium or long")
		c.Flags().StringSlice("search", nil, "search queries for reference materials and web results")
		c.Flags().StringSlice("keywords", nil, "keywords to cover")
	}
	generateCmd.Flags().String("html", "", "also write the post body rendered as HTML to this file")
}

func requestFromFlags(cmd *cobra.Command) domain.ContentRequest {
	topic, _ := cmd.Flags().GetString("topic")
	platform, _ := cmd.Flags().GetString("platform")
	audience, _ := cmd.Flags().GetString("audience")
	length, _ := cmd.Flags().GetString("length")
	search, _ := cmd.Flags().GetStringSlice("search")
	keywords, _ := cmd.Flags().GetStringSlice("keywords")
	return domain.ContentRequest{
		Topic:          topic,
		TargetAudience: audience,
		Length:         length,
		Platform:       domain.ParsePlatform(platform),
		SearchQueries:  search,
		Keywords:       keywords,
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := di.NewGenerationClient(cfg, log)
	if err != nil {
		return err
	}
	components, closeAll, err := buildComponents(ctx, client)
	if err != nil {
		return err
	}
	defer closeAll()

	content, err := components.GenerateUsecase.Execute(ctx, requestFromFlags(cmd))
	if err != nil {
		return err
	}

	if htmlPath, _ := cmd.Flags().GetString("html"); htmlPath != "" {
		if err := writeHTML(htmlPath, content); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(content)
}

func runPrompt(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	components, closeAll, err := buildComponents(ctx, nil)
	if err != nil {
		return err
	}
	defer closeAll()

	preview, err := components.GenerateUsecase.Preview(ctx, requestFromFlags(cmd))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== system ===")
	fmt.Fprintln(out, preview.SystemPrompt)
	fmt.Fprintln(out, "=== prompt ===")
	fmt.Fprintln(out, preview.Prompt)
	return nil
}

func writeHTML(path string, content *domain.GeneratedContent) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return renderHTML(f, content)
}

// renderHTML writes the post as a minimal standalone HTML document.
func renderHTML(w io.Writer, content *domain.GeneratedContent) error {
	var body bytes.Buffer
	if err := goldmark.Convert([]byte(content.Content), &body); err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>%s</title></head>\n<body>\n%s</body>\n</html>\n",
		html.EscapeString(content.Title), body.String())
	return err
}
