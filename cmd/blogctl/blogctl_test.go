package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-agent/internal/domain"
)

const samplePost = `# 첫 번째 글

오늘은 Go 언어로 작은 서버를 만들어 봤어요. 생각보다 간단했어요!

그럼 시작해볼까요? 먼저 모듈을 만들고 핸들러를 붙였어요.
`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func writePost(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestStyleCommand(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "first.md", samplePost)

	out, err := runCLI(t, "style", "--dir", dir, "--json=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Analyzed 1 posts")
	assert.Contains(t, out, "- Tone:")
}

func TestStyleCommand_MissingDir(t *testing.T) {
	require.NoError(t, styleCmd.Flags().Set("dir", ""))
	_, err := runCLI(t, "style", "--dir", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestPromptCommand(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "first.md", samplePost)
	t.Setenv("SOURCE_MARKDOWN_DIR", dir)
	t.Setenv("MEILISEARCH_HOST", "")
	t.Setenv("BRAVE_API_KEY", "")

	out, err := runCLI(t, "prompt", "--topic", "Go 서버 만들기", "--platform", "naver")
	require.NoError(t, err)
	assert.Contains(t, out, "=== system ===")
	assert.Contains(t, out, "=== prompt ===")
	assert.Contains(t, out, "Go 서버 만들기")
}

func TestPromptCommand_EmptyTopic(t *testing.T) {
	t.Setenv("MEILISEARCH_HOST", "")
	t.Setenv("BRAVE_API_KEY", "")
	require.NoError(t, promptCmd.Flags().Set("topic", ""))

	_, err := runCLI(t, "prompt", "--topic", "  ")
	assert.ErrorIs(t, err, domain.ErrEmptyTopic)
}

func TestRequestFromFlags(t *testing.T) {
	require.NoError(t, generateCmd.Flags().Set("topic", "Go generics"))
	require.NoError(t, generateCmd.Flags().Set("platform", "MEDIUM"))
	require.NoError(t, generateCmd.Flags().Set("search", "go generics,type parameters"))
	require.NoError(t, generateCmd.Flags().Set("length", "long"))

	req := requestFromFlags(generateCmd)
	assert.Equal(t, "Go generics", req.Topic)
	assert.Equal(t, domain.PlatformMedium, req.Platform)
	assert.Equal(t, domain.LengthLong, req.Length)
	assert.Equal(t, []string{"go generics", "type parameters"}, req.SearchQueries)
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	err := renderHTML(&buf, &domain.GeneratedContent{
		Title:   "A <b> title",
		Content: "## Intro\n\nHello **world**.",
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<title>A &lt;b&gt; title</title>")
	assert.Contains(t, out, "<h2>Intro</h2>")
	assert.Contains(t, out, "<strong>world</strong>")
	assert.True(t, strings.HasSuffix(out, "</html>\n"))
}
