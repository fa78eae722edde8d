package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"blog-agent/internal/domain"
	"blog-agent/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- stubs ---

type stubSource struct {
	name  string
	posts []domain.ReferencePost
	err   error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) FetchPosts(ctx context.Context, topic string, limit int) ([]domain.ReferencePost, error) {
	return s.posts, s.err
}

type stubIngestUsecase struct {
	mu          sync.Mutex
	calls       int
	capturedCtx context.Context
	returnErr   error
}

func (s *stubIngestUsecase) Execute(ctx context.Context, posts []domain.ReferencePost) (*usecase.IngestResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.capturedCtx = ctx
	if s.returnErr != nil {
		return nil, s.returnErr
	}
	return &usecase.IngestResult{Stored: len(posts)}, nil
}

func (s *stubIngestUsecase) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func samplePosts() []domain.ReferencePost {
	return []domain.ReferencePost{{Title: "Test", Content: "Body", URL: "file:///posts/test.md"}}
}

// --- tests ---

func TestSyncOnce_ContextHasTimeout(t *testing.T) {
	uc := &stubIngestUsecase{}
	w := NewSyncWorker([]domain.PostSource{&stubSource{name: "markdown", posts: samplePosts()}}, uc, time.Minute, 50, testLogger())
	w.syncOnce()

	uc.mu.Lock()
	defer uc.mu.Unlock()
	require.NotNil(t, uc.capturedCtx, "Execute should have been called")
	deadline, ok := uc.capturedCtx.Deadline()
	assert.True(t, ok, "context passed to Execute must have a deadline")
	assert.WithinDuration(t, time.Now().Add(syncTimeout), deadline, 5*time.Second)
}

func TestSyncWorker_FetchFailureSkipsSourceButContinues(t *testing.T) {
	uc := &stubIngestUsecase{}
	sources := []domain.PostSource{
		&stubSource{name: "pdf", err: errors.New("permission denied")},
		&stubSource{name: "markdown", posts: samplePosts()},
	}
	w := NewSyncWorker(sources, uc, time.Minute, 50, testLogger())

	w.syncOnce()
	assert.Equal(t, 1, uc.callCount())
	assert.Equal(t, initialBackoff, w.backoff)
}

func TestSyncWorker_BacksOffOnConsecutiveFailures(t *testing.T) {
	uc := &stubIngestUsecase{returnErr: errors.New("embedder unreachable")}
	w := NewSyncWorker([]domain.PostSource{&stubSource{name: "markdown", posts: samplePosts()}}, uc, time.Minute, 50, testLogger())

	w.syncOnce()
	assert.Equal(t, initialBackoff, w.backoff)
	assert.Equal(t, initialBackoff, w.nextDelay())

	w.syncOnce()
	assert.Equal(t, 2*time.Second, w.backoff)

	w.syncOnce()
	assert.Equal(t, 4*time.Second, w.backoff)
}

func TestSyncWorker_BackoffResetsOnSuccess(t *testing.T) {
	uc := &stubIngestUsecase{returnErr: errors.New("fail")}
	w := NewSyncWorker([]domain.PostSource{&stubSource{name: "markdown", posts: samplePosts()}}, uc, time.Minute, 50, testLogger())

	w.syncOnce()
	assert.Equal(t, initialBackoff, w.backoff)

	uc.mu.Lock()
	uc.returnErr = nil
	uc.mu.Unlock()

	w.syncOnce()
	assert.Equal(t, time.Duration(0), w.backoff, "backoff should reset on success")
	assert.Equal(t, time.Minute, w.nextDelay())
}

func TestNextBackoff_CapsAtMax(t *testing.T) {
	bo := time.Duration(0)
	for i := 0; i < 20; i++ {
		bo = nextBackoff(bo)
	}
	assert.Equal(t, maxBackoff, bo, "backoff must cap at maxBackoff")
}

func TestSyncWorker_StartStop(t *testing.T) {
	uc := &stubIngestUsecase{}
	w := NewSyncWorker([]domain.PostSource{&stubSource{name: "markdown", posts: samplePosts()}}, uc, time.Hour, 50, testLogger())

	w.Start()
	assert.Eventually(t, func() bool { return uc.callCount() == 1 }, time.Second, 10*time.Millisecond)
	w.Stop()
	assert.Equal(t, 1, uc.callCount())
}

func TestNewSyncWorker_DefaultInterval(t *testing.T) {
	w := NewSyncWorker(nil, nil, 0, 10, testLogger())
	assert.Equal(t, defaultSyncInterval, w.interval)
}
