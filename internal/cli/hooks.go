package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stargazer/pkg/observability"
)

// logHooks reports resolver and GitHub client events through the logger.
// GitHub calls are logged at debug level, resolution summaries at info.
// When a spinner is attached, traversal progress is shown on it as well.
type logHooks struct {
	logger *log.Logger

	mu      sync.Mutex
	spinner *Spinner
}

// installHooks registers logger-backed hooks for the rest of the process.
func installHooks(logger *log.Logger) *logHooks {
	h := &logHooks{logger: logger}
	observability.SetResolveHooks(h)
	observability.SetHTTPHooks(h)
	return h
}

// attach routes progress to s; nil detaches.
func (h *logHooks) attach(s *Spinner) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.spinner = s
}

func (h *logHooks) status(format string, args ...any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.spinner != nil {
		h.spinner.SetMessage(fmt.Sprintf(format, args...))
	}
}

func (h *logHooks) OnResolveStart(_ context.Context, owner, repo string) {
	h.logger.Debug("resolving star neighbours", "repo", owner+"/"+repo)
}

func (h *logHooks) OnStargazers(_ context.Context, owner, repo string, stargazers, pages int) {
	h.logger.Debug("stargazers collected", "repo", owner+"/"+repo, "stargazers", stargazers, "pages", pages)
	h.status("Fetching repositories starred by %d stargazers of %s/%s...", stargazers, owner, repo)
}

func (h *logHooks) OnResolveComplete(_ context.Context, owner, repo string, entries int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("resolution failed", "repo", owner+"/"+repo, "duration", d.Round(time.Millisecond), "err", err)
		return
	}
	h.logger.Info("resolved star neighbours", "repo", owner+"/"+repo, "neighbours", entries, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("github request", "method", method, "host", host, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("github response", "method", method, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("github request failed", "method", method, "host", host, "path", path, "err", err)
}
