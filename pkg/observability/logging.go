package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug lines to a
// logger. The CLI registers it with --verbose.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{Logger: l}
}

// Register installs h as the pipeline, cache and server hooks.
func (h *LogHooks) Register() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetServerHooks(h)
}

func (h *LogHooks) OnSolveStart(_ context.Context, gridHash string, rows, cols int) {
	h.Logger.Debug("solve start", "grid", short(gridHash), "rows", rows, "cols", cols)
}

func (h *LogHooks) OnSolveComplete(_ context.Context, gridHash string, splits, paths uint64, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("solve failed", "grid", short(gridHash), "duration", d, "err", err)
		return
	}
	h.Logger.Debug("solve done", "grid", short(gridHash), "splits", splits, "paths", paths, "duration", d)
}

func (h *LogHooks) OnUnreachable(_ context.Context, gridHash string, count int) {
	h.Logger.Debug("unreachable splitters", "grid", short(gridHash), "count", count)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.Logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "route", route, "status", status, "duration", d)
}

func short(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
