package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event to a logger at debug level; failures are
// logged as warnings.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that write to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, titleSize, titleLines, bodyLines int, d time.Duration) {
	h.logger.Debug("layout", "title_size", titleSize, "title_lines", titleLines, "body_lines", bodyLines, "duration", d)
}

func (h *LogHooks) OnStyleStart(_ context.Context, styleID string) {
	h.logger.Debug("rendering", "style", styleID)
}

func (h *LogHooks) OnStyleComplete(_ context.Context, styleID string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "style", styleID, "duration", d, "error", err)
		return
	}
	h.logger.Debug("rendered", "style", styleID, "duration", d)
}

func (h *LogHooks) OnBatchComplete(_ context.Context, userID string, cards int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("batch failed", "user", userID, "cards", cards, "duration", d, "error", err)
		return
	}
	h.logger.Debug("batch complete", "user", userID, "cards", cards, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("request", "method", method, "route", route, "status", status, "duration", d)
}

var (
	_ RenderHooks = (*LogHooks)(nil)
	_ CacheHooks  = (*LogHooks)(nil)
	_ HTTPHooks   = (*LogHooks)(nil)
)
