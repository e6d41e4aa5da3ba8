package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug records to a
// charmbracelet logger. Errors are logged at warn level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to logger.
func NewLogHooks(logger *log.Logger) *LogHooks { return &LogHooks{Logger: logger} }

// Install registers h for every hook category.
func (h *LogHooks) Install() {
	SetExportHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnExportStart(_ context.Context, format string, placements int) {
	h.Logger.Debug("export started", "format", format, "placements", placements)
}

func (h *LogHooks) OnExportComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("export failed", "format", format, "took", d, "err", err)
		return
	}
	h.Logger.Debug("export finished", "format", format, "bytes", size, "took", d)
}

func (h *LogHooks) OnImport(_ context.Context, source string, placements, connections int, err error) {
	if err != nil {
		h.Logger.Warn("import failed", "source", source, "err", err)
		return
	}
	h.Logger.Debug("imported", "source", source, "placements", placements, "connections", connections)
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

func (h *LogHooks) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Debug("request", "method", method, "route", route, "status", status, "took", d)
}

var (
	_ ExportHooks = (*LogHooks)(nil)
	_ CacheHooks  = (*LogHooks)(nil)
	_ HTTPHooks   = (*LogHooks)(nil)
)
