package slog

import (
	"log/slog"
	"time"

	"github.com/docmill/docmill"
)

var _ docmill.LinkSelectorRegistry = (*LoggingRegistry)(nil)

// LoggingRegistry wraps a LinkSelectorRegistry with debug logging for
// framework detection.
type LoggingRegistry struct {
	next     docmill.LinkSelectorRegistry
	detector docmill.FrameworkDetector
	logger   *slog.Logger
}

// NewLoggingRegistry creates a new LoggingRegistry.
func NewLoggingRegistry(next docmill.LinkSelectorRegistry, detector docmill.FrameworkDetector, logger *slog.Logger) *LoggingRegistry {
	return &LoggingRegistry{next: next, detector: detector, logger: logger}
}

// Get delegates to the wrapped registry.
func (r *LoggingRegistry) Get(framework docmill.Framework) docmill.LinkSelector {
	return r.next.Get(framework)
}

// GetForHTML detects the framework, logs it, and returns the
// appropriate selector.
func (r *LoggingRegistry) GetForHTML(html string) docmill.LinkSelector {
	begin := time.Now()
	framework := r.detector.Detect(html)
	name := string(framework)
	if framework == docmill.FrameworkUnknown {
		name = "(unknown)"
	}
	r.logger.Debug("framework detection",
		"framework", name,
		"duration", time.Since(begin),
	)
	return r.next.GetForHTML(html)
}

// Register delegates to the wrapped registry.
func (r *LoggingRegistry) Register(framework docmill.Framework, selector docmill.LinkSelector) {
	r.next.Register(framework, selector)
}

// List delegates to the wrapped registry.
func (r *LoggingRegistry) List() []docmill.Framework {
	return r.next.List()
}
