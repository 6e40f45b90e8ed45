// Package logger wraps charmbracelet/log with the events the pipeline reports.
package logger

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Logger is a structured logger with pipeline-specific helpers.
type Logger struct {
	*log.Logger
}

// New creates a logger at info level.
func New(w io.Writer) *Logger {
	return NewWithLevel(w, log.InfoLevel)
}

// NewWithLevel creates a logger with a specific level.
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
		Prefix:          "mdpipe",
	})
	return &Logger{Logger: l}
}

// ParseLevel maps a config value such as "debug" or "WARN" to a level.
func ParseLevel(s string) (log.Level, error) {
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(io.Discard)
}

// PageFetched logs a completed fetch.
func (l *Logger) PageFetched(url string, status int, bytes int, d time.Duration) {
	l.Debug("page fetched",
		"url", url,
		"status", status,
		"bytes", bytes,
		"duration", d.Round(time.Millisecond))
}

// PageConverted logs a page that made it through every stage.
func (l *Logger) PageConverted(url, path string, d time.Duration) {
	l.Info("page converted",
		"url", url,
		"path", path,
		"duration", d.Round(time.Millisecond))
}

// PageFailed logs a page that failed in the named stage.
func (l *Logger) PageFailed(url, stage string, err error) {
	l.Error("page failed",
		"url", url,
		"stage", stage,
		"error", err)
}

// CrawlDiscovered logs the outcome of URL discovery.
func (l *Logger) CrawlDiscovered(start, source string, count int) {
	l.Info("pages discovered",
		"start", start,
		"source", source,
		"count", count)
}

// Skipped logs a URL that discovery or the pipeline chose not to process.
func (l *Logger) Skipped(url, reason string) {
	l.Debug("skipped",
		"url", url,
		"reason", reason)
}
