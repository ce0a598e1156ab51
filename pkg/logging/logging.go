// Package logging builds the structured logger shared by the trellis
// command and the packages it drives.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Formats accepted by New.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatLogfmt = "logfmt"
)

// New returns a logger writing to w at the named level (debug, info, warn,
// error) in the named format (text, json, logfmt). Empty strings select info
// and text.
func New(level, format string, w io.Writer) (*log.Logger, error) {
	lvl := log.InfoLevel
	if level != "" {
		var err error
		lvl, err = log.ParseLevel(strings.ToLower(level))
		if err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
	}

	formatter := log.TextFormatter
	switch strings.ToLower(format) {
	case "", FormatText:
	case FormatJSON:
		formatter = log.JSONFormatter
	case FormatLogfmt:
		formatter = log.LogfmtFormatter
	default:
		return nil, fmt.Errorf("logging: unknown format %q", format)
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: formatter != log.TextFormatter,
		Level:           lvl,
		Formatter:       formatter,
	}), nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
