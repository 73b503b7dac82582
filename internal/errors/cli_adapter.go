package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// CLIErrorAdapter handles error presentation and exit code determination for CLI applications.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		out:     os.Stderr,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	if se, ok := As(err); ok {
		return a.exitCodeFromSiteError(se)
	}

	return 1
}

// exitCodeFromSiteError maps SiteError categories to exit codes.
func (a *CLIErrorAdapter) exitCodeFromSiteError(err *SiteError) int {
	switch err.Category {
	case CategoryValidation:
		return 2 // Invalid usage
	case CategoryConfig:
		return 7 // Configuration error
	case CategoryContent, CategoryNavigation:
		return 3 // Content error
	case CategoryLinks:
		return 4 // Broken links
	case CategoryRender, CategoryFileSystem:
		return 11 // Build error
	case CategoryRuntime:
		return 12 // Runtime error
	case CategoryInternal:
		return 10 // Internal error
	default:
		return 1
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	if se, ok := As(err); ok {
		return a.formatSiteError(se)
	}

	return fmt.Sprintf("Error: %v", err)
}

func (a *CLIErrorAdapter) formatSiteError(err *SiteError) string {
	if a.verbose {
		return err.Error()
	}

	msg := err.Message
	switch err.Category {
	case CategoryConfig, CategoryValidation:
	default:
		msg = fmt.Sprintf("%s: %s", err.Category, err.Message)
	}
	if len(err.Context) > 0 {
		msg += " (" + formatContext(err.Context) + ")"
	}
	return msg
}

// formatContext renders context fields in stable key order.
func formatContext(ctx ContextFields) string {
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, ctx[k]))
	}
	return strings.Join(parts, ", ")
}

// HandleError processes an error and exits the program with the appropriate code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	exitCode := a.ExitCodeFor(err)
	message := a.FormatError(err)

	if a.shouldLog(err) {
		a.logError(err)
	}

	_, _ = fmt.Fprintf(a.out, "%s\n", message)
	os.Exit(exitCode)
}

func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}

	if se, ok := As(err); ok {
		return se.Category == CategoryInternal ||
			se.Category == CategoryRuntime
	}

	return true
}

func (a *CLIErrorAdapter) logError(err error) {
	if se, ok := As(err); ok {
		level := slogLevelFromSeverity(se.Severity)
		attrs := []slog.Attr{
			slog.String("category", string(se.Category)),
		}
		if se.Cause != nil {
			attrs = append(attrs, slog.String("cause", se.Cause.Error()))
		}
		a.logger.LogAttrs(context.Background(), level, se.Message, attrs...)
		return
	}

	a.logger.Error("Unclassified error", "error", err)
}

func slogLevelFromSeverity(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
