package logging

import (
	"context"
	"strings"
)

const (
	rootModule      = "migrate"
	legacyModule    = "migrate.legacy"
	reconcileModule = "migrate.reconcile"
	searchModule    = "migrate.search"
	markdownModule  = "migrate.markdown"
)

const (
	fieldLegacyID = "legacy_id"
	fieldRunKey   = "run_key"
	fieldIndex    = "index"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider LoggerProvider, module string) Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// LegacyLogger returns the logger namespace reserved for legacy source
// loading and conversion.
func LegacyLogger(provider LoggerProvider) Logger {
	return ModuleLogger(provider, legacyModule)
}

// ReconcileLogger returns the logger namespace reserved for the three-way
// reconciliation pipeline.
func ReconcileLogger(provider LoggerProvider) Logger {
	return ModuleLogger(provider, reconcileModule)
}

// SearchLogger returns the logger namespace reserved for index building and
// upload.
func SearchLogger(provider LoggerProvider) Logger {
	return ModuleLogger(provider, searchModule)
}

// MarkdownLogger returns the logger namespace reserved for markdown
// sectionizing workflows.
func MarkdownLogger(provider LoggerProvider) Logger {
	return ModuleLogger(provider, markdownModule)
}

// WithArticleContext enriches the provided logger with the fields common to
// per-article log entries. Zero values are ignored.
func WithArticleContext(logger Logger, legacyID int, runKey, index string) Logger {
	fields := map[string]any{}
	if legacyID != 0 {
		fields[fieldLegacyID] = legacyID
	}
	if trimmed := strings.TrimSpace(runKey); trimmed != "" {
		fields[fieldRunKey] = trimmed
	}
	if trimmed := strings.TrimSpace(index); trimmed != "" {
		fields[fieldIndex] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ FieldsLogger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) Logger {
	return n
}
