package commands

import (
	"strings"

	"github.com/jknm/migrate/internal/logging"
)

const commandModuleRoot = "migrate.commands"

// CommandLogger returns a module-scoped logger for command handlers, enriched
// with consistent structured fields so command executions can be filtered.
func CommandLogger(provider logging.LoggerProvider, module string) logging.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
