// Package logger configures the leveled, formatted logging used by
// the estimation drivers and command line tools.
package logger

import (
	"os"

	"github.com/op/go-logging"
)

// defaultFormat defines the format used for log output.
const defaultFormat = "%{color}%{level:-8s} %{shortpkg}/%{shortfunc}%{color:reset}: %{message}"

// New returns a logger for module that filters messages below the
// given verbosity level. Unknown level names fall back to INFO.
func New(level, module string) *logging.Logger {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatted := logging.NewBackendFormatter(backend,
		logging.MustStringFormatter(defaultFormat))

	lvl, err := logging.LogLevel(level)
	if err != nil {
		lvl = logging.INFO
	}
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(lvl, "")

	logging.SetBackend(leveled)
	return logging.MustGetLogger(module)
}
