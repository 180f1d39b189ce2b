package catalog

import (
	"fmt"
	"strings"
)

// ConfigError indicates the catalog document failed to load or validate.
// A ConfigError aborts startup or an explicit reload; a partially valid
// catalog is never installed.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("catalog config error: %s", e.Reason)
}

// NewConfigError creates a ConfigError with a formatted reason.
func NewConfigError(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// CyclicDependencyError indicates the prerequisite relation (including
// composite condition references) contains a cycle. Cycle holds the
// offending achievement IDs in traversal order, first repeated last.
type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("catalog config error: cyclic achievement dependency: %s",
		strings.Join(e.Cycle, " -> "))
}

// Unwrap lets errors.As match a CyclicDependencyError as a ConfigError.
func (e *CyclicDependencyError) Unwrap() error {
	return &ConfigError{Reason: "cyclic achievement dependency"}
}
