package types

import (
	"fmt"
)

// WarningLevel represents the severity of a warning
type WarningLevel string

const (
	WarningLevelInfo    WarningLevel = "info"
	WarningLevelWarning WarningLevel = "warning"
	WarningLevelError   WarningLevel = "error" // Non-fatal error that was absorbed by the comparison
)

// Warning represents a non-fatal issue encountered during a comparison.
// Warnings carry no timestamp so that identical inputs give identical results.
type Warning struct {
	Level   WarningLevel           `json:"level"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface so warnings can be used as errors if needed
func (w *Warning) Error() string {
	if w.Code != "" {
		return fmt.Sprintf("[%s] %s: %s", w.Level, w.Code, w.Message)
	}
	return fmt.Sprintf("[%s] %s", w.Level, w.Message)
}

// WithContext adds context to the warning and returns the same warning for chaining
func (w *Warning) WithContext(key string, value interface{}) *Warning {
	if w.Context == nil {
		w.Context = make(map[string]interface{})
	}
	w.Context[key] = value
	return w
}

// NewWarning creates a new warning with the given level and message
func NewWarning(level WarningLevel, message string) *Warning {
	return &Warning{
		Level:   level,
		Message: message,
	}
}

// WarningFromError converts an absorbed error into an error-level warning.
// DiffError codes and context are preserved.
func WarningFromError(err error) *Warning {
	if err == nil {
		return nil
	}
	w := NewWarning(WarningLevelError, err.Error())
	if diffErr, ok := IsDiffError(err); ok {
		w.Code = string(diffErr.Code)
		for k, v := range diffErr.Context {
			w.WithContext(k, v)
		}
	}
	return w
}

// WarningCollector collects warnings during a comparison
type WarningCollector struct {
	warnings []*Warning
	enabled  bool
}

// NewWarningCollector creates a new warning collector
func NewWarningCollector(enabled bool) *WarningCollector {
	return &WarningCollector{
		warnings: make([]*Warning, 0),
		enabled:  enabled,
	}
}

// Add adds a warning to the collector
func (wc *WarningCollector) Add(warning *Warning) {
	if wc.enabled && warning != nil {
		wc.warnings = append(wc.warnings, warning)
	}
}

// Warnings returns all collected warnings
func (wc *WarningCollector) Warnings() []*Warning {
	return wc.warnings
}

// Count returns the number of warnings collected
func (wc *WarningCollector) Count() int {
	return len(wc.warnings)
}

// HasWarnings returns true if any warnings have been collected
func (wc *WarningCollector) HasWarnings() bool {
	return len(wc.warnings) > 0
}
