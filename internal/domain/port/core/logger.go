package core

// Logger defines structured logging operations used across the domain
type Logger interface {
	// Debug logs detailed diagnostic messages
	Debug(message string, fields map[string]any)
	// Info logs general operational messages
	Info(message string, fields map[string]any)
	// Warn logs warnings that do not abort the current operation
	Warn(message string, fields map[string]any)
	// Error logs failures
	Error(message string, fields map[string]any)
	// Flush ensures all buffered logs are written to their destination
	Flush() error
}
