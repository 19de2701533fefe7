// Package logging assembles structured slog loggers and formatting helpers used
// across Envoi commands and services.
//
// It owns the console and JSON handlers, centralizes level parsing (including
// the WARNING/CRITICAL spellings operators pass on the command line), and
// exposes component-scoped constructors so every service tags its log lines
// the same way. The package also provides a no-op logger for tests and wiring
// code that cannot fail.
//
// Loggers are built once per process and handed to constructors explicitly;
// nothing in this package keeps a global default.
package logging
