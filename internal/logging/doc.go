// Package logging assembles structured slog loggers and attribute helpers used
// across fwconv.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so conversion code can tag every log
// line with the run identifier and layout in use. The package also provides a
// no-op logger for tests and library callers that do not want output.
package logging
