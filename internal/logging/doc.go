// Package logging constructs the slog loggers used across glyphpress and
// provides the structured field helpers and context plumbing that keep run
// and stage attributes consistent between components.
package logging
