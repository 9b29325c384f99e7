// Package main hosts the Glyphpress CLI entrypoint and command graph.
//
// The Cobra-based command tree exposes the release pipeline as individual
// steps (fetch, build, changelog, release) plus a one-shot run command that
// sequences the whole pass. It centralizes configuration resolution and
// structured logging setup so subcommands can focus on user experience
// instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
