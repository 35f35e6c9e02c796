// Package logger provides structured logging for the harvester built on
// zerolog. All pipeline events (pass start, per-URL outcomes, progress
// counts, final summary) flow through a single Logger interface so that
// console and file output stay consistent.
package logger
