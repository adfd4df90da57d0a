/*
Package logging builds the structured loggers used across the module.

Components take a *slog.Logger in their Config. New produces one from a small
Config: a colorized console format backed by tint for interactive use, or
JSON lines for collection by a log pipeline. Logs go to stderr unless another
writer is given, which keeps stdout free for command output and the MCP stdio
transport.
*/
package logging
