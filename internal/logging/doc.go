// Package logging builds the zerolog loggers used across pokedeck.
//
// Loggers are configured from a Config (level, format, output, file). When a log file is
// requested but cannot be opened the logger falls back to stderr and the caller is told
// why, so the interactive browser never silently loses its logs. Trace IDs (ULIDs) are
// attached to contexts so a single browse or serve session can be followed through the
// log file.
package logging
