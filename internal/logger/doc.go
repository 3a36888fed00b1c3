// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger with a console encoder that sends progress to
//     stdout and errors to stderr,
//   - context helpers (ToContext/FromContext/WithName/WithKV/WithFields),
//   - level parsing utilities,
//   - convenience functions (Infof, WarnKV, ErrorKV, etc.).
//
// Every stage of the bundler accepts a context and extracts the logger from it,
// so each run carries its name and run identifier in every line.
package logger
