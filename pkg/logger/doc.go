// Package logger provides a context-aware wrapper around Go's slog package
// adding functional options for configuration, helper attribute constructors,
// and transparent injection of values stored in context.Context.
//
// The package standardises structured logging across langpack commands and
// libraries through a single factory – New – that creates a *slog.Logger
// configured by a set of Option functions. These options allow you to:
//
//   - Select an output format (text or json)
//   - Set the minimum log level
//   - Supply default slog.Attr values applied to every record
//   - Register ContextExtractor callbacks that inject attributes pulled from a
//     context value (for example a preview-server request id) every time
//     Handle is invoked.
//
// Library packages never construct loggers themselves: they accept a
// *slog.Logger and default to Discard() when given nil, so the CLI remains
// the single place deciding where logs go.
//
// # Usage
//
//	log := logger.New(
//		logger.WithTextFormatter(),
//		logger.WithVerbose(verbose),
//		logger.WithAttr(slog.String("command", "build")),
//	)
//	log.Info("build finished", logger.Language("fi"), logger.Count(3))
package logger
