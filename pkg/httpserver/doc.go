// Package httpserver wraps http.Server with graceful shutdown, functional
// options and slog logging.
//
// Run blocks until the context is canceled or the listener fails; the package
// does no signal handling of its own, wire the context through
// signal.NotifyContext in the caller.
//
//	srv := httpserver.New(
//		httpserver.WithAddr(":8080"),
//		httpserver.WithShutdownTimeout(5*time.Second),
//		httpserver.WithLogger(log),
//		httpserver.WithStartHook(func(l *slog.Logger) {
//			l.Info("preview server listening")
//		}),
//	)
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	if err := srv.Run(ctx, handler); err != nil {
//		log.Error("server failed", logger.Error(err))
//	}
//
// HealthCheckHandler serves liveness ("ALIVE") and readiness ("READY" /
// "NOT_READY") probes from the same handler depending on whether dependency
// check functions are supplied.
package httpserver
