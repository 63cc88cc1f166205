// Package logging is the logging facade used by package oracle.
//
// Logger wraps the subset of log/slog the OCI wrapper needs so applications
// can plug in their own handler, or a test double:
//
//	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
//	oracle.Configure(oracle.Config{Logger: logging.New(slog.New(handler))})
//
// Credentials never reach a log record. Call sites that would mention one
// log logging.Redacted("password") instead:
//
//	logger.Debug(ctx, "session begin", "user", user, logging.Redacted("password"))
//	// user=scott password="[redacted]"
package logging
