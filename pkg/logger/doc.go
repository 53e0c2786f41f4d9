// Package logger builds log/slog loggers for the sieve service and provides
// the attribute helpers its packages share.
//
// Loggers are configured with functional options or straight from the
// environment:
//
//	log, err := logger.NewFromConfig(cfg, "sieve",
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//
// The development preset writes text at debug level; staging and production
// write JSON at info level. LOG_LEVEL and LOG_FORMAT override the preset.
//
// ContextHandler injects attributes derived from the record's context, such
// as the request id, at logging time.
package logger
