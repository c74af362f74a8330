// Package log builds the slog loggers used by cluescrape.
//
// Request settings such as a session cookie or an Authorization header can
// come from the config file. The Handler in this package masks those values
// before a record reaches the underlying text or JSON handler, so verbose
// logs can be shared without leaking credentials.
//
// # Usage
//
//	logger := log.New(os.Stderr, log.Options{Verbose: true})
//	logger.Debug("request headers", "cookie", "session=abc") // cookie=***REDACTED***
//	slog.SetDefault(logger)
package log
