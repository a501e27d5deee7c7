// Package log builds the slog loggers used by wordcrawler.
//
// Every logger returned by this package is wrapped in a SecureHandler, which
// masks secrets before records reach the output:
//   - attributes whose key names a credential (password, token, cookie, ...)
//   - string values that look like bearer tokens, JWTs or private keys
//   - credentials embedded in URLs, both user:password@host and secret
//     query parameters such as ?access_token=...
//
// Crawl logs are full of URLs taken from arbitrary pages, so URL redaction
// also applies to free text such as error messages.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose, false)
//	logger.Warn("failed to parse page", "url", pageURL, "error", err)
//
// Verbose loggers emit Debug and above; otherwise only Warn and above.
package log
