// Package log provides secure logging built on top of the standard slog package.
//
// The SecureHandler masks portal secrets in log output:
//   - the login password and the csrfauth form token
//   - the gsec hash that authorizes timetable requests
//   - PHPSESSID and other session cookies
//
// Even in verbose mode these values are masked, so a debug log can be
// attached to a bug report without leaking a parent's login.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("login", "username", user, "password", pass) // password=***REDACTED***
//	slog.SetDefault(logger)
package log
