// Package log builds the slog loggers used by casewatch.
//
// Every line is timestamped by the slog text handler and passes through
// SecureHandler first, which masks credentials before they reach the output:
//   - attributes whose key names a credential (token, password, authorization)
//   - values that look like bearer strings or long access tokens
//
// The default level is Info so that each step of a run leaves one line in
// the log; verbose mode lowers it to Debug.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, false)
//	logger.Info("notification sent", "transport", "line", "token", token) // token is masked
package log
