// Package util provides shared helpers for safe file-path validation,
// log-body truncation, and connection/timing primitives used across
// wirepig's listeners.
//
//   - SafeFilePath / SafeFilePathAllowAbsolute — reject path-traversal attempts
//   - TruncateBody — cap request/response bodies for safe logging
//   - SleepMs / AbortiveClose — delay and destroySocket primitives shared
//     by pkg/httpmock and pkg/tcpmock
package util
