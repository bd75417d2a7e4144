package util

import (
	"path"
	"strings"
)

// MaxLogBodySize is the default maximum body size for logging (10KB).
const MaxLogBodySize = 10 * 1024

// TruncateBody truncates a string to maxSize bytes, appending "...(truncated)" if truncated.
// If maxSize <= 0, uses MaxLogBodySize.
func TruncateBody(data string, maxSize int) string {
	if maxSize <= 0 {
		maxSize = MaxLogBodySize
	}
	if len(data) > maxSize {
		return data[:maxSize] + "...(truncated)"
	}
	return data
}

// SafeFilePath cleans input and rejects it if it is empty, absolute, or
// escapes above its starting directory once cleaned. It rejects any
// backslash outright, since a Windows-style separator smuggled into a
// forward-slash path would not be caught by path.Clean and could
// resolve differently across platforms.
func SafeFilePath(input string) (string, bool) {
	return safeFilePath(input, false)
}

// SafeFilePathAllowAbsolute is SafeFilePath but permits an absolute
// input path through unchanged (after cleaning), for callers that
// accept a fully-qualified path from a trusted source (a CLI flag)
// rather than an untrusted relative reference.
func SafeFilePathAllowAbsolute(input string) (string, bool) {
	return safeFilePath(input, true)
}

func safeFilePath(input string, allowAbsolute bool) (string, bool) {
	if input == "" {
		return "", false
	}
	if strings.ContainsRune(input, '\\') {
		return "", false
	}

	isAbs := strings.HasPrefix(input, "/")
	if isAbs && !allowAbsolute {
		return "", false
	}

	cleaned := path.Clean(input)
	if !isAbs && (cleaned == ".." || strings.HasPrefix(cleaned, "../")) {
		return "", false
	}
	return cleaned, true
}
