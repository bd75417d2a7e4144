package logging

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Channel names the two diagnostic streams spec.md §6 requires: one
// for general server lifecycle and one for matcher tracing.
type Channel string

const (
	// ChannelServer covers connection lifecycle, matches, delays, and writes.
	ChannelServer Channel = "server"
	// ChannelMatcher covers why a comparator returned false.
	ChannelMatcher Channel = "matcher"
)

var (
	debugOnce     sync.Once
	debugChannels map[Channel]bool
)

// enabled reports whether ch is listed in WIREPIG_DEBUG, a
// comma-separated list of channel names (or "*" for all channels).
// WIREPIG_DEBUG is read once per process; it is not expected to change
// at runtime.
func enabled(ch Channel) bool {
	debugOnce.Do(func() {
		debugChannels = map[Channel]bool{}
		raw := os.Getenv("WIREPIG_DEBUG")
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if part == "*" {
				debugChannels[ChannelServer] = true
				debugChannels[ChannelMatcher] = true
				continue
			}
			debugChannels[Channel(part)] = true
		}
	})
	return debugChannels[ch]
}

// Debug logs msg and args to logger at debug level only if ch is
// enabled via WIREPIG_DEBUG. Call sites that would otherwise build an
// expensive args list (e.g. rendering a predicate tree) should guard
// with Enabled(ch) first.
func Debug(logger *slog.Logger, ch Channel, msg string, args ...any) {
	if !enabled(ch) {
		return
	}
	logger.Debug(msg, append([]any{"channel", string(ch)}, args...)...)
}

// Enabled reports whether ch is active, for call sites that want to
// skip building debug-only arguments entirely.
func Enabled(ch Channel) bool { return enabled(ch) }
