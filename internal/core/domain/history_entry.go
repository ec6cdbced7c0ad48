package domain

import "time"

// HistoryEntry is one line of the HistoryFile: (timestamp, runName, sessionId, commandLine).
// (sessionId, runName) is unique per §3.
type HistoryEntry struct {
	Timestamp   time.Time
	RunName     string
	SessionID   string
	CommandLine string
}

// isUUIDChar reports whether c is in the character class "a uuid char" per §4.9: [-0-9a-f].
func isUUIDChar(c byte) bool {
	switch {
	case c == '-':
		return true
	case c >= '0' && c <= '9':
		return true
	case c >= 'a' && c <= 'f':
		return true
	default:
		return false
	}
}

// IsUUIDShaped reports whether every character of s is a uuid char. Per §4.9,
// a string of length 1 is uuid-shaped too (tests depend on this), so the only
// disqualifying condition is an empty string or a non-uuid character.
func IsUUIDShaped(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isUUIDChar(s[i]) {
			return false
		}
	}
	return true
}
