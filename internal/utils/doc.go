// Package utils provides shared helper functions.
package utils

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// TimestampLayout is the human-readable layout used in saved responses.
const TimestampLayout = "2006-01-02 15:04:05"

// EnsureDir ensures a directory exists, creating it if necessary.
func EnsureDir(path string) (string, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", err
	}
	return path, nil
}

// GetDataPath returns the aibot data directory (~/.aibot).
func GetDataPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".aibot")
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}

// Timestamp formats t with TimestampLayout.
func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// TruncateString truncates s to at most maxLen runes, including the suffix.
// An empty suffix truncates without marking.
func TruncateString(s string, maxLen int, suffix string) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	suffixLen := utf8.RuneCountInString(suffix)
	if suffixLen >= maxLen {
		suffix, suffixLen = "", 0
	}
	runes := []rune(s)
	return string(runes[:maxLen-suffixLen]) + suffix
}
