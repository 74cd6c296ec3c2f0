package utils

// Truncate cuts s to maxLen runes and appends "..." when s is longer than
// maxLen. Strings within the limit are returned unchanged.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
