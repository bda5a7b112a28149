// Package stringutil holds small string helpers shared by config defaulting
// and log/error previews.
// file: pkg/util/stringutil/stringutil.go
package stringutil

// CoalesceString returns the first non-empty string from the provided
// strings, for layering a default under an override that may be unset.
func CoalesceString(strs ...string) string {
	for _, str := range strs {
		if str != "" {
			return str
		}
	}
	return ""
}

// TruncateString truncates s to maxLen, adding an ellipsis if it was cut,
// for keeping log previews of arbitrary payloads bounded.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
