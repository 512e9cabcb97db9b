// Package strings provides shared string helpers for list rendering.
package strings

// Truncate shortens s to at most n characters, ending with an ellipsis when
// anything was cut. n below 4 is raised to 4 so the ellipsis always fits.
func Truncate(s string, n int) string {
	if n < 4 {
		n = 4
	}
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
