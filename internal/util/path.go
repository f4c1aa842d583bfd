// Package util provides shared utility functions.
package util

// TruncatePath shortens path to at most max runes, keeping its tail behind
// a "..." marker. The tail is the part that tells directories apart.
func TruncatePath(path string, max int) string {
	runes := []rune(path)
	if len(runes) <= max {
		return path
	}
	if max <= 3 {
		return string(runes[len(runes)-max:])
	}
	return "..." + string(runes[len(runes)-max+3:])
}
