package helpers

import "github.com/dustin/go-humanize"

// FormatBytes renders a byte count for logs, e.g. "10 MB"
func FormatBytes(n int64) string {
	if n < 0 {
		return "unlimited"
	}
	return humanize.Bytes(uint64(n))
}
