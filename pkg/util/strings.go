package util

// MaxLogBodySize is the default maximum body size for logging (1KB).
const MaxLogBodySize = 1024

const truncatedSuffix = "...(truncated)"

// TruncateBody caps data at maxSize bytes for logging, marking the cut.
// If maxSize <= 0, MaxLogBodySize is used.
func TruncateBody(data []byte, maxSize int) string {
	if maxSize <= 0 {
		maxSize = MaxLogBodySize
	}
	if len(data) > maxSize {
		return string(data[:maxSize]) + truncatedSuffix
	}
	return string(data)
}
