package crawl

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/harvest"
)

// Fingerprint returns an xxhash digest of every field of every record, in
// order. Two datasets with equal fingerprints are treated as identical when
// deciding whether a checkpoint needs to be written.
func Fingerprint(dataset harvest.Dataset) uint64 {
	d := xxhash.New()
	for _, r := range dataset {
		_, _ = d.WriteString(r.URL)
		_, _ = d.Write([]byte{0})
		_, _ = d.WriteString(strconv.Itoa(r.Page))
		_, _ = d.Write([]byte{0})
		_, _ = d.WriteString(r.Title)
		_, _ = d.Write([]byte{0})
		_, _ = d.WriteString(r.Content)
		_, _ = d.Write([]byte{0x1e})
	}
	return d.Sum64()
}

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
