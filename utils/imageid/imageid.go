package imageid

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// timeLayout is an ISO-8601 UTC instant with microsecond precision.
const timeLayout = "2006-01-02T15:04:05.000000"

// New returns a record id for the given filename at the current UTC instant.
// Ids are lexicographically sortable by creation time; uniqueness comes from
// the embedded random suffix, not the timestamp.
func New(filename string) string {
	return NewAt(time.Now(), filename)
}

// NewAt builds a record id of the form
// <timestamp, ':' replaced by '-'>_<uuid>-<sanitized filename>.
// The colon replacement keeps the id safe for use as an object-store key
// while preserving lexicographic time order.
func NewAt(t time.Time, filename string) string {
	safe := strings.ReplaceAll(FormatUploadTime(t), ":", "-")
	return safe + "_" + uuid.NewString() + "-" + Sanitize(filename)
}

// FormatUploadTime renders t as the ISO-8601 UTC string stored in
// upload_time. Unlike the id prefix, it keeps its colons.
func FormatUploadTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// Sanitize reduces a caller-supplied filename to characters that are safe
// inside an object key. Anything outside [A-Za-z0-9._-] becomes an
// underscore.
func Sanitize(filename string) string {
	var b strings.Builder
	b.Grow(len(filename))
	for _, r := range filename {
		if isSafeRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func isSafeRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
		r == '-' || r == '_' || r == '.'
}
