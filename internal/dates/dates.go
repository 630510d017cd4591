// Package dates converts between the archive's day-key format (yyyy-MM-dd)
// and the remote service's compact format (yyyyMMdd), and does whole-day
// arithmetic on day keys.
package dates

import (
	"fmt"
	"time"

	"github.com/lochfern/bingwall/internal/domain"
)

const (
	// CompactLayout is the remote service's publication date format.
	CompactLayout = "20060102"
	// KeyLayout is the archive's canonical day-key format.
	KeyLayout = "2006-01-02"
)

// Normalize parses a compact yyyyMMdd date and re-renders it as a
// yyyy-MM-dd day key.
func Normalize(compact string) (string, error) {
	t, err := time.Parse(CompactLayout, compact)
	if err != nil {
		return "", fmt.Errorf("%w: %q", domain.ErrBadDate, compact)
	}
	return t.Format(KeyLayout), nil
}

// Offset adds a signed number of whole days to a day key. The arithmetic is
// calendar-based in UTC, so there is no DST drift to worry about.
func Offset(day string, days int) (string, error) {
	t, err := time.ParseInLocation(KeyLayout, day, time.UTC)
	if err != nil {
		return "", fmt.Errorf("%w: %q", domain.ErrBadDate, day)
	}
	return t.AddDate(0, 0, days).Format(KeyLayout), nil
}

// Today returns the current local date as a day key. Note that the archive
// key for "today's image" is the service's reported start date, which may
// lag behind this value.
func Today() string {
	return time.Now().Format(KeyLayout)
}
