package timex

import (
	"fmt"
	"strings"
	"time"
)

// layouts accepted by ParseTimestamp, most specific first. Backends in the
// wild emit RFC 3339 with and without zone as well as bare dates.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses s with the first matching layout. Values without a
// zone are interpreted as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
