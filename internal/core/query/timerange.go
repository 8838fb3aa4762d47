package query

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var relRe = regexp.MustCompile(`^(\d+)([mhdw])$`)

// ParseTimeRef turns a time reference into Unix milliseconds. Accepted
// forms, tried in order:
//
//	relative  30m, 12h, 7d, 2w  (that long before now)
//	absolute  RFC 3339, or a bare 2006-01-02 date (midnight UTC)
//
// Anything else yields 0, meaning "no bound".
func ParseTimeRef(ref string, now time.Time) int64 {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return 0
	}

	if m := relRe.FindStringSubmatch(ref); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n == 0 {
			return 0
		}
		var d time.Duration
		switch m[2] {
		case "m":
			d = time.Duration(n) * time.Minute
		case "h":
			d = time.Duration(n) * time.Hour
		case "d":
			d = time.Duration(n) * 24 * time.Hour
		case "w":
			d = time.Duration(n) * 7 * 24 * time.Hour
		}
		return now.Add(-d).UnixMilli()
	}

	if t, err := time.Parse(time.RFC3339, ref); err == nil {
		return t.UnixMilli()
	}
	if t, err := time.Parse("2006-01-02", ref); err == nil {
		return t.UnixMilli()
	}
	return 0
}
