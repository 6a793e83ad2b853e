package core

import "time"

// DateKey returns the DD/MM/YYYY bucket key of a unix-millis timestamp in loc.
func DateKey(ts int64, loc *time.Location) string {
	return time.UnixMilli(ts).In(loc).Format(DateKeyLayout)
}

// ParseDateKey parses a DD/MM/YYYY key in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateKeyLayout, key, loc)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
