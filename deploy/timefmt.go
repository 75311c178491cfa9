package deploy

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
)

const timestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in UTC with millisecond precision, the form the
// node uses in deploy headers.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(sdkerr.ErrFormat, "timestamp %q", s)
	}
	return t.UTC().Truncate(time.Millisecond), nil
}

func millis(t time.Time) uint64 {
	return uint64(t.UnixNano() / int64(time.Millisecond))
}

type durationUnit struct {
	names []string
	size  time.Duration
}

const day = 24 * time.Hour

// Largest first. The first name is the one FormatDuration writes.
var durationUnits = []durationUnit{
	{[]string{"day", "days", "d"}, day},
	{[]string{"h", "hr", "hrs", "hour", "hours"}, time.Hour},
	{[]string{"m", "min", "mins", "minute", "minutes"}, time.Minute},
	{[]string{"s", "sec", "secs", "second", "seconds"}, time.Second},
	{[]string{"ms", "msec", "millis", "millisecond", "milliseconds"}, time.Millisecond},
}

// FormatDuration renders d at millisecond resolution as space separated
// unit groups, for example "1h 30m" or "2days 5s".
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	d = d.Truncate(time.Millisecond)
	var parts []string
	for _, u := range durationUnits {
		n := d / u.size
		if n == 0 {
			continue
		}
		d -= n * u.size
		name := u.names[0]
		if u.size == day && n > 1 {
			name = "days"
		}
		parts = append(parts, strconv.FormatInt(int64(n), 10)+name)
	}
	return strings.Join(parts, " ")
}

// ParseDuration reads the FormatDuration form. Groups may be separated by
// spaces or written back to back ("1h30m").
func ParseDuration(s string) (time.Duration, error) {
	src := strings.TrimSpace(s)
	if src == "" {
		return 0, errors.Wrap(sdkerr.ErrFormat, "empty duration")
	}
	var total time.Duration
	for src != "" {
		digits := strings.IndexFunc(src, func(r rune) bool { return r < '0' || r > '9' })
		if digits == 0 {
			return 0, errors.Wrapf(sdkerr.ErrFormat, "duration %q: expected a number", s)
		}
		if digits < 0 {
			return 0, errors.Wrapf(sdkerr.ErrFormat, "duration %q: missing unit", s)
		}
		n, err := strconv.ParseInt(src[:digits], 10, 64)
		if err != nil {
			return 0, errors.Wrapf(sdkerr.ErrFormat, "duration %q: %v", s, err)
		}
		src = src[digits:]
		end := strings.IndexFunc(src, func(r rune) bool { return r == ' ' || (r >= '0' && r <= '9') })
		if end < 0 {
			end = len(src)
		}
		size, ok := unitSize(src[:end])
		if !ok {
			return 0, errors.Wrapf(sdkerr.ErrFormat, "duration %q: unknown unit %q", s, src[:end])
		}
		if n > int64(math.MaxInt64/size) || time.Duration(n)*size > math.MaxInt64-total {
			return 0, errors.Wrapf(sdkerr.ErrFormat, "duration %q overflows", s)
		}
		total += time.Duration(n) * size
		src = strings.TrimLeft(src[end:], " ")
	}
	return total, nil
}

func unitSize(name string) (time.Duration, bool) {
	for _, u := range durationUnits {
		for _, n := range u.names {
			if n == name {
				return u.size, true
			}
		}
	}
	return 0, false
}
