package search

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	errs "sjsage522/avitoworker/pkg/errors"
)

// months maps the site's localized month names to their numeric form
var months = map[string]time.Month{
	"января":   time.January,
	"февраля":  time.February,
	"марта":    time.March,
	"апреля":   time.April,
	"мая":      time.May,
	"июня":     time.June,
	"июля":     time.July,
	"августа":  time.August,
	"сентября": time.September,
	"октября":  time.October,
	"ноября":   time.November,
	"декабря":  time.December,
}

// relativeDays maps relative day markers to an offset from the reference day
var relativeDays = map[string]int{
	"Сегодня": 0,
	"Вчера":   -1,
}

var clockPattern = regexp.MustCompile(`^([0-9]{1,2}):([0-9]{2})$`)

// NormalizeDate converts a raw listing date into canonical form:
// "2006-01-02 15:04" when a clock time is present, "2006-01-02" otherwise.
// Seconds are never emitted. now supplies the day, month and year that
// relative markers resolve against, so the function stays pure.
//
// Recognized shapes:
//
//	"Вчера 15:29"      -> "2019-01-10 15:29" (day taken from now, minus one)
//	"5 марта 09:41"    -> "2019-03-05 09:41" (year taken from now)
//	"10 января 2019"   -> "2019-01-10"
//
// Anything outside the month/relative vocabulary fails with a date format
// error, which is fatal for the record being built.
func NormalizeDate(raw string, now time.Time) (string, error) {
	fields := strings.Fields(strings.ReplaceAll(raw, "\u00a0", " "))
	if len(fields) < 2 {
		return "", errs.NewDateFormat("date", fmt.Sprintf("malformed date %q", raw), nil)
	}

	if offset, ok := relativeDays[fields[0]]; ok {
		return resolveRelative(raw, fields, offset, now)
	}

	month, ok := months[fields[1]]
	if !ok {
		return "", errs.NewDateFormat("date", fmt.Sprintf("unknown month name in %q", raw), nil)
	}

	day, err := strconv.Atoi(fields[0])
	if err != nil {
		return "", errs.NewDateFormat("date", fmt.Sprintf("malformed day in %q", raw), err)
	}

	if len(fields) == 3 && strings.Contains(fields[2], ":") {
		// "5 марта 09:41": the year is stamped from the reference time
		hour, minute, err := parseClock(raw, fields[2])
		if err != nil {
			return "", err
		}
		t := time.Date(now.Year(), month, day, hour, minute, 0, 0, time.UTC)
		if t.Day() != day || t.Month() != month {
			return "", errs.NewDateFormat("date", fmt.Sprintf("invalid day of month in %q", raw), nil)
		}
		return t.Format("2006-01-02 15:04"), nil
	}

	if len(fields) != 3 {
		return "", errs.NewDateFormat("date", fmt.Sprintf("malformed date %q", raw), nil)
	}

	// "10 января 2019": date only, no time component
	year, err := strconv.Atoi(fields[2])
	if err != nil {
		return "", errs.NewDateFormat("date", fmt.Sprintf("malformed year in %q", raw), err)
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month || t.Year() != year {
		return "", errs.NewDateFormat("date", fmt.Sprintf("invalid day of month in %q", raw), nil)
	}
	return t.Format("2006-01-02"), nil
}

// resolveRelative handles the "Сегодня 15:29" / "Вчера 15:29" shape. The day
// number is taken from the reference time and never rolls over a month or
// year boundary: "Вчера" on the 1st yields day 0, matching upstream behavior.
// The output is therefore assembled from components instead of time.Date,
// which would silently renormalize day 0.
func resolveRelative(raw string, fields []string, offset int, now time.Time) (string, error) {
	if len(fields) != 2 {
		return "", errs.NewDateFormat("date", fmt.Sprintf("relative date %q has no clock time", raw), nil)
	}
	hour, minute, err := parseClock(raw, fields[1])
	if err != nil {
		return "", err
	}
	day := now.Day() + offset
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d", now.Year(), int(now.Month()), day, hour, minute), nil
}

func parseClock(raw, token string) (hour, minute int, err error) {
	m := clockPattern.FindStringSubmatch(token)
	if m == nil {
		return 0, 0, errs.NewDateFormat("date", fmt.Sprintf("malformed clock time in %q", raw), nil)
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return 0, 0, errs.NewDateFormat("date", fmt.Sprintf("clock time out of range in %q", raw), nil)
	}
	return hour, minute, nil
}
