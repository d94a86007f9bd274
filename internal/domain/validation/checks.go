package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^(0|\+84)[0-9]{9,10}$`)
)

// DateLayout is the wire format of date inputs
const DateLayout = "2006-01-02"

// IsValidEmail reports whether s has a local@domain.tld shape
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidPhone reports whether s is a Vietnamese mobile number once all
// whitespace is removed: a leading 0 or +84 followed by 9 or 10 digits.
func IsValidPhone(s string) bool {
	return phonePattern.MatchString(stripSpace(s))
}

// IsDateTodayOrFuture compares at day granularity in now's location.
// ok is false when date does not parse.
func IsDateTodayOrFuture(date string, now time.Time) (future bool, ok bool) {
	loc := now.Location()
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), loc)
	if err != nil {
		return false, false
	}
	y, m, day := now.Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, loc)
	return !d.Before(today), true
}

// CharCount counts user-perceived characters of the trimmed value, composing
// combining marks first so decomposed Vietnamese input is not over-counted.
func CharCount(s string) int {
	return utf8.RuneCountInString(norm.NFC.String(strings.TrimSpace(s)))
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Check inspects one field value and returns the failing message key
type Check func(value string, ctx Context) (MessageKey, bool)

// Required fails on blank values
func Required(key MessageKey) Check {
	return func(value string, _ Context) (MessageKey, bool) {
		return key, isBlank(value)
	}
}

// Email fails on values that are not email-shaped
func Email(key MessageKey) Check {
	return func(value string, _ Context) (MessageKey, bool) {
		return key, !IsValidEmail(strings.TrimSpace(value))
	}
}

// Phone fails on values that are not Vietnamese mobile numbers
func Phone(key MessageKey) Check {
	return func(value string, _ Context) (MessageKey, bool) {
		return key, !IsValidPhone(value)
	}
}

// OneOf fails on values outside the closed set
func OneOf(key MessageKey, allowed ...string) Check {
	set := make(map[string]struct{}, len(allowed))
	for _, v := range allowed {
		set[v] = struct{}{}
	}
	return func(value string, _ Context) (MessageKey, bool) {
		_, ok := set[strings.TrimSpace(value)]
		return key, !ok
	}
}

// TodayOrLater fails on unparseable dates and dates before today
func TodayOrLater(invalidKey, pastKey MessageKey) Check {
	return func(value string, ctx Context) (MessageKey, bool) {
		future, ok := IsDateTodayOrFuture(value, ctx.Now)
		if !ok {
			return invalidKey, true
		}
		return pastKey, !future
	}
}

// MinChars fails when the trimmed value is shorter than n characters
func MinChars(n int, key MessageKey) Check {
	return func(value string, _ Context) (MessageKey, bool) {
		return key, CharCount(value) < n
	}
}

// Optional runs checks only when the value is not blank
func Optional(checks ...Check) Check {
	return func(value string, ctx Context) (MessageKey, bool) {
		if isBlank(value) {
			return "", false
		}
		for _, check := range checks {
			if key, failed := check(value, ctx); failed {
				return key, true
			}
		}
		return "", false
	}
}
