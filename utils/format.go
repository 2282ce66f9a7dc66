package utils

import (
	"regexp"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var (
	nonDigits    = regexp.MustCompile(`[^0-9]`)
	krPhone      = regexp.MustCompile(`^0\d{8,10}$`)
	clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// NormalizePhone strips everything but digits; +82 numbers are rewritten to the 0-prefixed form.
func NormalizePhone(raw string) string {
	digits := nonDigits.ReplaceAllString(strings.TrimSpace(raw), "")
	if strings.HasPrefix(digits, "82") && len(digits) >= 11 {
		digits = "0" + digits[2:]
	}
	return digits
}

func IsValidPhone(digits string) bool {
	return krPhone.MatchString(digits)
}

// FormatPhone renders 01012345678 as 010-1234-5678. Unknown shapes are returned unchanged.
func FormatPhone(raw string) string {
	d := NormalizePhone(raw)
	switch {
	case strings.HasPrefix(d, "02") && len(d) == 9:
		return d[:2] + "-" + d[2:5] + "-" + d[5:]
	case strings.HasPrefix(d, "02") && len(d) == 10:
		return d[:2] + "-" + d[2:6] + "-" + d[6:]
	case len(d) == 10:
		return d[:3] + "-" + d[3:6] + "-" + d[6:]
	case len(d) == 11:
		return d[:3] + "-" + d[3:7] + "-" + d[7:]
	}
	return raw
}

// MaskPhone hides the middle block: 010-****-5678.
func MaskPhone(raw string) string {
	f := FormatPhone(raw)
	parts := strings.Split(f, "-")
	if len(parts) != 3 {
		return f
	}
	return parts[0] + "-" + strings.Repeat("*", len(parts[1])) + "-" + parts[2]
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

func IsValidDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// IsValidClock accepts 24h "HH:MM".
func IsValidClock(s string) bool {
	return clockPattern.MatchString(s)
}

func PtrTime(t time.Time) *time.Time { return &t }

func PtrUint(v uint) *uint { return &v }
