package utils

import (
	"regexp"
	"strings"
)

var (
	phonePattern = regexp.MustCompile(`^(\+91[\s-]?)?[6-9]\d{9}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// IsValidPhone accepts Indian mobile numbers with an optional +91 prefix.
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(strings.TrimSpace(phone))
}

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// NormalizePhone converts phone to E.164. Bare ten digit numbers get countryCode prepended.
func NormalizePhone(phone, countryCode string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(phone) {
		if r == '+' && i == 0 {
			b.WriteRune(r)
			continue
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if strings.HasPrefix(digits, "+") {
		return digits
	}
	if len(digits) == 10 {
		return countryCode + digits
	}
	return "+" + digits
}
