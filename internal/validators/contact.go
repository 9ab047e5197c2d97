package validators

import (
	"net"
	"strings"
	"unicode"
)

// IsEmailDomainValid accepts a domain with MX or A records.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := net.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}

// NormalizeWhatsApp strips formatting and a leading +55, returning the
// DDD plus number (10 or 11 digits).
func NormalizeWhatsApp(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if len(digits) >= 12 && strings.HasPrefix(digits, "55") {
		digits = digits[2:]
	}
	digits = strings.TrimPrefix(digits, "0")

	if len(digits) != 10 && len(digits) != 11 {
		return "", false
	}
	return digits, true
}

// NormalizeEmail lowercases and trims; empty stays empty.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
