package domain

import "strings"

func NormalizeString(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail performs basic shape validation, enough to catch typos in
// self-service forms. Full RFC validation is deliberately not attempted.
func IsValidEmail(email string) bool {
	email = NormalizeEmail(email)
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return !strings.ContainsAny(email, " \t")
}
