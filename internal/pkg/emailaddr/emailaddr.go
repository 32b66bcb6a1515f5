package emailaddr

import "strings"

// Domain returns the lowercased part after the last '@' of addr.
// The empty string means addr is not a usable email address.
func Domain(addr string) string {
	i := strings.LastIndexByte(addr, '@')
	if i <= 0 || i == len(addr)-1 {
		return ""
	}
	return strings.ToLower(addr[i+1:])
}

// NormalizeDomain lowercases d and strips a leading '@' so stored
// tenant policies always hold bare domain names.
func NormalizeDomain(d string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(d), "@"))
}

// Redact masks the local part of addr for logging: "alice@school.edu"
// becomes "a***@school.edu". Log lines must never carry a full address.
func Redact(addr string) string {
	i := strings.LastIndexByte(addr, '@')
	if i <= 0 {
		return "***"
	}
	return addr[:1] + "***" + addr[i:]
}
