package email

import "strings"

// Normalize trims surrounding whitespace and lower-cases an email address.
// The normalized form is the identity key for citizen records, so the same
// mailbox typed with different casing resolves to one subscription.
func Normalize(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// Plausible reports whether addr looks like a deliverable address. This is
// deliberately loose: real validation happens when the transport attempts
// delivery.
func Plausible(addr string) bool {
	at := strings.IndexByte(addr, '@')
	return at > 0 && at < len(addr)-1 && !strings.ContainsAny(addr, " \t\n")
}
