package company

import (
	"net/url"
	"strings"
)

// ExtractDomain returns the registrable-looking host of a job posting URL:
// lowercased, without a leading "www.". ok is false when raw is not an
// absolute URL or its host has no dot or is too short to be a domain.
func ExtractDomain(raw string) (domain string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if !strings.Contains(host, ".") || len(host) <= 3 {
		return "", false
	}
	return host, true
}

// GuessDomain builds a ".com" domain from a company name by dropping every
// character outside [a-z0-9]. It is a crude guess ("Acme Corp" becomes
// acmecorp.com) and returns "" when nothing is left of the name.
func GuessDomain(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return b.String() + ".com"
}
