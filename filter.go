package cookiesweep

import (
	"fmt"
	"strings"
	"time"
)

// Filter selects a subset of the unified cookie sequence. The zero value
// selects everything. Filtering is read-only.
type Filter struct {
	// Domains keeps cookies whose host is covered by any listed domain,
	// using the same suffix semantics as whitelist matching.
	Domains []string

	// Browsers keeps cookies from the listed browsers.
	Browsers []Browser

	// Profiles keeps cookies from the listed profile labels.
	Profiles []string
}

// FilterCookies applies f to cookies and returns the kept records.
func FilterCookies(cookies []Cookie, f Filter) []Cookie {
	if len(f.Domains) == 0 && len(f.Browsers) == 0 && len(f.Profiles) == 0 {
		return cookies
	}

	out := make([]Cookie, 0, len(cookies))
	for _, c := range cookies {
		if !matchesAnyDomain(c.Host, f.Domains) {
			continue
		}
		if len(f.Browsers) > 0 && !containsBrowser(f.Browsers, c.Source.Browser) {
			continue
		}
		if len(f.Profiles) > 0 && !containsString(f.Profiles, c.Source.Profile) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func matchesAnyDomain(host string, domains []string) bool {
	if len(domains) == 0 {
		return true
	}
	for _, d := range domains {
		if DomainMatches(host, d) {
			return true
		}
	}
	return false
}

func containsBrowser(haystack []Browser, b Browser) bool {
	for _, h := range haystack {
		if h == b {
			return true
		}
	}
	return false
}

func containsString(haystack []string, s string) bool {
	for _, h := range haystack {
		if h == s {
			return true
		}
	}
	return false
}

// Field names one displayable cookie attribute.
type Field string

const (
	FieldHost         Field = "Host"
	FieldName         Field = "Name"
	FieldValue        Field = "Value"
	FieldPath         Field = "Path"
	FieldCreated      Field = "Created"
	FieldExpires      Field = "Expires"
	FieldLastAccessed Field = "LastAccessed"
	FieldSecure       Field = "Secure"
	FieldHTTPOnly     Field = "HttpOnly"
	FieldSameSite     Field = "SameSite"

	// FieldAll is the sentinel selecting every field.
	FieldAll Field = "All"
)

// AllFields returns every displayable field in display order.
func AllFields() []Field {
	return []Field{
		FieldHost, FieldName, FieldValue, FieldPath,
		FieldCreated, FieldExpires, FieldLastAccessed,
		FieldSecure, FieldHTTPOnly, FieldSameSite,
	}
}

// ParseFields parses a comma separated field list. "All" (alone or among
// other names) selects every field.
func ParseFields(s string) ([]Field, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(FieldAll)) {
		return AllFields(), nil
	}

	known := AllFields()
	var out []Field
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.EqualFold(part, string(FieldAll)) {
			return AllFields(), nil
		}
		matched := false
		for _, f := range known {
			if strings.EqualFold(part, string(f)) {
				out = append(out, f)
				matched = true
				break
			}
		}
		if !matched {
			return nil, fmt.Errorf("cookiesweep: unknown field %q", part)
		}
	}
	if len(out) == 0 {
		return AllFields(), nil
	}
	return out, nil
}

// FieldString renders one field of the cookie for display. Opaque values
// render as the encrypted marker, session lifetimes as "Session".
func (c Cookie) FieldString(f Field) string {
	switch f {
	case FieldHost:
		return c.Host
	case FieldName:
		return c.Name
	case FieldValue:
		return c.Value.String()
	case FieldPath:
		return c.Path
	case FieldCreated:
		return formatTimestamp(c.Created, "")
	case FieldExpires:
		return formatTimestamp(c.Expires, "Session")
	case FieldLastAccessed:
		return formatTimestamp(c.LastAccessed, "")
	case FieldSecure:
		return fmt.Sprintf("%t", c.Secure)
	case FieldHTTPOnly:
		return fmt.Sprintf("%t", c.HTTPOnly)
	case FieldSameSite:
		return string(c.SameSite)
	default:
		return ""
	}
}

func formatTimestamp(t *time.Time, absent string) string {
	if t == nil {
		return absent
	}
	return t.UTC().Format(time.RFC3339)
}
