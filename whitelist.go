package cookiesweep

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/idna"
)

// Whitelist is a set of registrable-domain suffix patterns. A cookie whose
// host matches any entry is spared from cleaning. The empty whitelist
// whitelists nothing: cleaning against it deletes every cookie.
type Whitelist struct {
	entries []string
}

// NewWhitelist builds a whitelist from raw domain patterns. Entries are
// normalized once; blanks are dropped.
func NewWhitelist(entries ...string) Whitelist {
	var wl Whitelist
	for _, e := range entries {
		if n := normalizeDomain(e); n != "" {
			wl.entries = append(wl.entries, n)
		}
	}
	return wl
}

// LoadWhitelist reads a whitelist file: UTF-8, one domain pattern per line,
// blank lines and '#' comments ignored. Any read error is fatal to the whole
// run; a half-read whitelist must never drive deletions.
func LoadWhitelist(path string) (Whitelist, error) {
	f, err := os.Open(path)
	if err != nil {
		return Whitelist{}, fmt.Errorf("cookiesweep: whitelist unreadable: %w", err)
	}
	defer func() { _ = f.Close() }()

	wl, err := ParseWhitelist(f)
	if err != nil {
		return Whitelist{}, fmt.Errorf("cookiesweep: whitelist unreadable (%s): %w", path, err)
	}
	return wl, nil
}

// ParseWhitelist parses whitelist lines from r.
func ParseWhitelist(r io.Reader) (Whitelist, error) {
	var wl Whitelist
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if n := normalizeDomain(line); n != "" {
			wl.entries = append(wl.entries, n)
		}
	}
	if err := scanner.Err(); err != nil {
		return Whitelist{}, err
	}
	return wl, nil
}

// Entries returns the normalized patterns in file order.
func (wl Whitelist) Entries() []string { return wl.entries }

// Len reports the number of entries.
func (wl Whitelist) Len() int { return len(wl.entries) }

// Matches reports whether host is covered by at least one entry. Matching is
// a logical OR over the whole whitelist and order-independent.
func (wl Whitelist) Matches(host string) bool {
	h := normalizeDomain(host)
	if h == "" {
		// A cookie without a usable host is never whitelisted.
		return false
	}
	for _, e := range wl.entries {
		if domainMatches(h, e) {
			return true
		}
	}
	return false
}

// DomainMatches reports whether cookieHost is covered by the single
// whitelist entry: equal after normalization, or a subdomain of it.
func DomainMatches(cookieHost, entry string) bool {
	h := normalizeDomain(cookieHost)
	e := normalizeDomain(entry)
	if h == "" || e == "" {
		return false
	}
	return domainMatches(h, e)
}

// domainMatches assumes both sides are already normalized.
func domainMatches(host, entry string) bool {
	if host == entry {
		return true
	}
	return strings.HasSuffix(host, "."+entry)
}

// normalizeDomain maps a cookie host or whitelist entry to its comparison
// form: one leading dot stripped, lowercased, and converted to the IDNA
// ASCII (punycode) representation. Both store families and the whitelist go
// through the same mapping, so Unicode and punycoded spellings of the same
// domain compare equal regardless of which browser persisted them.
func normalizeDomain(host string) string {
	host = strings.TrimSpace(host)
	host = strings.TrimPrefix(host, ".")
	host = strings.ToLower(host)
	if host == "" {
		return ""
	}
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		return ascii
	}
	return host
}
