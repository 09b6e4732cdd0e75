package cookiesweep

import "time"

// Browser identifies a cookie store family/vendor.
type Browser string

const (
	// BrowserChrome is Google Chrome.
	BrowserChrome Browser = "chrome"
	// BrowserChromium is Chromium.
	BrowserChromium Browser = "chromium"
	// BrowserEdge is Microsoft Edge.
	BrowserEdge Browser = "edge"
	// BrowserBrave is Brave Browser.
	BrowserBrave Browser = "brave"
	// BrowserVivaldi is Vivaldi.
	BrowserVivaldi Browser = "vivaldi"
	// BrowserOpera is Opera.
	BrowserOpera Browser = "opera"

	// BrowserFirefox is Mozilla Firefox.
	BrowserFirefox Browser = "firefox"
)

// DefaultBrowsers returns the default discovery order.
func DefaultBrowsers() []Browser {
	return []Browser{
		BrowserChrome,
		BrowserEdge,
		BrowserBrave,
		BrowserChromium,
		BrowserVivaldi,
		BrowserOpera,
		BrowserFirefox,
	}
}

// SameSite is the cookie SameSite attribute.
type SameSite string

const (
	// SameSiteNone is SameSite=None.
	SameSiteNone SameSite = "None"
	// SameSiteLax is SameSite=Lax.
	SameSiteLax SameSite = "Lax"
	// SameSiteStrict is SameSite=Strict.
	SameSiteStrict SameSite = "Strict"
	// SameSiteUnspecified means the store carried no usable SameSite value.
	SameSiteUnspecified SameSite = "Unspecified"
)

// sameSiteFromInt maps the small-integer enum shared by both schemas.
func sameSiteFromInt(v int64) SameSite {
	switch v {
	case 2:
		return SameSiteStrict
	case 1:
		return SameSiteLax
	case 0:
		return SameSiteNone
	default:
		return SameSiteUnspecified
	}
}

// OpaqueValueMarker is the display form of a cookie value that exists only in
// an encrypted column. Decryption is out of scope; the marker keeps
// "undecryptable" distinct from "empty".
const OpaqueValueMarker = "[ENCRYPTED]"

// Value is a cookie value that is either plain text or opaque (present only
// as an encrypted blob in the store).
type Value struct {
	Text   string
	Opaque bool
}

// PlainValue wraps plain text.
func PlainValue(s string) Value { return Value{Text: s} }

// OpaqueValue marks a value as present but undecodable.
func OpaqueValue() Value { return Value{Opaque: true} }

func (v Value) String() string {
	if v.Opaque {
		return OpaqueValueMarker
	}
	return v.Text
}

// Source describes which browser, profile and store file a cookie came from.
type Source struct {
	Browser   Browser
	Profile   string
	StorePath string
}

// storeKind selects one of the two supported on-disk schemas.
type storeKind int

const (
	kindUnknown storeKind = iota
	kindFirefox
	kindChromium
)

func (k storeKind) String() string {
	switch k {
	case kindFirefox:
		return "firefox"
	case kindChromium:
		return "chromium"
	default:
		return "unknown"
	}
}

// RowID re-locates exactly one physical row within the store that produced
// it. Firefox stores key rows by integer id, Chromium by (host, name, path).
// A RowID is only meaningful for its own store; presenting it to a store of
// another kind is an error.
type RowID struct {
	kind storeKind

	id int64 // firefox rowid

	hostKey string // chromium composite key
	name    string
	path    string
}

// Cookie is one normalized cookie record.
type Cookie struct {
	Host  string
	Name  string
	Value Value
	Path  string

	// Created, Expires and LastAccessed are normalized to Unix time.
	// A nil Expires means a session cookie.
	Created      *time.Time
	Expires      *time.Time
	LastAccessed *time.Time

	Secure   bool
	HTTPOnly bool
	SameSite SameSite

	Source Source
	Row    RowID
}

// IsSession reports whether the cookie expires with the browser session.
func (c Cookie) IsSession() bool { return c.Expires == nil }
