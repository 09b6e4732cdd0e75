package cookiesweep

import (
	"testing"
	"time"
)

func testCookies() []Cookie {
	return []Cookie{
		{Host: ".example.com", Name: "a", Source: Source{Browser: BrowserFirefox, Profile: "default"}},
		{Host: "sub.example.com", Name: "b", Source: Source{Browser: BrowserChrome, Profile: "Person 1"}},
		{Host: "other.net", Name: "c", Source: Source{Browser: BrowserChrome, Profile: "Person 2"}},
	}
}

func TestFilterCookies_ZeroValueKeepsAll(t *testing.T) {
	cookies := testCookies()
	if got := FilterCookies(cookies, Filter{}); len(got) != len(cookies) {
		t.Fatalf("want %d got %d", len(cookies), len(got))
	}
}

func TestFilterCookies_Domain(t *testing.T) {
	got := FilterCookies(testCookies(), Filter{Domains: []string{"example.com"}})
	if len(got) != 2 {
		t.Fatalf("want 2 got %d: %+v", len(got), got)
	}
}

func TestFilterCookies_BrowserAndProfile(t *testing.T) {
	got := FilterCookies(testCookies(), Filter{Browsers: []Browser{BrowserChrome}})
	if len(got) != 2 {
		t.Fatalf("browser filter: want 2 got %d", len(got))
	}

	got = FilterCookies(testCookies(), Filter{
		Browsers: []Browser{BrowserChrome},
		Profiles: []string{"Person 2"},
	})
	if len(got) != 1 || got[0].Name != "c" {
		t.Fatalf("combined filter: %+v", got)
	}
}

func TestParseFields(t *testing.T) {
	all, err := ParseFields("All")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(AllFields()) {
		t.Fatalf("want all fields, got %v", all)
	}

	// Empty selection means everything too.
	all, err = ParseFields("")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(AllFields()) {
		t.Fatalf("want all fields for empty input, got %v", all)
	}

	some, err := ParseFields("host, name ,expires")
	if err != nil {
		t.Fatal(err)
	}
	want := []Field{FieldHost, FieldName, FieldExpires}
	if len(some) != len(want) {
		t.Fatalf("want %v got %v", want, some)
	}
	for i := range want {
		if some[i] != want[i] {
			t.Errorf("field %d: want %v got %v", i, want[i], some[i])
		}
	}

	if _, err := ParseFields("host,bogus"); err == nil {
		t.Fatal("unknown field must error")
	}
}

func TestFieldString(t *testing.T) {
	expires := time.Unix(1700000000, 0).UTC()
	c := Cookie{
		Host:     ".example.com",
		Name:     "sid",
		Value:    OpaqueValue(),
		Path:     "/",
		Expires:  &expires,
		Secure:   true,
		SameSite: SameSiteLax,
	}

	if got := c.FieldString(FieldValue); got != OpaqueValueMarker {
		t.Errorf("opaque value: want %q got %q", OpaqueValueMarker, got)
	}
	if got := c.FieldString(FieldExpires); got != "2023-11-14T22:13:20Z" {
		t.Errorf("expires: got %q", got)
	}
	if got := c.FieldString(FieldSecure); got != "true" {
		t.Errorf("secure: got %q", got)
	}

	c.Expires = nil
	if got := c.FieldString(FieldExpires); got != "Session" {
		t.Errorf("session: got %q", got)
	}
	if got := c.FieldString(FieldCreated); got != "" {
		t.Errorf("absent created: got %q", got)
	}
}
