package cookiesweep

import (
	"context"
	"testing"
)

func TestFirefoxStore_List(t *testing.T) {
	st, db := newFirefoxTestStore(t)
	insertFirefoxCookie(t, db, ".example.com", "sid", "abc", 1700000000)

	cookies, err := st.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(cookies) != 1 {
		t.Fatalf("want 1 cookie got %d", len(cookies))
	}

	c := cookies[0]
	if c.Host != ".example.com" {
		t.Errorf("host stored form must be kept, got %q", c.Host)
	}
	if c.Value.Opaque || c.Value.Text != "abc" {
		t.Errorf("unexpected value %#v", c.Value)
	}
	// Firefox expiry is already epoch seconds and passes through unchanged.
	if c.Expires == nil || c.Expires.Unix() != 1700000000 {
		t.Errorf("unexpected expiry %v", c.Expires)
	}
	if c.Created == nil || c.Created.Unix() != 1700000000 {
		t.Errorf("creationTime microseconds not normalized: %v", c.Created)
	}
	if !c.Secure || !c.HTTPOnly {
		t.Errorf("flags not read: %+v", c)
	}
	if c.SameSite != SameSiteStrict {
		t.Errorf("want Strict got %v", c.SameSite)
	}
	if c.Source != st.Source() {
		t.Errorf("source not attached: %+v", c.Source)
	}
}

func TestFirefoxStore_SessionCookie(t *testing.T) {
	st, db := newFirefoxTestStore(t)
	insertFirefoxCookie(t, db, "example.com", "tmp", "x", 0)

	cookies, err := st.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(cookies) != 1 || !cookies[0].IsSession() {
		t.Fatalf("expiry 0 must mean session cookie: %+v", cookies)
	}
}

func TestFirefoxStore_MissingSameSiteColumn(t *testing.T) {
	st, _ := newFirefoxTestStore(t)
	db := openTestSQLite(t, st.Path)
	if _, err := db.Exec(`DROP TABLE moz_cookies`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`CREATE TABLE moz_cookies(
		id INTEGER PRIMARY KEY,
		host TEXT, name TEXT, value TEXT, path TEXT,
		expiry INTEGER, creationTime INTEGER, lastAccessed INTEGER,
		isSecure INTEGER, isHttpOnly INTEGER)`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(
		`INSERT INTO moz_cookies(host,name,value,path,expiry,creationTime,lastAccessed,isSecure,isHttpOnly)
		 VALUES('example.com','old','v','/',0,0,0,0,0)`); err != nil {
		t.Fatal(err)
	}

	cookies, err := st.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(cookies) != 1 {
		t.Fatalf("drifted schema must still read, got %d cookies", len(cookies))
	}
	if cookies[0].SameSite != SameSiteUnspecified {
		t.Errorf("missing column must default to Unspecified, got %v", cookies[0].SameSite)
	}
}

func TestFirefoxStore_DeleteMany(t *testing.T) {
	st, db := newFirefoxTestStore(t)
	insertFirefoxCookie(t, db, "a.com", "one", "1", 1700000000)
	insertFirefoxCookie(t, db, "b.com", "two", "2", 1700000000)
	insertFirefoxCookie(t, db, "c.com", "three", "3", 1700000000)

	ctx := context.Background()
	cookies, err := st.List(ctx)
	if err != nil {
		t.Fatal(err)
	}

	var ids []RowID
	for _, c := range cookies {
		if c.Host != "c.com" {
			ids = append(ids, c.Row)
		}
	}
	deleted, err := st.DeleteMany(ctx, ids)
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 2 {
		t.Fatalf("want 2 deleted got %d", deleted)
	}
	if n := countRows(t, db, "moz_cookies"); n != 1 {
		t.Fatalf("want 1 remaining row got %d", n)
	}

	// Rows that vanished between list and delete are already satisfied.
	deleted, err = st.DeleteMany(ctx, ids)
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 0 {
		t.Fatalf("re-delete must affect nothing, got %d", deleted)
	}
}
