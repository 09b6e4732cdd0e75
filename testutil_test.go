package cookiesweep

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func openTestSQLite(t *testing.T, path string) *sql.DB {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	db, err := sql.Open("sqlite", "file:"+filepath.ToSlash(path)+"?mode=rwc")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// newFirefoxTestStore builds an empty moz_cookies store in a temp dir.
func newFirefoxTestStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cookies.sqlite")
	db := openTestSQLite(t, path)
	if _, err := db.Exec(`CREATE TABLE moz_cookies(
		id INTEGER PRIMARY KEY,
		host TEXT, name TEXT, value TEXT, path TEXT,
		expiry INTEGER, creationTime INTEGER, lastAccessed INTEGER,
		isSecure INTEGER, isHttpOnly INTEGER, sameSite INTEGER)`); err != nil {
		t.Fatal(err)
	}
	return &Store{Browser: BrowserFirefox, Profile: "default", Path: path}, db
}

func insertFirefoxCookie(t *testing.T, db *sql.DB, host, name, value string, expiry int64) {
	t.Helper()
	if _, err := db.Exec(
		`INSERT INTO moz_cookies(host,name,value,path,expiry,creationTime,lastAccessed,isSecure,isHttpOnly,sameSite)
		 VALUES(?,?,?,?,?,?,?,?,?,?)`,
		host, name, value, "/", expiry, expiry*1_000_000, expiry*1_000_000, 1, 1, 2,
	); err != nil {
		t.Fatal(err)
	}
}

// newChromiumTestStore builds an empty Chromium cookies store in a temp dir.
func newChromiumTestStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Cookies")
	db := openTestSQLite(t, path)
	if _, err := db.Exec(`CREATE TABLE cookies(
		host_key TEXT, name TEXT, value TEXT, path TEXT,
		encrypted_value BLOB,
		creation_utc INTEGER, expires_utc INTEGER, last_access_utc INTEGER,
		is_secure INTEGER, is_httponly INTEGER, samesite INTEGER)`); err != nil {
		t.Fatal(err)
	}
	return &Store{Browser: BrowserChromium, Profile: "Default", Path: path}, db
}

func insertChromiumCookie(t *testing.T, db *sql.DB, hostKey, name, value string, encrypted []byte, expiresUTC int64) {
	t.Helper()
	if _, err := db.Exec(
		`INSERT INTO cookies(host_key,name,value,path,encrypted_value,creation_utc,expires_utc,last_access_utc,is_secure,is_httponly,samesite)
		 VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
		hostKey, name, value, "/", encrypted, expiresUTC, expiresUTC, expiresUTC, 1, 0, 1,
	); err != nil {
		t.Fatal(err)
	}
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		t.Fatal(err)
	}
	return n
}

// unixToChromiumMicros is the inverse of chromiumMicrosToTime for fixtures.
func unixToChromiumMicros(sec int64) int64 {
	return sec*1_000_000 + chromiumEpochDiffMicros
}
