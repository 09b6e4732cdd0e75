package cookiesweep

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	sqlite "modernc.org/sqlite"
)

const sqliteMagic = "SQLite format 3\x00"

// SQLITE_BUSY / SQLITE_LOCKED primary result codes.
const (
	sqliteBusyCode   = 5
	sqliteLockedCode = 6
)

// isLockedErr reports whether err means another connection or process holds a
// conflicting lock on the database file.
func isLockedErr(err error) bool {
	if err == nil {
		return false
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code() & 0xff
		return code == sqliteBusyCode || code == sqliteLockedCode
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "database table is locked")
}

// classifyStoreErr wraps a raw sqlite/file error into one of the per-store
// error kinds.
func classifyStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if isLockedErr(err) {
		return fmt.Errorf("%w: %v", ErrStoreLocked, err)
	}
	return fmt.Errorf("%w: %v", ErrStoreUnreadable, err)
}

// openSnapshot copies the store (and WAL sidecars, which may hold recent
// writes) into a temp dir and returns the copy. Reads always go through a
// snapshot so a running browser never contends with us.
func openSnapshot(dbPath string) (snapshotPath string, cleanup func(), err error) {
	dir, err := os.MkdirTemp("", "cookiesweep-")
	if err != nil {
		return "", nil, err
	}
	cleanup = func() { _ = os.RemoveAll(dir) }

	target := filepath.Join(dir, filepath.Base(dbPath))
	if err := copyFile(dbPath, target); err != nil {
		cleanup()
		return "", nil, err
	}
	_ = copyFileIfExists(dbPath+"-wal", target+"-wal")
	_ = copyFileIfExists(dbPath+"-shm", target+"-shm")

	return target, cleanup, nil
}

func openReadOnly(ctx context.Context, path string) (*sql.DB, error) {
	return openSQLite(ctx, path, "ro")
}

func openReadWrite(ctx context.Context, path string) (*sql.DB, error) {
	return openSQLite(ctx, path, "rw")
}

func openSQLite(ctx context.Context, path, mode string) (*sql.DB, error) {
	dsn := "file:" + filepath.ToSlash(path) + "?mode=" + mode + "&_pragma=busy_timeout(0)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// hasTable probes for a table without depending on its column set.
func hasTable(ctx context.Context, db *sql.DB, table string) bool {
	var one int
	err := db.QueryRowContext(ctx, `SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&one)
	return err == nil
}

// detectStoreKind inspects a file and decides which schema adapter owns it:
// the SQLite magic header first, then a probe for the family-specific cookie
// table.
func detectStoreKind(ctx context.Context, path string) (storeKind, error) {
	f, err := os.Open(path)
	if err != nil {
		return kindUnknown, classifyStoreErr(err)
	}
	header := make([]byte, len(sqliteMagic))
	_, readErr := io.ReadFull(f, header)
	_ = f.Close()
	if readErr != nil || !bytes.Equal(header, []byte(sqliteMagic)) {
		return kindUnknown, fmt.Errorf("%w: %s is not a SQLite database", ErrStoreUnreadable, path)
	}

	db, err := openReadOnly(ctx, path)
	if err != nil {
		return kindUnknown, classifyStoreErr(err)
	}
	defer func() { _ = db.Close() }()

	switch {
	case hasTable(ctx, db, "moz_cookies"):
		return kindFirefox, nil
	case hasTable(ctx, db, "cookies"):
		return kindChromium, nil
	default:
		return kindUnknown, fmt.Errorf("%w: %s has no cookie table", ErrStoreUnreadable, path)
	}
}

// hasColumn reports whether a table carries an optional column. Missing
// optional columns are tolerated and read as defaults.
func hasColumn(ctx context.Context, db *sql.DB, table, column string) bool {
	rows, err := db.QueryContext(ctx, `SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return false
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false
		}
		if strings.EqualFold(name, column) {
			return true
		}
	}
	return false
}
