package cookiesweep

import (
	"context"
	"database/sql"
	"fmt"
)

// execer is satisfied by *sql.Conn and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// schemaAdapter converts one physical on-disk layout to and from the
// normalized cookie model. The set of layouts is closed: Firefox-family and
// Chromium-family.
type schemaAdapter interface {
	kind() storeKind
	readAll(ctx context.Context, db *sql.DB, src Source) ([]Cookie, error)
	deleteRow(ctx context.Context, ex execer, id RowID) (int64, error)
}

func adapterForKind(k storeKind) (schemaAdapter, error) {
	switch k {
	case kindFirefox:
		return firefoxAdapter{}, nil
	case kindChromium:
		return chromiumAdapter{}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported store schema", ErrStoreUnreadable)
	}
}

// Store is a handle to one cookie store file of one browser profile. The
// file is opened for the duration of a single read or write operation and
// closed immediately after; a browser owning the profile may hold competing
// locks at any time.
type Store struct {
	Browser Browser
	Profile string
	Path    string

	kind storeKind
}

// OpenStore builds a handle for an explicit store file, selecting the schema
// adapter by file inspection.
func OpenStore(ctx context.Context, path string, browser Browser, profile string) (*Store, error) {
	kind, err := detectStoreKind(ctx, path)
	if err != nil {
		return nil, err
	}
	return &Store{Browser: browser, Profile: profile, Path: path, kind: kind}, nil
}

// Source returns the provenance attached to every cookie this store yields.
func (s *Store) Source() Source {
	return Source{Browser: s.Browser, Profile: s.Profile, StorePath: s.Path}
}

func (s *Store) adapter(ctx context.Context) (schemaAdapter, error) {
	if s.kind == kindUnknown {
		kind, err := detectStoreKind(ctx, s.Path)
		if err != nil {
			return nil, err
		}
		s.kind = kind
	}
	return adapterForKind(s.kind)
}

// List returns all cookies in the store in normalized form. The store file
// is snapshotted first, so listing succeeds while the browser is running.
func (s *Store) List(ctx context.Context) ([]Cookie, error) {
	ad, err := s.adapter(ctx)
	if err != nil {
		return nil, err
	}

	snap, cleanup, err := openSnapshot(s.Path)
	if err != nil {
		return nil, classifyStoreErr(err)
	}
	defer cleanup()

	db, err := openReadOnly(ctx, snap)
	if err != nil {
		return nil, classifyStoreErr(err)
	}
	defer func() { _ = db.Close() }()

	cookies, err := ad.readAll(ctx, db, s.Source())
	if err != nil {
		return nil, classifyStoreErr(err)
	}
	return cookies, nil
}

// DeleteMany removes the identified rows from the live store in a single
// transaction: either every row is removed or none are. It returns the
// number of rows actually deleted; a row that vanished between list and
// delete counts as already satisfied. A store locked by a running browser
// fails fast with ErrStoreLocked and is never retried here.
func (s *Store) DeleteMany(ctx context.Context, ids []RowID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	ad, err := s.adapter(ctx)
	if err != nil {
		return 0, err
	}

	db, err := openReadWrite(ctx, s.Path)
	if err != nil {
		return 0, classifyStoreErr(err)
	}
	defer func() { _ = db.Close() }()

	conn, err := db.Conn(ctx)
	if err != nil {
		return 0, classifyStoreErr(err)
	}
	defer func() { _ = conn.Close() }()

	// Acquire the write lock up front so a competing browser lock surfaces
	// before any row is touched.
	if _, err := conn.ExecContext(ctx, `BEGIN IMMEDIATE`); err != nil {
		return 0, classifyStoreErr(err)
	}

	deleted := 0
	for _, id := range ids {
		if id.kind != ad.kind() {
			_, _ = conn.ExecContext(ctx, `ROLLBACK`)
			return 0, fmt.Errorf("cookiesweep: row identity from a %s store presented to a %s store", id.kind, ad.kind())
		}
		affected, err := ad.deleteRow(ctx, conn, id)
		if err != nil {
			_, _ = conn.ExecContext(ctx, `ROLLBACK`)
			return 0, classifyStoreErr(err)
		}
		deleted += int(affected)
	}

	if _, err := conn.ExecContext(ctx, `COMMIT`); err != nil {
		_, _ = conn.ExecContext(ctx, `ROLLBACK`)
		return 0, classifyStoreErr(err)
	}
	return deleted, nil
}
