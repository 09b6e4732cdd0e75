package cookiesweep

import (
	"context"
	"database/sql"
	"time"
)

// chromiumAdapter owns the Chromium cookies layout: composite
// (host_key, name, path) rowkey and timestamps in microseconds since
// 1601-01-01 UTC.
type chromiumAdapter struct{}

func (chromiumAdapter) kind() storeKind { return kindChromium }

type chromiumRow struct {
	hostKey        string
	name           string
	value          string
	path           string
	encryptedValue []byte
	creationUTC    int64
	expiresUTC     int64
	lastAccessUTC  int64
	isSecure       bool
	isHTTPOnly     bool
	sameSite       sql.NullInt64
}

func (chromiumAdapter) readAll(ctx context.Context, db *sql.DB, src Source) ([]Cookie, error) {
	sameSiteCol := "NULL"
	if hasColumn(ctx, db, "cookies", "samesite") {
		sameSiteCol = "samesite"
	}
	encryptedCol := "NULL"
	if hasColumn(ctx, db, "cookies", "encrypted_value") {
		encryptedCol = "encrypted_value"
	}
	query := `SELECT host_key, name, value, path, ` + encryptedCol +
		`, creation_utc, expires_utc, last_access_utc, is_secure, is_httponly, ` +
		sameSiteCol + ` FROM cookies ORDER BY host_key, name, path`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Cookie
	for rows.Next() {
		var r chromiumRow
		var creation, expires, lastAccess sql.NullInt64
		var secure, httpOnly sql.NullInt64

		if err := rows.Scan(&r.hostKey, &r.name, &r.value, &r.path, &r.encryptedValue, &creation, &expires, &lastAccess, &secure, &httpOnly, &r.sameSite); err != nil {
			return nil, err
		}
		r.creationUTC = creation.Int64
		r.expiresUTC = expires.Int64
		r.lastAccessUTC = lastAccess.Int64
		r.isSecure = secure.Valid && secure.Int64 == 1
		r.isHTTPOnly = httpOnly.Valid && httpOnly.Int64 == 1

		out = append(out, chromiumRowToCookie(src, r))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (chromiumAdapter) deleteRow(ctx context.Context, ex execer, id RowID) (int64, error) {
	res, err := ex.ExecContext(ctx,
		`DELETE FROM cookies WHERE host_key = ? AND name = ? AND path = ?`,
		id.hostKey, id.name, id.path,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func chromiumRowToCookie(src Source, r chromiumRow) Cookie {
	if r.path == "" {
		r.path = "/"
	}

	// A row whose plaintext value is empty but whose encrypted_value is
	// populated is surfaced as opaque, never decrypted and never dropped.
	value := PlainValue(r.value)
	if r.value == "" && len(r.encryptedValue) > 0 {
		value = OpaqueValue()
	}

	sameSite := SameSiteUnspecified
	if r.sameSite.Valid {
		sameSite = sameSiteFromInt(r.sameSite.Int64)
	}

	return Cookie{
		Host:  r.hostKey,
		Name:  r.name,
		Value: value,
		Path:  r.path,

		Created:      chromiumMicrosToTime(r.creationUTC),
		Expires:      chromiumMicrosToTime(r.expiresUTC),
		LastAccessed: chromiumMicrosToTime(r.lastAccessUTC),

		Secure:   r.isSecure,
		HTTPOnly: r.isHTTPOnly,
		SameSite: sameSite,

		Source: src,
		Row:    RowID{kind: kindChromium, hostKey: r.hostKey, name: r.name, path: r.path},
	}
}

// chromiumEpochDiffMicros is the offset between the Chromium epoch
// (1601-01-01 UTC) and the Unix epoch, in microseconds.
const chromiumEpochDiffMicros = int64(11644473600000000)

func chromiumMicrosToTime(micros int64) *time.Time {
	if micros <= 0 {
		return nil
	}
	unixMicros := micros - chromiumEpochDiffMicros
	if unixMicros <= 0 {
		return nil
	}
	t := time.Unix(0, unixMicros*1000).UTC()
	return &t
}
