package cookiesweep

import (
	"context"
	"database/sql"
	"time"
)

// firefoxAdapter owns the moz_cookies layout: integer id rowkey, expiry in
// epoch seconds, creationTime/lastAccessed in epoch microseconds.
type firefoxAdapter struct{}

func (firefoxAdapter) kind() storeKind { return kindFirefox }

type firefoxRow struct {
	id           int64
	host         string
	name         string
	value        string
	path         string
	expiry       int64
	creationTime int64
	lastAccessed int64
	isSecure     bool
	httpOnly     bool
	sameSite     sql.NullInt64
}

func (firefoxAdapter) readAll(ctx context.Context, db *sql.DB, src Source) ([]Cookie, error) {
	// Older schemas may predate the sameSite column; read drift columns as
	// NULL instead of failing the whole store.
	sameSiteCol := "NULL"
	if hasColumn(ctx, db, "moz_cookies", "sameSite") {
		sameSiteCol = "sameSite"
	}
	query := `SELECT id, host, name, value, path, expiry, creationTime, lastAccessed, isSecure, isHttpOnly, ` +
		sameSiteCol + ` FROM moz_cookies ORDER BY host, name, path`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Cookie
	for rows.Next() {
		var r firefoxRow
		var expiry, creation, lastAccess sql.NullInt64
		var secure, httpOnly sql.NullInt64

		if err := rows.Scan(&r.id, &r.host, &r.name, &r.value, &r.path, &expiry, &creation, &lastAccess, &secure, &httpOnly, &r.sameSite); err != nil {
			return nil, err
		}
		r.expiry = expiry.Int64
		r.creationTime = creation.Int64
		r.lastAccessed = lastAccess.Int64
		r.isSecure = secure.Valid && secure.Int64 == 1
		r.httpOnly = httpOnly.Valid && httpOnly.Int64 == 1

		out = append(out, firefoxRowToCookie(src, r))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (firefoxAdapter) deleteRow(ctx context.Context, ex execer, id RowID) (int64, error) {
	res, err := ex.ExecContext(ctx, `DELETE FROM moz_cookies WHERE id = ?`, id.id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func firefoxRowToCookie(src Source, r firefoxRow) Cookie {
	if r.path == "" {
		r.path = "/"
	}

	sameSite := SameSiteUnspecified
	if r.sameSite.Valid {
		sameSite = sameSiteFromInt(r.sameSite.Int64)
	}

	return Cookie{
		Host:  r.host,
		Name:  r.name,
		Value: PlainValue(r.value),
		Path:  r.path,

		// expiry is already epoch seconds; creation/lastAccessed are epoch
		// microseconds.
		Created:      firefoxMicrosToTime(r.creationTime),
		Expires:      epochSecondsToTime(r.expiry),
		LastAccessed: firefoxMicrosToTime(r.lastAccessed),

		Secure:   r.isSecure,
		HTTPOnly: r.httpOnly,
		SameSite: sameSite,

		Source: src,
		Row:    RowID{kind: kindFirefox, id: r.id},
	}
}

func epochSecondsToTime(sec int64) *time.Time {
	if sec <= 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}

func firefoxMicrosToTime(micros int64) *time.Time {
	if micros <= 0 {
		return nil
	}
	t := time.Unix(0, micros*1000).UTC()
	return &t
}
