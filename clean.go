package cookiesweep

import "context"

// CleanOptions configures a cleaning pass.
type CleanOptions struct {
	// Whitelist spares matching cookies. The zero value whitelists nothing,
	// which makes a cleaning pass delete every cookie; that is deliberate
	// and must be requested explicitly by the caller.
	Whitelist Whitelist

	// Apply performs the deletions. False (the default) is a dry run: the
	// report is computed but no store is mutated.
	Apply bool

	// Stores to clean. Empty means every store FindStores can reach,
	// narrowed by Locate.
	Stores []*Store

	// Locate narrows discovery when Stores is empty.
	Locate LocateOptions
}

// Report is the outcome of a cleaning pass. Deletion is best effort across
// stores and atomic within each store, so a single run can carry both
// deletions and failures.
type Report struct {
	// Deleted are the cookies removed in apply mode.
	Deleted []Cookie
	// WouldDelete are the cookies a dry run identified for deletion.
	WouldDelete []Cookie
	// Skipped are the whitelisted cookies left in place.
	Skipped []Cookie
	// Failures lists stores that could not be read or written.
	Failures []StoreFailure
	// Warnings carries soft discovery notes.
	Warnings []string
}

// OK reports whether every targeted store was processed. Callers use this
// for their exit status; per-store failures are in Failures either way.
func (r Report) OK() bool { return len(r.Failures) == 0 }

// Clean evaluates the whitelist against every reachable store and deletes
// (or, by default, previews deleting) every cookie that no whitelist entry
// covers. A store that fails keeps the pass going: the failure is recorded
// and the remaining stores are still processed.
func Clean(ctx context.Context, opts CleanOptions) (Report, error) {
	var report Report

	stores := opts.Stores
	if len(stores) == 0 {
		stores, report.Warnings = FindStores(opts.Locate)
	}

	for _, st := range stores {
		cookies, err := st.List(ctx)
		if err != nil {
			report.Failures = append(report.Failures, StoreFailure{Source: st.Source(), Err: err})
			continue
		}

		var toDelete []Cookie
		var ids []RowID
		for _, c := range cookies {
			if opts.Whitelist.Matches(c.Host) {
				report.Skipped = append(report.Skipped, c)
				continue
			}
			toDelete = append(toDelete, c)
			ids = append(ids, c.Row)
		}

		if !opts.Apply {
			report.WouldDelete = append(report.WouldDelete, toDelete...)
			continue
		}

		if _, err := st.DeleteMany(ctx, ids); err != nil {
			report.Failures = append(report.Failures, StoreFailure{Source: st.Source(), Err: err})
			continue
		}
		report.Deleted = append(report.Deleted, toDelete...)
	}

	return report, ctx.Err()
}
