package cookiesweep

import "context"

// ListOptions configures ListCookies.
type ListOptions struct {
	// Stores to read. Empty means every store FindStores can reach,
	// narrowed by Locate.
	Stores []*Store

	// Locate narrows discovery when Stores is empty.
	Locate LocateOptions

	// Filter selects a subset of the unified cookie sequence.
	Filter Filter
}

// Result is returned by ListCookies.
type Result struct {
	Cookies  []Cookie
	Failures []StoreFailure
	Warnings []string
}

// OK reports whether every targeted store was readable.
func (r Result) OK() bool { return len(r.Failures) == 0 }

// ListCookies reads every selected store into the unified cookie sequence.
// Unreadable stores are recorded per store and never abort the remaining
// ones. The returned sequence keeps each record's source and row identity;
// colliding host/name/path records from different stores stay distinct.
func ListCookies(ctx context.Context, opts ListOptions) (Result, error) {
	var res Result

	stores := opts.Stores
	if len(stores) == 0 {
		stores, res.Warnings = FindStores(opts.Locate)
	}

	for _, st := range stores {
		cookies, err := st.List(ctx)
		if err != nil {
			res.Failures = append(res.Failures, StoreFailure{Source: st.Source(), Err: err})
			continue
		}
		res.Cookies = append(res.Cookies, FilterCookies(cookies, opts.Filter)...)
	}

	return res, ctx.Err()
}
