package cookiesweep

import (
	"errors"
	"fmt"
)

// ErrStoreLocked is returned when another process (usually the browser that
// owns the profile) holds an exclusive lock on the store file. The lock is
// never retried; the caller decides when to try again.
var ErrStoreLocked = errors.New("cookiesweep: store locked by another process")

// ErrStoreUnreadable is returned when a store file cannot be opened or does
// not carry the expected cookie table/columns.
var ErrStoreUnreadable = errors.New("cookiesweep: store unreadable")

// StoreFailure records a per-store error together with enough identity for
// the user to locate and retry the store manually.
type StoreFailure struct {
	Source Source
	Err    error
}

func (f StoreFailure) Error() string {
	return fmt.Sprintf("%s profile %q (%s): %v", f.Source.Browser, f.Source.Profile, f.Source.StorePath, f.Err)
}

func (f StoreFailure) Unwrap() error { return f.Err }
