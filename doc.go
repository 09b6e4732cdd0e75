// Package cookiesweep lists and cleans cookies persisted by local browser
// profiles (Chromium-family and Firefox-family). Stores are read through a
// temporary snapshot so a running browser never blocks listing; deletions run
// in a single transaction per store and fail fast when the browser holds the
// file lock.
//
// Cleaning is whitelist-driven: every cookie whose domain is not covered by a
// whitelist entry is a deletion candidate. Dry run is the default; callers
// must opt into applying deletions.
//
// This is intended for local tooling. It opens live browser state and should
// not be used in server contexts.
package cookiesweep
