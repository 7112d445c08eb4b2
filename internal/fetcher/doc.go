// Package fetcher retrieves quality-metric records from the MRIQC web API.
//
// A fetch session for one modality requests pages one at a time, starting
// at page 1, and runs every page through the record pipeline (flatten, clean,
// deduplicate). The session ends when the requested number of unique records
// has been collected or the server returns an empty page. Any non-2xx
// response aborts the session with a *StatusError and no partial result.
//
// BatchFetcher runs independent sessions for several modalities
// concurrently. Sessions never share their checksum sets.
package fetcher
