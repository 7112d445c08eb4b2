// Package database provides SQLite-based fetch history for qmtools.
//
// Every fetch session can be saved with the records it returned, so earlier
// results can be listed, compared or exported again without re-querying the
// MRIQC server. The store holds:
//   - fetch sessions: modality, time span, record and duplicate counts, the
//     first query URL and a digest identifying the criteria used
//   - the records of each session, in fetch order, as JSON
//
// SQLite is accessed through modernc.org/sqlite, a CGO-free driver, so the
// history is a single file in the user's data directory.
package database
