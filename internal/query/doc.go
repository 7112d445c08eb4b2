// Package query builds MRIQC web API query URLs and parses criteria files.
//
// A criteria file restricts a fetch to records matching simple comparisons,
// one per line:
//
//	# only short-TR scans from one site
//	bids_meta.RepetitionTime <=2.0
//	bids_meta.InstitutionName ==NIMH
//	snr >3.5
//
// Each line is a keyword from the modality's vocabulary, a space, then an
// operator (==, !=, <, >, <=, >=) immediately followed by the value.
// Blank lines and lines starting with # are ignored.
//
// Builder turns a modality, page number and parsed Criteria into a URL of
// the form
//
//	{base}/{modality}?max_results=N&page=P&sort=-_created&where=...
//
// Building is pure: nothing in this package performs network I/O.
package query
