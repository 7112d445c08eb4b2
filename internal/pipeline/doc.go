// Package pipeline runs the per-page processing steps of a fetch session.
//
// Every page of raw records returned by the MRIQC API passes through the same
// ordered steps: flatten the nested JSON into dotted keys, strip server
// bookkeeping fields, then drop records whose checksum was already seen in the
// session. Each step receives the Page being processed and modifies it in
// place.
//
// The pipeline is strictly sequential. A fetch session owns one Pipeline and
// one checksum set; sessions for different modalities never share either.
package pipeline
