// Package model defines the core data types shared across QMTools.
//
// This package contains the following main types:
//   - Modality: the closed set of MRIQC image modalities (bold, T1w, T2w)
//   - Record: one image's flattened quality metrics and provenance metadata
//   - ChecksumSet: the content hashes seen during one fetch session
//   - Vocabulary: per-modality keyword and field tables
//
// Design decision: the vocabulary tables are returned by DefaultVocabulary
// and passed explicitly to the query builder, criteria parser and TSV codec
// instead of being read from package-level variables. Tests build smaller
// vocabularies to exercise edge cases in isolation.
package model
