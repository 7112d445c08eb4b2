// Package normalize turns MRIQC group metrics into z-scores for
// traffic-light tables and computes per-metric distribution summaries.
//
// Metrics are split by direction: for "positive good" IQMs such as snr a
// high value means better quality, for "positive bad" IQMs such as efc a high
// value means worse. Each column is normalized independently using the
// population standard deviation. Missing and non-numeric cells are NaN and
// are ignored by every statistic.
package normalize
