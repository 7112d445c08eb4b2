package model

// ChecksumSet holds the content hashes seen during one fetch session.
// A session creates one with NewChecksumSet and passes it to every
// Deduplicate call; the set only grows.
type ChecksumSet struct {
	sums map[string]struct{}
}

// NewChecksumSet returns an empty set.
func NewChecksumSet() *ChecksumSet {
	return &ChecksumSet{sums: make(map[string]struct{})}
}

// Has reports whether sum has been seen.
func (s *ChecksumSet) Has(sum string) bool {
	_, ok := s.sums[sum]
	return ok
}

// Add records sum as seen.
func (s *ChecksumSet) Add(sum string) {
	s.sums[sum] = struct{}{}
}

// Len returns the number of distinct checksums seen.
func (s *ChecksumSet) Len() int {
	return len(s.sums)
}

// DedupStats counts what Deduplicate did with one batch.
type DedupStats struct {
	Kept       int `json:"kept"`
	Duplicates int `json:"duplicates"`
	Missing    int `json:"missing_checksum"`
}

// Add accumulates other into s.
func (s *DedupStats) Add(other DedupStats) {
	s.Kept += other.Kept
	s.Duplicates += other.Duplicates
	s.Missing += other.Missing
}

// Deduplicate returns the records of batch whose checksum field is present
// and not yet in seen, preserving input order. Every surviving checksum is
// added to seen, so repeats later in the same batch and in later batches are
// dropped too. Records without a checksum are always dropped.
func Deduplicate(batch []Record, seen *ChecksumSet, field string) ([]Record, DedupStats) {
	var stats DedupStats
	kept := make([]Record, 0, len(batch))
	for _, rec := range batch {
		sum, ok := rec.Checksum(field)
		if !ok {
			stats.Missing++
			continue
		}
		if seen.Has(sum) {
			stats.Duplicates++
			continue
		}
		seen.Add(sum)
		kept = append(kept, rec)
	}
	stats.Kept = len(kept)
	return kept, stats
}
