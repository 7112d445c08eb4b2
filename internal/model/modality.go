package model

import (
	"fmt"
	"strings"
)

// Modality is the imaging protocol category of an MRIQC record.
// It selects the keyword vocabulary and output field set.
type Modality string

const (
	// ModalityBold is a functional (BOLD) scan.
	ModalityBold Modality = "bold"

	// ModalityT1w is a T1-weighted structural scan.
	ModalityT1w Modality = "T1w"

	// ModalityT2w is a T2-weighted structural scan.
	ModalityT2w Modality = "T2w"
)

// Modalities returns every supported modality in canonical order.
func Modalities() []Modality {
	return []Modality{ModalityBold, ModalityT1w, ModalityT2w}
}

// ParseModality converts a user-supplied modality string into its canonical form.
// Matching is case-insensitive, so "t1w", "T1W" and "T1w" all yield ModalityT1w.
func ParseModality(s string) (Modality, error) {
	trimmed := strings.TrimSpace(s)
	for _, m := range Modalities() {
		if strings.EqualFold(trimmed, string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: modality %q must be one of %s",
		ErrInvalidArgument, s, strings.Join(ModalityNames(), ", "))
}

// ModalityNames returns the canonical modality spellings.
func ModalityNames() []string {
	mods := Modalities()
	names := make([]string, len(mods))
	for i, m := range mods {
		names[i] = string(m)
	}
	return names
}

// IsStructural reports whether the modality is an anatomical (T1w/T2w) scan.
func (m Modality) IsStructural() bool {
	return m == ModalityT1w || m == ModalityT2w
}

// Valid reports whether m is one of the supported modalities.
func (m Modality) Valid() bool {
	for _, known := range Modalities() {
		if m == known {
			return true
		}
	}
	return false
}

// String returns the canonical modality spelling.
func (m Modality) String() string {
	return string(m)
}
