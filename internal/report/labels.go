package report

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// acronyms are IQM name parts shown in upper case.
var acronyms = map[string]bool{
	"aor": true, "aqi": true, "cjv": true, "cnr": true, "csf": true,
	"dvars": true, "efc": true, "fber": true, "fd": true, "fwhm": true,
	"gcor": true, "gm": true, "gsr": true, "icvs": true, "inu": true,
	"nstd": true, "qi": true, "rpve": true, "snr": true, "snrd": true,
	"tpm": true, "tr": true, "tsnr": true, "vstd": true, "wm": true,
}

// Label returns a human-readable heading for an IQM or column name,
// for example snr_gm becomes "SNR GM" and tpm_overlap_csf "TPM Overlap CSF".
// Dotted metadata names keep only their last part.
func Label(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	caser := cases.Title(language.English)
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '_' })
	for i, p := range parts {
		if acronyms[strings.ToLower(p)] {
			parts[i] = strings.ToUpper(p)
		} else {
			parts[i] = caser.String(p)
		}
	}
	return strings.Join(parts, " ")
}

// formatFloat renders f with prec decimals, or "-" when undefined.
func formatFloat(f float64, prec int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "-"
	}
	return strconv.FormatFloat(f, 'f', prec, 64)
}

// truncateString truncates a string to maxLen characters with ellipsis.
// Lengths count runes, so multi-byte characters are never split.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
