package model

import (
	"slices"
	"sort"
)

// DefaultChecksumField is the flattened field holding the content hash of
// the source image. Records are deduplicated on this field.
const DefaultChecksumField = "provenance.md5sum"

// defaultFieldsToRemove lists server bookkeeping fields stripped from every
// fetched record regardless of modality.
var defaultFieldsToRemove = []string{
	"_etag",
	"_links.self.href",
	"_links.self.title",
	"bids_meta.Instructions",
}

// DefaultFieldsToRemove returns a copy of the default strip list.
func DefaultFieldsToRemove() []string {
	return slices.Clone(defaultFieldsToRemove)
}

// Vocabulary holds the per-modality tables used to validate query keywords,
// order output columns and split metrics into better-when-high and
// better-when-low groups.
type Vocabulary struct {
	// Keywords are the names accepted in criteria files, per modality.
	Keywords map[Modality]map[string]struct{}

	// Fields are the output TSV columns per modality, sorted.
	Fields map[Modality][]string

	// PosGood are IQMs whose higher values indicate better quality.
	PosGood map[Modality][]string

	// PosBad are IQMs whose higher values indicate worse quality.
	PosBad map[Modality][]string

	// FieldsToRemove are stripped from every fetched record.
	FieldsToRemove []string

	// ChecksumField identifies duplicate records.
	ChecksumField string
}

// NewVocabulary builds a Vocabulary from keyword lists.
// Output fields are the keywords plus the always-present server fields
// (_id, _created, _updated), sorted.
func NewVocabulary(keywords map[Modality][]string) *Vocabulary {
	v := &Vocabulary{
		Keywords:       make(map[Modality]map[string]struct{}, len(keywords)),
		Fields:         make(map[Modality][]string, len(keywords)),
		PosGood:        make(map[Modality][]string),
		PosBad:         make(map[Modality][]string),
		FieldsToRemove: DefaultFieldsToRemove(),
		ChecksumField:  DefaultChecksumField,
	}
	for mod, words := range keywords {
		set := make(map[string]struct{}, len(words))
		for _, w := range words {
			set[w] = struct{}{}
		}
		v.Keywords[mod] = set

		fields := append(slices.Clone(words), serverFields...)
		sort.Strings(fields)
		v.Fields[mod] = slices.Compact(fields)
	}
	return v
}

// IsKeyword reports whether keyword may be used in a criteria file for m.
func (v *Vocabulary) IsKeyword(m Modality, keyword string) bool {
	_, ok := v.Keywords[m][keyword]
	return ok
}

// KeywordsFor returns the sorted query keywords for m.
func (v *Vocabulary) KeywordsFor(m Modality) []string {
	words := make([]string, 0, len(v.Keywords[m]))
	for w := range v.Keywords[m] {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// FieldsFor returns the ordered output columns for m.
func (v *Vocabulary) FieldsFor(m Modality) []string {
	return v.Fields[m]
}

// serverFields are present on every record returned by the MRIQC API.
var serverFields = []string{"_created", "_id", "_updated"}

// DefaultVocabulary returns the MRIQC web API vocabulary.
func DefaultVocabulary() *Vocabulary {
	bold := concat(boldIQMs, summaryStats("bg", "fg"), commonBIDS, boldBIDS,
		commonProvenance, boldProvenance, ratingFields)
	anat := concat(structuralIQMs, summaryStats("bg", "csf", "gm", "wm"), commonBIDS,
		structuralBIDS, commonProvenance, ratingFields)

	keywords := make(map[Modality][]string, len(Modalities()))
	for _, m := range Modalities() {
		if m.IsStructural() {
			keywords[m] = anat
		} else {
			keywords[m] = bold
		}
	}
	v := NewVocabulary(keywords)

	v.PosGood[ModalityBold] = []string{"fber", "snr", "tsnr"}
	v.PosBad[ModalityBold] = []string{
		"aor", "aqi", "dvars_nstd", "dvars_std", "dvars_vstd", "efc", "fd_mean",
		"fd_num", "fd_perc", "fwhm_avg", "gcor", "gsr_x", "gsr_y",
	}
	for _, m := range Modalities() {
		if !m.IsStructural() {
			continue
		}
		v.PosGood[m] = []string{
			"cnr", "snr_csf", "snr_gm", "snr_total", "snr_wm", "snrd_csf", "snrd_gm",
			"snrd_total", "snrd_wm", "tpm_overlap_csf", "tpm_overlap_gm", "tpm_overlap_wm",
		}
		v.PosBad[m] = []string{
			"cjv", "rpve_csf", "rpve_gm", "rpve_wm", "fwhm_x", "fwhm_y", "fwhm_z",
			"inu_med", "inu_range", "qi_1", "qi_2",
		}
	}
	return v
}

var boldIQMs = []string{
	"aor", "aqi", "dummy_trs", "dvars_nstd", "dvars_std", "dvars_vstd", "efc",
	"fber", "fd_mean", "fd_num", "fd_perc", "fwhm_avg", "fwhm_x", "fwhm_y",
	"fwhm_z", "gcor", "gsr_x", "gsr_y", "size_t", "size_x", "size_y", "size_z",
	"snr", "spacing_tr", "spacing_x", "spacing_y", "spacing_z", "tsnr",
}

var structuralIQMs = []string{
	"cjv", "cnr", "efc", "fber", "fwhm_avg", "fwhm_x", "fwhm_y", "fwhm_z",
	"icvs_csf", "icvs_gm", "icvs_wm", "inu_med", "inu_range", "qi_1", "qi_2",
	"rpve_csf", "rpve_gm", "rpve_wm", "size_x", "size_y", "size_z", "snr_csf",
	"snr_gm", "snr_total", "snr_wm", "snrd_csf", "snrd_gm", "snrd_total",
	"snrd_wm", "spacing_x", "spacing_y", "spacing_z", "tpm_overlap_csf",
	"tpm_overlap_gm", "tpm_overlap_wm", "wm2max",
}

var commonBIDS = []string{
	"bids_meta.DeviceSerialNumber", "bids_meta.EchoTime", "bids_meta.FlipAngle",
	"bids_meta.ImagingFrequency", "bids_meta.InstitutionName",
	"bids_meta.MRAcquisitionType", "bids_meta.MagneticFieldStrength",
	"bids_meta.Manufacturer", "bids_meta.ManufacturersModelName",
	"bids_meta.ParallelReductionFactorInPlane", "bids_meta.PhaseEncodingDirection",
	"bids_meta.PulseSequenceType", "bids_meta.ReceiveCoilName",
	"bids_meta.RepetitionTime", "bids_meta.ScanningSequence",
	"bids_meta.SequenceName", "bids_meta.SequenceVariant",
	"bids_meta.SoftwareVersions", "bids_meta.StationName", "bids_meta.acq_id",
	"bids_meta.modality", "bids_meta.run_id", "bids_meta.session_id",
	"bids_meta.subject_id",
}

var boldBIDS = []string{
	"bids_meta.EffectiveEchoSpacing", "bids_meta.MultibandAccelerationFactor",
	"bids_meta.SliceEncodingDirection", "bids_meta.TaskName",
	"bids_meta.TotalReadoutTime", "bids_meta.task_id",
}

var structuralBIDS = []string{"bids_meta.InversionTime"}

var commonProvenance = []string{
	"provenance.md5sum", "provenance.software", "provenance.version",
	"provenance.settings.testing", "provenance.webapi_port", "provenance.webapi_url",
}

var boldProvenance = []string{"provenance.settings.fd_thres", "provenance.settings.hmc_fsl"}

var ratingFields = []string{"rating.comment", "rating.md5sum", "rating.name", "rating.rating"}

// summaryStats expands the summary_<region>_<stat> IQM family.
func summaryStats(regions ...string) []string {
	stats := []string{"k", "mad", "mean", "median", "n", "p05", "p95", "stdv"}
	out := make([]string, 0, len(regions)*len(stats))
	for _, r := range regions {
		for _, s := range stats {
			out = append(out, "summary_"+r+"_"+s)
		}
	}
	return out
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
