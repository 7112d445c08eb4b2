package pipeline

import "github.com/hickst/qmtools/internal/model"

// Page is one page of API results moving through the pipeline.
type Page struct {
	// Modality is the modality the page was fetched for.
	Modality model.Modality

	// Number is the one-based page number.
	Number int

	// Raw holds the records as decoded from the response envelope.
	Raw []map[string]any

	// Records holds the processed records. Steps replace it as they go.
	Records []model.Record

	// Stats counts deduplication results for this page.
	Stats model.DedupStats

	// PerformedSteps lists the steps that ran, in order.
	PerformedSteps []string

	// Err is the error of the step that failed, if any.
	Err error
}

// NewPage returns a Page holding raw records.
func NewPage(modality model.Modality, number int, raw []map[string]any) *Page {
	return &Page{
		Modality: modality,
		Number:   number,
		Raw:      raw,
	}
}

// RawCount returns the number of records the server returned for the page.
func (p *Page) RawCount() int {
	return len(p.Raw)
}
