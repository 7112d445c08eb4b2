package report

import (
	"time"

	"github.com/hickst/qmtools/internal/database"
	"github.com/hickst/qmtools/internal/model"
	"github.com/hickst/qmtools/internal/normalize"
	"github.com/hickst/qmtools/internal/query"
)

// FetchSession describes one completed or failed fetch session.
type FetchSession struct {
	ID         string           `json:"id,omitempty"`
	Modality   model.Modality   `json:"modality"`
	Target     int              `json:"target"`
	Records    int              `json:"records"`
	Pages      int              `json:"pages"`
	Stats      model.DedupStats `json:"stats"`
	Criteria   query.Criteria   `json:"criteria,omitempty"`
	QueryURL   string           `json:"query_url,omitempty"`
	OutputFile string           `json:"output_file,omitempty"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Error      string           `json:"error,omitempty"`
}

// Exhausted reports whether the server ran out of records before the
// target was reached.
func (s FetchSession) Exhausted() bool {
	return s.Error == "" && s.Records < s.Target
}

// FetchSummary describes a fetch command run.
type FetchSummary struct {
	Server      string         `json:"server"`
	GeneratedAt time.Time      `json:"generated_at"`
	Sessions    []FetchSession `json:"sessions"`
}

// Totals sums the deduplication counts of all sessions.
func (s *FetchSummary) Totals() model.DedupStats {
	var total model.DedupStats
	for _, sess := range s.Sessions {
		total.Add(sess.Stats)
	}
	return total
}

// TrafficTable is one normalized traffic-light table.
type TrafficTable struct {
	// Name is the output base name, for example pos_good_bold.
	Name string `json:"name"`

	// PositiveGood is true when higher values mean better quality.
	PositiveGood bool `json:"positive_good"`

	Columns  []string `json:"columns"`
	TSVFile  string   `json:"tsv_file,omitempty"`
	HTMLFile string   `json:"html_file,omitempty"`

	// Z holds the z-scores. It is not part of the JSON form.
	Z *normalize.Matrix `json:"-"`
}

// Scale returns the colour scale matching the table's direction.
func (t *TrafficTable) Scale() normalize.Scale {
	if t.PositiveGood {
		return normalize.PosGoodScale
	}
	return normalize.PosBadScale
}

// BinCounts counts the table's cells per colour bin.
func (t *TrafficTable) BinCounts() [8]int {
	var counts [8]int
	scale := t.Scale()
	if t.Z == nil {
		return counts
	}
	for _, row := range t.Z.Values {
		for _, z := range row {
			if b := scale.Bin(z); b >= 0 {
				counts[b]++
			}
		}
	}
	return counts
}

// TrafficReport describes a traffic-light run.
type TrafficReport struct {
	Modality       model.Modality `json:"modality"`
	InputFile      string         `json:"input_file"`
	Images         int            `json:"images"`
	Tables         []TrafficTable `json:"tables"`
	MissingColumns []string       `json:"missing_columns,omitempty"`
	GeneratedAt    time.Time      `json:"generated_at"`
}

// CompareReport describes a comparison of fetched records with a group file.
type CompareReport struct {
	FetchFile   string                       `json:"fetch_file"`
	GroupFile   string                       `json:"group_file"`
	OutputFile  string                       `json:"output_file,omitempty"`
	FetchRows   int                          `json:"fetch_rows"`
	GroupRows   int                          `json:"group_rows"`
	Metrics     []normalize.MetricComparison `json:"metrics"`
	GeneratedAt time.Time                    `json:"generated_at"`
}

// HistoryReport lists stored fetch sessions.
type HistoryReport struct {
	DBPath   string             `json:"db_path"`
	Sessions []database.Session `json:"sessions"`
}
