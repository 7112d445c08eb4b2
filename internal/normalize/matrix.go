package normalize

import (
	"fmt"
	"math"
	"slices"

	"github.com/hickst/qmtools/internal/model"
	"github.com/hickst/qmtools/internal/tsv"
)

// IDColumn names the image identifier column of MRIQC group files.
const IDColumn = "bids_name"

// Matrix holds numeric metric columns for a set of images.
type Matrix struct {
	// IDs identifies each row, normally by BIDS file name.
	IDs []string

	// Columns names each metric column.
	Columns []string

	// Values is row-major; missing cells are NaN.
	Values [][]float64
}

// FromTable extracts columns from t, keyed by idColumn.
// Cells that are absent or not numbers become NaN.
func FromTable(t *tsv.Table, idColumn string, columns []string) (*Matrix, error) {
	if !t.HasColumn(idColumn) {
		return nil, fmt.Errorf("%w: table has no %s column", model.ErrMalformedInput, idColumn)
	}

	m := &Matrix{
		IDs:     make([]string, len(t.Rows)),
		Columns: slices.Clone(columns),
		Values:  make([][]float64, len(t.Rows)),
	}
	for i, row := range t.Rows {
		m.IDs[i] = fmt.Sprint(row[idColumn])
		vals := make([]float64, len(columns))
		for j, col := range columns {
			vals[j] = toFloat(row[col])
		}
		m.Values[i] = vals
	}
	return m, nil
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return math.NaN()
	}
}

// Column returns a copy of column j.
func (m *Matrix) Column(j int) []float64 {
	out := make([]float64, len(m.Values))
	for i, row := range m.Values {
		out[i] = row[j]
	}
	return out
}

// ZScores returns a new matrix with every column z-score normalized.
func (m *Matrix) ZScores() *Matrix {
	out := &Matrix{
		IDs:     slices.Clone(m.IDs),
		Columns: slices.Clone(m.Columns),
		Values:  make([][]float64, len(m.Values)),
	}
	for i := range out.Values {
		out.Values[i] = make([]float64, len(m.Columns))
	}
	for j := range m.Columns {
		for i, z := range ZScores(m.Column(j)) {
			out.Values[i][j] = z
		}
	}
	return out
}

// Records converts the matrix back into records keyed by idColumn and the
// column names. NaN cells are left out.
func (m *Matrix) Records(idColumn string) []model.Record {
	recs := make([]model.Record, len(m.Values))
	for i, row := range m.Values {
		rec := model.Record{idColumn: m.IDs[i]}
		for j, col := range m.Columns {
			if !math.IsNaN(row[j]) {
				rec[col] = row[j]
			}
		}
		recs[i] = rec
	}
	return recs
}

// Header returns idColumn followed by the metric columns.
func (m *Matrix) Header(idColumn string) []string {
	return append([]string{idColumn}, m.Columns...)
}

// SplitColumns partitions the columns of header into the modality's
// positive-good and positive-bad IQMs, keeping the vocabulary's order.
// IQMs missing from header are returned in missing.
func SplitColumns(vocab *model.Vocabulary, modality model.Modality, header []string) (good, bad, missing []string) {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	pick := func(cols []string) []string {
		var out []string
		for _, c := range cols {
			if present[c] {
				out = append(out, c)
			} else {
				missing = append(missing, c)
			}
		}
		return out
	}
	good = pick(vocab.PosGood[modality])
	bad = pick(vocab.PosBad[modality])
	return good, bad, missing
}
