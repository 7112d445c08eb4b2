package report

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/hickst/qmtools/internal/model"
	"github.com/hickst/qmtools/internal/normalize"
	"github.com/hickst/qmtools/internal/tsv"
)

// NewTrafficReport z-score normalizes the positive-good and positive-bad
// IQM columns of an MRIQC group table. A table is produced for each set
// with at least one column present in t.
func NewTrafficReport(vocab *model.Vocabulary, modality model.Modality, inputFile string, t *tsv.Table) (*TrafficReport, error) {
	good, bad, missing := normalize.SplitColumns(vocab, modality, t.Header)
	r := &TrafficReport{
		Modality:       modality,
		InputFile:      inputFile,
		Images:         len(t.Rows),
		MissingColumns: missing,
		GeneratedAt:    time.Now(),
	}

	sets := []struct {
		prefix string
		good   bool
		cols   []string
	}{
		{"pos_good_", true, good},
		{"pos_bad_", false, bad},
	}
	for _, set := range sets {
		if len(set.cols) == 0 {
			continue
		}
		m, err := normalize.FromTable(t, normalize.IDColumn, set.cols)
		if err != nil {
			return nil, err
		}
		r.Tables = append(r.Tables, TrafficTable{
			Name:         set.prefix + modality.String(),
			PositiveGood: set.good,
			Columns:      set.cols,
			Z:            m.ZScores(),
		})
	}
	if len(r.Tables) == 0 {
		return nil, fmt.Errorf("%w: %s has none of the %s IQM columns", model.ErrMalformedInput, inputFile, modality)
	}
	return r, nil
}

// WriteFiles writes each table as <name>.tsv and <name>.html into dir and
// records the paths on the table.
func (r *TrafficReport) WriteFiles(dir string) error {
	for i := range r.Tables {
		t := &r.Tables[i]
		tsvPath := filepath.Join(dir, t.Name+".tsv")
		if err := tsv.WriteFile(tsvPath, t.Z.Header(normalize.IDColumn), t.Z.Records(normalize.IDColumn)); err != nil {
			return fmt.Errorf("write %s: %w", tsvPath, err)
		}
		t.TSVFile = tsvPath

		htmlPath := filepath.Join(dir, t.Name+".html")
		title := fmt.Sprintf("%s: %s", Label(t.Name), r.InputFile)
		if err := WriteTrafficHTMLFile(htmlPath, title, t.Z, t.Scale()); err != nil {
			return err
		}
		t.HTMLFile = htmlPath
	}
	return nil
}
