package normalize

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/hickst/qmtools/internal/model"
	"github.com/hickst/qmtools/internal/tsv"
)

const groupTSV = "bids_name\tsnr\tefc\tnotes\n" +
	"sub-01_bold\t10\t0.5\tok\n" +
	"sub-02_bold\t20\t\tok\n" +
	"sub-03_bold\t30\t0.7\tok\n"

func readGroup(t *testing.T) *tsv.Table {
	t.Helper()
	table, err := tsv.Read(strings.NewReader(groupTSV))
	if err != nil {
		t.Fatalf("failed to read group table: %v", err)
	}
	return table
}

func TestFromTable(t *testing.T) {
	t.Parallel()

	t.Run("extracts numeric columns", func(t *testing.T) {
		t.Parallel()
		m, err := FromTable(readGroup(t), IDColumn, []string{"snr", "efc", "notes"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(m.IDs) != 3 || m.IDs[1] != "sub-02_bold" {
			t.Errorf("unexpected ids %v", m.IDs)
		}
		if m.Values[0][0] != 10 || !math.IsNaN(m.Values[1][1]) || !math.IsNaN(m.Values[0][2]) {
			t.Errorf("unexpected values %v", m.Values)
		}
	})

	t.Run("missing id column", func(t *testing.T) {
		t.Parallel()
		_, err := FromTable(readGroup(t), "subject", []string{"snr"})
		if !errors.Is(err, model.ErrMalformedInput) {
			t.Errorf("expected ErrMalformedInput, got %v", err)
		}
	})
}

func TestMatrixZScores(t *testing.T) {
	t.Parallel()

	m, err := FromTable(readGroup(t), IDColumn, []string{"snr", "efc"})
	if err != nil {
		t.Fatal(err)
	}
	z := m.ZScores()

	snr := z.Column(0)
	sd := math.Sqrt(200.0 / 3.0)
	if !almostEqual(snr[0], -10/sd) || !almostEqual(snr[1], 0) || !almostEqual(snr[2], 10/sd) {
		t.Errorf("unexpected snr z-scores %v", snr)
	}
	efc := z.Column(1)
	if !almostEqual(efc[0], -1) || !math.IsNaN(efc[1]) || !almostEqual(efc[2], 1) {
		t.Errorf("unexpected efc z-scores %v", efc)
	}
	if m.Values[0][0] != 10 {
		t.Error("ZScores must not modify the source matrix")
	}

	recs := z.Records(IDColumn)
	if recs[1][IDColumn] != "sub-02_bold" {
		t.Errorf("expected id in record, got %v", recs[1])
	}
	if _, ok := recs[1]["efc"]; ok {
		t.Error("expected NaN cell to be left out")
	}
	header := z.Header(IDColumn)
	if len(header) != 3 || header[0] != IDColumn {
		t.Errorf("unexpected header %v", header)
	}
}

func TestSplitColumns(t *testing.T) {
	t.Parallel()

	vocab := model.DefaultVocabulary()
	header := []string{"bids_name", "snr", "tsnr", "efc", "aor", "unrelated"}
	good, bad, missing := SplitColumns(vocab, model.ModalityBold, header)

	if strings.Join(good, ",") != "snr,tsnr" {
		t.Errorf("unexpected pos-good columns %v", good)
	}
	if strings.Join(bad, ",") != "aor,efc" {
		t.Errorf("unexpected pos-bad columns %v", bad)
	}
	for _, m := range missing {
		if m == "snr" || m == "aor" {
			t.Errorf("present column %s reported missing", m)
		}
	}
	if len(missing) == 0 {
		t.Error("expected absent IQMs to be reported")
	}
}
