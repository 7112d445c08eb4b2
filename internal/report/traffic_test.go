package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hickst/qmtools/internal/model"
	"github.com/hickst/qmtools/internal/tsv"
)

const groupBold = "bids_name\tsnr\ttsnr\tfber\tefc\tfd_mean\n" +
	"sub-01_task-rest_bold\t10\t40\t1000\t0.5\t0.1\n" +
	"sub-02_task-rest_bold\t20\t50\t1000\t0.6\t0.2\n" +
	"sub-03_task-rest_bold\t30\t60\t1000\t0.7\t0.3\n"

func TestNewTrafficReport(t *testing.T) {
	t.Parallel()

	table, err := tsv.Read(strings.NewReader(groupBold))
	if err != nil {
		t.Fatal(err)
	}

	r, err := NewTrafficReport(model.DefaultVocabulary(), model.ModalityBold, "group_bold.tsv", table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Images != 3 {
		t.Errorf("expected 3 images, got %d", r.Images)
	}
	if len(r.Tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(r.Tables))
	}

	good := r.Tables[0]
	if good.Name != "pos_good_bold" || !good.PositiveGood {
		t.Errorf("unexpected first table %s (positive good %v)", good.Name, good.PositiveGood)
	}
	if got := strings.Join(good.Columns, ","); got != "fber,snr,tsnr" {
		t.Errorf("expected good columns fber,snr,tsnr, got %s", got)
	}
	// fber is constant, so every z-score is zero.
	for i, row := range good.Z.Values {
		if row[0] != 0 {
			t.Errorf("row %d: expected zero z-score for constant column, got %v", i, row[0])
		}
	}
	if counts := good.BinCounts(); counts[4]+counts[3]+counts[5]+counts[2] != 9 {
		t.Errorf("expected all 9 cells in the middle bins, got %v", counts)
	}

	bad := r.Tables[1]
	if bad.Name != "pos_bad_bold" || bad.PositiveGood {
		t.Errorf("unexpected second table %s", bad.Name)
	}
	if got := strings.Join(bad.Columns, ","); got != "efc,fd_mean" {
		t.Errorf("expected bad columns efc,fd_mean, got %s", got)
	}
	if len(r.MissingColumns) == 0 {
		t.Error("expected missing columns to be reported")
	}
}

func TestNewTrafficReportNoColumns(t *testing.T) {
	t.Parallel()

	table, err := tsv.Read(strings.NewReader("bids_name\tcjv\nsub-01_T1w\t0.4\n"))
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewTrafficReport(model.DefaultVocabulary(), model.ModalityBold, "group.tsv", table)
	if !errors.Is(err, model.ErrMalformedInput) {
		t.Errorf("expected ErrMalformedInput, got %v", err)
	}
}

func TestTrafficReportWriteFiles(t *testing.T) {
	t.Parallel()

	table, err := tsv.Read(strings.NewReader(groupBold))
	if err != nil {
		t.Fatal(err)
	}
	r, err := NewTrafficReport(model.DefaultVocabulary(), model.ModalityBold, "group_bold.tsv", table)
	if err != nil {
		t.Fatal(err)
	}

	dir := filepath.Join(t.TempDir(), "reports")
	if err := r.WriteFiles(dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range []string{"pos_good_bold.tsv", "pos_good_bold.html", "pos_bad_bold.tsv", "pos_bad_bold.html"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
	if r.Tables[0].TSVFile != filepath.Join(dir, "pos_good_bold.tsv") {
		t.Errorf("unexpected TSV path %s", r.Tables[0].TSVFile)
	}

	written, err := tsv.ReadFile(r.Tables[0].TSVFile)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(written.Header, ","); got != "bids_name,fber,snr,tsnr" {
		t.Errorf("unexpected header %s", got)
	}
	if len(written.Rows) != 3 {
		t.Errorf("expected 3 rows, got %d", len(written.Rows))
	}
}
