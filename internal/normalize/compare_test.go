package normalize

import (
	"strings"
	"testing"

	"github.com/hickst/qmtools/internal/tsv"
)

func TestMergeAndCompare(t *testing.T) {
	t.Parallel()

	fetched, err := tsv.Read(strings.NewReader(
		"_id\tbids_meta.TaskName\tprovenance.md5sum\trating.name\tsnr\ttsnr\n" +
			"a1\trest\tm1\tgood\t10\t50\n" +
			"a2\trest\tm2\t\t20\t60\n"))
	if err != nil {
		t.Fatal(err)
	}
	group, err := tsv.Read(strings.NewReader(
		"bids_name\tsnr\tfber\tdesc\n" +
			"sub-01_task-rest_bold\t30\t1000\tnone\n"))
	if err != nil {
		t.Fatal(err)
	}

	merged := Merge(fetched, group)

	wantHeader := "bids_name,desc,fber,snr,tsnr,orig"
	if got := strings.Join(merged.Header, ","); got != wantHeader {
		t.Errorf("expected header %s, got %s", wantHeader, got)
	}
	if len(merged.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(merged.Rows))
	}
	if merged.Rows[0][IDColumn] != "a1" || merged.Rows[0][OrigColumn] != OrigFetch {
		t.Errorf("unexpected first row %v", merged.Rows[0])
	}
	if merged.Rows[2][IDColumn] != "sub-01_task-rest_bold" || merged.Rows[2][OrigColumn] != OrigGroup {
		t.Errorf("unexpected group row %v", merged.Rows[2])
	}
	if _, ok := merged.Rows[0]["provenance.md5sum"]; ok {
		t.Error("metadata columns should be dropped")
	}

	comps := CompareMetrics(merged)
	names := make([]string, len(comps))
	for i, c := range comps {
		names[i] = c.Name
	}
	if got := strings.Join(names, ","); got != "fber,snr,tsnr" {
		t.Errorf("expected numeric metrics only, got %s", got)
	}
	for _, c := range comps {
		if c.Name != "snr" {
			continue
		}
		if c.Fetch.N != 2 || c.Fetch.Mean != 15 || c.Group.N != 1 || c.Group.Mean != 30 {
			t.Errorf("unexpected snr comparison %+v", c)
		}
	}
}
