package normalize

import (
	"math"
	"slices"
	"strings"

	"github.com/hickst/qmtools/internal/model"
	"github.com/hickst/qmtools/internal/tsv"
)

const (
	// OrigColumn marks which input a merged row came from.
	OrigColumn = "orig"

	// OrigFetch marks rows from a fetched record file.
	OrigFetch = "fetch"

	// OrigGroup marks rows from an MRIQC group file.
	OrigGroup = "group"

	// fetchedIDColumn is the server-side identifier of fetched records.
	fetchedIDColumn = "_id"
)

// metadataPrefixes select columns that hold metadata rather than IQMs.
var metadataPrefixes = []string{"_", "bids_meta", "provenance", "rating"}

func isMetadata(col string) bool {
	for _, p := range metadataPrefixes {
		if strings.HasPrefix(col, p) {
			return true
		}
	}
	return false
}

// Merge combines fetched records with a group file for comparison.
// The fetched _id column becomes bids_name, metadata columns are dropped
// from both inputs, and every row gets an orig column of "fetch" or "group".
// The merged header is bids_name, the union of IQM columns sorted, then orig.
func Merge(fetched, group *tsv.Table) *tsv.Table {
	cols := make(map[string]struct{})
	collect := func(header []string) {
		for _, h := range header {
			if h != IDColumn && h != fetchedIDColumn && !isMetadata(h) {
				cols[h] = struct{}{}
			}
		}
	}
	collect(fetched.Header)
	collect(group.Header)

	metrics := make([]string, 0, len(cols))
	for c := range cols {
		metrics = append(metrics, c)
	}
	slices.Sort(metrics)

	out := &tsv.Table{
		Header: append(append([]string{IDColumn}, metrics...), OrigColumn),
		Rows:   make([]model.Record, 0, len(fetched.Rows)+len(group.Rows)),
	}
	add := func(rows []model.Record, idCol, orig string) {
		for _, row := range rows {
			rec := model.Record{OrigColumn: orig}
			if id, ok := row[idCol]; ok {
				rec[IDColumn] = id
			}
			for _, m := range metrics {
				if v, ok := row[m]; ok {
					rec[m] = v
				}
			}
			out.Rows = append(out.Rows, rec)
		}
	}
	add(fetched.Rows, fetchedIDColumn, OrigFetch)
	add(group.Rows, IDColumn, OrigGroup)
	return out
}

// MetricComparison summarizes one IQM for both inputs of a merged table.
type MetricComparison struct {
	Name  string  `json:"name"`
	Fetch Summary `json:"fetch"`
	Group Summary `json:"group"`
}

// CompareMetrics summarizes every numeric IQM column of a merged table,
// split by origin. Columns with no numeric value in either input are skipped.
func CompareMetrics(merged *tsv.Table) []MetricComparison {
	var out []MetricComparison
	for _, col := range merged.Header {
		if col == IDColumn || col == OrigColumn {
			continue
		}
		var fetch, group []float64
		for _, row := range merged.Rows {
			v := toFloat(row[col])
			if math.IsNaN(v) {
				continue
			}
			if row[OrigColumn] == OrigFetch {
				fetch = append(fetch, v)
			} else {
				group = append(group, v)
			}
		}
		if len(fetch) == 0 && len(group) == 0 {
			continue
		}
		out = append(out, MetricComparison{
			Name:  col,
			Fetch: Describe(fetch),
			Group: Describe(group),
		})
	}
	return out
}
