package report

import (
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/hickst/qmtools/internal/model"
	"github.com/hickst/qmtools/internal/normalize"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

const timeLayout = "2006-01-02 15:04:05 MST"

// WriteFetch implements Writer.
func (w *MarkdownWriter) WriteFetch(s *FetchSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("MRIQC Fetch Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Server", "`" + s.Server + "`"},
			{"Generated", s.GeneratedAt.Format(timeLayout)},
			{"Sessions", strconv.Itoa(len(s.Sessions))},
		},
	})
	md.PlainText("")

	md.H2("Sessions")
	md.PlainText("")
	rows := make([][]string, 0, len(s.Sessions))
	for _, sess := range s.Sessions {
		rows = append(rows, []string{
			string(sess.Modality),
			strconv.Itoa(sess.Records) + " / " + strconv.Itoa(sess.Target),
			strconv.Itoa(sess.Pages),
			strconv.Itoa(sess.Stats.Duplicates),
			strconv.Itoa(sess.Stats.Missing),
			sessionStatus(sess),
			outputCell(sess.OutputFile),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Modality", "Records", "Pages", "Duplicates", "Missing Checksum", "Status", "Output"},
		Rows:   rows,
	})
	md.PlainText("")

	totals := s.Totals()
	if totals.Kept+totals.Duplicates+totals.Missing > 0 {
		w.writeDedupChart(md, totals)
	}
	w.writeFetchAlert(md, s)
	w.writeCriteria(md, s)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func sessionStatus(sess FetchSession) string {
	switch {
	case sess.Error != "":
		return "❌ " + sess.Error
	case sess.Exhausted():
		return "⚠️ Exhausted"
	default:
		return "✅ Complete"
	}
}

func outputCell(path string) string {
	if path == "" {
		return "-"
	}
	return "`" + path + "`"
}

// writeDedupChart writes a mermaid pie chart of kept and dropped records.
func (w *MarkdownWriter) writeDedupChart(md *markdown.Markdown, totals model.DedupStats) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Fetched Records"),
		piechart.WithShowData(true),
	)
	if totals.Kept > 0 {
		chart.LabelAndIntValue("Kept", uint64(totals.Kept))
	}
	if totals.Duplicates > 0 {
		chart.LabelAndIntValue("Duplicate", uint64(totals.Duplicates))
	}
	if totals.Missing > 0 {
		chart.LabelAndIntValue("Missing checksum", uint64(totals.Missing))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeFetchAlert(md *markdown.Markdown, s *FetchSummary) {
	var failed, exhausted []string
	for _, sess := range s.Sessions {
		if sess.Error != "" {
			failed = append(failed, string(sess.Modality))
		} else if sess.Exhausted() {
			exhausted = append(exhausted, string(sess.Modality))
		}
	}
	switch {
	case len(failed) > 0:
		md.Cautionf("Fetching failed for: %s", strings.Join(failed, ", "))
	case len(exhausted) > 0:
		md.Warningf("The server ran out of matching records for: %s", strings.Join(exhausted, ", "))
	default:
		md.Tip("Every session reached its record target.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeCriteria(md *markdown.Markdown, s *FetchSummary) {
	if !slices.ContainsFunc(s.Sessions, func(sess FetchSession) bool { return len(sess.Criteria) > 0 }) {
		return
	}

	md.H2("Query Criteria")
	md.PlainText("")
	for _, sess := range s.Sessions {
		if len(sess.Criteria) == 0 {
			continue
		}
		md.PlainTextf("**%s**", sess.Modality)
		md.PlainText("")
		items := make([]string, 0, len(sess.Criteria))
		for _, c := range sess.Criteria {
			items = append(items, "`"+c.String()+"`")
		}
		md.BulletList(items...)
		md.PlainText("")
	}
}

// WriteTraffic implements Writer.
func (w *MarkdownWriter) WriteTraffic(r *TrafficReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Traffic-Light Report: " + string(r.Modality))
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Input", "`" + r.InputFile + "`"},
			{"Images", strconv.Itoa(r.Images)},
			{"Generated", r.GeneratedAt.Format(timeLayout)},
		},
	})
	md.PlainText("")
	md.Note(legendTitle)
	md.PlainText("")

	for i := range r.Tables {
		t := &r.Tables[i]
		md.H2(t.Name)
		md.PlainText("")
		if t.TSVFile != "" || t.HTMLFile != "" {
			md.BulletList(filesList(t)...)
			md.PlainText("")
		}
		w.writeBinTable(md, t)
	}

	if len(r.MissingColumns) > 0 {
		md.Warningf("Columns not found in the input: %s", strings.Join(r.MissingColumns, ", "))
		md.PlainText("")
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func filesList(t *TrafficTable) []string {
	var files []string
	if t.TSVFile != "" {
		files = append(files, "TSV: `"+t.TSVFile+"`")
	}
	if t.HTMLFile != "" {
		files = append(files, "HTML: `"+t.HTMLFile+"`")
	}
	return files
}

// writeBinTable writes the colour legend of a table with its cell counts.
func (w *MarkdownWriter) writeBinTable(md *markdown.Markdown, t *TrafficTable) {
	scale := t.Scale()
	edges := scale.Edges()
	counts := t.BinCounts()
	rows := make([][]string, 0, len(scale.Colors))
	for i, c := range scale.Colors {
		rows = append(rows, []string{
			binRange(edges, i),
			"`" + c + "`",
			strconv.Itoa(counts[i]),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Z-Score", "Colour", "Cells"},
		Rows:   rows,
	})
	md.PlainText("")
}

// binRange formats the z-score range of bin i. The outer bins are open.
func binRange(edges []float64, i int) string {
	switch i {
	case 0:
		return "< " + formatFloat(edges[1], 1)
	case len(edges) - 2:
		return ">= " + formatFloat(edges[i], 1)
	default:
		return formatFloat(edges[i], 1) + " to " + formatFloat(edges[i+1], 1)
	}
}

// WriteCompare implements Writer.
func (w *MarkdownWriter) WriteCompare(r *CompareReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("IQM Comparison")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Fetched", "`" + r.FetchFile + "` (" + strconv.Itoa(r.FetchRows) + " rows)"},
			{"Group", "`" + r.GroupFile + "` (" + strconv.Itoa(r.GroupRows) + " rows)"},
			{"Merged", outputCell(r.OutputFile)},
			{"Generated", r.GeneratedAt.Format(timeLayout)},
		},
	})
	md.PlainText("")

	if len(r.Metrics) == 0 {
		md.Note("The two files share no image quality metrics.")
		md.PlainText("")
	}
	for _, m := range r.Metrics {
		w.writeMetric(md, m)
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeMetric(md *markdown.Markdown, m normalize.MetricComparison) {
	md.H3(Label(m.Name))
	md.PlainText("")
	if doc := model.IQMDoc(m.Name); doc != "" {
		md.Details("About "+m.Name, doc)
		md.PlainText("")
	}
	md.Table(markdown.TableSet{
		Header: []string{"Source", "N", "Mean", "SD", "Min", "Median", "Max"},
		Rows: [][]string{
			summaryRow("fetch", m.Fetch),
			summaryRow("group", m.Group),
		},
	})
	md.PlainText("")
}

func summaryRow(source string, s normalize.Summary) []string {
	return []string{
		source,
		strconv.Itoa(s.N),
		formatFloat(s.Mean, 4),
		formatFloat(s.SD, 4),
		formatFloat(s.Min, 4),
		formatFloat(s.Median, 4),
		formatFloat(s.Max, 4),
	}
}

// WriteHistory implements Writer.
func (w *MarkdownWriter) WriteHistory(h *HistoryReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Fetch History")
	md.PlainText("")
	md.PlainTextf("Database: `%s`", h.DBPath)
	md.PlainText("")

	if len(h.Sessions) == 0 {
		md.Note("No fetch sessions recorded.")
		md.PlainText("")
	} else {
		rows := make([][]string, 0, len(h.Sessions))
		for _, s := range h.Sessions {
			rows = append(rows, []string{
				"`" + s.ID + "`",
				string(s.Modality),
				s.StartedAt.Format(timeLayout),
				strconv.Itoa(s.RecordCount),
				strconv.Itoa(s.Duplicates),
				truncateString(s.Criteria.Where(), 40),
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"ID", "Modality", "Started", "Records", "Duplicates", "Criteria"},
			Rows:   rows,
		})
		md.PlainText("")
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [qmtools](https://github.com/hickst/qmtools)*")
}
