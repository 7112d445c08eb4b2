package report

import (
	"fmt"
	"io"
	"strings"
)

// Writer defines the interface for report output.
// Each method returns the number of bytes written.
type Writer interface {
	WriteFetch(s *FetchSummary) (int, error)
	WriteTraffic(r *TrafficReport) (int, error)
	WriteCompare(r *CompareReport) (int, error)
	WriteHistory(h *HistoryReport) (int, error)
}

// Format names an output format.
type Format string

const (
	// FormatText is plain terminal text.
	FormatText Format = "text"

	// FormatMarkdown is GitHub-flavored Markdown.
	FormatMarkdown Format = "markdown"

	// FormatJSON is indented JSON.
	FormatJSON Format = "json"
)

// Formats lists the supported output formats.
func Formats() []string {
	return []string{string(FormatText), string(FormatMarkdown), string(FormatJSON)}
}

// NewWriter returns a Writer for format writing to output.
func NewWriter(format Format, output io.Writer) (Writer, error) {
	switch Format(strings.ToLower(string(format))) {
	case FormatText, "":
		return NewSimpleWriter(output), nil
	case FormatMarkdown, "md":
		return NewMarkdownWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (want one of %s)",
			format, strings.Join(Formats(), ", "))
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// emit writes s to the output.
func (b baseWriter) emit(s string) (int, error) {
	return io.WriteString(b.output, s)
}
