// Package report renders qmtools results for people and tools.
//
// Writers implement the Writer interface and render the same report types
// in different formats:
//   - SimpleWriter: plain text for terminal display
//   - MarkdownWriter: Markdown summaries with tables and alerts
//   - JSONWriter: structured JSON for tool integration
//
// Traffic-light tables are also rendered as standalone HTML pages by
// WriteTrafficHTML, with each z-score cell coloured by its bin on a
// diverging scale. NewTrafficReport splits an MRIQC group file into its
// positive-good and positive-bad tables, and WriteFiles stores each as TSV
// and HTML.
package report
