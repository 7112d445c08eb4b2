package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/hickst/qmtools/internal/normalize"
)

// legendTitle heads the colour legend of every traffic-light table.
const legendTitle = "Green Values are Better"

const tableStyle = `body { font-family: sans-serif; }
table { border-collapse: collapse; }
th, td { padding: 2px 6px; border: 1px solid #dddddd; }
td.z { text-align: right; font-family: monospace; }
caption { font-weight: bold; text-align: left; padding-bottom: 4px; }`

// WriteTrafficHTML renders the z-scores in m as an HTML table whose cells
// are coloured by scale, followed by a legend.
func WriteTrafficHTML(w io.Writer, title string, m *normalize.Matrix, scale normalize.Scale) error {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html)
	doc.AppendChild(root)

	head := element(atom.Head)
	root.AppendChild(head)
	head.AppendChild(element(atom.Meta, attr("charset", "utf-8")))
	head.AppendChild(withText(element(atom.Title), title))
	head.AppendChild(withText(element(atom.Style), tableStyle))

	body := element(atom.Body)
	root.AppendChild(body)
	body.AppendChild(zTable(title, m, scale))
	body.AppendChild(legend(scale))

	return html.Render(w, doc)
}

// WriteTrafficHTMLFile writes a traffic-light page to path, creating
// parent directories as needed.
func WriteTrafficHTMLFile(path, title string, m *normalize.Matrix, scale normalize.Scale) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	f, err := os.Create(path) //nolint:gosec // path is chosen by the user
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return WriteTrafficHTML(f, title, m, scale)
}

func zTable(title string, m *normalize.Matrix, scale normalize.Scale) *html.Node {
	table := element(atom.Table)
	table.AppendChild(withText(element(atom.Caption), title))

	thead := element(atom.Thead)
	table.AppendChild(thead)
	hrow := element(atom.Tr)
	thead.AppendChild(hrow)
	hrow.AppendChild(withText(element(atom.Th), normalize.IDColumn))
	for _, col := range m.Columns {
		hrow.AppendChild(withText(element(atom.Th, attr("title", col)), Label(col)))
	}

	tbody := element(atom.Tbody)
	table.AppendChild(tbody)
	for i, id := range m.IDs {
		row := element(atom.Tr)
		tbody.AppendChild(row)
		row.AppendChild(withText(element(atom.Th), id))
		for _, z := range m.Values[i] {
			row.AppendChild(zCell(z, scale))
		}
	}
	return table
}

func zCell(z float64, scale normalize.Scale) *html.Node {
	if math.IsNaN(z) {
		return element(atom.Td, attr("class", "z"))
	}
	style := fmt.Sprintf("background-color: %s; color: %s", scale.Color(z), scale.TextColor(z))
	return withText(
		element(atom.Td, attr("class", "z"), attr("style", style)),
		strconv.FormatFloat(z, 'f', 3, 64),
	)
}

// legend renders one swatch per colour bin with its z-score range.
func legend(scale normalize.Scale) *html.Node {
	table := element(atom.Table, attr("class", "legend"))
	table.AppendChild(withText(element(atom.Caption), legendTitle))

	edges := scale.Edges()
	row := element(atom.Tr)
	table.AppendChild(row)
	for i, c := range scale.Colors {
		mid := (edges[i] + edges[i+1]) / 2
		style := fmt.Sprintf("background-color: %s; color: %s", c, scale.TextColor(mid))
		row.AppendChild(withText(element(atom.Td, attr("style", style)), binRange(edges, i)))
	}
	return table
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func withText(n *html.Node, text string) *html.Node {
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}
