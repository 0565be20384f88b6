package report

import (
	"io"
	"strings"

	"github.com/carbocation/tshcqc/workbook"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseTables returns every <table> of an HTML document in document order.
// The first row made only of <th> cells becomes the header; every other row
// is data. Cell text is whitespace-trimmed. It reads both the reports this
// package renders and the older pandas-generated ones.
func ParseTables(r io.Reader) ([]workbook.Table, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var out []workbook.Table
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Table {
			out = append(out, parseTable(n, tableName(len(out))))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return out, nil
}

func parseTable(table *html.Node, name string) workbook.Table {
	t := workbook.Table{Sheet: name}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.DataAtom {
		case atom.Table:
			if n != table {
				// Nested tables are not part of this one
				return
			}
		case atom.Tr:
			cells, allHeader := rowCells(n)
			if allHeader && t.Header == nil {
				t.Header = cells
			} else if len(cells) > 0 {
				t.Rows = append(t.Rows, cells)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(table)

	return t
}

func rowCells(tr *html.Node) ([]string, bool) {
	var cells []string
	allHeader := true
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Th:
		case atom.Td:
			allHeader = false
		default:
			continue
		}
		cells = append(cells, strings.TrimSpace(textOf(c)))
	}

	return cells, allHeader && len(cells) > 0
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return b.String()
}
