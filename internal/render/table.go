// Package render turns itineraries into the HTML table stored with a trip
package render

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pbaille/voyago/internal/domain"
)

// Columns are the table headers, in order
var Columns = []string{"day", "place_name", "start_time", "end_time", "notes", "estimated_cost"}

// ItineraryHTML renders items as a `table table-sm` HTML table
func ItineraryHTML(items []domain.ItineraryItem) (string, error) {
	table := element(atom.Table, html.Attribute{Key: "class", Val: "table table-sm"})

	thead := element(atom.Thead)
	head := element(atom.Tr)
	for _, c := range Columns {
		head.AppendChild(cell(atom.Th, c))
	}
	thead.AppendChild(head)
	table.AppendChild(thead)

	tbody := element(atom.Tbody)
	for _, it := range items {
		tr := element(atom.Tr)
		for _, v := range row(it) {
			tr.AppendChild(cell(atom.Td, v))
		}
		tbody.AppendChild(tr)
	}
	table.AppendChild(tbody)

	var sb strings.Builder
	if err := html.Render(&sb, table); err != nil {
		return "", fmt.Errorf("render itinerary: %w", err)
	}
	return sb.String(), nil
}

// ParseTable reads the body rows back out of a rendered itinerary table
func ParseTable(content string) ([][]string, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse itinerary: %w", err)
	}

	var rows [][]string
	var walk func(*html.Node, bool)
	walk = func(n *html.Node, inBody bool) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Thead:
				return
			case atom.Tbody:
				inBody = true
			case atom.Tr:
				if inBody {
					rows = append(rows, cells(n))
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inBody)
		}
	}
	walk(doc, false)

	return rows, nil
}

func row(it domain.ItineraryItem) []string {
	return []string{
		strconv.Itoa(it.Day),
		it.PlaceName,
		it.StartTime,
		it.EndTime,
		it.Notes,
		strconv.FormatFloat(it.EstimatedCost, 'f', 2, 64),
	}
}

func cells(tr *html.Node) []string {
	var out []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
			out = append(out, strings.Join(strings.Fields(text(c)), " "))
		}
	}
	return out
}

func text(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(text(c))
	}
	return sb.String()
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func cell(a atom.Atom, value string) *html.Node {
	n := element(a)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: value})
	return n
}
