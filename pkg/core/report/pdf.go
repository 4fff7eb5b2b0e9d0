package report

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-pdf/fpdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"privco_valuation/pkg/core/pipeline"
)

// RenderPDF renders the markdown analysis document to PDF bytes. Fonts
// and table styling are confined to this package; the engine output is
// consumed read-only.
func RenderPDF(r *pipeline.AnalysisReport) ([]byte, error) {
	source := []byte(RenderMarkdown(r))

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	doc := md.Parser().Parse(text.NewReader(source))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 12)
	pdf.SetTitle(fmt.Sprintf("Valuation Analysis - %s", r.Company), true)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 9)

	renderer := &pdfWriter{
		pdf:       pdf,
		source:    source,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
	if err := ast.Walk(doc, renderer.walk); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// WritePDF renders the report and writes it to a file.
func WritePDF(r *pipeline.AnalysisReport, path string) error {
	data, err := RenderPDF(r)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

type pdfWriter struct {
	pdf       *fpdf.Fpdf
	source    []byte
	translate func(string) string
	bold      bool
}

func (w *pdfWriter) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		w.heading(node, entering)
	case *ast.Paragraph:
		if !entering {
			w.pdf.Ln(6)
		}
	case *ast.Text:
		if entering {
			w.pdf.Write(4.5, w.translate(string(node.Text(w.source))))
		}
	case *ast.Emphasis:
		w.bold = entering && node.Level == 2
		w.setFont(9)
	case *ast.List:
		if !entering {
			w.pdf.Ln(2)
		}
	case *ast.ListItem:
		if entering {
			w.pdf.Ln(5)
			w.pdf.SetX(16)
			w.pdf.Write(4.5, "- ")
		}
	case *extast.Table:
		if entering {
			w.table(node)
			return ast.WalkSkipChildren, nil
		}
	}
	return ast.WalkContinue, nil
}

func (w *pdfWriter) heading(n *ast.Heading, entering bool) {
	if entering {
		w.pdf.Ln(5)
		size := 15.0
		if n.Level >= 2 {
			size = 11.5
		}
		w.pdf.SetFont("Helvetica", "B", size)
		return
	}
	w.pdf.Ln(7)
	w.bold = false
	w.setFont(9)
}

func (w *pdfWriter) setFont(size float64) {
	style := ""
	if w.bold {
		style = "B"
	}
	w.pdf.SetFont("Helvetica", style, size)
}

func (w *pdfWriter) table(n *extast.Table) {
	var header []string
	var rows [][]string
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch section := child.(type) {
		case *extast.TableHeader:
			if tr, ok := section.FirstChild().(*extast.TableRow); ok {
				header = w.cells(tr)
			} else {
				header = w.cells(section) // header cells may hang directly off the node
			}
		case *extast.TableRow:
			rows = append(rows, w.cells(section))
		}
	}

	cols := len(header)
	if cols == 0 && len(rows) > 0 {
		cols = len(rows[0])
	}
	if cols == 0 {
		return
	}

	pageWidth, _ := w.pdf.GetPageSize()
	left, _, right, _ := w.pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(cols)

	w.pdf.Ln(1)
	if len(header) > 0 {
		w.pdf.SetFont("Helvetica", "B", 8.5)
		w.pdf.SetFillColor(235, 235, 235)
		for _, cell := range header {
			w.pdf.CellFormat(colWidth, 6, w.translate(cell), "1", 0, "L", true, 0, "")
		}
		w.pdf.Ln(-1)
	}
	w.pdf.SetFont("Helvetica", "", 8.5)
	for _, row := range rows {
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			align := "R"
			if i == 0 {
				align = "L"
			}
			w.pdf.CellFormat(colWidth, 6, w.translate(cell), "1", 0, align, false, 0, "")
		}
		w.pdf.Ln(-1)
	}
	w.pdf.Ln(3)
	w.setFont(9)
}

func (w *pdfWriter) cells(n ast.Node) []string {
	var out []string
	for cell := n.FirstChild(); cell != nil; cell = cell.NextSibling() {
		if _, ok := cell.(*extast.TableCell); ok {
			out = append(out, string(cell.Text(w.source)))
		}
	}
	return out
}
