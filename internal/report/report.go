// Package report renders the treated address sheet as a standalone HTML page:
// a markdown narrative, a field coverage summary and the full data table.
package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/couchcryptid/address-etl-service/internal/adapter/sheet"
	"github.com/couchcryptid/address-etl-service/internal/domain"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	defaultTitle  = "Relatório de Endereços"
	defaultFooter = "Gerado automaticamente pelo address-etl"
	defaultTopN   = 10
)

//go:embed template.html
var pageTemplate string

var page = template.Must(template.New("report").Parse(pageTemplate))

// Options configures Render.
type Options struct {
	Title  string
	Footer string
	// TopN bounds the municipality and neighborhood rankings.
	TopN int
}

// Coverage is the number of rows with a recovered value for one field.
type Coverage struct {
	Label   string
	Present string
	Percent string
}

// Count is one ranking entry.
type Count struct {
	Name  string
	Count string
}

// Summary holds the pre-formatted figures shown above the data table.
type Summary struct {
	Rows              string
	Coverage          []Coverage
	TopMunicipalities []Count
	TopNeighborhoods  []Count
}

type pageData struct {
	Title     string
	Footer    string
	Narrative template.HTML
	Summary   Summary
	Header    []string
	Rows      [][]string
}

// LoadNarrative reads the markdown narrative. A missing file is an error.
func LoadNarrative(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read narrative: %w", err)
	}
	return data, nil
}

// MarkdownToHTML converts the narrative to HTML. Links open in a new tab.
func MarkdownToHTML(md []byte) []byte {
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return markdown.ToHTML(md, nil, renderer)
}

// Summarize computes field coverage and the most frequent municipalities and
// neighborhoods of a treated sheet. Counts are formatted for pt-BR.
func Summarize(t *sheet.Table, topN int) Summary {
	if topN <= 0 {
		topN = defaultTopN
	}
	p := message.NewPrinter(language.BrazilianPortuguese)

	s := Summary{Rows: p.Sprintf("%d", t.Len())}
	for _, f := range domain.Fields {
		present := 0
		if idx := t.Index(f.Label()); idx >= 0 {
			for _, row := range t.Rows {
				if idx < len(row) && strings.TrimSpace(row[idx]) != "" {
					present++
				}
			}
		}
		pct := 0.0
		if t.Len() > 0 {
			pct = 100 * float64(present) / float64(t.Len())
		}
		s.Coverage = append(s.Coverage, Coverage{
			Label:   f.Label(),
			Present: p.Sprintf("%d", present),
			Percent: p.Sprintf("%.1f%%", pct),
		})
	}

	s.TopMunicipalities = ranking(p, t, domain.FieldMunicipality.Label(), topN)
	s.TopNeighborhoods = ranking(p, t, domain.FieldNeighborhood.Label(), topN)
	return s
}

// ranking counts non-empty values of a column, most frequent first and ties
// broken alphabetically.
func ranking(p *message.Printer, t *sheet.Table, column string, topN int) []Count {
	idx := t.Index(column)
	if idx < 0 {
		return nil
	}

	counts := map[string]int{}
	for _, row := range t.Rows {
		if idx >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[idx]); v != "" {
			counts[v]++
		}
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > topN {
		names = names[:topN]
	}

	out := make([]Count, len(names))
	for i, name := range names {
		out[i] = Count{Name: name, Count: p.Sprintf("%d", counts[name])}
	}
	return out
}

// Render writes the HTML report for the narrative and treated sheet to w.
func Render(w io.Writer, narrative []byte, t *sheet.Table, opts Options) error {
	if opts.Title == "" {
		opts.Title = defaultTitle
	}
	if opts.Footer == "" {
		opts.Footer = defaultFooter
	}

	data := pageData{
		Title:  opts.Title,
		Footer: opts.Footer,
		Narrative: template.HTML(MarkdownToHTML(narrative)), //nolint:gosec // narrative is a local, trusted file
		Summary:   Summarize(t, opts.TopN),
		Header:    t.Header,
		Rows:      t.Rows,
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
