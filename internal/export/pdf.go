package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"site-analytics-service/internal/stats/core/domain"
)

const summaryRowsPerPage = 40

// WritePDF renders the report as a PDF: a header with the window counts
// followed by the grouped click summary, paginated. The document is built
// from pdfcpu's JSON page description and created in memory.
func WritePDF(w io.Writer, report *domain.StatsReport, generatedAt time.Time) error {
	desc, err := json.Marshal(buildDescription(report, generatedAt))
	if err != nil {
		return err
	}

	conf := model.NewDefaultConfiguration()
	return api.Create(nil, bytes.NewReader(desc), w, conf)
}

type pdfText struct {
	Value    string    `json:"value"`
	Anchor   string    `json:"anchor,omitempty"`
	Position []float64 `json:"position,omitempty"`
	Font     *pdfFont  `json:"font,omitempty"`
}

type pdfFont struct {
	Name string  `json:"name"`
	Size float64 `json:"size"`
}

type pdfContent struct {
	Text []pdfText `json:"text"`
}

type pdfPage struct {
	Content pdfContent `json:"content"`
}

type pdfDescription struct {
	Paper  string             `json:"paper"`
	Origin string             `json:"origin"`
	Pages  map[string]pdfPage `json:"pages"`
}

func buildDescription(report *domain.StatsReport, generatedAt time.Time) pdfDescription {
	heading := &pdfFont{Name: "Helvetica-Bold", Size: 16}
	body := &pdfFont{Name: "Helvetica", Size: 10}

	first := []pdfText{
		{Value: "Site Analytics Report", Position: []float64{50, 780}, Font: heading},
		{Value: "Generated " + generatedAt.UTC().Format("2006-01-02 15:04 UTC"), Position: []float64{50, 760}, Font: body},
		{Value: countsLine("Clicks", report.Clicks), Position: []float64{50, 730}, Font: body},
		{Value: countsLine("Visits", report.Visits), Position: []float64{50, 715}, Font: body},
		{Value: "Top clicked elements", Position: []float64{50, 685}, Font: &pdfFont{Name: "Helvetica-Bold", Size: 12}},
	}

	pages := map[string]pdfPage{}
	pageNr := 1
	texts := first
	y := 665.0

	for i, g := range report.Summary {
		if i > 0 && i%summaryRowsPerPage == 0 {
			pages[fmt.Sprintf("%d", pageNr)] = pdfPage{Content: pdfContent{Text: texts}}
			pageNr++
			texts = nil
			y = 780
		}
		texts = append(texts, pdfText{
			Value:    summaryLine(g),
			Position: []float64{50, y},
			Font:     body,
		})
		y -= 15
	}

	if len(report.Summary) == 0 {
		texts = append(texts, pdfText{Value: "No click data in scope.", Position: []float64{50, y}, Font: body})
	}
	pages[fmt.Sprintf("%d", pageNr)] = pdfPage{Content: pdfContent{Text: texts}}

	return pdfDescription{
		Paper:  "A4",
		Origin: "lowerLeft",
		Pages:  pages,
	}
}

func countsLine(label string, c domain.WindowCounts) string {
	return fmt.Sprintf("%s: total %d, day %d, week %d, month %d, year %d",
		label, c.Total, c.Day, c.Week, c.Month, c.Year)
}

func summaryLine(g domain.SummaryGroup) string {
	text := g.DisplayText
	if text == "" {
		text = g.OriginalText
	}
	return fmt.Sprintf("%-8s %-40s %6d  last %s",
		g.Element, clip(text, 40), g.Count, g.LastSeen.UTC().Format("2006-01-02"))
}

func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
