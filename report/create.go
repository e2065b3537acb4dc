package report

import (
	"encoding/json"
	"fmt"

	"github.com/launchlens/pdpaudit/models"
	"github.com/launchlens/pdpaudit/regions"
)

// findingsPerPage bounds the table rows on one findings page. The page
// description format does not paginate tables, so overflow becomes
// additional pages.
const findingsPerPage = 6

// cellTextCap truncates long cell text so one verbose recommendation cannot
// blow past the page bottom.
const cellTextCap = 400

// Page-description document for pdfcpu's create API. Only the subset of the
// format the report needs is modelled.
type createDoc struct {
	Paper  string                `json:"paper"`
	Origin string                `json:"origin"`
	Pages  map[string]createPage `json:"pages"`
}

type createPage struct {
	Content pageContent `json:"content"`
}

type pageContent struct {
	Text   []textBox  `json:"text,omitempty"`
	Tables []tableBox `json:"table,omitempty"`
}

type textBox struct {
	Value    string    `json:"value"`
	Anchor   string    `json:"anchor,omitempty"`
	Position []float64 `json:"position,omitempty"`
	Width    float64   `json:"width,omitempty"`
	Font     fontSpec  `json:"font"`
}

type fontSpec struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type tableBox struct {
	Values     [][]string   `json:"values"`
	Position   []float64    `json:"position"`
	Width      float64      `json:"width"`
	Rows       int          `json:"rows"`
	Cols       int          `json:"cols"`
	ColWidths  []int        `json:"colWidths"`
	LineHeight int          `json:"lineHeight"`
	Font       fontSpec     `json:"font"`
	Header     *tableHeader `json:"header,omitempty"`
}

type tableHeader struct {
	Values []string  `json:"values"`
	Font   *fontSpec `json:"font,omitempty"`
}

var findingColumns = []string{"Category", "Severity", "Owner", "Issue", "Recommendation", "Evidence"}

// colWidths are percentages and must sum to 100.
var findingColWidths = []int{10, 8, 8, 30, 34, 10}

// buildCreateJSON renders the findings portion of the report as a pdfcpu
// page-description document: a header page with run metadata and the
// analysis summary, followed by the findings table split across pages.
func buildCreateJSON(bundle *models.EvidenceBundle, analysis *models.Analysis, region regions.Region) ([]byte, error) {
	doc := createDoc{
		Paper:  "A4",
		Origin: "upperLeft",
		Pages:  map[string]createPage{},
	}

	pageNr := 1
	doc.Pages[fmt.Sprint(pageNr)] = headerPage(bundle, analysis, region)

	chunks := chunkFindings(analysis.Findings, findingsPerPage)
	for i, chunk := range chunks {
		pageNr++
		doc.Pages[fmt.Sprint(pageNr)] = findingsPage(chunk, i+1, len(chunks))
	}

	return json.MarshalIndent(doc, "", "  ")
}

func headerPage(bundle *models.EvidenceBundle, analysis *models.Analysis, region regions.Region) createPage {
	title := "PDP Launch Readiness Audit"
	if region.Label != "" {
		title = fmt.Sprintf("PDP Launch Readiness Audit - %s", region.Label)
	}

	text := []textBox{
		{
			Value:    title,
			Anchor:   "tc",
			Position: []float64{0, 60},
			Font:     fontSpec{Name: "Helvetica-Bold", Size: 20},
		},
		{
			Value:    fmt.Sprintf("URL: %s", bundle.URL),
			Position: []float64{50, 110},
			Width:    495,
			Font:     fontSpec{Name: "Helvetica", Size: 10},
		},
		{
			Value:    fmt.Sprintf("Run: %s", bundle.RunID),
			Position: []float64{50, 130},
			Font:     fontSpec{Name: "Helvetica", Size: 10},
		},
		{
			Value:    fmt.Sprintf("Findings: %d", len(analysis.Findings)),
			Position: []float64{50, 150},
			Font:     fontSpec{Name: "Helvetica", Size: 10},
		},
	}

	if analysis.Summary != "" {
		text = append(text,
			textBox{
				Value:    "Summary",
				Position: []float64{50, 190},
				Font:     fontSpec{Name: "Helvetica-Bold", Size: 14},
			},
			textBox{
				Value:    capCell(analysis.Summary, 2000),
				Position: []float64{50, 215},
				Width:    495,
				Font:     fontSpec{Name: "Helvetica", Size: 11},
			},
		)
	}

	return createPage{Content: pageContent{Text: text}}
}

func findingsPage(chunk []models.Finding, pageIdx, pageTotal int) createPage {
	values := make([][]string, len(chunk))
	for i, f := range chunk {
		values[i] = []string{
			f.Category,
			f.Severity,
			f.Owner,
			capCell(f.Issue+"\n"+f.Where, cellTextCap),
			capCell(f.Recommendation, cellTextCap),
			f.EvidenceScreenshot,
		}
	}

	heading := "Findings"
	if pageTotal > 1 {
		heading = fmt.Sprintf("Findings (%d/%d)", pageIdx, pageTotal)
	}

	return createPage{Content: pageContent{
		Text: []textBox{
			{
				Value:    heading,
				Position: []float64{50, 50},
				Font:     fontSpec{Name: "Helvetica-Bold", Size: 14},
			},
		},
		Tables: []tableBox{
			{
				Values:     values,
				Position:   []float64{50, 80},
				Width:      495,
				Rows:       len(values),
				Cols:       len(findingColumns),
				ColWidths:  findingColWidths,
				LineHeight: 14,
				Font:       fontSpec{Name: "Helvetica", Size: 8},
				Header: &tableHeader{
					Values: findingColumns,
					Font:   &fontSpec{Name: "Helvetica-Bold", Size: 9},
				},
			},
		},
	}}
}

func chunkFindings(findings []models.Finding, size int) [][]models.Finding {
	if len(findings) == 0 {
		return nil
	}
	var chunks [][]models.Finding
	for start := 0; start < len(findings); start += size {
		end := start + size
		if end > len(findings) {
			end = len(findings)
		}
		chunks = append(chunks, findings[start:end])
	}
	return chunks
}

// capCell truncates cell text on a rune boundary, marking the cut.
func capCell(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max-1]) + "…"
}
