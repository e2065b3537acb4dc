package analysis

import (
	"fmt"
	"os"
	"strings"

	"github.com/launchlens/pdpaudit/excerpt"
	"github.com/launchlens/pdpaudit/models"
	"github.com/launchlens/pdpaudit/regions"
)

// artifactDescriptions tells the model what each screenshot shows, in the
// order the image parts are attached.
var artifactDescriptions = map[string]string{
	models.KeyFullPage:      "baseline PDP, full page, overlays dismissed and sections expanded",
	models.KeyDetailsView:   "clipped screenshot around the Details section (expanded)",
	models.KeyCareView:      "clipped screenshot around the Care section (expanded)",
	models.KeySizeFitView:   "clipped screenshot around the Size & Fit section (expanded)",
	models.KeySizeChartView: "clipped screenshot of the Size Chart/Guide modal (if present) or top sizing area",
}

// systemPrompt frames the auditor role for a target market.
func systemPrompt(region regions.Region) string {
	return fmt.Sprintf(
		"You are an e-commerce product-detail-page auditor for %s launch readiness. "+
			"You produce actionable findings for Merch and Design with exact copy/UX recommendations. "+
			"You are not a lawyer; flag potential compliance issues for Legal review when appropriate. "+
			"Write all findings in %s. Return valid JSON only.",
		region.Label, region.AnalysisLanguage,
	)
}

// userPrompt assembles the audit instructions: focus areas, screenshot
// legend, the required output schema, and the page's text excerpt.
func userPrompt(bundle *models.EvidenceBundle, region regions.Region, ex *excerpt.Excerpt, profile string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Audit this product page for %s readiness.\n\n", region.Label)

	b.WriteString("Focus on these areas:\n")
	for i, focus := range region.Focus {
		fmt.Fprintf(&b, "%d) %s\n", i+1, focus)
	}

	b.WriteString("\nYou will be given screenshots, in order:\n")
	for _, key := range models.ProfileKeys(profile) {
		path, ok := bundle.ArtifactPaths[key]
		if !ok {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s\n", key, artifactDescriptions[key])
	}

	b.WriteString("\nReturn JSON in this schema:\n")
	b.WriteString(schemaBlock(profile))

	if ex != nil {
		if ex.ProductName != "" || ex.Price != "" || len(ex.Breadcrumbs) > 0 {
			b.WriteString("\nStructured signals extracted from the page:\n")
			if ex.ProductName != "" {
				fmt.Fprintf(&b, "- Product name: %s\n", ex.ProductName)
			}
			if ex.Price != "" {
				fmt.Fprintf(&b, "- Displayed price: %s\n", ex.Price)
			}
			if len(ex.Breadcrumbs) > 0 {
				fmt.Fprintf(&b, "- Breadcrumbs: %s\n", strings.Join(ex.Breadcrumbs, " > "))
			}
		}
		if ex.Markdown != "" {
			b.WriteString("\nPage content excerpt (may be incomplete):\n")
			b.WriteString(ex.Markdown)
			b.WriteString("\n")
		}
	}

	if bundle.VisibleText != "" && (ex == nil || ex.Markdown == "") {
		b.WriteString("\nVisible text excerpt (may be incomplete):\n")
		b.WriteString(bundle.VisibleText)
		b.WriteString("\n")
	}

	return strings.TrimSpace(b.String())
}

// schemaBlock renders the findings schema the model must follow. The
// evidence_screenshot enumeration is restricted to the keys this profile
// actually produced.
func schemaBlock(profile string) string {
	keys := strings.Join(models.ProfileKeys(profile), ", ")
	return fmt.Sprintf(`{
  "summary": "string",
  "findings": [
    {
      "category": "Localization|Compliance",
      "severity": "High|Medium|Low",
      "owner": "Merch|Design|Eng|Legal|CX",
      "issue": "string",
      "why_it_matters": "string",
      "where": "string (describe location and reference a screenshot key)",
      "recommendation": "string (exact copy/UX change; can be long)",
      "evidence_screenshot": "one of: %s"
    }
  ]
}
`, keys)
}
