package models

// Finding categories, severities and owners. The analysis model is prompted
// with exactly these vocabularies; unknown values are passed through rather
// than rejected so a slightly off-script model response still renders.
const (
	CategoryLocalization = "Localization"
	CategoryCompliance   = "Compliance"

	SeverityHigh   = "High"
	SeverityMedium = "Medium"
	SeverityLow    = "Low"
)

// Finding is one actionable issue produced by the analysis stage.
type Finding struct {
	// Category is "Localization" or "Compliance".
	Category string `json:"category"`

	// Severity is "High", "Medium" or "Low".
	Severity string `json:"severity"`

	// Owner is the team best placed to fix the issue
	// (Merch, Design, Eng, Legal, CX).
	Owner string `json:"owner"`

	// Issue is a short description of the problem.
	Issue string `json:"issue"`

	// WhyItMatters explains the impact for shoppers in the target region.
	WhyItMatters string `json:"why_it_matters"`

	// Where describes the on-page location, referencing a screenshot key.
	Where string `json:"where"`

	// Recommendation is the exact copy/UX change to make.
	Recommendation string `json:"recommendation"`

	// EvidenceScreenshot is the artifact key backing this finding.
	EvidenceScreenshot string `json:"evidence_screenshot"`
}

// Analysis is the structured output of the analysis stage for one region.
type Analysis struct {
	Summary  string    `json:"summary"`
	Findings []Finding `json:"findings"`
}
