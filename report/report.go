// Package report renders one region's audit into a PDF: a findings summary
// page first, then every evidence screenshot on its own page so each finding's
// evidence_screenshot reference can be checked by eye.
package report

import (
	"os"
	"path/filepath"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/launchlens/pdpaudit/models"
	"github.com/launchlens/pdpaudit/regions"
)

// imageImportSpec scales each screenshot onto its own A4 page, centred,
// leaving a margin so tall full-page captures are not cropped.
const imageImportSpec = "form:A4, pos:c, sc:0.9 rel"

// Generator writes audit reports. Stateless; one shared configuration.
type Generator struct {
	conf *model.Configuration
}

func NewGenerator() *Generator {
	return &Generator{conf: model.NewDefaultConfiguration()}
}

// Generate renders the report PDF for one region and returns its path.
// The findings page is created first from generated page-description JSON,
// then the screenshots are appended in artifact order. Reports are
// per-region: two regions of the same run never share a file.
func (g *Generator) Generate(bundle *models.EvidenceBundle, analysis *models.Analysis, region regions.Region, profile string) (string, error) {
	suffix := ""
	if region.Code != "" {
		suffix = "_" + region.Code
	}
	pdfPath := filepath.Join(bundle.OutputDir, "report"+suffix+".pdf")
	jsonPath := filepath.Join(bundle.OutputDir, "report"+suffix+".json")

	data, err := buildCreateJSON(bundle, analysis, region)
	if err != nil {
		return "", models.NewAuditError(models.ErrCodeReportFailure,
			"failed to build report page description", err)
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return "", models.NewAuditError(models.ErrCodeReportFailure,
			"failed to write report page description", err)
	}

	if err := pdfapi.CreateFile("", jsonPath, pdfPath, g.conf); err != nil {
		return "", models.NewAuditError(models.ErrCodeReportFailure,
			"failed to create findings page", err)
	}

	shots := existingScreenshots(bundle, profile)
	if len(shots) > 0 {
		imp, err := pdfapi.Import(imageImportSpec, types.POINTS)
		if err != nil {
			return "", models.NewAuditError(models.ErrCodeReportFailure,
				"invalid image import spec", err)
		}
		if err := pdfapi.ImportImagesFile(shots, pdfPath, imp, g.conf); err != nil {
			return "", models.NewAuditError(models.ErrCodeReportFailure,
				"failed to append evidence screenshots", err)
		}
	}

	return pdfPath, nil
}

// existingScreenshots returns the bundle's artifact paths that exist on disk,
// in the profile's canonical order.
func existingScreenshots(bundle *models.EvidenceBundle, profile string) []string {
	var shots []string
	for _, key := range models.ProfileKeys(profile) {
		path, ok := bundle.ArtifactPaths[key]
		if !ok {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		shots = append(shots, path)
	}
	return shots
}
