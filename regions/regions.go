// Package regions holds the per-market audit profiles: browser locale,
// analysis language, and the focus areas the analysis prompt emphasises.
package regions

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Region describes one target market.
type Region struct {
	// Code is the short identifier used in requests ("UK", "CA_FR", ...).
	Code string `yaml:"-"`

	// Label is the human-readable market name.
	Label string `yaml:"label"`

	// Locale is the BCP 47 tag the browser emulates (Accept-Language).
	Locale string `yaml:"locale"`

	// AnalysisLanguage is the language findings should be written in.
	AnalysisLanguage string `yaml:"analysis_language"`

	// Focus lists the audit emphases injected into the analysis prompt.
	Focus []string `yaml:"focus"`
}

// builtin is the default region table.
var builtin = map[string]Region{
	"UK": {
		Code:             "UK",
		Label:            "United Kingdom",
		Locale:           "en-GB",
		AnalysisLanguage: "English (UK)",
		Focus: []string{
			"UK localization (spelling, tone, terminology, sizing conventions, units)",
			"UK compliance signals (VAT/taxes clarity, delivery charges clarity, fibre/material composition disclosure)",
		},
	},
	"CA_EN": {
		Code:             "CA_EN",
		Label:            "Canada (English)",
		Locale:           "en-CA",
		AnalysisLanguage: "English (Canada)",
		Focus: []string{
			"Canada localization (spelling, terminology, sizing conventions, units)",
			"Canada compliance signals (taxes/duties clarity like GST/HST/PST, delivery/returns clarity, fibre/material composition disclosure)",
		},
	},
	"CA_FR": {
		Code:             "CA_FR",
		Label:            "Canada (Français)",
		Locale:           "fr-CA",
		AnalysisLanguage: "Français (Canada)",
		Focus: []string{
			"French-Canada localization (complete French experience, natural phrasing, correct units and sizing conventions)",
			"Canada compliance signals (taxes/duties clarity like GST/HST/PST, delivery/returns clarity, bilingual presentation where applicable)",
		},
	},
	"DE": {
		Code:             "DE",
		Label:            "Germany",
		Locale:           "de-DE",
		AnalysisLanguage: "Deutsch",
		Focus: []string{
			"DE localization (German copy quality, metric units, EU sizing conventions)",
			"EU/DE compliance signals (VAT-included clarity, delivery/returns clarity, fibre/material composition disclosure)",
		},
	},
	"FR": {
		Code:             "FR",
		Label:            "France",
		Locale:           "fr-FR",
		AnalysisLanguage: "Français",
		Focus: []string{
			"FR localization (French copy quality, metric units, EU sizing conventions)",
			"EU/FR compliance signals (VAT-included clarity, delivery/returns clarity, fibre/material composition disclosure)",
		},
	},
}

// Registry resolves region codes to profiles. Immutable after Load.
type Registry struct {
	regions map[string]Region
}

// Load builds a Registry from the built-in table, optionally overlaid with a
// YAML file mapping region codes to Region fields. File entries override
// built-ins with the same code and may add new codes.
func Load(file string) (*Registry, error) {
	m := make(map[string]Region, len(builtin))
	for code, r := range builtin {
		m[code] = r
	}

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("regions: read %s: %w", file, err)
		}
		var overlay map[string]Region
		if err := yaml.Unmarshal(data, &overlay); err != nil {
			return nil, fmt.Errorf("regions: parse %s: %w", file, err)
		}
		for code, r := range overlay {
			code = strings.ToUpper(strings.TrimSpace(code))
			if code == "" {
				continue
			}
			r.Code = code
			// Fill gaps from the built-in entry so a partial override
			// (say, just different focus bullets) stays usable.
			if base, ok := m[code]; ok {
				if r.Label == "" {
					r.Label = base.Label
				}
				if r.Locale == "" {
					r.Locale = base.Locale
				}
				if r.AnalysisLanguage == "" {
					r.AnalysisLanguage = base.AnalysisLanguage
				}
				if len(r.Focus) == 0 {
					r.Focus = base.Focus
				}
			}
			m[code] = r
		}
	}

	return &Registry{regions: m}, nil
}

// Get resolves a region code (case-insensitive). The second return is false
// for unknown codes.
func (reg *Registry) Get(code string) (Region, bool) {
	r, ok := reg.regions[strings.ToUpper(strings.TrimSpace(code))]
	return r, ok
}

// Codes returns all known region codes, sorted.
func (reg *Registry) Codes() []string {
	codes := make([]string, 0, len(reg.regions))
	for code := range reg.regions {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
