// Package impact models the consequence zones computed by the
// simulation frontend and their text summaries consumed by the chat
// prompts.
package impact

import (
	"fmt"
	"strings"
)

// Severity levels reported by the impact calculators.
const (
	SeverityCatastrophic = "catastrophic"
	SeveritySevere       = "severe"
	SeverityModerate     = "moderate"
	SeverityLight        = "light"
)

// ConsequenceZone is one damage ring around the impact point.
type ConsequenceZone struct {
	Name        string  `json:"name"`
	Severity    string  `json:"severity"`
	RadiusKm    float64 `json:"radiusKm"`
	Casualties  float64 `json:"casualties"`
	Description string  `json:"description,omitempty"`
}

// maxSummaryZones bounds how many zones feed the context summary so
// the prompt stays small.
const maxSummaryZones = 6

// Summarize renders zones into the context sentence stored on the
// session and injected into the system prompt.
func Summarize(zones []ConsequenceZone) string {
	if len(zones) == 0 {
		return "Sem dados de consequências fornecidos."
	}

	limit := len(zones)
	if limit > maxSummaryZones {
		limit = maxSummaryZones
	}

	items := make([]string, 0, limit)
	for _, z := range zones[:limit] {
		items = append(items, fmt.Sprintf("%s (gravidade: %s, raio: %.1f km, casualidades: %.0f%%)",
			z.Name, z.Severity, z.RadiusKm, z.Casualties))
	}

	return fmt.Sprintf("Zonas consideradas: %s. Considere gravidade e distância ao priorizar ações.",
		strings.Join(items, "; "))
}

// KeyFacts renders a compact machine-readable fact line per zone,
// stored alongside the summary for prompt injection.
func KeyFacts(zones []ConsequenceZone) string {
	if len(zones) == 0 {
		return ""
	}

	facts := make([]string, 0, len(zones))
	for _, z := range zones {
		facts = append(facts, fmt.Sprintf("%s: raio %.1f km, casualidades %.0f%%", z.Name, z.RadiusKm, z.Casualties))
	}
	return strings.Join(facts, "; ")
}

// Document renders one zone as a standalone retrieval document.
func (z ConsequenceZone) Document() string {
	text := fmt.Sprintf("%s. Severidade: %s. Raio: %.0f km. Casualidades: %.0f%%.",
		z.Name, z.Severity, z.RadiusKm, z.Casualties)
	if z.Description != "" {
		text += " " + z.Description
	}
	return text
}
