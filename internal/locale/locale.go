// Package locale holds the localized text consumed by the prompt
// composer. Content is keyed purely by locale so prompt assembly stays
// independent of any translation mechanism.
package locale

import "strings"

// Locale identifies one of the supported UI languages.
type Locale string

const (
	English    Locale = "en"
	Portuguese Locale = "pt"
	Spanish    Locale = "es"
	French     Locale = "fr"
	Chinese    Locale = "zh"
)

// Default is the product's primary locale.
const Default = Portuguese

// Parse maps a raw locale string to a supported Locale, falling back
// to the default for empty or unknown values.
func Parse(raw string) Locale {
	switch Locale(strings.ToLower(strings.TrimSpace(raw))) {
	case English:
		return English
	case Portuguese:
		return Portuguese
	case Spanish:
		return Spanish
	case French:
		return French
	case Chinese:
		return Chinese
	default:
		return Default
	}
}

// Messages groups every localized fragment the composer needs.
type Messages struct {
	LanguageName string

	// BasePrompt is the assistant persona and domain description.
	BasePrompt string

	// Lead-in sentences for the optional prompt paragraphs.
	SessionContextLead   string
	LocationLead         string
	InstructionsLead     string
	RetrievedContextLead string
	ConsequencesLead     string
	KeyFactsLead         string

	// GreetingInstruction replaces the full action-plan instructions
	// when the user message is a trivial greeting.
	GreetingInstruction string

	// MitigationInstructions is the standard instruction block for
	// impact-mitigation answers.
	MitigationInstructions string
}

// For returns the message table for a locale, falling back to English
// when the locale has no table.
func For(l Locale) Messages {
	if m, ok := tables[l]; ok {
		return m
	}
	return tables[English]
}
