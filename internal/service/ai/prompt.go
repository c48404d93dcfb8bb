package ai

import (
	"regexp"
	"strings"

	"github.com/meteormadness/backend/internal/locale"
)

// AppContext is the application-context sentence injected into every
// mitigation prompt.
const AppContext = "Meteor Madness - análise de impacto e mitigação"

// PromptContext holds the optional paragraphs appended to the locale
// base template. Empty fields are skipped.
type PromptContext struct {
	AppContext          string
	UserLocation        string
	SpecialInstructions string
}

// SystemPrompt composes the system message: locale base template, then
// app context, user location and special instructions, each as its own
// paragraph, in that fixed order. Pure given its inputs.
func SystemPrompt(loc locale.Locale, pctx PromptContext) string {
	m := locale.For(loc)

	var b strings.Builder
	b.WriteString(m.BasePrompt)

	if pctx.AppContext != "" {
		b.WriteString("\n\n")
		b.WriteString(m.SessionContextLead)
		b.WriteString(" ")
		b.WriteString(pctx.AppContext)
	}
	if pctx.UserLocation != "" {
		b.WriteString("\n\n")
		b.WriteString(m.LocationLead)
		b.WriteString(" ")
		b.WriteString(pctx.UserLocation)
	}
	if pctx.SpecialInstructions != "" {
		b.WriteString("\n\n")
		b.WriteString(m.InstructionsLead)
		b.WriteString(" ")
		b.WriteString(pctx.SpecialInstructions)
	}

	return b.String()
}

// greetingPattern classifies trivial greetings so small talk gets a
// short instruction block instead of a full action plan.
var greetingPattern = regexp.MustCompile(`(?i)^(oi|olá|ola|hello|hi)\b`)

// IsGreeting reports whether the message is a trivial greeting.
func IsGreeting(message string) bool {
	return greetingPattern.MatchString(strings.TrimSpace(message))
}

// sanitizeDenylist holds the markup characters stripped from outbound
// tokens; the product renders plain text only.
const sanitizeDenylist = "`*"

// SanitizeToken strips denied markup characters from a delta token.
// The result may be empty; callers drop empty tokens.
func SanitizeToken(token string) string {
	if !strings.ContainsAny(token, sanitizeDenylist) {
		return token
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(sanitizeDenylist, r) {
			return -1
		}
		return r
	}, token)
}
