package ai

import (
	"strings"
	"testing"

	"github.com/meteormadness/backend/internal/locale"
)

func TestSystemPromptComposesParagraphsInOrder(t *testing.T) {
	prompt := SystemPrompt(locale.English, PromptContext{
		AppContext:          "impact analysis",
		UserLocation:        "coastal region",
		SpecialInstructions: "keep answers short",
	})

	m := locale.For(locale.English)
	if !strings.HasPrefix(prompt, m.BasePrompt) {
		t.Fatal("prompt must start with the locale base template")
	}

	appIdx := strings.Index(prompt, "impact analysis")
	locIdx := strings.Index(prompt, "coastal region")
	insIdx := strings.Index(prompt, "keep answers short")
	if appIdx < 0 || locIdx < 0 || insIdx < 0 {
		t.Fatalf("missing paragraph in prompt: %q", prompt)
	}
	if !(appIdx < locIdx && locIdx < insIdx) {
		t.Fatalf("paragraphs out of order: app=%d loc=%d ins=%d", appIdx, locIdx, insIdx)
	}
}

func TestSystemPromptSkipsEmptyParagraphs(t *testing.T) {
	m := locale.For(locale.English)

	prompt := SystemPrompt(locale.English, PromptContext{})
	if prompt != m.BasePrompt {
		t.Fatalf("expected bare base template, got %q", prompt)
	}

	prompt = SystemPrompt(locale.English, PromptContext{UserLocation: "inland"})
	if strings.Contains(prompt, m.SessionContextLead) || strings.Contains(prompt, m.InstructionsLead) {
		t.Fatal("leads for empty paragraphs must not appear")
	}
	if !strings.Contains(prompt, m.LocationLead) {
		t.Fatal("location lead missing")
	}
}

func TestSystemPromptDeterministic(t *testing.T) {
	pctx := PromptContext{AppContext: "a", SpecialInstructions: "b"}
	first := SystemPrompt(locale.Portuguese, pctx)
	second := SystemPrompt(locale.Portuguese, pctx)
	if first != second {
		t.Fatal("same inputs must compose the same prompt")
	}
}

func TestIsGreeting(t *testing.T) {
	greetings := []string{"oi", "Oi, tudo bem?", "hello there", "Hi!", "  hi  "}
	for _, msg := range greetings {
		if !IsGreeting(msg) {
			t.Fatalf("expected %q to classify as greeting", msg)
		}
	}

	notGreetings := []string{"oito minutos para o impacto", "what should residents do?", "highway is blocked", ""}
	for _, msg := range notGreetings {
		if IsGreeting(msg) {
			t.Fatalf("expected %q to not classify as greeting", msg)
		}
	}
}

func TestSanitizeToken(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plain text", "plain text"},
		{"**bold**", "bold"},
		{"`code`", "code"},
		{"a*b`c", "abc"},
		{"***", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := SanitizeToken(c.in); got != c.want {
			t.Fatalf("SanitizeToken(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
