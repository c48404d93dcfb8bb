package locale

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		raw  string
		want Locale
	}{
		{"en", English},
		{"PT", Portuguese},
		{" es ", Spanish},
		{"fr", French},
		{"zh", Chinese},
		{"", Default},
		{"de", Default},
		{"en-US", Default},
	}
	for _, c := range cases {
		if got := Parse(c.raw); got != c.want {
			t.Fatalf("Parse(%q) = %v, want %v", c.raw, got, c.want)
		}
	}
}

func TestForCoversAllLocales(t *testing.T) {
	for _, l := range []Locale{English, Portuguese, Spanish, French, Chinese} {
		m := For(l)
		if m.BasePrompt == "" {
			t.Fatalf("locale %v has empty base prompt", l)
		}
		if m.GreetingInstruction == "" || m.MitigationInstructions == "" {
			t.Fatalf("locale %v missing instruction blocks", l)
		}
		if m.RetrievedContextLead == "" || m.ConsequencesLead == "" || m.KeyFactsLead == "" {
			t.Fatalf("locale %v missing prompt leads", l)
		}
	}
}

func TestForFallsBackToEnglish(t *testing.T) {
	if For(Locale("xx")) != For(English) {
		t.Fatal("unknown locale must fall back to English")
	}
}
