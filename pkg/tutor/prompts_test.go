package tutor

import (
	"strings"
	"testing"
)

func TestSystemPromptGuardrailPrefix(t *testing.T) {
	modes := []Mode{ModeConversation, ModeReflexDrill, ModeJobInterview, ModeTopicTalk, ModeEmailDrafter}
	for _, m := range modes {
		prompt := systemPrompt(m, "Hindi")
		if !strings.HasPrefix(prompt, guardrail) {
			t.Errorf("%s: template must start with the shared guardrail", m)
		}
		if !strings.Contains(prompt, `"corrected"`) || !strings.Contains(prompt, `"score"`) {
			t.Errorf("%s: template must spell out the JSON output contract", m)
		}
	}
}

func TestSystemPromptsAreDistinct(t *testing.T) {
	seen := map[string]Mode{}
	for _, m := range []Mode{ModeConversation, ModeReflexDrill, ModeJobInterview, ModeTopicTalk, ModeEmailDrafter} {
		p := systemPrompt(m, "Hindi")
		if prev, ok := seen[p]; ok {
			t.Errorf("modes %s and %s share a template", prev, m)
		}
		seen[p] = m
	}
}

func TestReflexDrillPromptUsesNativeLanguage(t *testing.T) {
	if !strings.Contains(systemPrompt(ModeReflexDrill, "Tamil"), "Tamil") {
		t.Error("drill template must name the native language")
	}
}

func TestNormalizeText(t *testing.T) {
	cases := map[string]string{
		"Hello!":          "hello",
		"  GOOD MORNING.": "good morning",
		"bye":             "bye",
		" !. ":            "",
	}
	for in, want := range cases {
		if got := normalizeText(in); got != want {
			t.Errorf("normalizeText(%q) = %q, want %q", in, got, want)
		}
	}
}
