package tutor

import (
	"fmt"
	"strings"
)

// guardrail is prefixed to every system template. It restricts the model
// to English tutoring; topic_talk still evaluates English skills whatever
// the subject matter is.
const guardrail = "ROLE: English Tutor ONLY. Reject math/coding/GK requests politely. " +
	"Focus: Grammar, vocabulary, fluency. " +
	"If mode is Topic Talk: Listen to content but grade English skills."

// greetings and closings are matched exactly after case normalization and
// punctuation stripping. They bypass the model entirely.
var greetings = map[string]bool{
	"hi": true, "hello": true, "hey": true,
	"good morning": true, "good evening": true,
	"namaste": true, "hola": true,
}

var closings = map[string]bool{
	"bye": true, "goodbye": true, "see you": true,
	"exit": true, "quit": true,
}

// forbiddenKeywords trigger a canned redirect outside topic_talk.
var forbiddenKeywords = []string{
	"python", "java", "code", "html", "css",
	"solve", "math", "president", "calculate",
}

// normalizeText lowercases the input and strips surrounding whitespace
// and trailing punctuation for short-circuit matching.
func normalizeText(text string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(text)), "!.")
}

func containsForbidden(normalized string) bool {
	for _, word := range forbiddenKeywords {
		if strings.Contains(normalized, word) {
			return true
		}
	}
	return false
}

// systemPrompt returns the role-specific instruction template for a mode.
// Every template demands the same four-field JSON contract.
func systemPrompt(mode Mode, nativeLang string) string {
	switch mode {
	case ModeEmailDrafter:
		return guardrail + " " +
			"Role: Executive Assistant. Task: Convert notes to professional email. " +
			"JSON Output Format: " +
			`{"corrected": "Subject: [Subject]\n\nDear [Name],\n\n[Body]\n\nSincerely,\n[User]", ` +
			`"reply": "Draft ready. I used [professional phrase].", ` +
			`"score": "100", "corrections": ["Drafted Email"]}`
	case ModeJobInterview:
		return guardrail + " " +
			"Role: Strict HR Interviewer. 1. Grade grammar. 2. Ask ONE follow-up. 3. No repeats. " +
			"JSON Output: " +
			`{"corrected": "[Better version]", ` +
			`"reply": "[Feedback] + [Next Question]", ` +
			`"score": "[0-100]", "corrections": ["[Fix 1]", "[Fix 2]"]}`
	case ModeReflexDrill:
		return guardrail + " " +
			fmt.Sprintf("Role: Drill Sergeant. 1. Check previous translation. 2. New sentence in %s. ", nativeLang) +
			"JSON Output: " +
			`{"corrected": "[Correct translation]", ` +
			fmt.Sprintf(`"reply": "Status. Next: Translate: [New %s Sentence]", `, nativeLang) +
			`"score": "[0-100]", "corrections": ["Errors"]}`
	case ModeTopicTalk:
		return guardrail + " " +
			"Role: Speech Evaluator. 1. Rate fluency/vocab. 2. Ask deep follow-up. " +
			"JSON Output: " +
			`{"corrected": "[Polished speech]", ` +
			`"reply": "Interesting point. [Follow-up?]", ` +
			`"score": "[0-100]", "corrections": ["Vocab suggestion"]}`
	default:
		return guardrail + " " +
			"Role: Friendly Tutor (SpeakUp). Chat casually. Correct mistakes gently. " +
			"JSON Output: " +
			`{"corrected": "[Grammar fix]", ` +
			`"reply": "[Natural response]", ` +
			`"score": "[0-100]", "corrections": ["Fix 1"]}`
	}
}

// Intro returns the opening message shown when a practice session starts.
// No model call is involved.
func Intro(mode Mode, nativeLang string) string {
	switch mode {
	case ModeReflexDrill:
		return fmt.Sprintf("Welcome to Speed Drill! I will give you a sentence in %s, and you translate it to English. Ready?", nativeLang)
	case ModeJobInterview:
		return "Hello. I am the Hiring Manager. Let's start the interview. Tell me about yourself."
	case ModeTopicTalk:
		return "Welcome to Topic Talk. Choose a topic (e.g., 'Artificial Intelligence', 'My Hometown') and speak about it for a minute. Go ahead!"
	case ModeEmailDrafter:
		return "I am your Email Assistant. Tell me: Who are you emailing and what is the key message? (e.g., 'Tell boss I am sick')"
	default:
		return "Hi there! I'm SpeakUp, your English tutor. Let's practice conversation. How was your day?"
	}
}
