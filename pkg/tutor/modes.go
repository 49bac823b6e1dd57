package tutor

// Mode is an enumerated tutoring scenario. It selects the persona, the
// output contract, and how much conversation history is forwarded.
type Mode string

const (
	ModeConversation Mode = "conversation"
	ModeReflexDrill  Mode = "reflex_drill"
	ModeJobInterview Mode = "job_interview"
	ModeTopicTalk    Mode = "topic_talk"
	ModeEmailDrafter Mode = "email_drafter"
)

// ParseMode maps a client-supplied mode string to a Mode. Unknown values
// fall back to conversation.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeReflexDrill, ModeJobInterview, ModeTopicTalk, ModeEmailDrafter:
		return Mode(s)
	default:
		return ModeConversation
	}
}

func (m Mode) String() string { return string(m) }
