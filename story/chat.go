package story

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultHistoryLimit is how many messages are sent to the model when no
// limit is configured.
const DefaultHistoryLimit = 10

// ChatMessage is one turn of a conversation with the model.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LimitHistory keeps the last n messages. n <= 0 means DefaultHistoryLimit.
// A trimmed window never opens with an assistant message.
func LimitHistory(history []ChatMessage, n int) []ChatMessage {
	if n <= 0 {
		n = DefaultHistoryLimit
	}
	if len(history) <= n {
		return history
	}
	h := history[len(history)-n:]
	for len(h) > 1 && h[0].Role == RoleAssistant {
		h = h[1:]
	}
	return h
}

// UserTurns counts the player's messages in history.
func UserTurns(history []ChatMessage) int {
	n := 0
	for _, m := range history {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}
