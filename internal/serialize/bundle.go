package serialize

import (
	"encoding/json"
	"strings"
)

// systemAck is the synthetic answer paired with each system message so that
// system instructions serialize as a regular question/answer turn.
const systemAck = "OK"

// Role tags a conversation message with its author.
type Role string

// Conversation roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged turn of the conversation, in chronological order.
type Message struct {
	Role    Role
	Content string
}

// Bundle is the serialized form of a conversation: all prior turns as a
// context blob, plus the single outstanding user question.
type Bundle struct {
	// Context holds the prior turns as newline-terminated JSON objects,
	// one per line. Empty when the conversation has no prior turns.
	Context string

	// Pending is the verbatim content of the final unanswered user turn.
	// Empty when the history contains no question at all.
	Pending string
}

// pair is one serialized prior turn.
type pair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Parse walks the messages in order and splits them into the pending
// question and the serialized context of every earlier turn.
//
// System messages become question/answer pairs with a fixed "OK" answer.
// User messages queue as questions, assistant messages as answers. The last
// queued question is the pending one and is excluded from the context.
func Parse(msgs []Message) *Bundle {
	var questions, answers []string

	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			questions = append(questions, m.Content)
			answers = append(answers, systemAck)
		case RoleUser:
			questions = append(questions, m.Content)
		case RoleAssistant:
			answers = append(answers, m.Content)
		}
	}

	b := &Bundle{}

	if n := len(questions); n > 0 {
		b.Pending = questions[n-1]
		questions = questions[:n-1]
	}

	var ctx strings.Builder

	for i, q := range questions {
		answer := ""
		if i < len(answers) {
			answer = answers[i]
		}

		// Marshal of a flat string struct cannot fail.
		line, _ := json.Marshal(pair{Question: q, Answer: answer})

		ctx.Write(line)
		ctx.WriteByte('\n')
	}

	b.Context = ctx.String()

	return b
}

// PairCount reports the number of serialized prior turns in the context.
func (b *Bundle) PairCount() int {
	if b.Context == "" {
		return 0
	}

	return strings.Count(b.Context, "\n")
}
