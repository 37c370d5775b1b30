package agent

import (
	"fmt"
	"strings"

	"github.com/hupe1980/agentcouncil/core"
	"github.com/hupe1980/agentcouncil/model"
)

// continuePrompt hands the turn back to an agent whose own message closed
// the history.
const continuePrompt = "[system]: It is your turn. Respond in the role given by the system prompt."

// ConvertHistory maps a shared multi-agent conversation onto the two-party
// user/assistant form a provider accepts, from the point of view of self.
//
// Only messages self authored stay assistant messages; when tagged they are
// prefixed with "[as tag]:" so a shared agent keeps its earlier roles apart.
// Everything else is user content; other agents' output is prefixed with
// "[agent as tag]:". Consecutive messages that end up with the same role are
// merged because several providers reject them. The result always ends with
// a user turn, since a trailing assistant message is treated as a prefill to
// continue.
func ConvertHistory(self string, history []core.Message) []model.Message {
	out := make([]model.Message, 0, len(history))
	for _, msg := range history {
		if strings.TrimSpace(msg.Content) == "" {
			continue
		}

		role := core.MessageRoleUser
		content := msg.Content
		switch {
		case msg.Role == core.MessageRoleAssistant && msg.Agent == self:
			role = core.MessageRoleAssistant
			if msg.Tag != "" {
				content = fmt.Sprintf("[as %s]: %s", msg.Tag, msg.Content)
			}
		case msg.Role == core.MessageRoleAssistant:
			content = fmt.Sprintf("%s: %s", attribution(msg), msg.Content)
		case msg.Role == core.MessageRoleSystem:
			content = "[system]: " + msg.Content
		}

		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Content += "\n\n" + content
			continue
		}
		out = append(out, model.Message{Role: role, Content: content})
	}

	if n := len(out); n > 0 && out[n-1].Role == core.MessageRoleAssistant {
		out = append(out, model.Message{Role: core.MessageRoleUser, Content: continuePrompt})
	}
	return out
}

func attribution(msg core.Message) string {
	name := msg.Agent
	if name == "" {
		name = "agent"
	}
	if msg.Tag == "" {
		return "[" + name + "]"
	}
	return fmt.Sprintf("[%s as %s]", name, msg.Tag)
}
