package pipeline

import (
	"strings"

	"github.com/Monilnarang/Therapy-Esther/internal/config"
)

// DialogueMessages serializes turn groups into role-tagged training messages:
// client groups become "human", therapist groups become "gpt". Lines are
// joined with the configured separator.
func DialogueMessages(groups []TurnGroup, join config.JoinPolicy) []Message {
	sep := "\n"
	if join == config.JoinSpace {
		sep = " "
	}

	msgs := make([]Message, 0, len(groups))
	for _, g := range groups {
		from := FromGPT
		if g.Role == RoleClient {
			from = FromHuman
		}
		msgs = append(msgs, Message{From: from, Value: strings.Join(g.Lines, sep)})
	}
	return msgs
}

// validExchanges scans left to right for strict human-immediately-followed-by-
// gpt adjacencies. A matched pair consumes both positions; anything else
// (gpt-gpt, human-human, gpt-human) consumes one position without forming an
// exchange, so content there is deliberately lost.
func validExchanges(msgs []Message) [][2]int {
	var pairs [][2]int
	for i := 0; i < len(msgs)-1; {
		if msgs[i].From == FromHuman && msgs[i+1].From == FromGPT {
			pairs = append(pairs, [2]int{i, i + 1})
			i += 2
		} else {
			i++
		}
	}
	return pairs
}

// WindowConversations emits one conversation per valid exchange, each carrying
// up to windowSize trailing exchanges of context and anchored on the most
// recent one. Fewer than two messages cannot form an exchange, so the result
// is empty.
func WindowConversations(msgs []Message, windowSize int) []Conversation {
	if len(msgs) < 2 {
		return nil
	}

	pairs := validExchanges(msgs)
	convs := make([]Conversation, 0, len(pairs))

	for k := range pairs {
		start := k - windowSize + 1
		if start < 0 {
			start = 0
		}

		window := make([]Message, 0, 2*(k-start+1))
		for _, p := range pairs[start : k+1] {
			window = append(window, msgs[p[0]], msgs[p[1]])
		}
		convs = append(convs, Conversation{Messages: window})
	}

	return convs
}
