package pipeline

import (
	"github.com/Monilnarang/Therapy-Esther/internal/config"
)

// ConvertResult is the output of the full restructuring pipeline for one
// attributed transcript.
type ConvertResult struct {
	// Messages is the flat role-tagged dialogue, one message per turn group.
	Messages []Message
	// Conversations are the sliding-window training examples built from
	// Messages.
	Conversations []Conversation
	// Stats reports utterances dropped during grouping.
	Stats GroupStats
}

// Convert runs grouping and windowing on an attributed transcript and returns
// both artifact shapes; the output format decides which one gets written.
func Convert(utts []AttributedUtterance, profile *config.SpeakerProfile, settings *config.ConvertSettings) ConvertResult {
	groups, stats := GroupUtterances(utts, profile, settings.Prefix)
	msgs := DialogueMessages(groups, settings.Join)

	return ConvertResult{
		Messages:      msgs,
		Conversations: WindowConversations(msgs, settings.WindowSize),
		Stats:         stats,
	}
}
