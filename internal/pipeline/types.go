package pipeline

// TranscriptSegment is one timestamped text segment from the transcription engine.
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// SpeakerSegment is one speaker turn from the diarization engine. Segments
// arrive unordered relative to the transcript and may overlap each other.
type SpeakerSegment struct {
	Start float64 `json:"start_sec"`
	End   float64 `json:"end_sec"`
	Tag   string  `json:"speaker_tag"`
}

// AttributedUtterance is one transcript segment fused with the speaker label
// of its best-matching diarization segment.
type AttributedUtterance struct {
	Speaker string
	Text    string
}

// Role distinguishes the two sides of a session.
type Role string

const (
	RoleTherapist Role = "therapist"
	RoleClient    Role = "client"
)

// TurnGroup is a maximal run of consecutive same-role utterances.
type TurnGroup struct {
	Role  Role
	Lines []string
}

// Message is one role-tagged training message.
type Message struct {
	From  string `json:"from"`
	Value string `json:"value"`
}

const (
	FromHuman = "human"
	FromGPT   = "gpt"
)

// Conversation is one sliding-window training example.
type Conversation struct {
	Messages []Message `json:"conversations"`
}
