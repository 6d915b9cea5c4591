package pipeline

import (
	"reflect"
	"testing"

	"github.com/Monilnarang/Therapy-Esther/internal/config"
)

// TestConvert_SessionOpening walks the whole pipeline over a tiny session:
// the therapist opens and a partner answers, so the only exchange candidate
// is gpt-then-human and no training window can form.
func TestConvert_SessionOpening(t *testing.T) {
	segments := []TranscriptSegment{
		{Start: 0, End: 5, Text: "hi"},
		{Start: 5, End: 10, Text: "how are you"},
	}
	speakers := []SpeakerSegment{
		{Start: 0, End: 4, Tag: "1"},
		{Start: 4, End: 10, Tag: "2"},
	}

	utts, err := Align(segments, speakers, nil)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	want := []AttributedUtterance{
		{Speaker: "Speaker 1", Text: "hi"},
		{Speaker: "Speaker 2", Text: "how are you"},
	}
	if !reflect.DeepEqual(utts, want) {
		t.Fatalf("utterances = %v, want %v", utts, want)
	}

	profile, err := config.NewSpeakerProfile(
		[]string{"Speaker 1"},
		nil,
		map[string][]string{"Partner A": {"Speaker 2"}},
	)
	if err != nil {
		t.Fatalf("NewSpeakerProfile: %v", err)
	}

	settings := &config.ConvertSettings{
		Prefix:     config.PrefixOnChange,
		Join:       config.JoinSpace,
		Format:     config.FormatJSONL,
		WindowSize: 5,
	}
	result := Convert(utts, profile, settings)

	wantMsgs := []Message{
		{From: FromGPT, Value: "hi"},
		{From: FromHuman, Value: "[Partner A]: how are you"},
	}
	if !reflect.DeepEqual(result.Messages, wantMsgs) {
		t.Errorf("messages = %v, want %v", result.Messages, wantMsgs)
	}
	if len(result.Conversations) != 0 {
		t.Errorf("conversations = %v, want none (no human-before-gpt adjacency)", result.Conversations)
	}
	if result.Stats.Dropped() != 0 {
		t.Errorf("unexpected drops: %+v", result.Stats)
	}
}

// TestConvert_FullSession covers a longer session where windows do form.
func TestConvert_FullSession(t *testing.T) {
	utts := []AttributedUtterance{
		{Speaker: "Speaker 2", Text: "I had a rough week"},
		{Speaker: "Speaker 1", Text: "tell me more"},
		{Speaker: "Speaker 3", Text: "it was about us"},
		{Speaker: "Speaker 2", Text: "yes"},
		{Speaker: "Speaker 1", Text: "let's unpack that"},
	}

	profile, err := config.NewSpeakerProfile(
		[]string{"Speaker 1"},
		nil,
		map[string][]string{
			"Partner A": {"Speaker 2"},
			"Partner B": {"Speaker 3"},
		},
	)
	if err != nil {
		t.Fatalf("NewSpeakerProfile: %v", err)
	}

	settings := &config.ConvertSettings{
		Prefix:     config.PrefixAlways,
		Join:       config.JoinNewline,
		Format:     config.FormatJSONL,
		WindowSize: 1,
	}
	result := Convert(utts, profile, settings)

	if len(result.Messages) != 4 {
		t.Fatalf("messages = %v, want 4 turns", result.Messages)
	}
	if got := result.Messages[2].Value; got != "[Partner B]: it was about us\n[Partner A]: yes" {
		t.Errorf("joined client turn = %q", got)
	}

	// Two exchanges, windowSize 1: each window holds exactly one exchange.
	if len(result.Conversations) != 2 {
		t.Fatalf("conversations = %d, want 2", len(result.Conversations))
	}
	for i, c := range result.Conversations {
		if len(c.Messages) != 2 {
			t.Errorf("window %d has %d messages, want 2", i, len(c.Messages))
		}
	}
}
