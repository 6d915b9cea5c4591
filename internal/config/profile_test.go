package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewSpeakerProfile_Valid(t *testing.T) {
	p, err := NewSpeakerProfile(
		[]string{"Speaker 1", "Speaker 4"},
		[]string{"Speaker 9"},
		map[string][]string{
			"Partner A": {"Speaker 2"},
			"Partner B": {"Speaker 3", "Speaker 5"},
		},
	)
	if err != nil {
		t.Fatalf("NewSpeakerProfile: %v", err)
	}

	if !p.Therapist["Speaker 4"] {
		t.Error("Speaker 4 should be therapist")
	}
	if !p.Excluded["Speaker 9"] {
		t.Error("Speaker 9 should be excluded")
	}
	if p.Partners["Speaker 5"] != "Partner B" {
		t.Errorf("Partners[Speaker 5] = %q, want Partner B", p.Partners["Speaker 5"])
	}
}

func TestNewSpeakerProfile_DisjointnessViolations(t *testing.T) {
	tests := []struct {
		name      string
		therapist []string
		excluded  []string
		partners  map[string][]string
	}{
		{"therapist and excluded", []string{"Speaker 1"}, []string{"Speaker 1"}, nil},
		{"therapist and partner", []string{"Speaker 1"}, nil, map[string][]string{"Partner A": {"Speaker 1"}}},
		{"excluded and partner", nil, []string{"Speaker 1"}, map[string][]string{"Partner A": {"Speaker 1"}}},
		{"two partners", nil, nil, map[string][]string{
			"Partner A": {"Speaker 1"},
			"Partner B": {"Speaker 1"},
		}},
	}
	for _, tt := range tests {
		if _, err := NewSpeakerProfile(tt.therapist, tt.excluded, tt.partners); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestEpisodeProfile_NumbersBecomeLabels(t *testing.T) {
	ep := Episode{
		Number:    1,
		Therapist: []int{6, 12},
		Partners: map[string][]int{
			"Partner A": {2, 4},
			"Partner B": {5},
		},
		Excluded: []int{3},
	}

	p, err := ep.Profile()
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}

	if !p.Therapist["Speaker 6"] || !p.Therapist["Speaker 12"] {
		t.Errorf("therapist labels missing: %v", p.Therapist)
	}
	if p.Partners["Speaker 4"] != "Partner A" {
		t.Errorf("Partners[Speaker 4] = %q", p.Partners["Speaker 4"])
	}
	if !p.Excluded["Speaker 3"] {
		t.Errorf("excluded labels missing: %v", p.Excluded)
	}
}

const episodesYAML = `window_size: 3
episodes:
  - number: 1
    therapist: [6, 12]
    partners:
      Partner A: [2, 4]
      Partner B: [5]
    excluded: [1, 3]
  - number: 8
    audio: /data/sessions/intake.mp3
    therapist: [4]
    partners:
      Partner A: [5]
      Partner B: [6]
    excluded: [1, 2, 3]
`

func writeEpisodesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "episodes.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadEpisodes(t *testing.T) {
	cfg, err := LoadEpisodes(writeEpisodesFile(t, episodesYAML))
	if err != nil {
		t.Fatalf("LoadEpisodes: %v", err)
	}

	if cfg.WindowSize != 3 {
		t.Errorf("WindowSize = %d, want 3", cfg.WindowSize)
	}
	if len(cfg.Episodes) != 2 {
		t.Fatalf("episodes = %d, want 2", len(cfg.Episodes))
	}
	if cfg.Episodes[1].Audio != "/data/sessions/intake.mp3" {
		t.Errorf("Audio = %q", cfg.Episodes[1].Audio)
	}
}

func TestLoadEpisodes_DuplicateNumbers(t *testing.T) {
	dup := strings.ReplaceAll(episodesYAML, "number: 8", "number: 1")
	if _, err := LoadEpisodes(writeEpisodesFile(t, dup)); err == nil {
		t.Error("expected error for duplicate episode numbers")
	}
}

func TestLoadEpisodes_OverlappingSpeakers(t *testing.T) {
	bad := strings.ReplaceAll(episodesYAML, "excluded: [1, 3]", "excluded: [1, 6]")
	if _, err := LoadEpisodes(writeEpisodesFile(t, bad)); err == nil {
		t.Error("expected error for speaker in two sets")
	}
}

func TestLoadEpisodes_Empty(t *testing.T) {
	if _, err := LoadEpisodes(writeEpisodesFile(t, "episodes: []\n")); err == nil {
		t.Error("expected error for empty episode list")
	}
}

func TestLoadEpisodes_Missing(t *testing.T) {
	if _, err := LoadEpisodes(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
