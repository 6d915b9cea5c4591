package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// SpeakerProfile maps diarized speaker labels to session roles. The three sets
// are disjoint: a label belongs to the therapist, to a named partner, or to
// the excluded set. Labels in none of the three are dropped during grouping.
type SpeakerProfile struct {
	Therapist map[string]bool
	Excluded  map[string]bool
	Partners  map[string]string // speaker label -> partner name
}

// NewSpeakerProfile builds a validated profile from per-role label lists.
// partners maps a partner name to the labels diarization assigned them.
func NewSpeakerProfile(therapist, excluded []string, partners map[string][]string) (*SpeakerProfile, error) {
	p := &SpeakerProfile{
		Therapist: make(map[string]bool, len(therapist)),
		Excluded:  make(map[string]bool, len(excluded)),
		Partners:  make(map[string]string),
	}

	for _, s := range therapist {
		p.Therapist[s] = true
	}
	for _, s := range excluded {
		if p.Therapist[s] {
			return nil, fmt.Errorf("speaker %q is both therapist and excluded", s)
		}
		p.Excluded[s] = true
	}

	// Iterate partner names in a fixed order so the first-conflict error is
	// deterministic.
	names := make([]string, 0, len(partners))
	for name := range partners {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, s := range partners[name] {
			if p.Therapist[s] {
				return nil, fmt.Errorf("speaker %q is both therapist and partner %q", s, name)
			}
			if p.Excluded[s] {
				return nil, fmt.Errorf("speaker %q is both excluded and partner %q", s, name)
			}
			if prev, ok := p.Partners[s]; ok {
				return nil, fmt.Errorf("speaker %q mapped to partners %q and %q", s, prev, name)
			}
			p.Partners[s] = name
		}
	}

	return p, nil
}

// Episode is the per-recording configuration: which audio file to process and
// how diarized speaker numbers map onto roles.
type Episode struct {
	Number    int              `yaml:"number"`
	Audio     string           `yaml:"audio,omitempty"` // overrides the Ep.<n>.mp3 naming convention
	Therapist []int            `yaml:"therapist"`
	Partners  map[string][]int `yaml:"partners"`
	Excluded  []int            `yaml:"excluded"`
}

// Profile converts the episode's numeric speaker sets into a validated
// SpeakerProfile over formatted labels ("Speaker 7").
func (e *Episode) Profile() (*SpeakerProfile, error) {
	partners := make(map[string][]string, len(e.Partners))
	for name, nums := range e.Partners {
		partners[name] = speakerLabels(nums)
	}
	p, err := NewSpeakerProfile(speakerLabels(e.Therapist), speakerLabels(e.Excluded), partners)
	if err != nil {
		return nil, fmt.Errorf("episode %d: %w", e.Number, err)
	}
	return p, nil
}

func speakerLabels(nums []int) []string {
	labels := make([]string, 0, len(nums))
	for _, n := range nums {
		labels = append(labels, fmt.Sprintf("Speaker %d", n))
	}
	return labels
}

// Episodes is the top-level shape of the episodes YAML file.
type Episodes struct {
	WindowSize int       `yaml:"window_size,omitempty"`
	Episodes   []Episode `yaml:"episodes"`
}

// LoadEpisodes reads and validates an episodes YAML file. Every episode's
// speaker sets are checked for disjointness up front so a bad mapping fails
// the run before any audio is touched.
func LoadEpisodes(path string) (*Episodes, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Episodes
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if len(cfg.Episodes) == 0 {
		return nil, fmt.Errorf("%s: no episodes configured", path)
	}

	seen := make(map[int]bool, len(cfg.Episodes))
	for i := range cfg.Episodes {
		ep := &cfg.Episodes[i]
		if seen[ep.Number] {
			return nil, fmt.Errorf("%s: duplicate episode number %d", path, ep.Number)
		}
		seen[ep.Number] = true
		if _, err := ep.Profile(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	return &cfg, nil
}
