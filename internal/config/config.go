package config

import "fmt"

// PrefixPolicy controls when client lines carry their "[Partner]: " identifier.
type PrefixPolicy string

const (
	// PrefixAlways prefixes every client line.
	PrefixAlways PrefixPolicy = "always"
	// PrefixOnChange prefixes only the first line after the speaking partner
	// changes within a group.
	PrefixOnChange PrefixPolicy = "on-change"
)

// JoinPolicy controls the separator used when a turn group's lines are
// serialized into one training message.
type JoinPolicy string

const (
	JoinNewline JoinPolicy = "newline"
	JoinSpace   JoinPolicy = "space"
)

// OutputFormat selects the training artifact layout.
type OutputFormat string

const (
	// FormatJSON writes one JSON array of role-tagged messages.
	FormatJSON OutputFormat = "json"
	// FormatJSONL writes one windowed conversation record per line.
	FormatJSONL OutputFormat = "jsonl"
)

// ParsePrefixPolicy validates a prefix policy flag value.
func ParsePrefixPolicy(s string) (PrefixPolicy, error) {
	switch PrefixPolicy(s) {
	case PrefixAlways, PrefixOnChange:
		return PrefixPolicy(s), nil
	}
	return "", fmt.Errorf("unknown prefix policy %q (want %q or %q)", s, PrefixAlways, PrefixOnChange)
}

// ParseJoinPolicy validates a join policy flag value.
func ParseJoinPolicy(s string) (JoinPolicy, error) {
	switch JoinPolicy(s) {
	case JoinNewline, JoinSpace:
		return JoinPolicy(s), nil
	}
	return "", fmt.Errorf("unknown join policy %q (want %q or %q)", s, JoinNewline, JoinSpace)
}

// ParseOutputFormat validates an output format flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case FormatJSON, FormatJSONL:
		return OutputFormat(s), nil
	}
	return "", fmt.Errorf("unknown output format %q (want %q or %q)", s, FormatJSON, FormatJSONL)
}

// ConvertSettings holds all conversion parameters.
type ConvertSettings struct {
	Prefix     PrefixPolicy
	Join       JoinPolicy
	Format     OutputFormat
	WindowSize int
}

// Config holds the full application configuration.
type Config struct {
	ConvertSettings

	MaxConcurrentEpisodes int
	MaxRetries            int
	APIRateLimitPerMin    int
}

// Default returns a Config with hardcoded defaults.
func Default() *Config {
	return &Config{
		ConvertSettings: ConvertSettings{
			Prefix:     PrefixOnChange,
			Join:       JoinSpace,
			Format:     FormatJSONL,
			WindowSize: 5,
		},
		MaxConcurrentEpisodes: 2,
		MaxRetries:            3,
		APIRateLimitPerMin:    30,
	}
}
