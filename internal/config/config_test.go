package config

import "testing"

func TestParsePolicies(t *testing.T) {
	if _, err := ParsePrefixPolicy("always"); err != nil {
		t.Errorf("always: %v", err)
	}
	if _, err := ParsePrefixPolicy("on-change"); err != nil {
		t.Errorf("on-change: %v", err)
	}
	if _, err := ParsePrefixPolicy("sometimes"); err == nil {
		t.Error("expected error for unknown prefix policy")
	}

	if _, err := ParseJoinPolicy("newline"); err != nil {
		t.Errorf("newline: %v", err)
	}
	if _, err := ParseJoinPolicy("tab"); err == nil {
		t.Error("expected error for unknown join policy")
	}

	if _, err := ParseOutputFormat("jsonl"); err != nil {
		t.Errorf("jsonl: %v", err)
	}
	if _, err := ParseOutputFormat("csv"); err == nil {
		t.Error("expected error for unknown output format")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.WindowSize != 5 {
		t.Errorf("WindowSize = %d, want 5", cfg.WindowSize)
	}
	if cfg.Prefix != PrefixOnChange || cfg.Join != JoinSpace || cfg.Format != FormatJSONL {
		t.Errorf("unexpected default policies: %+v", cfg.ConvertSettings)
	}
}
