// Package trainset writes and merges the training artifacts produced from
// attributed transcripts.
package trainset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Monilnarang/Therapy-Esther/internal/config"
	"github.com/Monilnarang/Therapy-Esther/internal/pipeline"
)

// WriteMessages writes the flat dialogue as a single indented JSON array.
func WriteMessages(path string, msgs []pipeline.Message) error {
	data, err := json.MarshalIndent(msgs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// WriteConversations writes one windowed conversation record per line.
func WriteConversations(path string, convs []pipeline.Conversation) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	for _, c := range convs {
		if err := enc.Encode(c); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}

// Write persists a conversion result in the configured format and returns the
// number of records written.
func Write(path string, result pipeline.ConvertResult, format config.OutputFormat) (int, error) {
	switch format {
	case config.FormatJSON:
		return len(result.Messages), WriteMessages(path, result.Messages)
	case config.FormatJSONL:
		return len(result.Conversations), WriteConversations(path, result.Conversations)
	}
	return 0, fmt.Errorf("unknown output format %q", format)
}
