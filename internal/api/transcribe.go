package api

import (
	"context"

	"github.com/Monilnarang/Therapy-Esther/internal/pipeline"
)

// transcriptResponse is the transcription service's JSON shape.
type transcriptResponse struct {
	Text     string `json:"text"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// Transcribe uploads a recording to the transcription service and returns its
// timestamped segments in chronological order.
func (c *Client) Transcribe(ctx context.Context, audioPath string) ([]pipeline.TranscriptSegment, error) {
	var resp transcriptResponse
	fields := map[string]string{"timestamps": "segment"}
	if err := c.postAudio(ctx, c.TranscriptionURL, audioPath, fields, &resp); err != nil {
		return nil, err
	}

	segments := make([]pipeline.TranscriptSegment, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		segments = append(segments, pipeline.TranscriptSegment{Start: s.Start, End: s.End, Text: s.Text})
	}
	return segments, nil
}
