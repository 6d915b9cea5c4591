package api

import (
	"context"
	"strconv"

	"github.com/Monilnarang/Therapy-Esther/internal/pipeline"
)

// diarizeResponse is the diarization service's JSON shape. Speaker tags are
// small integers assigned per recording.
type diarizeResponse struct {
	Segments []struct {
		StartSec   float64 `json:"start_sec"`
		EndSec     float64 `json:"end_sec"`
		SpeakerTag int     `json:"speaker_tag"`
	} `json:"segments"`
}

// Diarize uploads a recording to the diarization service and returns its
// speaker-turn segments. The returned order carries no meaning.
func (c *Client) Diarize(ctx context.Context, audioPath string) ([]pipeline.SpeakerSegment, error) {
	var resp diarizeResponse
	if err := c.postAudio(ctx, c.DiarizationURL, audioPath, nil, &resp); err != nil {
		return nil, err
	}

	segments := make([]pipeline.SpeakerSegment, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		segments = append(segments, pipeline.SpeakerSegment{
			Start: s.StartSec,
			End:   s.EndSec,
			Tag:   strconv.Itoa(s.SpeakerTag),
		})
	}
	return segments, nil
}
