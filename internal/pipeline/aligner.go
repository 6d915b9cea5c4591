package pipeline

import (
	"math"
	"strings"
)

// UnknownSpeaker is the label used when no diarization data is available.
const UnknownSpeaker = "Speaker Unknown"

// SpeakerLabel formats a diarization tag as an attributed-transcript label.
func SpeakerLabel(tag string) string {
	return "Speaker " + tag
}

// overlapScore returns the fraction of t's duration covered by s. The value is
// negative when the segments do not overlap and at most 1 when s fully
// contains t. Callers must ensure t has positive duration.
func overlapScore(t TranscriptSegment, s SpeakerSegment) float64 {
	overlap := math.Min(t.End, s.End) - math.Max(t.Start, s.Start)
	return overlap / (t.End - t.Start)
}

// AlignSegment attributes a single transcript segment to a speaker.
//
// The best-overlapping speaker segment wins, provided its overlap ratio is
// strictly positive (ties keep the first-seen maximum). When nothing overlaps
// — frequent at fast speaker turnovers, where ASR and diarization boundaries
// disagree — the segment whose midpoint is nearest wins instead. Segments with
// non-positive duration skip overlap scoring and go straight to the midpoint
// fallback.
func AlignSegment(t TranscriptSegment, speakers []SpeakerSegment) AttributedUtterance {
	bestIdx := -1
	bestScore := 0.0

	if t.End > t.Start {
		for i, s := range speakers {
			if score := overlapScore(t, s); score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
	}

	if bestIdx < 0 {
		bestIdx = nearestByMidpoint(t, speakers)
	}

	label := UnknownSpeaker
	if bestIdx >= 0 {
		label = SpeakerLabel(speakers[bestIdx].Tag)
	}

	return AttributedUtterance{Speaker: label, Text: strings.TrimSpace(t.Text)}
}

// nearestByMidpoint returns the index of the speaker segment whose midpoint is
// closest to t's midpoint, or -1 when speakers is empty. Ties keep the
// first-seen minimum.
func nearestByMidpoint(t TranscriptSegment, speakers []SpeakerSegment) int {
	mid := (t.Start + t.End) / 2
	bestIdx := -1
	bestDist := math.Inf(1)

	for i, s := range speakers {
		dist := math.Abs(mid - (s.Start+s.End)/2)
		if dist < bestDist {
			bestDist = dist
			bestIdx = i
		}
	}
	return bestIdx
}

// EmitFunc receives each attributed utterance as it is produced, letting
// callers persist partial results before alignment of the whole recording
// completes.
type EmitFunc func(AttributedUtterance) error

// Align attributes every transcript segment in order, one output per input.
// emit may be nil; when set, it is called for each utterance as soon as it is
// produced, and its error aborts the run.
func Align(segments []TranscriptSegment, speakers []SpeakerSegment, emit EmitFunc) ([]AttributedUtterance, error) {
	out := make([]AttributedUtterance, 0, len(segments))
	for _, t := range segments {
		u := AlignSegment(t, speakers)
		if emit != nil {
			if err := emit(u); err != nil {
				return out, err
			}
		}
		out = append(out, u)
	}
	return out, nil
}
