// Package worker orchestrates the per-episode pipeline: fetch (or load
// cached) transcription, fetch diarization, align the two streams into a
// speaker-attributed transcript, and convert attributed transcripts into
// training artifacts.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Monilnarang/Therapy-Esther/internal/config"
	"github.com/Monilnarang/Therapy-Esther/internal/pipeline"
	"github.com/Monilnarang/Therapy-Esther/internal/trainset"
	"github.com/Monilnarang/Therapy-Esther/internal/transcript"
)

// Transcriber produces ordered transcript segments for a recording.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) ([]pipeline.TranscriptSegment, error)
}

// Diarizer produces unordered speaker segments for a recording.
type Diarizer interface {
	Diarize(ctx context.Context, audioPath string) ([]pipeline.SpeakerSegment, error)
}

// Options configures the worker.
type Options struct {
	AudioDir      string
	OutputDir     string
	Settings      config.ConvertSettings
	MaxConcurrent int
	MaxRetries    int
	RateLimitRPM  int
}

// Episode is one recording to process.
type Episode struct {
	Number  int
	Audio   string // explicit audio path; empty means the Ep.<n>.mp3 convention
	Profile *config.SpeakerProfile
}

// AudioPath resolves the episode's audio file.
func (e Episode) AudioPath(audioDir string) string {
	if e.Audio != "" {
		return e.Audio
	}
	return filepath.Join(audioDir, fmt.Sprintf("Ep.%d.mp3", e.Number))
}

// CachePath is the persisted transcription for the episode.
func (e Episode) CachePath(outputDir string) string {
	return filepath.Join(outputDir, fmt.Sprintf("Ep.%d_transcript.txt", e.Number))
}

// AttributedPath is the speaker-attributed transcript for the episode.
func (e Episode) AttributedPath(outputDir string) string {
	return filepath.Join(outputDir, fmt.Sprintf("Ep.%d_final.txt", e.Number))
}

// TrainingPath is the training artifact for the episode.
func (e Episode) TrainingPath(outputDir string, format config.OutputFormat) string {
	name := fmt.Sprintf("Ep.%d_final.jsonl", e.Number)
	if format == config.FormatJSON {
		name = fmt.Sprintf("Ep.%d_final.json", e.Number)
	}
	return filepath.Join(outputDir, name)
}

// ProcessEpisode builds the speaker-attributed transcript for one episode.
//
// The transcription cache is honored when present so a re-run never repeats
// the expensive engine call. Attributed lines are written to the output file
// as they are produced, so partial results survive a mid-run failure.
func ProcessEpisode(ctx context.Context, t Transcriber, d Diarizer, ep Episode, opts Options) error {
	audioPath := ep.AudioPath(opts.AudioDir)
	log := slog.With("episode", ep.Number)

	segments, err := loadOrTranscribe(ctx, t, audioPath, ep.CachePath(opts.OutputDir), log)
	if err != nil {
		return fmt.Errorf("transcribe: %w", err)
	}
	if len(segments) == 0 {
		return fmt.Errorf("transcription produced no segments")
	}

	log.Info("running diarization")
	speakers, err := d.Diarize(ctx, audioPath)
	if err != nil {
		return fmt.Errorf("diarize: %w", err)
	}
	if len(speakers) == 0 {
		log.Warn("no speaker segments returned, all utterances will be unattributed")
	}

	outPath := ep.AttributedPath(opts.OutputDir)
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}

	log.Info("aligning transcript with speakers", "segments", len(segments), "speaker_segments", len(speakers))
	// One write per line keeps the file current while alignment runs.
	_, alignErr := pipeline.Align(segments, speakers, func(u pipeline.AttributedUtterance) error {
		_, err := out.WriteString(transcript.FormatAttributedLine(u) + "\n")
		return err
	})
	if alignErr != nil {
		out.Close()
		return fmt.Errorf("write attributed transcript: %w", alignErr)
	}
	if err := out.Close(); err != nil {
		return err
	}

	log.Info("attributed transcript saved", "path", outPath)
	return nil
}

func loadOrTranscribe(ctx context.Context, t Transcriber, audioPath, cachePath string, log *slog.Logger) ([]pipeline.TranscriptSegment, error) {
	if f, err := os.Open(cachePath); err == nil {
		defer f.Close()
		segments, err := transcript.ParseSegments(f)
		if err != nil {
			return nil, fmt.Errorf("parse cached transcription %s: %w", cachePath, err)
		}
		log.Info("loaded cached transcription", "path", cachePath, "segments", len(segments))
		return segments, nil
	}

	log.Info("no cached transcription found, calling transcription service")
	segments, err := t.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	f, err := os.Create(cachePath)
	if err != nil {
		return nil, fmt.Errorf("create transcription cache: %w", err)
	}
	if err := transcript.WriteSegments(f, segments); err != nil {
		f.Close()
		return nil, fmt.Errorf("write transcription cache: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	log.Info("transcription cached", "path", cachePath, "segments", len(segments))
	return segments, nil
}

// ConvertEpisode turns an episode's attributed transcript into its training
// artifact and returns the number of records written.
func ConvertEpisode(ep Episode, opts Options) (int, error) {
	inPath := ep.AttributedPath(opts.OutputDir)
	f, err := os.Open(inPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	utts, err := transcript.ParseAttributed(f)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", inPath, err)
	}

	result := pipeline.Convert(utts, ep.Profile, &opts.Settings)

	log := slog.With("episode", ep.Number)
	if dropped := result.Stats.Dropped(); dropped > 0 {
		log.Info("dropped utterances during grouping",
			"excluded", result.Stats.Excluded, "unmapped", result.Stats.Unmapped)
	}

	outPath := ep.TrainingPath(opts.OutputDir, opts.Settings.Format)
	n, err := trainset.Write(outPath, result, opts.Settings.Format)
	if err != nil {
		return 0, err
	}

	log.Info("training artifact saved", "path", outPath, "records", n,
		"messages", len(result.Messages), "conversations", len(result.Conversations))
	return n, nil
}
