package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Monilnarang/Therapy-Esther/internal/api"
	"github.com/Monilnarang/Therapy-Esther/internal/config"
	"github.com/Monilnarang/Therapy-Esther/internal/worker"

	"github.com/spf13/cobra"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Transcribe, diarize, and speaker-attribute session recordings",
	Long: `Process runs the alignment stage for every configured episode: the audio is
sent to the transcription and diarization services (transcriptions are cached
and reused across runs) and the two segment streams are fused into a
speaker-attributed transcript, Ep.<n>_final.txt.`,
	Args: cobra.NoArgs,
	RunE: runProcess,
}

var (
	episodesFile     string
	audioDir         string
	outputDir        string
	transcriptionURL string
	diarizationURL   string
	maxConcurrent    int
	maxRetries       int
	rateLimit        int
)

func init() {
	defaults := config.Default()

	processCmd.Flags().StringVarP(&episodesFile, "episodes", "e", "episodes.yaml", "episodes YAML file")
	processCmd.Flags().StringVar(&audioDir, "audio-dir", ".", "directory holding Ep.<n>.mp3 recordings")
	processCmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "directory for transcripts and artifacts")
	processCmd.Flags().StringVar(&transcriptionURL, "transcription-url", "", "transcription service endpoint")
	processCmd.Flags().StringVar(&diarizationURL, "diarization-url", "", "diarization service endpoint")
	processCmd.Flags().IntVarP(&maxConcurrent, "max-concurrent", "j", defaults.MaxConcurrentEpisodes, "max episodes processed in parallel")
	processCmd.Flags().IntVar(&maxRetries, "max-retries", defaults.MaxRetries, "max attempts per episode")
	processCmd.Flags().IntVar(&rateLimit, "rate-limit", defaults.APIRateLimitPerMin, "engine requests per minute")

	processCmd.MarkFlagRequired("transcription-url")
	processCmd.MarkFlagRequired("diarization-url")

	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	episodes, err := loadEpisodes()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := api.NewClient(transcriptionURL, diarizationURL, os.Getenv("THERAPY_ESTHER_API_KEY"))

	opts := worker.Options{
		AudioDir:      audioDir,
		OutputDir:     outputDir,
		MaxConcurrent: maxConcurrent,
		MaxRetries:    maxRetries,
		RateLimitRPM:  rateLimit,
	}

	res := worker.RunBatch(ctx, client, client, episodes, opts)
	if len(res.Failed) > 0 {
		return fmt.Errorf("%d of %d episodes failed", len(res.Failed), len(episodes))
	}
	return nil
}

// loadEpisodes reads the episodes file and resolves each entry into a worker
// episode with its validated speaker profile.
func loadEpisodes() ([]worker.Episode, error) {
	cfg, err := config.LoadEpisodes(episodesFile)
	if err != nil {
		return nil, fmt.Errorf("load episodes: %w", err)
	}

	episodes := make([]worker.Episode, 0, len(cfg.Episodes))
	for i := range cfg.Episodes {
		ep := &cfg.Episodes[i]
		profile, err := ep.Profile()
		if err != nil {
			return nil, err
		}
		episodes = append(episodes, worker.Episode{
			Number:  ep.Number,
			Audio:   ep.Audio,
			Profile: profile,
		})
	}
	return episodes, nil
}
