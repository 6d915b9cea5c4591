package cmd

import (
	"fmt"
	"log/slog"

	"github.com/Monilnarang/Therapy-Esther/internal/config"
	"github.com/Monilnarang/Therapy-Esther/internal/worker"

	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert attributed transcripts into training conversations",
	Long: `Convert reads each configured episode's speaker-attributed transcript
(Ep.<n>_final.txt), groups utterances into therapist/client turns using the
episode's speaker profile, and writes sliding-window training conversations.`,
	Args: cobra.NoArgs,
	RunE: runConvert,
}

var (
	convertEpisodesFile string
	convertDir          string
	windowSize          int
	prefixPolicy        string
	joinPolicy          string
	outputFormat        string
)

func init() {
	defaults := config.Default()

	convertCmd.Flags().StringVarP(&convertEpisodesFile, "episodes", "e", "episodes.yaml", "episodes YAML file")
	convertCmd.Flags().StringVarP(&convertDir, "dir", "d", ".", "directory holding attributed transcripts")
	convertCmd.Flags().IntVarP(&windowSize, "window-size", "w", defaults.WindowSize, "dialogue exchanges per training conversation")
	convertCmd.Flags().StringVar(&prefixPolicy, "prefix-policy", string(defaults.Prefix), "client partner-identifier policy: always, on-change")
	convertCmd.Flags().StringVar(&joinPolicy, "join-policy", string(defaults.Join), "turn line separator: newline, space")
	convertCmd.Flags().StringVarP(&outputFormat, "format", "f", string(defaults.Format), "training artifact format: json, jsonl")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadEpisodes(convertEpisodesFile)
	if err != nil {
		return fmt.Errorf("load episodes: %w", err)
	}

	settings, err := convertSettings(cmd, cfg)
	if err != nil {
		return err
	}
	opts := worker.Options{OutputDir: convertDir, Settings: *settings}

	var converted, failed int
	for i := range cfg.Episodes {
		ep := &cfg.Episodes[i]
		profile, err := ep.Profile()
		if err != nil {
			return err
		}

		n, err := worker.ConvertEpisode(worker.Episode{Number: ep.Number, Profile: profile}, opts)
		if err != nil {
			slog.Error("episode conversion failed", "episode", ep.Number, "err", err)
			failed++
			continue
		}
		converted++
		slog.Info("episode converted", "episode", ep.Number, "records", n)
	}

	slog.Info("conversion complete", "converted", converted, "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d episodes failed", failed, len(cfg.Episodes))
	}
	return nil
}

// convertSettings resolves the conversion policies. The window size may come
// from the episodes file; an explicit flag wins over both it and the default.
func convertSettings(cmd *cobra.Command, cfg *config.Episodes) (*config.ConvertSettings, error) {
	prefix, err := config.ParsePrefixPolicy(prefixPolicy)
	if err != nil {
		return nil, err
	}
	join, err := config.ParseJoinPolicy(joinPolicy)
	if err != nil {
		return nil, err
	}
	format, err := config.ParseOutputFormat(outputFormat)
	if err != nil {
		return nil, err
	}

	ws := windowSize
	if cfg.WindowSize > 0 && !cmd.Flags().Changed("window-size") {
		ws = cfg.WindowSize
	}
	if ws < 1 {
		return nil, fmt.Errorf("window size must be positive, got %d", ws)
	}

	return &config.ConvertSettings{
		Prefix:     prefix,
		Join:       join,
		Format:     format,
		WindowSize: ws,
	}, nil
}
