package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/Monilnarang/Therapy-Esther/internal/trainset"

	"github.com/spf13/cobra"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <episode>...",
	Short: "Merge per-episode training files into one corpus",
	Long: `Merge concatenates the JSONL training files of the given episode numbers
into a single training corpus. Missing episodes and malformed lines are
skipped with a warning.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMerge,
}

var (
	mergeDir    string
	mergeOutput string
)

func init() {
	mergeCmd.Flags().StringVarP(&mergeDir, "dir", "d", ".", "directory holding per-episode training files")
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "train.jsonl", "merged corpus path")

	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	inputs := make([]string, 0, len(args))
	for _, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("bad episode number %q", arg)
		}
		inputs = append(inputs, filepath.Join(mergeDir, fmt.Sprintf("Ep.%d_final.jsonl", n)))
	}

	res, err := trainset.Merge(inputs, mergeOutput)
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}

	slog.Info("merge complete",
		"output", mergeOutput,
		"files", res.Files,
		"conversations", res.Conversations,
		"missing", len(res.Missing),
		"bad_lines", res.BadLines)

	if res.Conversations == 0 {
		return fmt.Errorf("no conversations merged, check the input files")
	}
	return nil
}
