package trainset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
)

// MergeResult summarizes a merge run.
type MergeResult struct {
	Files         int      // input files read
	Conversations int      // records written
	Missing       []string // inputs that did not exist
	BadLines      int      // lines skipped as invalid JSON
}

// Merge concatenates per-episode JSONL training files into a single output
// file. Missing inputs and invalid JSON lines are skipped with a warning
// rather than failing the merge, since episodes are produced independently
// and one bad file should not hold back the rest of the corpus.
func Merge(inputs []string, outputPath string) (*MergeResult, error) {
	out, err := os.Create(outputPath)
	if err != nil {
		return nil, err
	}
	w := bufio.NewWriter(out)

	res := &MergeResult{}
	for _, in := range inputs {
		if _, err := os.Stat(in); os.IsNotExist(err) {
			slog.Warn("input file not found, skipping", "file", filepath.Base(in))
			res.Missing = append(res.Missing, in)
			continue
		}

		n, bad, err := appendFile(w, in)
		if err != nil {
			out.Close()
			return nil, err
		}
		res.Files++
		res.Conversations += n
		res.BadLines += bad
		slog.Info("merged file", "file", filepath.Base(in), "conversations", n)
	}

	if err := w.Flush(); err != nil {
		out.Close()
		return nil, err
	}
	return res, out.Close()
}

func appendFile(w *bufio.Writer, path string) (written, bad int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	// Window records hold several full dialogue turns; give the scanner room.
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			slog.Warn("invalid JSON line, skipping", "file", filepath.Base(path), "line", lineNo)
			bad++
			continue
		}
		if _, err := w.Write(line); err != nil {
			return written, bad, err
		}
		if err := w.WriteByte('\n'); err != nil {
			return written, bad, err
		}
		written++
	}
	return written, bad, sc.Err()
}
