// Package transcript reads and writes the two line-oriented transcript
// formats persisted between pipeline stages: the timestamped transcription
// cache ("[MM:SS.mmm --> MM:SS.mmm]  text") and the speaker-attributed
// transcript ("Speaker 7: text").
package transcript

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Monilnarang/Therapy-Esther/internal/pipeline"
)

// ParseTimestamp converts "MM:SS.mmm" or "HH:MM:SS.mmm" to seconds.
func ParseTimestamp(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")

	switch len(parts) {
	case 2:
		minutes, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, fmt.Errorf("bad timestamp %q: %w", s, err)
		}
		seconds, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return 0, fmt.Errorf("bad timestamp %q: %w", s, err)
		}
		return float64(minutes)*60 + seconds, nil
	case 3:
		hours, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, fmt.Errorf("bad timestamp %q: %w", s, err)
		}
		minutes, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, fmt.Errorf("bad timestamp %q: %w", s, err)
		}
		seconds, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return 0, fmt.Errorf("bad timestamp %q: %w", s, err)
		}
		return float64(hours)*3600 + float64(minutes)*60 + seconds, nil
	}
	return 0, fmt.Errorf("bad timestamp %q", s)
}

// FormatTimestamp renders seconds as "MM:SS.mmm", adding the hours field only
// for timestamps of an hour or more.
func FormatTimestamp(seconds float64) string {
	hours := int(seconds / 3600)
	minutes := int(math.Mod(seconds, 3600) / 60)
	secs := math.Mod(seconds, 60)
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%06.3f", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%06.3f", minutes, secs)
}

// ParseSegments reads a transcription cache. Lines not shaped
// "[start --> end]  text" are ignored.
func ParseSegments(r io.Reader) ([]pipeline.TranscriptSegment, error) {
	var segments []pipeline.TranscriptSegment

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "[") || !strings.Contains(line, "-->") {
			continue
		}

		closing := strings.Index(line, "]")
		if closing < 0 {
			continue
		}

		window := line[1:closing]
		text := strings.TrimSpace(line[closing+1:])

		startStr, endStr, ok := strings.Cut(window, " --> ")
		if !ok {
			continue
		}
		start, err := ParseTimestamp(startStr)
		if err != nil {
			return nil, err
		}
		end, err := ParseTimestamp(endStr)
		if err != nil {
			return nil, err
		}

		segments = append(segments, pipeline.TranscriptSegment{Start: start, End: end, Text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return segments, nil
}

// WriteSegments persists transcript segments in the cache layout.
func WriteSegments(w io.Writer, segments []pipeline.TranscriptSegment) error {
	bw := bufio.NewWriter(w)
	for _, s := range segments {
		_, err := fmt.Fprintf(bw, "[%s --> %s]  %s\n",
			FormatTimestamp(s.Start), FormatTimestamp(s.End), strings.TrimSpace(s.Text))
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// FormatAttributedLine renders one attributed utterance as a transcript line.
func FormatAttributedLine(u pipeline.AttributedUtterance) string {
	return u.Speaker + ": " + u.Text
}

var speakerLine = regexp.MustCompile(`^(Speaker \d+):\s*(.*)$`)

// ParseAttributed reads a speaker-attributed transcript. A "Speaker N:" line
// opens a new utterance; any other line is folded into the open one, so
// multi-line utterances survive the round trip. Utterances whose text is
// empty after trimming are dropped.
func ParseAttributed(r io.Reader) ([]pipeline.AttributedUtterance, error) {
	var utts []pipeline.AttributedUtterance
	var cur *pipeline.AttributedUtterance

	flush := func() {
		if cur == nil {
			return
		}
		cur.Text = strings.TrimSpace(cur.Text)
		if cur.Text != "" {
			utts = append(utts, *cur)
		}
		cur = nil
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if m := speakerLine.FindStringSubmatch(line); m != nil {
			flush()
			cur = &pipeline.AttributedUtterance{Speaker: m[1], Text: m[2]}
			continue
		}
		if cur != nil {
			cur.Text += "\n" + line
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()

	return utts, nil
}
