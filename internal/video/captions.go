package video

import (
	"fmt"
	"strings"
)

const defaultWordsPerCue = 6

type CaptionCue struct {
	Text      string
	StartTime float64
	EndTime   float64
}

// BuildCaptions spreads narration words evenly over duration seconds,
// grouping wordsPerCue words per cue.
func BuildCaptions(text string, duration float64, wordsPerCue int) []CaptionCue {
	words := strings.Fields(text)
	if len(words) == 0 || duration <= 0 {
		return nil
	}
	if wordsPerCue <= 0 {
		wordsPerCue = defaultWordsPerCue
	}

	timePerWord := duration / float64(len(words))
	cues := make([]CaptionCue, 0, (len(words)+wordsPerCue-1)/wordsPerCue)
	for i := 0; i < len(words); i += wordsPerCue {
		end := min(i+wordsPerCue, len(words))
		cues = append(cues, CaptionCue{
			Text:      strings.Join(words[i:end], " "),
			StartTime: float64(i) * timePerWord,
			EndTime:   float64(end) * timePerWord,
		})
	}
	return cues
}

// CaptionAt returns the cue text active at t, or "" outside the timeline.
func CaptionAt(cues []CaptionCue, t float64) string {
	last := len(cues) - 1
	for i, c := range cues {
		if t >= c.StartTime && (t < c.EndTime || (i == last && t <= c.EndTime)) {
			return c.Text
		}
	}
	return ""
}

func ToSRT(cues []CaptionCue) string {
	var sb strings.Builder
	for i, c := range cues {
		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n\n", i+1, formatSRTTime(c.StartTime), formatSRTTime(c.EndTime), c.Text)
	}
	return sb.String()
}

func formatSRTTime(seconds float64) string {
	ms := int(seconds*1000 + 0.5)
	hours := ms / 3600000
	minutes := (ms % 3600000) / 60000
	secs := (ms % 60000) / 1000
	millis := ms % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}
