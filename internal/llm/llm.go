package llm

import "context"

type NarrationRequest struct {
	Title     string
	Style     string
	Duration  int
	KeyPoints []string
	Intro     string
	Outro     string
}

type Client interface {
	GenerateNarration(ctx context.Context, req NarrationRequest) (string, error)
	GenerateCaption(ctx context.Context, title, description string) (string, error)
}

// wordsPerSecond approximates a relaxed narration pace.
const wordsPerSecond = 2.5

// WordBudget converts a video duration in seconds into a narration length.
func WordBudget(duration int) int {
	words := int(float64(duration) * wordsPerSecond)
	return max(words, 20)
}
