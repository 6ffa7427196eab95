package news

import (
	"strings"

	"cryptocast/internal/app/model"
)

var (
	positiveMarkers = []string{"surge", "gain", "rally", "bullish", "soar", "high"}
	negativeMarkers = []string{"crash", "drop", "fall", "bearish", "plunge", "low"}
)

// DeriveSentiment classifies a headline by substring markers. Positive
// markers win when both groups match.
func DeriveSentiment(title string) model.Sentiment {
	lower := strings.ToLower(title)
	if containsAny(lower, positiveMarkers) {
		return model.SentimentPositive
	}
	if containsAny(lower, negativeMarkers) {
		return model.SentimentNegative
	}
	return model.SentimentNeutral
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
