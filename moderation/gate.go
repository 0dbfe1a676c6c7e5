// Package moderation decides message visibility at creation time.
package moderation

import (
	"context"
	"fmt"
	"log/slog"

	"roomhub/errors"
)

// DefaultThreshold is deliberately strict: a single category scoring
// above it flags the whole message.
const DefaultThreshold = 0.01

// Verdict is the gate's decision. When classification itself failed,
// Safe is false (fail-closed) and Err carries the wrapped cause for the
// caller to log or surface.
type Verdict struct {
	Safe   bool
	Scores Scores
	Err    error
}

// Gate converts classifier scores into a visibility verdict. It is
// stateless: a pure function of the content and the classifier's
// current response.
type Gate struct {
	classifier Classifier
	threshold  float64
	log        *slog.Logger
}

func NewGate(classifier Classifier, threshold float64, log *slog.Logger) Gate {
	return Gate{classifier: classifier, threshold: threshold, log: log}
}

// Review scores the content and applies the conjunction policy: the
// message is safe only if EVERY category passes the threshold. A
// classifier failure or timeout never defaults to safe; the message is
// flagged pending manual approval.
func (g Gate) Review(ctx context.Context, content string) Verdict {
	scores, err := g.classifier.Classify(ctx, content)
	if err != nil {
		g.log.Warn("classification failed, failing closed", "error", err)
		return Verdict{
			Safe: false,
			Err:  fmt.Errorf("%w: %v", errors.ErrClassifierUnavailable, err),
		}
	}

	for category, score := range scores {
		if score > g.threshold {
			g.log.Debug("content flagged", "category", category, "score", score)
			return Verdict{Safe: false, Scores: scores}
		}
	}
	return Verdict{Safe: true, Scores: scores}
}
