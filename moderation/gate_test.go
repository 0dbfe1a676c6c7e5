package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"roomhub/errors"
)

type stubClassifier struct {
	scores Scores
	err    error
}

func (s stubClassifier) Classify(context.Context, string) (Scores, error) {
	return s.scores, s.err
}

// TestGate_Review covers the conjunction policy: every category must
// pass the threshold, a single borderline one overrides all others.
func TestGate_Review(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	tests := []struct {
		name     string
		scores   Scores
		wantSafe bool
	}{
		{
			name:     "all categories well below threshold",
			scores:   Scores{"hate": 0.001, "violence": 0.002, "sexual": 0.0},
			wantSafe: true,
		},
		{
			name:     "single category above threshold flags everything",
			scores:   Scores{"hate": 0.0001, "violence": 0.9, "sexual": 0.0001},
			wantSafe: false,
		},
		{
			name:     "barely above threshold still flags",
			scores:   Scores{"harassment": 0.011},
			wantSafe: false,
		},
		{
			name:     "exactly at threshold passes",
			scores:   Scores{"harassment": 0.01},
			wantSafe: true,
		},
		{
			name:     "no categories returned",
			scores:   Scores{},
			wantSafe: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			gate := NewGate(stubClassifier{scores: tt.scores}, DefaultThreshold, log)

			verdict := gate.Review(context.Background(), "whatever")

			req.Equal(tt.wantSafe, verdict.Safe)
			req.NoError(verdict.Err)
		})
	}
}

func TestGate_FailsClosedOnClassifierError(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	gate := NewGate(stubClassifier{err: fmt.Errorf("connection refused")}, DefaultThreshold, log)

	verdict := gate.Review(context.Background(), "hello")

	req.False(verdict.Safe)
	req.Error(verdict.Err)
	req.ErrorIs(verdict.Err, errors.ErrClassifierUnavailable)
	req.ErrorIs(verdict.Err, errors.ErrExternalService)
}
