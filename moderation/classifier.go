//go:generate go run go.uber.org/mock/mockgen -source=classifier.go -destination=../mocks/mock_classifier.go -package=mocks
package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Scores maps a moderation category to its score in [0,1].
type Scores map[string]float64

// Classifier scores message text against content-policy categories.
// Implementations must honor ctx cancellation: the gate relies on it
// to bound send-path latency.
type Classifier interface {
	Classify(ctx context.Context, content string) (Scores, error)
}

// RESTClassifier calls an OpenAI-compatible moderation endpoint
// (POST {baseURL}/v1/moderations).
type RESTClassifier struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	timeout    time.Duration
}

func NewRESTClassifier(baseURL, apiKey, model string, timeout time.Duration) *RESTClassifier {
	return &RESTClassifier{
		httpClient: &http.Client{},
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		timeout:    timeout,
	}
}

type moderationRequest struct {
	Input string `json:"input"`
	Model string `json:"model"`
}

type moderationResponse struct {
	Results []struct {
		CategoryScores Scores `json:"category_scores"`
	} `json:"results"`
}

// Classify posts the content and returns the first result's category
// scores. The call carries its own deadline, independent of whatever
// budget the surrounding operation has.
func (c *RESTClassifier) Classify(ctx context.Context, content string) (Scores, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(moderationRequest{Input: content, Model: c.model})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/moderations", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("moderation endpoint returned %d", resp.StatusCode)
	}

	var parsed moderationResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	if len(parsed.Results) == 0 {
		return nil, fmt.Errorf("moderation endpoint returned no results")
	}
	return parsed.Results[0].CategoryScores, nil
}
