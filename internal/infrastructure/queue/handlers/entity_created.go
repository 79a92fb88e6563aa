package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cms-backend/internal/pipeline"
	"cms-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

// EntityCreatedHandler announces new entities on a Slack incoming webhook.
// Without a webhook it only logs.
type EntityCreatedHandler struct {
	webhookURL string
	httpClient *http.Client
}

func NewEntityCreatedHandler(webhookURL string) *EntityCreatedHandler {
	return &EntityCreatedHandler{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type slackMessage struct {
	Text string `json:"text"`
}

func (h *EntityCreatedHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var event pipeline.Event
	if err := json.Unmarshal(t.Payload(), &event); err != nil {
		return fmt.Errorf("decode %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}

	text := Describe(event)
	if h.webhookURL == "" {
		logger.Info("Entity created", map[string]interface{}{
			"kind": event.Kind,
			"id":   event.ID,
			"text": text,
		})
		return nil
	}

	body, err := json.Marshal(slackMessage{Text: text})
	if err != nil {
		return fmt.Errorf("encode slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %v: %w", err, asynq.SkipRetry)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		logger.Error("Slack notification failed", err)
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		err := fmt.Errorf("webhook responded %d", resp.StatusCode)
		logger.Error("Slack notification rejected", err)
		return err
	}
	return nil
}

// Describe renders the human-readable announcement for event.
func Describe(event pipeline.Event) string {
	if event.Slug != nil {
		return fmt.Sprintf("New entry in %s: #%d (%s)", event.Kind, event.ID, *event.Slug)
	}
	return fmt.Sprintf("New entry in %s: #%d (unpublished)", event.Kind, event.ID)
}
