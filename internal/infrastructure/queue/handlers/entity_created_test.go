package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"cms-backend/internal/infrastructure/queue"
	"cms-backend/internal/pipeline"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func task(t *testing.T, event pipeline.Event) *asynq.Task {
	t.Helper()
	task, err := queue.NewEntityCreatedTask(event)
	require.NoError(t, err)
	return task
}

func TestProcessTask_PostsToWebhook(t *testing.T) {
	var got slackMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	slug := "7-jane-doe"
	err := NewEntityCreatedHandler(srv.URL).ProcessTask(context.Background(),
		task(t, pipeline.Event{Kind: pipeline.KindCandidate, ID: 7, Slug: &slug}))

	require.NoError(t, err)
	assert.Equal(t, "New entry in candidates: #7 (7-jane-doe)", got.Text)
}

func TestProcessTask_WebhookFailureRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewEntityCreatedHandler(srv.URL).ProcessTask(context.Background(),
		task(t, pipeline.Event{Kind: pipeline.KindMember, ID: 1}))

	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestProcessTask_WithoutWebhookOnlyLogs(t *testing.T) {
	err := NewEntityCreatedHandler("").ProcessTask(context.Background(),
		task(t, pipeline.Event{Kind: pipeline.KindArticle, ID: 3}))
	assert.NoError(t, err)
}

func TestProcessTask_BadPayloadSkipsRetry(t *testing.T) {
	err := NewEntityCreatedHandler("").ProcessTask(context.Background(),
		asynq.NewTask("entity:created", []byte("{not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "New entry in articles: #2 (unpublished)",
		Describe(pipeline.Event{Kind: pipeline.KindArticle, ID: 2}))
}
