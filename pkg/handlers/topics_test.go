package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/supervisormatch/supervisormatch/pkg/models"
)

func TestTopicsHandler_List(t *testing.T) {
	svc := &mockTopicService{topics: []*models.Topic{
		{ID: 1, Label: "Human-Computer Interaction", Keywords: []string{"UX"}},
		{ID: 2, Label: "NLP", Keywords: []string{"Transformers"}},
	}}
	mux := newTestMux(t, NewTopicsHandler(svc, zap.NewNop()))

	rec := doRequest(mux, http.MethodGet, "/api/topics", "", "user_1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp TopicListResponse
	decodeData(t, rec, &resp)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, "NLP", resp.Topics[1].Label)
}

func TestTopicsHandler_List_Error(t *testing.T) {
	mux := newTestMux(t, NewTopicsHandler(&mockTopicService{err: errors.New("boom")}, zap.NewNop()))

	rec := doRequest(mux, http.MethodGet, "/api/topics", "", "user_1", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
