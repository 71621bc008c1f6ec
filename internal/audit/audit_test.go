package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Open-AIP/OpenAIP-sub005/internal/model"
)

func TestLogEmitter_Record(t *testing.T) {
	var buf bytes.Buffer
	e := NewLogEmitterWithWriter(&buf)

	err := e.Record(context.Background(), "aip_published", "aips", "aip-1",
		model.ScopeRef{Kind: model.ScopeCity, ID: "city-1"},
		map[string]any{"reviewer_id": "user-9"})

	assert.NoError(t, err)

	var event map[string]any
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.Equal(t, "aip_published", event["action"])
	assert.Equal(t, "aips", event["entity_table"])
	assert.Equal(t, "aip-1", event["entity_id"])
	assert.Equal(t, "city", event["scope_kind"])
	assert.NotEmpty(t, event["id"])
	assert.NotEmpty(t, event["ts"])

	meta, ok := event["metadata"].(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "user-9", meta["reviewer_id"])
}

func TestLogEmitter_Record_NoScope(t *testing.T) {
	var buf bytes.Buffer
	e := NewLogEmitterWithWriter(&buf)

	err := e.Record(context.Background(), "feedback_removed", "feedback", "fb-1", model.ScopeRef{}, nil)

	assert.NoError(t, err)

	var event map[string]any
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	_, hasScope := event["scope_kind"]
	assert.False(t, hasScope)
	_, hasMeta := event["metadata"]
	assert.False(t, hasMeta)
}
