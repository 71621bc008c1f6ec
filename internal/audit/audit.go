package audit

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/Open-AIP/OpenAIP-sub005/internal/model"
)

// Emitter records workflow events for the audit trail. Emission is
// best-effort: callers surface a warning on failure but never roll back
// the action that was being recorded.
type Emitter interface {
	Record(ctx context.Context, action, entityTable, entityID string, scope model.ScopeRef, metadata map[string]any) error
}

// LogEmitter writes one JSON object per event to the configured writer.
type LogEmitter struct {
	enc *json.Encoder
}

// NewLogEmitter creates an emitter writing to stdout.
func NewLogEmitter() *LogEmitter {
	return NewLogEmitterWithWriter(os.Stdout)
}

// NewLogEmitterWithWriter creates an emitter writing to w.
func NewLogEmitterWithWriter(w io.Writer) *LogEmitter {
	return &LogEmitter{enc: json.NewEncoder(w)}
}

var _ Emitter = (*LogEmitter)(nil)

func (e *LogEmitter) Record(ctx context.Context, action, entityTable, entityID string, scope model.ScopeRef, metadata map[string]any) error {
	event := map[string]any{
		"id":           uuid.New().String(),
		"ts":           time.Now().UTC().Format(time.RFC3339Nano),
		"action":       action,
		"entity_table": entityTable,
		"entity_id":    entityID,
	}
	if !scope.IsZero() {
		event["scope_kind"] = scope.Kind
		event["scope_id"] = scope.ID
	}
	if len(metadata) > 0 {
		event["metadata"] = metadata
	}
	return e.enc.Encode(event)
}
