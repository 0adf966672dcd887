package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogActionFields(t *testing.T) {
	var buf bytes.Buffer
	al := NewLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	ctx := WithRequestID(context.Background(), "req-1")
	al.LogAction(ctx, Entry{UserID: "1", Role: "clinician", Action: "delete", Resource: "tasks", ResourceID: "3", Status: "initiated"})

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "audit", rec["msg"])
	assert.Equal(t, "audit", rec["component"])
	assert.Equal(t, "delete", rec["action"])
	assert.Equal(t, "tasks", rec["resource"])
	assert.Equal(t, "3", rec["resource_id"])
	assert.Equal(t, "clinician", rec["role"])
	assert.Equal(t, "req-1", rec["request_id"])
}

func TestRequestIDAbsent(t *testing.T) {
	assert.Equal(t, "", RequestID(context.Background()))
}
