package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l, flush, err := New(&buf, "text", "warn")
	require.NoError(t, err)

	l.Info(context.Background(), "hidden")
	l.Warn(context.Background(), "shown", "status", 401)
	require.NoError(t, flush())

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "status=401")
}

func TestNew_JSONUsesZap(t *testing.T) {
	var buf bytes.Buffer
	l, flush, err := New(&buf, "json", "debug")
	require.NoError(t, err)
	require.IsType(t, &ZapLogger{}, l)

	l.With("component", "session").Debug(context.Background(), "restored", "user", "u1")
	require.NoError(t, flush())

	line := strings.TrimSpace(buf.String())
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "restored", entry["msg"])
	assert.Equal(t, "session", entry["component"])
	assert.Equal(t, "u1", entry["user"])
}

func TestNew_Errors(t *testing.T) {
	_, _, err := New(&bytes.Buffer{}, "xml", "info")
	require.Error(t, err)

	_, _, err = New(&bytes.Buffer{}, "text", "loud")
	require.Error(t, err)

	_, _, err = New(&bytes.Buffer{}, "json", "loud")
	require.Error(t, err)
}

func TestNew_JSONRedactsCredentials(t *testing.T) {
	var buf bytes.Buffer
	l, flush, err := New(&buf, "json", "info")
	require.NoError(t, err)

	l.Info(context.Background(), "login", "user", "admin", "password", "secret1")
	require.NoError(t, flush())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, Redacted, entry["password"])
	assert.NotContains(t, buf.String(), "secret1")
}
