package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSONLines(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter("info", &buf)
	require.NoError(t, err)

	l.WithValues(ComponentKey, "test").Info("hello", "n", 3)
	l.V(1).Info("hidden at info level")
	require.NoError(t, l.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "hello", entry[MessageKey])
	assert.Equal(t, "test", entry[ComponentKey])
	assert.EqualValues(t, 3, entry["n"])
	assert.Contains(t, entry, TimeStampKey)
}

func TestNewWithWriter_DebugEnablesV1(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter("debug", &buf)
	require.NoError(t, err)

	l.V(1).Info("visible")
	require.NoError(t, l.Close())
	assert.Contains(t, buf.String(), "visible")
}

func TestNewWithWriter_BadLevel(t *testing.T) {
	_, err := NewWithWriter("loud", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestNew_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	for _, msg := range []string{"first", "second"} {
		l, err := New("info", path)
		require.NoError(t, err)
		l.Info(msg)
		require.NoError(t, l.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first")
	assert.Contains(t, string(data), "second")
}

func TestContext(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter("info", &buf)
	require.NoError(t, err)

	ctx := WithLogger(context.Background(), l.Logger)
	FromContext(ctx).Info("from context")
	FromContext(context.Background()).Info("discarded")
	require.NoError(t, l.Close())

	assert.Contains(t, buf.String(), "from context")
	assert.NotContains(t, buf.String(), "discarded")
}
