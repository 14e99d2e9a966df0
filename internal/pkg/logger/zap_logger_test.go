package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"english-tutor-be/pkg/tutor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ tutor.Logger = (*ZapLogger)(nil)

func TestIsolatedLoggerWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ws.log")
	l := NewIsolatedLogger(path)

	l.Info("PracticeSocket", "Frame received", map[string]interface{}{"type": "message"})
	l.Error("PracticeSocket", "Frame failed", map[string]interface{}{"error": "boom"})
	l.Debug("PracticeSocket", "No details", nil)
	_ = l.Sync()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		lines = append(lines, entry)
	}
	require.Len(t, lines, 3)

	assert.Equal(t, "INFO", lines[0]["level"])
	assert.Equal(t, "PracticeSocket", lines[0]["module"])
	assert.Equal(t, "Frame received", lines[0]["message"])
	assert.Equal(t, "boom", lines[1]["error_ref"])
	assert.Equal(t, map[string]interface{}{}, lines[2]["details"])
}
