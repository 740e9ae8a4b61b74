package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExporterWriteCycle(t *testing.T) {
	r, _ := newTestRoom(t, 3)
	r.cycleLog = []string{"\"dog\" by B fooled C (+500)", "Game over! Winner: B"}

	path := filepath.Join(t.TempDir(), "results", "out.txt")
	e := &Exporter{Path: path}
	require.NoError(t, e.WriteCycle(r))
	require.NoError(t, e.WriteCycle(r)) // appends

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "Room 42")
	assert.Contains(t, content, "Players: A, B, C")
	assert.Contains(t, content, "Game over! Winner: B")
	assert.Equal(t, 2, strings.Count(content, "Room 42"), "second write must append")
}
