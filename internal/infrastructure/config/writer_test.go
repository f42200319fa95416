package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteConfigOrdered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	require.NoError(t, WriteConfigOrdered(DefaultConfig(), path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var sections []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			sections = append(sections, line)
		}
	}
	assert.Equal(t, []string{"[database]", "[logging]", "[popups]", "[preview]"}, sections)
}

func TestSortTOMLSections(t *testing.T) {
	input := `[preview]
script = ''

[logging]
level = 'info'
`
	want := `[logging]
level = 'info'

[preview]
script = ''
`
	assert.Equal(t, want, sortTOMLSections(input))
}

func TestWriteTOML_NilConfig(t *testing.T) {
	var sb strings.Builder
	require.Error(t, WriteTOML(&sb, nil))
	assert.Empty(t, sb.String())
}

func TestJSONSchema(t *testing.T) {
	data, err := JSONSchema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "popframe configuration", doc["title"])
	assert.Contains(t, string(data), "trigger_delay_ms")
	assert.Contains(t, string(data), "frame_max_width")
}
