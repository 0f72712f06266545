package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfigFile(t *testing.T) {

	content := `
confluence:
  baseURL: https://wiki.example.com
  username: operator
renderer:
  colorScheme: light
timeoutSeconds: 30
substitutions:
  - name: WORK
    value: /tmp/work
`

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := ReadConfigFile(path)
	require.NoError(t, err)

	require.NotNil(t, config.Confluence)
	assert.Equal(t, "https://wiki.example.com", config.Confluence.BaseURL)
	assert.Equal(t, "operator", config.Confluence.Username)

	require.NotNil(t, config.Renderer)
	assert.Equal(t, "light", config.Renderer.ColorScheme)

	assert.Equal(t, 30, config.TimeoutSeconds)

	require.Len(t, config.Substitutions, 1)
	assert.Equal(t, Substitution{Name: "WORK", Value: "/tmp/work"}, config.Substitutions[0])
}

func TestReadConfigFileMissing(t *testing.T) {
	_, err := ReadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestReadConfigFileInvalidYAML(t *testing.T) {

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("confluence: [unclosed"), 0644))

	_, err := ReadConfigFile(path)
	assert.Error(t, err)
}
