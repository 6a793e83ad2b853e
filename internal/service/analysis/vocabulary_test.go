package analysis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVocabulary(t *testing.T) {
	v := NewVocabulary([]string{" Docker ", "PAINT", "", "kubectl"})

	assert.Equal(t, []string{"paint", "pyautogui", "win32gui", "pydantic", "docker", "kubectl"}, v.Terms())
	assert.Equal(t, "paint", v.First("docker and paint"))
	assert.Equal(t, "", v.First("nothing here"))
	assert.True(t, v.Shared("kubectl apply fails", "which kubectl version"))
	assert.False(t, v.Shared("got an error", "another error"), "error is not a tool")
}

func TestLoadVocabulary(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "vocab.yaml")
	require.NoError(t, os.WriteFile(good, []byte("tools:\n  - Docker\n  - paint\n"), 0o600))

	v, err := LoadVocabulary(good)
	require.NoError(t, err)
	assert.Contains(t, v.Terms(), "docker")
	assert.Len(t, v.Terms(), len(defaultTools)+1)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("tools: [unclosed"), 0o600))
	_, err = LoadVocabulary(bad)
	assert.Error(t, err)

	_, err = LoadVocabulary(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	v, err = LoadVocabulary("")
	require.NoError(t, err)
	assert.Equal(t, DefaultVocabulary().Terms(), v.Terms())
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hi, paint fails", "paint fails"},
		{"Hey! regarding the demo", "the demo"},
		{"I'm kindly asking", "asking"},
		{"history of paint", "history of paint"},
		{"hello", ""},
		{"  please   send it ", "send it"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, summarize(tt.in))
		})
	}
}
