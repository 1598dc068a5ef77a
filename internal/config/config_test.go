package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_MatchesDocumentedBudgets(t *testing.T) {
	d := Default()
	assert.EqualValues(t, 240000, d.RequestTimeoutMs)
	assert.EqualValues(t, 120000, d.ModelTimeoutMs)
	assert.EqualValues(t, 90000, d.ProviderCallTimeoutMs)
	assert.EqualValues(t, 45000, d.JustifierTimeoutMs)
	assert.Equal(t, 0.5, d.MinSuccessfulModelsFraction)
	assert.True(t, d.AllowPartialResults)
	assert.EqualValues(t, 16000, d.ReasoningModelMaxOutputTokens)
	assert.EqualValues(t, 20*1024*1024, d.MaxAttachmentBytes)
}

func TestWithDefaults_LeavesExplicitFieldsAlone(t *testing.T) {
	c := Config{RequestTimeoutMs: 10000}
	filled := WithDefaults(c)
	assert.EqualValues(t, 10000, filled.RequestTimeoutMs)
	assert.EqualValues(t, Default().ModelTimeoutMs, filled.ModelTimeoutMs)
}

func TestDurationAccessors_FallBackWhenUnset(t *testing.T) {
	c := Config{}
	assert.Equal(t, 240000*time.Millisecond, c.RequestTimeout())
	assert.Equal(t, 120000*time.Millisecond, c.ModelTimeout())
	assert.Equal(t, 90000*time.Millisecond, c.ProviderCallTimeout())
	assert.Equal(t, 45000*time.Millisecond, c.JustifierTimeout())
}

func TestLoad_EmptyPathReturnsDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoad_ReadsYAMLAndFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("requestTimeoutMs: 60000\nminSuccessfulModelsFraction: 0.75\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.EqualValues(t, 60000, c.RequestTimeoutMs)
	assert.Equal(t, 0.75, c.MinSuccessfulModelsFraction)
	assert.EqualValues(t, Default().ModelTimeoutMs, c.ModelTimeoutMs)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
