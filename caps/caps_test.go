package caps

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	assert.True(t, Default().BooleanOps)
}

func TestApplyNeverDowngrades(t *testing.T) {
	c := Default()
	c.Apply(Capabilities{BooleanOps: false})
	assert.True(t, c.BooleanOps, "Apply must not downgrade an already-enabled capability")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "capabilities.yaml")

	want := Capabilities{BooleanOps: false}
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
