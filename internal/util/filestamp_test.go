package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStampFileChangesWithContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"app_name":"Editor","duration":60}`+"\n"), 0644))

	first, err := StampFile(path)
	require.NoError(t, err)
	again, err := StampFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	require.NoError(t, os.WriteFile(path, []byte(`{"app_name":"Shell","duration":60}`+"\n"), 0644))
	second, err := StampFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, first.TailCRC, second.TailCRC)
}

func TestStampFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	stamp, err := StampFile(path)
	require.NoError(t, err)
	assert.Zero(t, stamp.Size)
	assert.Zero(t, stamp.TailCRC)
	assert.NotEmpty(t, stamp.String())
}

func TestStampFileMissing(t *testing.T) {
	_, err := StampFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
