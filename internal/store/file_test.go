package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movecalc/internal/model"
)

func TestFile_Contract(t *testing.T) {
	runContract(t, func(t *testing.T) Store {
		return NewFile(filepath.Join(t.TempDir(), "configs.json"))
	})
}

func TestFile_MissingFileIsEmpty(t *testing.T) {
	s := NewFile(filepath.Join(t.TempDir(), "nested", "configs.json"))
	list, err := s.List(context.Background(), "local")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFile_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "configs.json")
	ctx := context.Background()

	id, err := NewFile(path).Save(ctx, "local", "kept", model.DefaultInputs())
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)

	got, err := NewFile(path).Get(ctx, "local", id)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultInputs(), got)
}

func TestFile_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFile(path).List(context.Background(), "local")
	assert.Error(t, err)
}
