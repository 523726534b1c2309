package fileops

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestRenameFile(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "a.txt")
	target := filepath.Join(dir, "sub", "b.txt")
	writeFile(t, source, "hello")

	out, err := RenameFileTool().Execute(context.Background(), map[string]interface{}{
		"source_path": source,
		"target_path": target,
	})
	require.NoError(t, err)
	assert.Equal(t, target, out["target_path"])

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	_, err = os.Stat(source)
	assert.True(t, os.IsNotExist(err))
}

func TestRenameMissingSource(t *testing.T) {
	dir := t.TempDir()

	_, err := RenameFileTool().Execute(context.Background(), map[string]interface{}{
		"source_path": filepath.Join(dir, "nope.txt"),
		"target_path": filepath.Join(dir, "b.txt"),
	})
	assert.ErrorContains(t, err, "does not exist")
}

func TestRenameDirectoryRefused(t *testing.T) {
	dir := t.TempDir()

	_, err := RenameFileTool().Execute(context.Background(), map[string]interface{}{
		"source_path": dir,
		"target_path": filepath.Join(dir, "b.txt"),
	})
	assert.ErrorContains(t, err, "directory")
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "a.txt")
	destination := filepath.Join(dir, "copies", "a.txt")
	writeFile(t, source, "payload")

	out, err := CopyFileTool().Execute(context.Background(), map[string]interface{}{
		"source_path":      source,
		"destination_path": destination,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 7, out["bytes_written"])

	// Original stays in place.
	_, err = os.Stat(source)
	assert.NoError(t, err)

	data, err := os.ReadFile(destination)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestDeleteFile(t *testing.T) {
	dir := t.TempDir()
	victim := filepath.Join(dir, "victim.txt")
	writeFile(t, victim, "bye")

	desc := DeleteFileTool()
	assert.True(t, desc.RequiresConfirmation)

	_, err := desc.Execute(context.Background(), map[string]interface{}{
		"file_path": victim,
		"confirm":   true,
	})
	require.NoError(t, err)

	_, err = os.Stat(victim)
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteMissingFile(t *testing.T) {
	dir := t.TempDir()

	_, err := DeleteFileTool().Execute(context.Background(), map[string]interface{}{
		"file_path": filepath.Join(dir, "ghost.txt"),
		"confirm":   true,
	})
	assert.ErrorContains(t, err, "does not exist")
}
