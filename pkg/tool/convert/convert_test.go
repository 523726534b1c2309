package convert

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := imaging.New(16, 16, color.NRGBA{R: 10, G: 120, B: 240, A: 255})
	require.NoError(t, imaging.Save(img, path))
}

func TestImageFormatConverterDefaultsOutputPath(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "icon.png")
	writePNG(t, source)

	out, err := ImageFormatConverterTool().Execute(context.Background(), map[string]interface{}{
		"source_path":   source,
		"output_format": "jpg",
	})
	require.NoError(t, err)

	expected := filepath.Join(dir, "icon.jpg")
	assert.Equal(t, expected, out["output_path"])
	assert.Equal(t, "jpg", out["format"])

	converted, err := imaging.Open(expected)
	require.NoError(t, err)
	assert.Equal(t, 16, converted.Bounds().Dx())
}

func TestImageFormatConverterExplicitOutput(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "icon.png")
	output := filepath.Join(dir, "out", "icon.bmp")
	writePNG(t, source)

	out, err := ImageFormatConverterTool().Execute(context.Background(), map[string]interface{}{
		"source_path":   source,
		"output_format": "bmp",
		"output_path":   output,
	})
	require.NoError(t, err)
	assert.Equal(t, output, out["output_path"])

	_, err = os.Stat(output)
	assert.NoError(t, err)
}

func TestImageFormatConverterRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "icon.png")
	writePNG(t, source)

	_, err := ImageFormatConverterTool().Execute(context.Background(), map[string]interface{}{
		"source_path":   source,
		"output_format": "webp",
	})
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestConverterResolvesDefaultTarget(t *testing.T) {
	resolve := ImageFormatConverterTool().ResolveTargetPath
	require.NotNil(t, resolve)

	assert.Equal(t, "/data/icon.jpg", resolve(map[string]interface{}{
		"source_path":   "/data/icon.png",
		"output_format": "jpg",
	}))
	assert.Empty(t, resolve(map[string]interface{}{
		"source_path":   "/data/icon.png",
		"output_format": "webp",
	}), "unknown formats resolve to nothing; the body reports the error")

	resolve = FileToDocumentTool().ResolveTargetPath
	require.NotNil(t, resolve)
	assert.Equal(t, "/data/notes.md", resolve(map[string]interface{}{
		"source_path": "/data/notes.txt",
	}))
}

func TestFileToDocumentFromText(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(source, []byte("line one\nline two\n"), 0644))

	out, err := FileToDocumentTool().Execute(context.Background(), map[string]interface{}{
		"source_path": source,
	})
	require.NoError(t, err)

	expected := filepath.Join(dir, "notes.md")
	assert.Equal(t, expected, out["output_path"])

	data, err := os.ReadFile(expected)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# notes.txt")
	assert.Contains(t, string(data), "line one")
	assert.NotContains(t, out, "pages")
}

func TestFileToDocumentRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "binary.exe")
	require.NoError(t, os.WriteFile(source, []byte{0x4d, 0x5a}, 0644))

	_, err := FileToDocumentTool().Execute(context.Background(), map[string]interface{}{
		"source_path": source,
	})
	assert.ErrorContains(t, err, "unsupported source format")
}
