package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644))
	}
}

func TestListImages(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.png", "a.JPG", "c.jpeg", "d.bmp", "notes.txt", "e.gif")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0o755))

	files, err := ListImages(dir, -1)
	require.NoError(t, err)

	want := []string{
		filepath.Join(dir, "a.JPG"),
		filepath.Join(dir, "b.png"),
		filepath.Join(dir, "c.jpeg"),
		filepath.Join(dir, "d.bmp"),
	}
	assert.Equal(t, want, files)

	files, err = ListImages(dir, 2)
	require.NoError(t, err)
	assert.Equal(t, want[:2], files)

	files, err = ListImages(dir, 0)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestListImages_MissingFolder(t *testing.T) {
	files, err := ListImages(filepath.Join(t.TempDir(), "nope"), 10)
	require.NoError(t, err)
	assert.NotNil(t, files)
	assert.Empty(t, files)
}

func TestListImages_FileInsteadOfFolder(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.png")

	files, err := ListImages(filepath.Join(dir, "a.png"), 10)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestList_Include(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "car_1.png", "car_2.jpg", "truck_1.png", "bike.png")

	files, err := List(dir, ListOptions{Max: -1, Include: "{car,truck}_*"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "car_1.png"),
		filepath.Join(dir, "car_2.jpg"),
		filepath.Join(dir, "truck_1.png"),
	}, files)

	_, err = List(dir, ListOptions{Max: -1, Include: "[unclosed"})
	assert.Error(t, err)
}

func TestFindSubfolder(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "images", "deep", "cars"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "zoo", "cars"), 0o755))

	got, err := FindSubfolder(root, "cars")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "zoo", "cars"), got)

	require.NoError(t, os.Mkdir(filepath.Join(root, "cars"), 0o755))
	got, err = FindSubfolder(root, "cars")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "cars"), got)

	_, err = FindSubfolder(root, "boats")
	assert.Error(t, err)
}

func TestGenerate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	require.NoError(t, Generate(dir, 3, 16, 42))

	files, err := ListImages(dir, -1)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "generated_0000.png", filepath.Base(files[0]))
	assert.Equal(t, "generated_0002.png", filepath.Base(files[2]))

	again := filepath.Join(t.TempDir(), "again")
	require.NoError(t, Generate(again, 3, 16, 42))
	for i := 0; i < 3; i++ {
		a, err := os.ReadFile(filepath.Join(dir, FileName(i)))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(again, FileName(i)))
		require.NoError(t, err)
		assert.True(t, bytes.Equal(a, b), "image %d differs between runs", i)
	}

	first, _ := os.ReadFile(filepath.Join(dir, FileName(0)))
	second, _ := os.ReadFile(filepath.Join(dir, FileName(1)))
	assert.False(t, bytes.Equal(first, second), "images with different seeds should differ")
}

func TestNoise_Opaque(t *testing.T) {
	img := Noise(4, 7)
	for i := 3; i < len(img.Pix); i += 4 {
		assert.Equal(t, uint8(0xff), img.Pix[i])
	}
	assert.Equal(t, Noise(4, 7).Pix, img.Pix)
}
