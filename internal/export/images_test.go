package export

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/itingen/testutil"
)

func TestImageLoader_Formats(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	jpegData := testutil.EncodeJPEG(t, testutil.GradientImage(40, 20))
	jpegPath := testutil.WriteFile(t, dir, "a.jpg", jpegData)
	pngPath := testutil.WritePNG(t, dir, "b.png", testutil.GradientImage(30, 30))

	var gifBuf bytes.Buffer
	pal := image.NewPaletted(image.Rect(0, 0, 8, 4), color.Palette{color.Black, color.White})
	require.NoError(t, gif.Encode(&gifBuf, pal, nil))
	gifPath := testutil.WriteFile(t, dir, "c.gif", gifBuf.Bytes())

	loader, err := NewImageLoader(4)
	require.NoError(t, err)

	tests := []struct {
		name     string
		path     string
		wantType string
		wantW    int
		wantH    int
	}{
		{"jpeg kept as is", jpegPath, "JPG", 40, 20},
		{"png re-encoded", pngPath, "PNG", 30, 30},
		{"gif converted", gifPath, "PNG", 8, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := loader.Load(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, img.Type)
			assert.Equal(t, tt.wantW, img.Width)
			assert.Equal(t, tt.wantH, img.Height)
		})
	}

	img, err := loader.Load(jpegPath)
	require.NoError(t, err)
	assert.Equal(t, jpegData, img.Data)
}

func TestImageLoader_CachesUntilFileChanges(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := testutil.WritePNG(t, dir, "x.png", testutil.GradientImage(10, 10))
	loader, err := NewImageLoader(0)
	require.NoError(t, err)

	first, err := loader.Load(path)
	require.NoError(t, err)
	again, err := loader.Load(path)
	require.NoError(t, err)
	assert.Same(t, first, again)

	testutil.WritePNG(t, dir, "x.png", testutil.GradientImage(20, 10))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	changed, err := loader.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20, changed.Width)
	assert.Equal(t, 2, loader.Len())
}

func TestImageLoader_Errors(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	loader, err := NewImageLoader(2)
	require.NoError(t, err)

	_, err = loader.Load(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
	_, err = loader.Load(dir)
	assert.Error(t, err)
	_, err = loader.Load(testutil.WriteFile(t, dir, "bad.png", []byte("nope")))
	assert.Error(t, err)
	assert.Zero(t, loader.Len())
}
