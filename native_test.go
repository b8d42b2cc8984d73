package heif_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vearutop/heif"
	"github.com/vearutop/heif/libheif"
)

func requireLibheif(t *testing.T) {
	t.Helper()

	if _, err := heif.DefaultLibrary(); errors.Is(err, libheif.ErrUnavailable) {
		t.Skipf("libheif not installed: %v", err)
	} else {
		require.NoError(t, err)
	}
}

func TestReadFile_libheif(t *testing.T) {
	requireLibheif(t)

	for _, tc := range []struct {
		file    string
		profile heif.ColorProfileType
	}{
		{file: "image.heic", profile: heif.ColorProfileNotPresent},
		{file: "image.avif", profile: heif.ColorProfileNCLX},
	} {
		t.Run(tc.file, func(t *testing.T) {
			fn := filepath.Join("testdata", tc.file)

			data, err := os.ReadFile(fn)
			require.NoError(t, err)

			ft, err := heif.Check(data)
			require.NoError(t, err)
			assert.NotEqual(t, heif.FiletypeNo, ft)

			f, err := heif.ReadBytes(data)
			require.NoError(t, err)

			defer f.Close()

			assert.Equal(t, 64, f.Width)
			assert.Equal(t, 48, f.Height)
			assert.Equal(t, 8, f.BitDepth)
			assert.Equal(t, heif.ModeRGB, f.Mode)
			assert.Equal(t, heif.ChromaInterleavedRGB, f.Chroma)
			assert.GreaterOrEqual(t, f.Stride, 64*3)
			assert.Equal(t, f.Height*f.Stride, f.Pixels.Len())

			require.Len(t, f.Metadata, 1)
			assert.Equal(t, heif.MetadataTypeExif, f.Metadata[0].Type)
			assert.Equal(t, tiffOrientation, f.Metadata[0].Data)

			x, err := f.Exif()
			require.NoError(t, err)

			tag, err := x.Get(exif.Orientation)
			require.NoError(t, err)

			orientation, err := tag.Int(0)
			require.NoError(t, err)
			assert.Equal(t, 6, orientation)

			assert.Equal(t, tc.profile, f.ColorProfile.Type)

			// Pixel (10, 10) was encoded as (40, 50, 128).
			px := f.Pixels.Bytes()[10*f.Stride+10*3:]
			assert.InDelta(t, 40, int(px[0]), 16)
			assert.InDelta(t, 50, int(px[1]), 16)
			assert.InDelta(t, 128, int(px[2]), 16)
		})
	}
}

func TestOpenBytes_libheifError(t *testing.T) {
	requireLibheif(t)

	data, err := os.ReadFile(filepath.Join("testdata", "image.heic"))
	require.NoError(t, err)

	_, err = heif.OpenBytes(data[:48])
	require.Error(t, err)

	var herr *heif.Error
	require.ErrorAs(t, err, &herr)
	assert.NotEqual(t, heif.ErrorOK, herr.Code)
	assert.NotEmpty(t, herr.Message)
}
