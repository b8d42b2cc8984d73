package heif_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vearutop/heif"
	"github.com/vearutop/heif/heiftest"
)

func TestOpenBytes_endToEnd(t *testing.T) {
	lib := heiftest.New(sampleImage())
	opt, _ := options(lib)

	l, err := heif.OpenBytes(heiftest.Container("heic"), opt)
	require.NoError(t, err)

	assert.Equal(t, 4, l.Width)
	assert.Equal(t, 3, l.Height)
	assert.False(t, l.HasAlpha)
	assert.Equal(t, heif.ModeRGB, l.Mode)
	assert.Equal(t, 8, l.BitDepth)
	require.Len(t, l.Metadata, 1)
	assert.Equal(t, heif.MetadataTypeExif, l.Metadata[0].Type)
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, l.Metadata[0].Data)
	assert.Equal(t, heif.ColorProfileNCLX, l.ColorProfile.Type)
	assert.Equal(t, &heif.NCLX{
		ColorPrimaries:          1,
		TransferCharacteristics: 13,
		MatrixCoefficients:      6,
		FullRange:               true,
	}, l.ColorProfile.NCLX)
	assert.Nil(t, l.ColorProfile.ICC)

	// No pixels are decoded on open.
	assert.Zero(t, lib.Count("decode_image"))
	assert.False(t, l.Decoded())

	f, err := l.Materialize()
	require.NoError(t, err)
	assert.True(t, l.Decoded())

	assert.Equal(t, heif.ChromaInterleavedRGB, f.Chroma)
	assert.Equal(t, 12, f.Stride)
	assert.Equal(t, f.Height*f.Stride, f.Pixels.Len())
	assert.Equal(t, []byte{0, 1, 2}, f.Pixels.Bytes()[:3])
	assert.Equal(t, l.Metadata, f.Metadata)

	// The container is gone, only the decoded image remains.
	assert.Zero(t, lib.LiveOf("context"))
	assert.Zero(t, lib.LiveOf("handle"))
	assert.Equal(t, 1, lib.LiveOf("image"))

	require.NoError(t, f.Close())
	assertClean(t, lib)
}

func TestLazyImage_Materialize_once(t *testing.T) {
	lib := heiftest.New(sampleImage())
	opt, _ := options(lib)

	l, err := heif.OpenBytes(heiftest.Container("heic"), opt)
	require.NoError(t, err)

	f1, err := l.Materialize()
	require.NoError(t, err)

	f2, err := l.Materialize()
	require.NoError(t, err)

	assert.Same(t, f1, f2)
	assert.Equal(t, 1, lib.Count("decode_image"))

	// Close after materialize leaves pixels intact.
	require.NoError(t, l.Close())
	assert.NotNil(t, f1.Pixels.Bytes())

	require.NoError(t, f1.Close())
	assertClean(t, lib)
}

func TestLazyImage_Close(t *testing.T) {
	lib := heiftest.New(sampleImage())
	opt, _ := options(lib)

	l, err := heif.OpenBytes(heiftest.Container("heic"), opt)
	require.NoError(t, err)

	require.NoError(t, l.Close())
	require.NoError(t, l.Close())
	assertClean(t, lib)

	_, err = l.Materialize()
	require.ErrorIs(t, err, heif.ErrClosed)
	assert.Zero(t, lib.Count("decode_image"))
	assert.Equal(t, 1, lib.Count("context_free"))
	assert.Equal(t, 1, lib.Count("image_handle_release"))
}

func TestLazyImage_Materialize_decodeFailure(t *testing.T) {
	img := sampleImage()
	img.DecodeStatus = heif.Status{
		Code:    heif.ErrorDecoderPlugin,
		Subcode: heif.SuberrorUnsupportedCodec,
		Message: "no decoder",
	}

	lib := heiftest.New(img)
	opt, _ := options(lib)

	l, err := heif.OpenBytes(heiftest.Container("heic"), opt)
	require.NoError(t, err)

	_, err = l.Materialize()
	require.Error(t, err)

	var herr *heif.Error
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, heif.ErrorDecoderPlugin, herr.Code)
	assert.Equal(t, heif.SuberrorUnsupportedCodec, herr.Subcode)
	assert.Contains(t, err.Error(), "no decoder")

	assert.False(t, l.Decoded())
	assert.Zero(t, lib.LiveOf("options"))
	assert.Equal(t, 1, lib.LiveOf("context"))

	require.NoError(t, l.Close())
	assertClean(t, lib)
}

func TestReadBytes_failureReleasesEverything(t *testing.T) {
	img := sampleImage()
	img.DecodeStatus = heif.Status{Code: heif.ErrorInvalidInput, Message: "broken"}

	lib := heiftest.New(img)
	opt, _ := options(lib)

	_, err := heif.ReadBytes(heiftest.Container("heic"), opt)
	require.Error(t, err)
	assertClean(t, lib)
}

func TestOpenBytes_readFailure(t *testing.T) {
	img := sampleImage()
	img.ReadStatus = heif.Status{Code: heif.ErrorInvalidInput, Subcode: heif.SuberrorNoFtypBox, Message: "no ftyp box"}

	lib := heiftest.New(img)
	opt, _ := options(lib)

	_, err := heif.OpenBytes(heiftest.Container("heic"), opt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read from memory")
	assert.Zero(t, lib.Count("get_primary_image_handle"))
	assertClean(t, lib)
}

func TestOpenBytes_primaryHandleFailure(t *testing.T) {
	img := sampleImage()
	img.HandleStatus = heif.Status{Code: heif.ErrorInvalidInput, Subcode: heif.SuberrorNonexistingItemReferenced}

	lib := heiftest.New(img)
	opt, _ := options(lib)

	_, err := heif.OpenBytes(heiftest.Container("heic"), opt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "primary image handle")
	assertClean(t, lib)
}

func TestOpenBytes_releaseOrder(t *testing.T) {
	lib := heiftest.New(sampleImage())
	opt, _ := options(lib)

	f, err := heif.ReadBytes(heiftest.Container("heic"), opt)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	calls := lib.Calls()
	handleAt, contextAt, imageAt := -1, -1, -1

	for i, c := range calls {
		switch c {
		case "image_handle_release":
			handleAt = i
		case "context_free":
			contextAt = i
		case "image_release":
			imageAt = i
		}
	}

	require.NotEqual(t, -1, handleAt)
	assert.Less(t, handleAt, contextAt)
	assert.Less(t, contextAt, imageAt)
	assertClean(t, lib)
}

func TestOpenBytes_inputNotModified(t *testing.T) {
	lib := heiftest.New(sampleImage())
	opt, _ := options(lib)

	data := heiftest.Container("heic")
	orig := bytes.Clone(data)

	f, err := heif.ReadBytes(data, opt)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.Equal(t, orig, data)
	assertClean(t, lib)
}

func TestOpenReader(t *testing.T) {
	lib := heiftest.New(sampleImage())
	opt, _ := options(lib)

	buf := bytes.NewBuffer(heiftest.Container("heic"))

	l, err := heif.OpenReader(buf, opt)
	require.NoError(t, err)

	// Mutating the source buffer does not affect the open image.
	buf.Reset()
	buf.WriteString("garbage garbage garbage")

	f, err := l.Materialize()
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assertClean(t, lib)
}

func TestReadFile(t *testing.T) {
	lib := heiftest.New(sampleImage())
	opt, _ := options(lib)

	fn := filepath.Join(t.TempDir(), "image.heic")
	require.NoError(t, os.WriteFile(fn, heiftest.Container("heic"), 0o600))

	f, err := heif.ReadFile(fn, opt)
	require.NoError(t, err)
	assert.Equal(t, 4, f.Width)
	require.NoError(t, f.Close())

	_, err = heif.ReadFile(filepath.Join(t.TempDir(), "missing.heic"), opt)
	require.ErrorIs(t, err, os.ErrNotExist)

	assertClean(t, lib)
}

func TestOpenBytes_transformationsNotApplied(t *testing.T) {
	img := sampleImage()
	img.DecodedWidth = 3
	img.DecodedHeight = 4

	lib := heiftest.New(img)
	opt, _ := options(lib)

	f, err := heif.ReadBytes(heiftest.Container("heic"), opt, func(o *heif.Options) {
		o.ApplyTransformations = false
	})
	require.NoError(t, err)

	defer f.Close()

	assert.Equal(t, 3, f.Width)
	assert.Equal(t, 4, f.Height)
	assert.Equal(t, 9, f.Stride)
	assert.Equal(t, 36, f.Pixels.Len())

	d := lib.Decodes()
	require.Len(t, d, 1)
	assert.True(t, d[0].IgnoreTransformations)
}
