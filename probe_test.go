package heif_test

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vearutop/heif"
	"github.com/vearutop/heif/heiftest"
)

func TestCheck(t *testing.T) {
	lib := heiftest.New(sampleImage())
	opt, _ := options(lib)

	for _, tc := range []struct {
		name string
		data []byte
		want heif.Filetype
	}{
		{name: "heic", data: heiftest.Container("heic"), want: heif.FiletypeYesSupported},
		{name: "avif", data: heiftest.Container("avif"), want: heif.FiletypeYesSupported},
		{name: "mif1", data: heiftest.Container("mif1"), want: heif.FiletypeMaybe},
		{name: "sequence", data: heiftest.Container("msf1"), want: heif.FiletypeYesUnsupported},
		{name: "jpeg", data: []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0x10, 'J', 'F', 'I', 'F', 0, 1}, want: heif.FiletypeNo},
		{name: "unknown brand", data: heiftest.Container("qt  "), want: heif.FiletypeNo},
		{name: "short", data: []byte{0, 0, 0}, want: heif.FiletypeMaybe},
		{name: "empty", data: nil, want: heif.FiletypeNo},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ft, err := heif.Check(tc.data, opt)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ft, ft.String())
			assert.Equal(t, tc.want != heif.FiletypeNo, heif.IsSupported(tc.data, opt))
		})
	}

	assertClean(t, lib)
}

func TestCheck_onlyMagicPrefix(t *testing.T) {
	lib := heiftest.New(sampleImage())
	opt, _ := options(lib)

	long := append(heiftest.Container("heic"), bytes.Repeat([]byte{0xFF}, 1024)...)

	ft, err := heif.Check(long, opt)
	require.NoError(t, err)
	assert.Equal(t, heif.FiletypeYesSupported, ft)

	// Modifying bytes past the prefix does not change the result.
	long[100] = 0
	ft2, err := heif.Check(long, opt)
	require.NoError(t, err)
	assert.Equal(t, ft, ft2)
}

func TestCheckReader(t *testing.T) {
	lib := heiftest.New(sampleImage())
	opt, _ := options(lib)

	r := bytes.NewReader(append(heiftest.Container("avif"), make([]byte, 100)...))

	ft, err := heif.CheckReader(r, opt)
	require.NoError(t, err)
	assert.Equal(t, heif.FiletypeYesSupported, ft)
	assert.Equal(t, 112, r.Len())

	ft, err = heif.CheckReader(bytes.NewReader(nil), opt)
	require.NoError(t, err)
	assert.Equal(t, heif.FiletypeNo, ft)
}

func TestOpenBytes_rejectsNonHEIF(t *testing.T) {
	lib := heiftest.New(sampleImage())
	opt, _ := options(lib)

	_, err := heif.OpenBytes([]byte("GIF89a......"), opt)
	require.ErrorIs(t, err, heif.ErrFormat)
	assert.Zero(t, lib.Count("context_alloc"))
	assertClean(t, lib)
}

func TestOpenBytes_warnsOnUnsupportedFiletype(t *testing.T) {
	lib := heiftest.New(sampleImage())
	opt, hook := options(lib)

	l, err := heif.OpenBytes(heiftest.Container("msf1"), opt)
	require.NoError(t, err)
	require.NoError(t, l.Close())

	var warned bool

	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warned = true

			assert.Equal(t, "unsupported", e.Data["filetype"])
		}
	}

	assert.True(t, warned)
	assertClean(t, lib)
}

func TestOpenBytes_maybeIsAccepted(t *testing.T) {
	lib := heiftest.New(sampleImage())
	opt, hook := options(lib)

	l, err := heif.OpenBytes(heiftest.Container("mif1"), opt)
	require.NoError(t, err)
	require.NoError(t, l.Close())

	for _, e := range hook.AllEntries() {
		assert.NotEqual(t, logrus.WarnLevel, e.Level)
	}
}
