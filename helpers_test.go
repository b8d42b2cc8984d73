package heif_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"github.com/vearutop/heif"
	"github.com/vearutop/heif/heiftest"
)

var exifBlock = []byte{0x00, 0x00, 0x00, 0x08, 0xDE, 0xAD, 0xBE, 0xEF}

func sampleImage() heiftest.Image {
	return heiftest.Image{
		Width:    4,
		Height:   3,
		BitDepth: 8,
		Metadata: []heiftest.Block{
			{Type: heif.MetadataTypeExif, Data: exifBlock},
		},
		ColorProfileType: heif.ColorProfileNCLX,
		NCLX: heif.NCLX{
			ColorPrimaries:          1,
			TransferCharacteristics: 13,
			MatrixCoefficients:      6,
			FullRange:               true,
		},
	}
}

// options wires the fake library and a silent logger.
func options(lib heif.Library) (func(o *heif.Options), *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	return func(o *heif.Options) {
		o.Library = lib
		o.Logger = logger
	}, hook
}

// assertClean fails if the library reports violations or unreleased resources.
func assertClean(t *testing.T, lib *heiftest.Library) {
	t.Helper()

	require.NoError(t, lib.Err())
	require.Zero(t, lib.Live(), "unreleased native resources")
}
