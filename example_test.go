package heif_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vearutop/heif"
	"github.com/vearutop/heif/heiftest"
)

func ExampleOpenBytes() {
	lib := heiftest.New(sampleImage())

	l, err := heif.OpenBytes(heiftest.Container("heic"), heif.WithLibrary(lib))
	if err != nil {
		return
	}

	fmt.Println(l.Width, l.Height, l.Mode, l.ColorProfile.Type)

	f, err := l.Materialize()
	if err != nil {
		_ = l.Close()

		return
	}
	defer f.Close()

	fmt.Println(f.Chroma, f.Stride, f.Pixels.Len())

	// Output:
	// 4 3 RGB nclx
	// RGB 12 36
}

func ExampleCheck() {
	lib := heiftest.New(sampleImage())

	ft, err := heif.Check(heiftest.Container("avif"), heif.WithLibrary(lib))
	if err != nil {
		return
	}

	fmt.Println(ft)

	// Output:
	// supported
}

func ExampleReadFile() {
	f, err := heif.ReadFile(filepath.FromSlash("testdata/image.heic"))
	if err != nil {
		return
	}
	defer f.Close()

	img, err := f.Thumbnail(320, 240)
	if err != nil {
		return
	}

	_ = img
}

func ExampleLazyImage_Exif() {
	data, err := os.ReadFile(filepath.FromSlash("testdata/image.heic"))
	if err != nil {
		return
	}

	l, err := heif.OpenBytes(data)
	if err != nil {
		return
	}
	defer l.Close()

	x, err := l.Exif()
	if err != nil {
		return
	}

	_, _ = x.DateTime()
}
