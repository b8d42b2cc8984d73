package heif

import (
	"fmt"
	"image"

	"github.com/nfnt/resize"
)

// File is a decoded image.
//
// Pixels are owned by the native decoder until Close. Width and Height are those of the
// decoded image, they differ from the container when transformations are not applied.
type File struct {
	Header

	// Chroma is the interleaved layout of Pixels.
	Chroma Chroma
	// Pixels holds Height rows of Stride bytes.
	Pixels *Plane
	Stride int
}

// Close releases the reference to Pixels held by the file.
func (f *File) Close() error {
	f.Pixels.Release()

	return nil
}

// Image copies pixels into an *image.NRGBA, or an *image.NRGBA64 for 16-bit layouts.
func (f *File) Image() (image.Image, error) {
	pix := f.Pixels.Bytes()
	if pix == nil {
		return nil, ErrClosed
	}

	rect := image.Rect(0, 0, f.Width, f.Height)

	switch f.Chroma {
	case ChromaInterleavedRGBA:
		img := image.NewNRGBA(rect)
		for y := 0; y < f.Height; y++ {
			copy(img.Pix[y*img.Stride:(y+1)*img.Stride], pix[y*f.Stride:])
		}

		return img, nil
	case ChromaInterleavedRGB:
		img := image.NewNRGBA(rect)
		for y := 0; y < f.Height; y++ {
			src := pix[y*f.Stride:]
			dst := img.Pix[y*img.Stride:]
			for x := 0; x < f.Width; x++ {
				copy(dst[x*4:x*4+3], src[x*3:x*3+3])
				dst[x*4+3] = 0xff
			}
		}

		return img, nil
	case ChromaInterleavedRRGGBBAABE:
		// Both layouts store big-endian 16-bit samples.
		img := image.NewNRGBA64(rect)
		for y := 0; y < f.Height; y++ {
			copy(img.Pix[y*img.Stride:(y+1)*img.Stride], pix[y*f.Stride:])
		}

		return img, nil
	case ChromaInterleavedRRGGBBBE:
		img := image.NewNRGBA64(rect)
		for y := 0; y < f.Height; y++ {
			src := pix[y*f.Stride:]
			dst := img.Pix[y*img.Stride:]
			for x := 0; x < f.Width; x++ {
				copy(dst[x*8:x*8+6], src[x*6:x*6+6])
				dst[x*8+6] = 0xff
				dst[x*8+7] = 0xff
			}
		}

		return img, nil
	default:
		return nil, fmt.Errorf("heif: unsupported chroma %s", f.Chroma)
	}
}

// Thumbnail scales the image down to fit into maxWidth x maxHeight, preserving aspect ratio.
func (f *File) Thumbnail(maxWidth, maxHeight uint) (image.Image, error) {
	img, err := f.Image()
	if err != nil {
		return nil, err
	}

	return resize.Thumbnail(maxWidth, maxHeight, img, resize.Lanczos3), nil
}
