package heif

import (
	"errors"
	"fmt"
	"unsafe"
)

// selectChroma picks the interleaved layout for the decoder.
func selectChroma(convertHDRTo8Bit bool, bitDepth int, hasAlpha bool) Chroma {
	if convertHDRTo8Bit || bitDepth <= 8 {
		if hasAlpha {
			return ChromaInterleavedRGBA
		}

		return ChromaInterleavedRGB
	}

	if hasAlpha {
		return ChromaInterleavedRRGGBBAABE
	}

	return ChromaInterleavedRRGGBBBE
}

type decoded struct {
	plane  *Plane
	chroma Chroma
	width  int
	height int
}

// decodePlane decodes the handle to interleaved RGB and binds the result to a Plane.
// On success the Plane is the only owner of the native image.
func decodePlane(lib Library, o Options, h HandleRef, hasAlpha bool, bitDepth int) (*decoded, error) {
	chroma := selectChroma(o.ConvertHDRTo8Bit, bitDepth, hasAlpha)

	opts := newGuard(lib.DecodingOptionsAlloc(), lib.DecodingOptionsFree)
	defer opts.Close()

	if opts.Get() == nil {
		return nil, errors.New("heif: could not allocate decoding options")
	}

	lib.DecodingOptionsSet(opts.Get(), !o.ApplyTransformations, o.ConvertHDRTo8Bit)

	ref, st := lib.DecodeImage(h, ColorspaceRGB, chroma, opts.Get())
	img := newGuard(ref, lib.ImageRelease)
	defer img.Close()

	if err := st.Err(); err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	if ref == nil {
		return nil, errors.New("heif: decoder returned no image")
	}

	width := lib.ImageGetWidth(ref, ChannelInterleaved)
	height := lib.ImageGetHeight(ref, ChannelInterleaved)

	p, stride := lib.ImageGetPlaneReadonly(ref, ChannelInterleaved)
	if p == nil || width <= 0 || height <= 0 {
		return nil, ErrNoPlane
	}

	if stride < width*chroma.BytesPerPixel() {
		return nil, fmt.Errorf("heif: stride %d too small for %d pixels of %s", stride, width, chroma)
	}

	data := unsafe.Slice(p, height*stride)

	return &decoded{
		plane:  newPlane(lib, o.Logger, img.Detach(), data, stride),
		chroma: chroma,
		width:  width,
		height: height,
	}, nil
}
