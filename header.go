package heif

import (
	"image"
)

// Header holds image attributes read without decoding pixels.
type Header struct {
	Width        int
	Height       int
	HasAlpha     bool
	Mode         string
	BitDepth     int
	Metadata     []Metadata
	ColorProfile ColorProfile
}

// Size returns width and height as a point.
func (h *Header) Size() image.Point {
	return image.Pt(h.Width, h.Height)
}

func readHeader(lib Library, h HandleRef) (Header, error) {
	hdr := Header{
		Width:    lib.ImageHandleGetWidth(h),
		Height:   lib.ImageHandleGetHeight(h),
		HasAlpha: lib.ImageHandleHasAlphaChannel(h),
		BitDepth: lib.ImageHandleGetLumaBitsPerPixel(h),
		Mode:     ModeRGB,
	}

	if hdr.HasAlpha {
		hdr.Mode = ModeRGBA
	}

	var err error

	if hdr.Metadata, err = readMetadata(lib, h); err != nil {
		return Header{}, err
	}

	if hdr.ColorProfile, err = readColorProfile(lib, h); err != nil {
		return Header{}, err
	}

	return hdr, nil
}
