package heif

import (
	"fmt"
	"unsafe"

	"github.com/vearutop/heif/libheif"
)

// Opaque references to resources owned by the native library.
type (
	ContextRef unsafe.Pointer
	HandleRef  unsafe.Pointer
	ImageRef   unsafe.Pointer
	OptionsRef unsafe.Pointer
	NCLXRef    unsafe.Pointer
)

// ItemID identifies an item, e.g. a metadata block, inside a container.
type ItemID uint32

// Filetype is the result of a magic prefix check.
type Filetype int

const (
	FiletypeNo             Filetype = libheif.FiletypeNo
	FiletypeYesSupported   Filetype = libheif.FiletypeYesSupported
	FiletypeYesUnsupported Filetype = libheif.FiletypeYesUnsupported
	FiletypeMaybe          Filetype = libheif.FiletypeMaybe
)

func (f Filetype) String() string {
	switch f {
	case FiletypeNo:
		return "no"
	case FiletypeYesSupported:
		return "supported"
	case FiletypeYesUnsupported:
		return "unsupported"
	case FiletypeMaybe:
		return "maybe"
	default:
		return fmt.Sprintf("filetype(%d)", int(f))
	}
}

// Colorspace of a decoded image.
type Colorspace int

const (
	ColorspaceYCbCr      Colorspace = libheif.ColorspaceYCbCr
	ColorspaceRGB        Colorspace = libheif.ColorspaceRGB
	ColorspaceMonochrome Colorspace = libheif.ColorspaceMonochrome
	ColorspaceUndefined  Colorspace = libheif.ColorspaceUndefined
)

// Chroma is the channel layout requested from the decoder.
type Chroma int

const (
	ChromaInterleavedRGB        Chroma = libheif.ChromaInterleavedRGB
	ChromaInterleavedRGBA       Chroma = libheif.ChromaInterleavedRGBA
	ChromaInterleavedRRGGBBBE   Chroma = libheif.ChromaInterleavedRRGGBBBE
	ChromaInterleavedRRGGBBAABE Chroma = libheif.ChromaInterleavedRRGGBBAABE
	ChromaUndefined             Chroma = libheif.ChromaUndefined
)

// BytesPerPixel returns the interleaved pixel size, or 0 for planar layouts.
func (c Chroma) BytesPerPixel() int {
	switch c {
	case ChromaInterleavedRGB:
		return 3
	case ChromaInterleavedRGBA:
		return 4
	case ChromaInterleavedRRGGBBBE:
		return 6
	case ChromaInterleavedRRGGBBAABE:
		return 8
	default:
		return 0
	}
}

func (c Chroma) String() string {
	switch c {
	case ChromaInterleavedRGB:
		return "RGB"
	case ChromaInterleavedRGBA:
		return "RGBA"
	case ChromaInterleavedRRGGBBBE:
		return "RRGGBB_BE"
	case ChromaInterleavedRRGGBBAABE:
		return "RRGGBBAA_BE"
	default:
		return fmt.Sprintf("chroma(%d)", int(c))
	}
}

// Channel selects an image plane.
type Channel int

const ChannelInterleaved Channel = libheif.ChannelInterleaved

// ColorProfileType is the four character code of a color profile.
type ColorProfileType uint32

const (
	ColorProfileNotPresent ColorProfileType = libheif.ColorProfileTypeNotPresent
	ColorProfileNCLX       ColorProfileType = libheif.ColorProfileTypeNCLX
	ColorProfileRICC       ColorProfileType = libheif.ColorProfileTypeRICC
	ColorProfileProf       ColorProfileType = libheif.ColorProfileTypeProf
)

func (t ColorProfileType) String() string {
	if t == ColorProfileNotPresent {
		return ""
	}

	return string([]byte{byte(t >> 24), byte(t >> 16), byte(t >> 8), byte(t)})
}

// ColorGamut identifies a color gamut.
type ColorGamut int

const (
	GamutUnspecified ColorGamut = iota
	GamutBT709
	GamutDisplayP3
	GamutAdobeRGB
	GamutBT2100
)

// ColorTransfer identifies a transfer function.
type ColorTransfer int

const (
	TransferUnspecified ColorTransfer = iota
	TransferSRGB
	TransferGamma22
	TransferLinear
	TransferPQ
	TransferHLG
)
