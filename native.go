package heif

import (
	"github.com/vearutop/heif/libheif"
)

// DefaultLibrary returns the libheif shared library, loading it on first use.
func DefaultLibrary() (Library, error) {
	if err := libheif.Load(); err != nil {
		return nil, err
	}

	return nativeLibrary{}, nil
}

// nativeLibrary forwards to libheif.
type nativeLibrary struct{}

func status(e libheif.Error) Status {
	if e.Code == 0 {
		return Status{}
	}

	return Status{
		Code:    ErrorCode(e.Code),
		Subcode: ErrorSubcode(e.Subcode),
		Message: e.Text(),
	}
}

func (nativeLibrary) CheckFiletype(magic []byte) Filetype {
	return Filetype(libheif.CheckFiletype(magic))
}

func (nativeLibrary) ContextAlloc() ContextRef {
	return ContextRef(libheif.ContextAlloc())
}

func (nativeLibrary) ContextFree(ctx ContextRef) {
	libheif.ContextFree((*libheif.Context)(ctx))
}

func (nativeLibrary) ContextReadFromMemoryWithoutCopy(ctx ContextRef, data []byte) Status {
	return status(libheif.ContextReadFromMemoryWithoutCopy((*libheif.Context)(ctx), data))
}

func (nativeLibrary) ContextGetPrimaryImageHandle(ctx ContextRef) (HandleRef, Status) {
	h, err := libheif.ContextGetPrimaryImageHandle((*libheif.Context)(ctx))

	return HandleRef(h), status(err)
}

func (nativeLibrary) ImageHandleRelease(h HandleRef) {
	libheif.ImageHandleRelease((*libheif.ImageHandle)(h))
}

func (nativeLibrary) ImageHandleGetWidth(h HandleRef) int {
	return libheif.ImageHandleGetWidth((*libheif.ImageHandle)(h))
}

func (nativeLibrary) ImageHandleGetHeight(h HandleRef) int {
	return libheif.ImageHandleGetHeight((*libheif.ImageHandle)(h))
}

func (nativeLibrary) ImageHandleHasAlphaChannel(h HandleRef) bool {
	return libheif.ImageHandleHasAlphaChannel((*libheif.ImageHandle)(h))
}

func (nativeLibrary) ImageHandleGetLumaBitsPerPixel(h HandleRef) int {
	return libheif.ImageHandleGetLumaBitsPerPixel((*libheif.ImageHandle)(h))
}

func (nativeLibrary) ImageHandleGetMetadataBlockIDs(h HandleRef) []ItemID {
	ids := libheif.ImageHandleGetMetadataBlockIDs((*libheif.ImageHandle)(h))
	if len(ids) == 0 {
		return nil
	}

	result := make([]ItemID, len(ids))
	for i, id := range ids {
		result[i] = ItemID(id)
	}

	return result
}

func (nativeLibrary) ImageHandleGetMetadataType(h HandleRef, id ItemID) string {
	return libheif.ImageHandleGetMetadataType((*libheif.ImageHandle)(h), uint32(id))
}

func (nativeLibrary) ImageHandleGetMetadataContentType(h HandleRef, id ItemID) string {
	return libheif.ImageHandleGetMetadataContentType((*libheif.ImageHandle)(h), uint32(id))
}

func (nativeLibrary) ImageHandleGetMetadataSize(h HandleRef, id ItemID) int {
	return libheif.ImageHandleGetMetadataSize((*libheif.ImageHandle)(h), uint32(id))
}

func (nativeLibrary) ImageHandleGetMetadata(h HandleRef, id ItemID, dst []byte) Status {
	return status(libheif.ImageHandleGetMetadata((*libheif.ImageHandle)(h), uint32(id), dst))
}

func (nativeLibrary) ImageHandleGetColorProfileType(h HandleRef) ColorProfileType {
	return ColorProfileType(libheif.ImageHandleGetColorProfileType((*libheif.ImageHandle)(h)))
}

func (nativeLibrary) ImageHandleGetNCLXColorProfile(h HandleRef) (NCLXRef, Status) {
	p, err := libheif.ImageHandleGetNCLXColorProfile((*libheif.ImageHandle)(h))

	return NCLXRef(p), status(err)
}

func (nativeLibrary) NCLXColorProfile(p NCLXRef) NCLX {
	nclx := (*libheif.ColorProfileNCLX)(p)

	return NCLX{
		ColorPrimaries:          int(nclx.ColorPrimaries),
		TransferCharacteristics: int(nclx.TransferCharacteristics),
		MatrixCoefficients:      int(nclx.MatrixCoefficients),
		FullRange:               nclx.FullRangeFlag != 0,
	}
}

func (nativeLibrary) NCLXColorProfileFree(p NCLXRef) {
	libheif.NCLXColorProfileFree((*libheif.ColorProfileNCLX)(p))
}

func (nativeLibrary) ImageHandleGetRawColorProfileSize(h HandleRef) int {
	return libheif.ImageHandleGetRawColorProfileSize((*libheif.ImageHandle)(h))
}

func (nativeLibrary) ImageHandleGetRawColorProfile(h HandleRef, dst []byte) Status {
	return status(libheif.ImageHandleGetRawColorProfile((*libheif.ImageHandle)(h), dst))
}

func (nativeLibrary) DecodingOptionsAlloc() OptionsRef {
	return OptionsRef(libheif.DecodingOptionsAlloc())
}

func (nativeLibrary) DecodingOptionsSet(o OptionsRef, ignoreTransformations, convertHDRTo8Bit bool) {
	opts := (*libheif.DecodingOptions)(o)
	opts.IgnoreTransformations = boolByte(ignoreTransformations)
	opts.ConvertHdrTo8bit = boolByte(convertHDRTo8Bit)
}

func (nativeLibrary) DecodingOptionsFree(o OptionsRef) {
	libheif.DecodingOptionsFree((*libheif.DecodingOptions)(o))
}

func (nativeLibrary) DecodeImage(h HandleRef, colorspace Colorspace, chroma Chroma, o OptionsRef) (ImageRef, Status) {
	img, err := libheif.DecodeImage((*libheif.ImageHandle)(h), int(colorspace), int(chroma), (*libheif.DecodingOptions)(o))

	return ImageRef(img), status(err)
}

func (nativeLibrary) ImageGetWidth(img ImageRef, channel Channel) int {
	return libheif.ImageGetWidth((*libheif.Image)(img), int(channel))
}

func (nativeLibrary) ImageGetHeight(img ImageRef, channel Channel) int {
	return libheif.ImageGetHeight((*libheif.Image)(img), int(channel))
}

func (nativeLibrary) ImageGetPlaneReadonly(img ImageRef, channel Channel) (*byte, int) {
	return libheif.ImageGetPlaneReadonly((*libheif.Image)(img), int(channel))
}

func (nativeLibrary) ImageRelease(img ImageRef) {
	libheif.ImageRelease((*libheif.Image)(img))
}

func boolByte(v bool) uint8 {
	if v {
		return 1
	}

	return 0
}
