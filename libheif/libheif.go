// Package libheif binds the native libheif shared library at runtime.
//
// Symbols are resolved with purego, so the package builds without cgo. Call Load before
// any other function; on platforms without dynamic loading support Load returns ErrUnavailable.
// Pointer types returned here reference memory owned by libheif and must be released with
// the matching *Free or *Release function.
package libheif

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"
)

// ErrUnavailable is returned by Load when libheif cannot be loaded.
var ErrUnavailable = errors.New("libheif: library unavailable")

// EnvLibraryPath names an environment variable with an explicit path to the shared library.
const EnvLibraryPath = "HEIF_LIBRARY_PATH"

// Filetype check results, enum heif_filetype_result.
const (
	FiletypeNo             = 0
	FiletypeYesSupported   = 1
	FiletypeYesUnsupported = 2
	FiletypeMaybe          = 3
)

// Colorspaces, enum heif_colorspace.
const (
	ColorspaceYCbCr      = 0
	ColorspaceRGB        = 1
	ColorspaceMonochrome = 2
	ColorspaceUndefined  = 99
)

// Chroma formats, enum heif_chroma.
const (
	ChromaMonochrome            = 0
	Chroma420                   = 1
	Chroma422                   = 2
	Chroma444                   = 3
	ChromaInterleavedRGB        = 10
	ChromaInterleavedRGBA       = 11
	ChromaInterleavedRRGGBBBE   = 12
	ChromaInterleavedRRGGBBAABE = 13
	ChromaInterleavedRRGGBBLE   = 14
	ChromaInterleavedRRGGBBAALE = 15
	ChromaUndefined             = 99
)

// Channels, enum heif_channel.
const (
	ChannelY           = 0
	ChannelCb          = 1
	ChannelCr          = 2
	ChannelR           = 3
	ChannelG           = 4
	ChannelB           = 5
	ChannelAlpha       = 6
	ChannelInterleaved = 10
)

// Color profile types, enum heif_color_profile_type.
const (
	ColorProfileTypeNotPresent = 0
	ColorProfileTypeNCLX       = 'n'<<24 | 'c'<<16 | 'l'<<8 | 'x'
	ColorProfileTypeRICC       = 'r'<<24 | 'I'<<16 | 'C'<<8 | 'C'
	ColorProfileTypeProf       = 'p'<<24 | 'r'<<16 | 'o'<<8 | 'f'
)

// Context is struct heif_context.
type Context struct{}

// ImageHandle is struct heif_image_handle.
type ImageHandle struct{}

// Image is struct heif_image.
type Image struct{}

// Error holds the code and subcode of struct heif_error.
type Error struct {
	Code    int32
	Subcode int32
}

// errorFromReturn rebuilds heif_error from the first return register: on amd64 and arm64
// it carries code in the low and subcode in the high 32 bits. The message pointer travels
// in the second register and is not available.
func errorFromReturn(ret uintptr) Error {
	return Error{
		Code:    int32(uint32(ret)),
		Subcode: int32(uint32(uint64(ret) >> 32)),
	}
}

var errorTexts = [...]string{
	"Success",
	"Input does not exist",
	"Invalid input",
	"Unsupported file-type",
	"Unsupported feature",
	"Usage error",
	"Memory allocation error",
	"Decoder plugin generated an error",
	"Encoder plugin generated an error",
	"Error during encoding or writing output",
	"Color profile does not exist",
}

// Text describes the error code.
func (e Error) Text() string {
	if e.Code >= 0 && int(e.Code) < len(errorTexts) {
		return errorTexts[e.Code]
	}

	return "Unknown error"
}

// DecodingOptions mirrors the version-stable prefix of struct heif_decoding_options.
// Instances are allocated by libheif and must never be created in Go.
type DecodingOptions struct {
	Version               uint8
	IgnoreTransformations uint8
	StartProgress         uintptr
	OnProgress            uintptr
	EndProgress           uintptr
	ProgressUserData      uintptr
	ConvertHdrTo8bit      uint8
	StrictDecoding        uint8
}

// ColorProfileNCLX mirrors struct heif_color_profile_nclx.
type ColorProfileNCLX struct {
	Version                 uint8
	ColorPrimaries          int32
	TransferCharacteristics int32
	MatrixCoefficients      int32
	FullRangeFlag           uint8
	RedX, RedY              float32
	GreenX, GreenY          float32
	BlueX, BlueY            float32
	WhitePointX             float32
	WhitePointY             float32
}

var (
	loadOnce sync.Once
	loadErr  error
)

// Load resolves the shared library and its symbols once per process.
func Load() error {
	loadOnce.Do(func() {
		loadErr = load()
	})

	return loadErr
}

func libraryNames() []string {
	var names []string

	if p := os.Getenv(EnvLibraryPath); p != "" {
		names = append(names, p)
	}

	switch runtime.GOOS {
	case "darwin":
		names = append(names, "libheif.1.dylib", "libheif.dylib")
		if prefix := os.Getenv("HOMEBREW_PREFIX"); prefix != "" {
			names = append(names, filepath.Join(prefix, "lib", "libheif.1.dylib"))
		}
		names = append(names, "/opt/homebrew/lib/libheif.1.dylib", "/usr/local/lib/libheif.1.dylib")
	default:
		names = append(names, "libheif.so.1", "libheif.so")
	}

	return names
}

var (
	_heifGetVersion                          func() *byte
	_heifCheckFiletype                       func(*byte, int32) int32
	_heifContextAlloc                        func() *Context
	_heifContextFree                         func(*Context)
	_heifContextReadFromMemoryWithoutCopy    func(*Context, unsafe.Pointer, uint64, unsafe.Pointer) uintptr
	_heifContextGetPrimaryImageHandle        func(*Context, **ImageHandle) uintptr
	_heifImageHandleRelease                  func(*ImageHandle)
	_heifImageHandleGetWidth                 func(*ImageHandle) int32
	_heifImageHandleGetHeight                func(*ImageHandle) int32
	_heifImageHandleHasAlphaChannel          func(*ImageHandle) int32
	_heifImageHandleGetLumaBitsPerPixel      func(*ImageHandle) int32
	_heifImageHandleGetNumberOfMetadataBlks  func(*ImageHandle, *byte) int32
	_heifImageHandleGetListOfMetadataBlkIDs  func(*ImageHandle, *byte, *uint32, int32) int32
	_heifImageHandleGetMetadataType          func(*ImageHandle, uint32) *byte
	_heifImageHandleGetMetadataContentType   func(*ImageHandle, uint32) *byte
	_heifImageHandleGetMetadataSize          func(*ImageHandle, uint32) uint64
	_heifImageHandleGetMetadata              func(*ImageHandle, uint32, unsafe.Pointer) uintptr
	_heifImageHandleGetColorProfileType      func(*ImageHandle) uint32
	_heifImageHandleGetNCLXColorProfile      func(*ImageHandle, **ColorProfileNCLX) uintptr
	_heifNCLXColorProfileFree                func(*ColorProfileNCLX)
	_heifImageHandleGetRawColorProfileSize   func(*ImageHandle) uint64
	_heifImageHandleGetRawColorProfile       func(*ImageHandle, unsafe.Pointer) uintptr
	_heifDecodingOptionsAlloc                func() *DecodingOptions
	_heifDecodingOptionsFree                 func(*DecodingOptions)
	_heifDecodeImage                         func(*ImageHandle, **Image, int32, int32, *DecodingOptions) uintptr
	_heifImageGetWidth                       func(*Image, int32) int32
	_heifImageGetHeight                      func(*Image, int32) int32
	_heifImageGetPlaneReadonly               func(*Image, int32, *int32) *byte
	_heifImageRelease                        func(*Image)
)

// Version returns the libheif version string.
func Version() string {
	return goString(_heifGetVersion())
}

// CheckFiletype classifies a magic prefix, usually the first 12 bytes of a file.
func CheckFiletype(data []byte) int {
	if len(data) == 0 {
		return FiletypeNo
	}

	return int(_heifCheckFiletype(&data[0], int32(len(data))))
}

func ContextAlloc() *Context {
	return _heifContextAlloc()
}

func ContextFree(ctx *Context) {
	_heifContextFree(ctx)
}

// ContextReadFromMemoryWithoutCopy parses data in place. The caller must keep data
// reachable and unmodified until ContextFree. libheif keeps the pointer after the call
// returns, which relies on the Go heap not moving objects.
func ContextReadFromMemoryWithoutCopy(ctx *Context, data []byte) Error {
	if len(data) == 0 {
		return errorFromReturn(_heifContextReadFromMemoryWithoutCopy(ctx, nil, 0, nil))
	}

	return errorFromReturn(_heifContextReadFromMemoryWithoutCopy(ctx, unsafe.Pointer(&data[0]), uint64(len(data)), nil))
}

func ContextGetPrimaryImageHandle(ctx *Context) (*ImageHandle, Error) {
	var h *ImageHandle
	ret := _heifContextGetPrimaryImageHandle(ctx, &h)

	return h, errorFromReturn(ret)
}

func ImageHandleRelease(h *ImageHandle) {
	_heifImageHandleRelease(h)
}

func ImageHandleGetWidth(h *ImageHandle) int {
	return int(_heifImageHandleGetWidth(h))
}

func ImageHandleGetHeight(h *ImageHandle) int {
	return int(_heifImageHandleGetHeight(h))
}

func ImageHandleHasAlphaChannel(h *ImageHandle) bool {
	return _heifImageHandleHasAlphaChannel(h) != 0
}

func ImageHandleGetLumaBitsPerPixel(h *ImageHandle) int {
	return int(_heifImageHandleGetLumaBitsPerPixel(h))
}

// ImageHandleGetMetadataBlockIDs lists all metadata block item IDs in native order.
func ImageHandleGetMetadataBlockIDs(h *ImageHandle) []uint32 {
	n := _heifImageHandleGetNumberOfMetadataBlks(h, nil)
	if n <= 0 {
		return nil
	}

	ids := make([]uint32, n)
	got := _heifImageHandleGetListOfMetadataBlkIDs(h, nil, &ids[0], n)

	return ids[:got]
}

func ImageHandleGetMetadataType(h *ImageHandle, id uint32) string {
	return goString(_heifImageHandleGetMetadataType(h, id))
}

func ImageHandleGetMetadataContentType(h *ImageHandle, id uint32) string {
	return goString(_heifImageHandleGetMetadataContentType(h, id))
}

func ImageHandleGetMetadataSize(h *ImageHandle, id uint32) int {
	return int(_heifImageHandleGetMetadataSize(h, id))
}

// ImageHandleGetMetadata copies the block into dst, which must hold ImageHandleGetMetadataSize bytes.
func ImageHandleGetMetadata(h *ImageHandle, id uint32, dst []byte) Error {
	return errorFromReturn(_heifImageHandleGetMetadata(h, id, bufferPointer(dst)))
}

func ImageHandleGetColorProfileType(h *ImageHandle) uint32 {
	return _heifImageHandleGetColorProfileType(h)
}

func ImageHandleGetNCLXColorProfile(h *ImageHandle) (*ColorProfileNCLX, Error) {
	var p *ColorProfileNCLX
	ret := _heifImageHandleGetNCLXColorProfile(h, &p)

	return p, errorFromReturn(ret)
}

func NCLXColorProfileFree(p *ColorProfileNCLX) {
	_heifNCLXColorProfileFree(p)
}

func ImageHandleGetRawColorProfileSize(h *ImageHandle) int {
	return int(_heifImageHandleGetRawColorProfileSize(h))
}

func ImageHandleGetRawColorProfile(h *ImageHandle, dst []byte) Error {
	return errorFromReturn(_heifImageHandleGetRawColorProfile(h, bufferPointer(dst)))
}

func DecodingOptionsAlloc() *DecodingOptions {
	return _heifDecodingOptionsAlloc()
}

func DecodingOptionsFree(o *DecodingOptions) {
	_heifDecodingOptionsFree(o)
}

func DecodeImage(h *ImageHandle, colorspace, chroma int, options *DecodingOptions) (*Image, Error) {
	var img *Image
	ret := _heifDecodeImage(h, &img, int32(colorspace), int32(chroma), options)

	return img, errorFromReturn(ret)
}

func ImageGetWidth(img *Image, channel int) int {
	return int(_heifImageGetWidth(img, int32(channel)))
}

func ImageGetHeight(img *Image, channel int) int {
	return int(_heifImageGetHeight(img, int32(channel)))
}

// ImageGetPlaneReadonly returns the first byte of a plane and its row stride in bytes.
func ImageGetPlaneReadonly(img *Image, channel int) (*byte, int) {
	var stride int32
	p := _heifImageGetPlaneReadonly(img, int32(channel), &stride)

	return p, int(stride)
}

func ImageRelease(img *Image) {
	_heifImageRelease(img)
}

// bufferPointer never returns nil, libheif rejects NULL output buffers even for empty blocks.
func bufferPointer(dst []byte) unsafe.Pointer {
	if len(dst) == 0 {
		var scratch [1]byte
		return unsafe.Pointer(&scratch[0])
	}

	return unsafe.Pointer(&dst[0])
}

func goString(p *byte) string {
	if p == nil {
		return ""
	}

	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}

	return string(unsafe.Slice(p, n))
}
