package heif

// Library is the native decoding surface. Every resource it returns is owned by the
// library and must be released through the matching Free or Release method exactly once.
//
// Implementations are not required to be safe for concurrent use of the same resource.
type Library interface {
	CheckFiletype(magic []byte) Filetype

	ContextAlloc() ContextRef
	ContextFree(ctx ContextRef)
	// ContextReadFromMemoryWithoutCopy parses data in place, data must stay valid until ContextFree.
	ContextReadFromMemoryWithoutCopy(ctx ContextRef, data []byte) Status
	ContextGetPrimaryImageHandle(ctx ContextRef) (HandleRef, Status)

	ImageHandleRelease(h HandleRef)
	ImageHandleGetWidth(h HandleRef) int
	ImageHandleGetHeight(h HandleRef) int
	ImageHandleHasAlphaChannel(h HandleRef) bool
	ImageHandleGetLumaBitsPerPixel(h HandleRef) int

	ImageHandleGetMetadataBlockIDs(h HandleRef) []ItemID
	ImageHandleGetMetadataType(h HandleRef, id ItemID) string
	ImageHandleGetMetadataContentType(h HandleRef, id ItemID) string
	ImageHandleGetMetadataSize(h HandleRef, id ItemID) int
	ImageHandleGetMetadata(h HandleRef, id ItemID, dst []byte) Status

	ImageHandleGetColorProfileType(h HandleRef) ColorProfileType
	ImageHandleGetNCLXColorProfile(h HandleRef) (NCLXRef, Status)
	NCLXColorProfile(p NCLXRef) NCLX
	NCLXColorProfileFree(p NCLXRef)
	ImageHandleGetRawColorProfileSize(h HandleRef) int
	ImageHandleGetRawColorProfile(h HandleRef, dst []byte) Status

	DecodingOptionsAlloc() OptionsRef
	DecodingOptionsSet(o OptionsRef, ignoreTransformations, convertHDRTo8Bit bool)
	DecodingOptionsFree(o OptionsRef)

	DecodeImage(h HandleRef, colorspace Colorspace, chroma Chroma, o OptionsRef) (ImageRef, Status)
	ImageGetWidth(img ImageRef, channel Channel) int
	ImageGetHeight(img ImageRef, channel Channel) int
	// ImageGetPlaneReadonly returns the first byte of the plane and its stride, or nil if the channel is missing.
	ImageGetPlaneReadonly(img ImageRef, channel Channel) (*byte, int)
	ImageRelease(img ImageRef)
}

// Status is the result record of a native call.
type Status struct {
	Code    ErrorCode
	Subcode ErrorSubcode
	Message string
}

// Err returns nil for a successful status and *Error otherwise.
func (s Status) Err() error {
	if s.Code == ErrorOK {
		return nil
	}

	return &Error{
		Code:    s.Code,
		Subcode: s.Subcode,
		Message: s.Message,
	}
}
