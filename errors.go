package heif

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat is returned when the input is not a HEIF/AVIF container.
	ErrFormat = errors.New("heif: input is not a HEIF/AVIF file")
	// ErrClosed is returned when materializing an image that was closed before decoding.
	ErrClosed = errors.New("heif: image is closed")
	// ErrNoExif is returned when an image carries no Exif block.
	ErrNoExif = errors.New("heif: no exif metadata")
	// ErrNoPlane is returned when the decoded image has no interleaved plane.
	ErrNoPlane = errors.New("heif: decoded image has no interleaved plane")
)

// ErrorCode is a native heif_error_code.
type ErrorCode int

const (
	ErrorOK                       ErrorCode = 0
	ErrorInputDoesNotExist        ErrorCode = 1
	ErrorInvalidInput             ErrorCode = 2
	ErrorUnsupportedFiletype      ErrorCode = 3
	ErrorUnsupportedFeature       ErrorCode = 4
	ErrorUsage                    ErrorCode = 5
	ErrorMemoryAllocation         ErrorCode = 6
	ErrorDecoderPlugin            ErrorCode = 7
	ErrorEncoderPlugin            ErrorCode = 8
	ErrorEncoding                 ErrorCode = 9
	ErrorColorProfileDoesNotExist ErrorCode = 10
)

// ErrorSubcode is a native heif_suberror_code.
type ErrorSubcode int

const (
	SuberrorUnspecified                ErrorSubcode = 0
	SuberrorEndOfData                  ErrorSubcode = 100
	SuberrorInvalidBoxSize             ErrorSubcode = 101
	SuberrorNoFtypBox                  ErrorSubcode = 102
	SuberrorSecurityLimitExceeded      ErrorSubcode = 1000
	SuberrorNonexistingItemReferenced  ErrorSubcode = 2000
	SuberrorNullPointerArgument        ErrorSubcode = 2001
	SuberrorUnsupportedCodec           ErrorSubcode = 3000
	SuberrorUnsupportedImageType       ErrorSubcode = 3001
	SuberrorUnsupportedDataVersion     ErrorSubcode = 3002
	SuberrorUnsupportedColorConversion ErrorSubcode = 3003
)

// Error is a failure reported by the native library.
type Error struct {
	Code    ErrorCode
	Subcode ErrorSubcode
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("heif: %s (code %d, subcode %d)", e.Message, e.Code, e.Subcode)
}
