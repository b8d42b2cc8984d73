package heif

import (
	"io"
)

// Check classifies data by its magic prefix, only the first 12 bytes are inspected.
// The error is non-nil only if the native library is unavailable.
func Check(data []byte, options ...func(o *Options)) (Filetype, error) {
	lib, err := newOptions(options).library()
	if err != nil {
		return FiletypeNo, err
	}

	return checkFiletype(lib, data), nil
}

// CheckReader classifies the stream by reading at most 12 bytes from it.
func CheckReader(r io.Reader, options ...func(o *Options)) (Filetype, error) {
	magic := make([]byte, magicSize)

	n, err := io.ReadFull(r, magic)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return FiletypeNo, err
	}

	return Check(magic[:n], options...)
}

// IsSupported reports whether data may be a decodable HEIF/AVIF container.
func IsSupported(data []byte, options ...func(o *Options)) bool {
	ft, err := Check(data, options...)

	return err == nil && ft != FiletypeNo
}

func checkFiletype(lib Library, data []byte) Filetype {
	if len(data) == 0 {
		return FiletypeNo
	}

	if len(data) > magicSize {
		data = data[:magicSize]
	}

	return lib.CheckFiletype(data)
}

// probe rejects inputs the library does not recognize and warns about recognized but unsupported ones.
func probe(lib Library, o Options, data []byte) error {
	ft := checkFiletype(lib, data)

	switch ft {
	case FiletypeNo:
		return ErrFormat
	case FiletypeYesUnsupported:
		o.Logger.WithField("filetype", ft.String()).
			Warn("heif: input is an unsupported HEIF/AVIF file type, trying anyway")
	}

	return nil
}
