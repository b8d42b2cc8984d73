package heif

import (
	"github.com/sirupsen/logrus"
)

// Options controls opening and decoding.
type Options struct {
	// ApplyTransformations applies rotation, mirroring and cropping from the container.
	ApplyTransformations bool
	// ConvertHDRTo8Bit decodes images with more than 8 bits per channel to 8 bits.
	ConvertHDRTo8Bit bool
	// Library is the native decoder, DefaultLibrary is used when nil.
	Library Library
	// Logger receives diagnostics, logrus.StandardLogger is used when nil.
	Logger logrus.FieldLogger
}

func newOptions(options []func(o *Options)) Options {
	opt := Options{
		ApplyTransformations: true,
		ConvertHDRTo8Bit:     true,
	}

	for _, applyOpt := range options {
		applyOpt(&opt)
	}

	if opt.Logger == nil {
		opt.Logger = logrus.StandardLogger()
	}

	return opt
}

func (o Options) library() (Library, error) {
	if o.Library != nil {
		return o.Library, nil
	}

	return DefaultLibrary()
}

// WithLibrary sets the native library.
func WithLibrary(lib Library) func(o *Options) {
	return func(o *Options) {
		o.Library = lib
	}
}
