package heif

import (
	"image"
	"image/color"
	"io"
)

// Decode reads a HEIF/AVIF image from r into an image.Image owned by Go.
func Decode(r io.Reader, options ...func(o *Options)) (image.Image, error) {
	f, err := ReadReader(r, options...)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.Image()
}

// DecodeConfig returns the color model and dimensions without decoding pixels.
func DecodeConfig(r io.Reader, options ...func(o *Options)) (image.Config, error) {
	o := newOptions(options)

	l, err := OpenReader(r, options...)
	if err != nil {
		return image.Config{}, err
	}
	defer l.Close()

	cfg := image.Config{
		ColorModel: color.NRGBAModel,
		Width:      l.Width,
		Height:     l.Height,
	}

	if selectChroma(o.ConvertHDRTo8Bit, l.BitDepth, l.HasAlpha).BytesPerPixel() > 4 {
		cfg.ColorModel = color.NRGBA64Model
	}

	return cfg, nil
}

func init() {
	decode := func(r io.Reader) (image.Image, error) { return Decode(r) }
	decodeConfig := func(r io.Reader) (image.Config, error) { return DecodeConfig(r) }

	for _, brand := range []string{"heic", "heix", "mif1", "msf1"} {
		image.RegisterFormat("heif", "????ftyp"+brand, decode, decodeConfig)
	}

	image.RegisterFormat("avif", "????ftypavif", decode, decodeConfig)
}
