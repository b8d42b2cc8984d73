package heif

import (
	"io"
)

type lazyState int

const (
	stateUndecoded lazyState = iota
	stateDecoded
	stateClosed
)

// LazyImage is an opened image whose pixels are not decoded yet.
//
// Header attributes are available immediately. Pixels become available through the File
// returned by Materialize. A LazyImage must be materialized or closed to release native
// resources. It must not be used from multiple goroutines concurrently.
type LazyImage struct {
	Header

	lib   Library
	opts  Options
	state lazyState
	src   *source
	file  *File
}

// OpenBytes opens data without decoding pixels.
//
// The native decoder reads data in place: it must not be modified until the image is
// materialized or closed.
func OpenBytes(data []byte, options ...func(o *Options)) (*LazyImage, error) {
	return open(data, newOptions(options))
}

// OpenFile reads and opens a file without decoding pixels.
func OpenFile(path string, options ...func(o *Options)) (*LazyImage, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	return open(data, newOptions(options))
}

// OpenReader reads r to the end and opens the result without decoding pixels.
func OpenReader(r io.Reader, options ...func(o *Options)) (*LazyImage, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, err
	}

	return open(data, newOptions(options))
}

func open(data []byte, o Options) (*LazyImage, error) {
	lib, err := o.library()
	if err != nil {
		return nil, err
	}

	if err := probe(lib, o, data); err != nil {
		return nil, err
	}

	src, err := openSource(lib, o.Logger, data)
	if err != nil {
		return nil, err
	}

	hdr, err := readHeader(lib, src.handle.ref())
	if err != nil {
		src.release()

		return nil, err
	}

	return &LazyImage{
		Header: hdr,
		lib:    lib,
		opts:   o,
		src:    src,
	}, nil
}

// Decoded reports whether Materialize succeeded.
func (l *LazyImage) Decoded() bool {
	return l.state == stateDecoded
}

// Materialize decodes pixels and releases the container, keeping only the decoded image.
//
// Once decoded, later calls return the same File without decoding again. If decoding fails
// the image stays undecoded and still has to be closed.
func (l *LazyImage) Materialize() (*File, error) {
	switch l.state {
	case stateDecoded:
		return l.file, nil
	case stateClosed:
		return nil, ErrClosed
	}

	d, err := decodePlane(l.lib, l.opts, l.src.handle.ref(), l.HasAlpha, l.BitDepth)
	if err != nil {
		return nil, err
	}

	l.src.release()
	l.src = nil

	hdr := l.Header
	hdr.Width = d.width
	hdr.Height = d.height

	l.file = &File{
		Header: hdr,
		Chroma: d.chroma,
		Pixels: d.plane,
		Stride: d.plane.Stride(),
	}
	l.state = stateDecoded

	return l.file, nil
}

// Close releases the container of an undecoded image, it does nothing after Materialize.
func (l *LazyImage) Close() error {
	if l.state != stateUndecoded {
		return nil
	}

	l.src.release()
	l.src = nil
	l.state = stateClosed

	return nil
}

// ReadBytes opens and decodes data.
func ReadBytes(data []byte, options ...func(o *Options)) (*File, error) {
	return materialize(OpenBytes(data, options...))
}

// ReadFile opens and decodes a file.
func ReadFile(path string, options ...func(o *Options)) (*File, error) {
	return materialize(OpenFile(path, options...))
}

// ReadReader opens and decodes the contents of r.
func ReadReader(r io.Reader, options ...func(o *Options)) (*File, error) {
	return materialize(OpenReader(r, options...))
}

func materialize(l *LazyImage, err error) (*File, error) {
	if err != nil {
		return nil, err
	}

	f, err := l.Materialize()
	if err != nil {
		_ = l.Close()

		return nil, err
	}

	return f, nil
}
