package heif

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Plane is a read-only view of interleaved pixel rows owned by a decoded native image.
//
// The native image is released when the last Plane referencing it is released. Use Retain
// to hand an independent reference to another owner, each reference must be released once.
// Bytes must not be retained past Release.
type Plane struct {
	img      *decodedImage
	released atomic.Bool
}

type decodedImage struct {
	log    logrus.FieldLogger
	ref    *guard[ImageRef]
	data   []byte
	stride int
	refs   atomic.Int32
}

func newPlane(lib Library, log logrus.FieldLogger, img ImageRef, data []byte, stride int) *Plane {
	d := &decodedImage{
		log:    log,
		ref:    newGuard(img, lib.ImageRelease),
		data:   data,
		stride: stride,
	}
	d.refs.Store(1)

	return &Plane{img: d}
}

// Bytes returns height*stride bytes of pixel rows, or nil once this reference is released.
func (p *Plane) Bytes() []byte {
	if p == nil || p.released.Load() {
		return nil
	}

	return p.img.data
}

// Stride is the row size in bytes, it may exceed width times pixel size.
func (p *Plane) Stride() int {
	if p == nil {
		return 0
	}

	return p.img.stride
}

// Len is the buffer length in bytes.
func (p *Plane) Len() int {
	return len(p.Bytes())
}

// Copy returns the pixel rows in memory owned by Go.
func (p *Plane) Copy() []byte {
	b := p.Bytes()
	if b == nil {
		return nil
	}

	return append([]byte(nil), b...)
}

// Retain returns a new reference to the same native image.
func (p *Plane) Retain() *Plane {
	if p.released.Load() {
		panic("heif: Retain of released Plane")
	}

	p.img.refs.Add(1)

	return &Plane{img: p.img}
}

// Release drops this reference, the last one releases the native image.
// Releasing the same reference again does nothing.
func (p *Plane) Release() {
	if p == nil || !p.released.CompareAndSwap(false, true) {
		return
	}

	if p.img.refs.Add(-1) > 0 {
		return
	}

	p.img.data = nil
	p.img.ref.Close()
	p.img.log.Debug("heif: decoded image released")
}
