package heif

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
)

// guard owns a native reference and releases it at most once.
type guard[R comparable] struct {
	ref     R
	release func(R)
}

func newGuard[R comparable](ref R, release func(R)) *guard[R] {
	return &guard[R]{ref: ref, release: release}
}

// Get returns the owned reference, or zero after Close or Detach.
func (g *guard[R]) Get() R {
	return g.ref
}

// Close releases a non-zero reference once, later calls do nothing.
func (g *guard[R]) Close() {
	var zero R
	if g.ref == zero {
		return
	}

	ref := g.ref
	g.ref = zero
	g.release(ref)
}

// Detach transfers ownership to the caller without releasing.
func (g *guard[R]) Detach() R {
	var zero R

	ref := g.ref
	g.ref = zero

	return ref
}

// decodingContext owns a native context parsed over borrowed input bytes.
// The bytes stay referenced until the context is freed, which happens once the owner
// and every derived handle have released it.
type decodingContext struct {
	lib  Library
	log  logrus.FieldLogger
	ctx  *guard[ContextRef]
	data []byte
	refs int
}

func openContext(lib Library, log logrus.FieldLogger, data []byte) (*decodingContext, error) {
	ref := lib.ContextAlloc()
	if ref == nil {
		return nil, errors.New("heif: could not allocate context")
	}

	c := &decodingContext{
		lib:  lib,
		log:  log,
		ctx:  newGuard(ref, lib.ContextFree),
		data: data,
		refs: 1,
	}

	if err := lib.ContextReadFromMemoryWithoutCopy(ref, data).Err(); err != nil {
		c.release()

		return nil, fmt.Errorf("read from memory: %w", err)
	}

	return c, nil
}

// primaryHandle returns the primary image handle, retaining the context until it is released.
func (c *decodingContext) primaryHandle() (*imageHandle, error) {
	ref, st := c.lib.ContextGetPrimaryImageHandle(c.ctx.Get())
	h := newGuard(ref, c.lib.ImageHandleRelease)

	if err := st.Err(); err != nil {
		h.Close()

		return nil, fmt.Errorf("get primary image handle: %w", err)
	}

	if ref == nil {
		return nil, errors.New("heif: no primary image")
	}

	c.refs++

	return &imageHandle{h: h, ctx: c}, nil
}

func (c *decodingContext) release() {
	if c.refs == 0 {
		return
	}

	c.refs--
	if c.refs > 0 {
		return
	}

	c.ctx.Close()
	runtime.KeepAlive(c.data)
	c.data = nil
	c.log.Debug("heif: context released")
}

// imageHandle owns a native image handle derived from a decodingContext.
type imageHandle struct {
	h   *guard[HandleRef]
	ctx *decodingContext
}

func (h *imageHandle) ref() HandleRef {
	return h.h.Get()
}

// release drops the handle first, then its hold on the context. Safe to call twice.
func (h *imageHandle) release() {
	if h.h.Get() == nil {
		return
	}

	h.h.Close()
	h.ctx.release()
}

// source is an open context together with its primary handle.
type source struct {
	ctx    *decodingContext
	handle *imageHandle
}

func openSource(lib Library, log logrus.FieldLogger, data []byte) (*source, error) {
	ctx, err := openContext(lib, log, data)
	if err != nil {
		return nil, err
	}

	h, err := ctx.primaryHandle()
	if err != nil {
		ctx.release()

		return nil, err
	}

	return &source{ctx: ctx, handle: h}, nil
}

// release frees the handle and the context, the context outlives the handle.
func (s *source) release() {
	s.handle.release()
	s.ctx.release()
}
