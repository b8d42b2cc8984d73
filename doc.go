// Package heif reads still images from HEIF/AVIF containers as interleaved RGB pixel buffers
// with their metadata and color profile.
//
// Bitstream parsing and pixel reconstruction are performed by libheif, loaded at runtime
// (see package libheif) or supplied through the Library interface. This package manages the
// native resources: decoding is deferred until LazyImage.Materialize, and the decoded native
// image stays alive exactly as long as a Plane referencing it has not been released.
package heif
