// Package heiftest provides an in-memory heif.Library for tests.
//
// The Library serves one configured image, records every native call and reports
// lifetime violations: double release, a context freed before its handles, and input
// bytes modified while a context borrows them. Released pixel planes are overwritten
// with PoisonByte so reads after release are detectable.
package heiftest

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unsafe"

	"github.com/vearutop/heif"
)

// PoisonByte fills pixel planes after release.
const PoisonByte = 0xDD

// Block is a metadata block of the served image.
type Block struct {
	Type        string
	ContentType string
	Data        []byte
	// Status is returned when the block is fetched.
	Status heif.Status
}

// Image describes the primary image served by a Library.
type Image struct {
	Width    int
	Height   int
	HasAlpha bool
	BitDepth int

	Metadata         []Block
	ColorProfileType heif.ColorProfileType
	NCLX             heif.NCLX
	ICC              []byte

	// Padding is added to each decoded row.
	Padding int
	// DecodedWidth and DecodedHeight override decoded dimensions when not zero.
	DecodedWidth  int
	DecodedHeight int

	ReadStatus   heif.Status
	HandleStatus heif.Status
	NCLXStatus   heif.Status
	ICCStatus    heif.Status
	DecodeStatus heif.Status
}

// DecodeCall holds the arguments of a DecodeImage call.
type DecodeCall struct {
	Colorspace            heif.Colorspace
	Chroma                heif.Chroma
	IgnoreTransformations bool
	ConvertHDRTo8Bit      bool
}

// Library is an instrumented heif.Library.
type Library struct {
	Image Image

	mu         sync.Mutex
	calls      []string
	live       map[unsafe.Pointer]string
	decodes    []DecodeCall
	violations []string
}

var _ heif.Library = (*Library)(nil)

// New creates a Library serving img.
func New(img Image) *Library {
	return &Library{
		Image: img,
		live:  make(map[unsafe.Pointer]string),
	}
}

// Container returns a minimal ftyp box for brand, enough to pass the filetype check.
func Container(brand string) []byte {
	b := []byte{0, 0, 0, 0x18}
	b = append(b, "ftyp"...)
	b = append(b, brand...)
	b = append(b, 0, 0, 0, 0)
	b = append(b, "mif1"...)
	b = append(b, brand...)

	return b
}

type context struct {
	data     []byte
	snapshot []byte
	handles  int
}

type handle struct {
	ctx *context
}

type options struct {
	ignoreTransformations bool
	convertHDRTo8Bit      bool
}

type nclx struct {
	profile heif.NCLX
}

type image struct {
	pix    []byte
	width  int
	height int
	stride int
}

// Calls returns the names of native calls in order.
func (l *Library) Calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.calls...)
}

// Count returns how many times the named call was made.
func (l *Library) Count(name string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, c := range l.calls {
		if c == name {
			n++
		}
	}

	return n
}

// Decodes returns the arguments of every DecodeImage call.
func (l *Library) Decodes() []DecodeCall {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]DecodeCall(nil), l.decodes...)
}

// Live returns the number of unreleased native resources.
func (l *Library) Live() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.live)
}

// LiveOf returns the number of unreleased resources of a kind:
// "context", "handle", "options", "nclx" or "image".
func (l *Library) LiveOf(kind string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, k := range l.live {
		if k == kind {
			n++
		}
	}

	return n
}

// Err returns recorded lifetime violations.
func (l *Library) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.violations) == 0 {
		return nil
	}

	return errors.New("heiftest: " + strings.Join(l.violations, "; "))
}

func (l *Library) call(name string) {
	l.calls = append(l.calls, name)
}

func (l *Library) violate(format string, args ...any) {
	l.violations = append(l.violations, fmt.Sprintf(format, args...))
}

func (l *Library) acquire(kind string, p unsafe.Pointer) {
	l.live[p] = kind
}

func (l *Library) drop(kind string, p unsafe.Pointer) bool {
	if p == nil {
		l.violate("%s release of nil", kind)

		return false
	}

	if l.live[p] != kind {
		l.violate("%s released twice or never acquired", kind)

		return false
	}

	delete(l.live, p)

	return true
}

func (l *Library) checkHandle(h heif.HandleRef) *handle {
	p := unsafe.Pointer(h)
	if l.live[p] != "handle" {
		l.violate("use of released handle")

		return nil
	}

	hd := (*handle)(p)
	if !bytes.Equal(hd.ctx.data, hd.ctx.snapshot) {
		l.violate("input modified while borrowed by context")
	}

	return hd
}

// CheckFiletype mimics libheif: ftyp at offset 4 and a known major brand.
func (l *Library) CheckFiletype(magic []byte) heif.Filetype {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.call("check_filetype")

	if len(magic) < 8 {
		return heif.FiletypeMaybe
	}

	if string(magic[4:8]) != "ftyp" {
		return heif.FiletypeNo
	}

	if len(magic) < 12 {
		return heif.FiletypeMaybe
	}

	switch string(magic[8:12]) {
	case "heic", "heix", "avif":
		return heif.FiletypeYesSupported
	case "mif1", "mif2":
		return heif.FiletypeMaybe
	case "hevc", "hevx", "heim", "heis", "hevm", "hevs", "msf1", "avis":
		return heif.FiletypeYesUnsupported
	default:
		return heif.FiletypeNo
	}
}

func (l *Library) ContextAlloc() heif.ContextRef {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.call("context_alloc")

	c := &context{}
	l.acquire("context", unsafe.Pointer(c))

	return heif.ContextRef(c)
}

func (l *Library) ContextFree(ctx heif.ContextRef) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.call("context_free")

	if l.drop("context", unsafe.Pointer(ctx)) && (*context)(ctx).handles > 0 {
		l.violate("context freed with %d live handles", (*context)(ctx).handles)
	}
}

func (l *Library) ContextReadFromMemoryWithoutCopy(ctx heif.ContextRef, data []byte) heif.Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.call("read_from_memory")

	c := (*context)(ctx)
	c.data = data
	c.snapshot = append([]byte(nil), data...)

	return l.Image.ReadStatus
}

func (l *Library) ContextGetPrimaryImageHandle(ctx heif.ContextRef) (heif.HandleRef, heif.Status) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.call("get_primary_image_handle")

	if l.Image.HandleStatus.Code != heif.ErrorOK {
		return nil, l.Image.HandleStatus
	}

	c := (*context)(ctx)
	c.handles++

	h := &handle{ctx: c}
	l.acquire("handle", unsafe.Pointer(h))

	return heif.HandleRef(h), heif.Status{}
}

func (l *Library) ImageHandleRelease(h heif.HandleRef) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.call("image_handle_release")

	if l.drop("handle", unsafe.Pointer(h)) {
		(*handle)(h).ctx.handles--
	}
}

func (l *Library) ImageHandleGetWidth(h heif.HandleRef) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.checkHandle(h)

	return l.Image.Width
}

func (l *Library) ImageHandleGetHeight(h heif.HandleRef) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.checkHandle(h)

	return l.Image.Height
}

func (l *Library) ImageHandleHasAlphaChannel(h heif.HandleRef) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.checkHandle(h)

	return l.Image.HasAlpha
}

func (l *Library) ImageHandleGetLumaBitsPerPixel(h heif.HandleRef) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.checkHandle(h)

	return l.Image.BitDepth
}

// Metadata item IDs are 1-based block indexes.
func (l *Library) block(id heif.ItemID) *Block {
	i := int(id) - 1
	if i < 0 || i >= len(l.Image.Metadata) {
		l.violate("unknown metadata block %d", id)

		return &Block{}
	}

	return &l.Image.Metadata[i]
}

func (l *Library) ImageHandleGetMetadataBlockIDs(h heif.HandleRef) []heif.ItemID {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.checkHandle(h)

	var ids []heif.ItemID
	for i := range l.Image.Metadata {
		ids = append(ids, heif.ItemID(i+1))
	}

	return ids
}

func (l *Library) ImageHandleGetMetadataType(h heif.HandleRef, id heif.ItemID) string {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.checkHandle(h)

	return l.block(id).Type
}

func (l *Library) ImageHandleGetMetadataContentType(h heif.HandleRef, id heif.ItemID) string {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.checkHandle(h)

	return l.block(id).ContentType
}

func (l *Library) ImageHandleGetMetadataSize(h heif.HandleRef, id heif.ItemID) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.checkHandle(h)

	return len(l.block(id).Data)
}

func (l *Library) ImageHandleGetMetadata(h heif.HandleRef, id heif.ItemID, dst []byte) heif.Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.call("get_metadata")
	l.checkHandle(h)

	b := l.block(id)
	if b.Status.Code != heif.ErrorOK {
		return b.Status
	}

	copy(dst, b.Data)

	return heif.Status{}
}

func (l *Library) ImageHandleGetColorProfileType(h heif.HandleRef) heif.ColorProfileType {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.checkHandle(h)

	return l.Image.ColorProfileType
}

func (l *Library) ImageHandleGetNCLXColorProfile(h heif.HandleRef) (heif.NCLXRef, heif.Status) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.call("get_nclx_color_profile")
	l.checkHandle(h)

	if l.Image.NCLXStatus.Code != heif.ErrorOK {
		return nil, l.Image.NCLXStatus
	}

	p := &nclx{profile: l.Image.NCLX}
	l.acquire("nclx", unsafe.Pointer(p))

	return heif.NCLXRef(p), heif.Status{}
}

func (l *Library) NCLXColorProfile(p heif.NCLXRef) heif.NCLX {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.live[unsafe.Pointer(p)] != "nclx" {
		l.violate("use of released nclx profile")
	}

	return (*nclx)(p).profile
}

func (l *Library) NCLXColorProfileFree(p heif.NCLXRef) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.call("nclx_color_profile_free")
	l.drop("nclx", unsafe.Pointer(p))
}

func (l *Library) ImageHandleGetRawColorProfileSize(h heif.HandleRef) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.checkHandle(h)

	return len(l.Image.ICC)
}

func (l *Library) ImageHandleGetRawColorProfile(h heif.HandleRef, dst []byte) heif.Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.call("get_raw_color_profile")
	l.checkHandle(h)

	if l.Image.ICCStatus.Code != heif.ErrorOK {
		return l.Image.ICCStatus
	}

	copy(dst, l.Image.ICC)

	return heif.Status{}
}

func (l *Library) DecodingOptionsAlloc() heif.OptionsRef {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.call("decoding_options_alloc")

	o := &options{}
	l.acquire("options", unsafe.Pointer(o))

	return heif.OptionsRef(o)
}

func (l *Library) DecodingOptionsSet(o heif.OptionsRef, ignoreTransformations, convertHDRTo8Bit bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	opts := (*options)(o)
	opts.ignoreTransformations = ignoreTransformations
	opts.convertHDRTo8Bit = convertHDRTo8Bit
}

func (l *Library) DecodingOptionsFree(o heif.OptionsRef) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.call("decoding_options_free")
	l.drop("options", unsafe.Pointer(o))
}

func (l *Library) DecodeImage(h heif.HandleRef, colorspace heif.Colorspace, chroma heif.Chroma, o heif.OptionsRef) (heif.ImageRef, heif.Status) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.call("decode_image")
	l.checkHandle(h)

	call := DecodeCall{Colorspace: colorspace, Chroma: chroma}
	if o != nil {
		call.IgnoreTransformations = (*options)(o).ignoreTransformations
		call.ConvertHDRTo8Bit = (*options)(o).convertHDRTo8Bit
	}

	l.decodes = append(l.decodes, call)

	if l.Image.DecodeStatus.Code != heif.ErrorOK {
		return nil, l.Image.DecodeStatus
	}

	img := &image{width: l.Image.Width, height: l.Image.Height}
	if l.Image.DecodedWidth != 0 {
		img.width = l.Image.DecodedWidth
	}

	if l.Image.DecodedHeight != 0 {
		img.height = l.Image.DecodedHeight
	}

	img.stride = img.width*chroma.BytesPerPixel() + l.Image.Padding
	img.pix = make([]byte, img.stride*img.height)

	for i := range img.pix {
		img.pix[i] = byte(i % 251)
	}

	l.acquire("image", unsafe.Pointer(img))

	return heif.ImageRef(img), heif.Status{}
}

func (l *Library) liveImage(img heif.ImageRef) *image {
	if l.live[unsafe.Pointer(img)] != "image" {
		l.violate("use of released image")
	}

	return (*image)(img)
}

func (l *Library) ImageGetWidth(img heif.ImageRef, _ heif.Channel) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.liveImage(img).width
}

func (l *Library) ImageGetHeight(img heif.ImageRef, _ heif.Channel) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.liveImage(img).height
}

func (l *Library) ImageGetPlaneReadonly(img heif.ImageRef, channel heif.Channel) (*byte, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.call("get_plane_readonly")

	i := l.liveImage(img)
	if channel != heif.ChannelInterleaved || len(i.pix) == 0 {
		return nil, 0
	}

	return &i.pix[0], i.stride
}

func (l *Library) ImageRelease(img heif.ImageRef) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.call("image_release")

	if l.drop("image", unsafe.Pointer(img)) {
		pix := (*image)(img).pix
		for i := range pix {
			pix[i] = PoisonByte
		}
	}
}
