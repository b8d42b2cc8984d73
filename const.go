package heif

const (
	// magicSize is the prefix length passed to the filetype check.
	magicSize = 12
	// exifHeaderSize is the TIFF header offset prepended to Exif blocks in HEIF.
	exifHeaderSize = 4
)

// Metadata block types and content types.
const (
	MetadataTypeExif = "Exif"
	MetadataTypeMime = "mime"
	ContentTypeXMP   = "application/rdf+xml"
)

const (
	ModeRGB  = "RGB"
	ModeRGBA = "RGBA"
)

const bundleFormat = "heif-meta-1"
