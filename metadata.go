package heif

import (
	"bytes"
	"fmt"

	"github.com/rwcarlsen/goexif/exif"
)

// Metadata is an auxiliary block attached to an image, such as Exif or XMP.
type Metadata struct {
	// Type is the item type, e.g. "Exif" or "mime".
	Type string `json:"type"`
	// ContentType is set for mime blocks, e.g. "application/rdf+xml" for XMP.
	ContentType string `json:"content_type,omitempty"`
	// Data is the block payload, for Exif it starts at the TIFF header.
	Data []byte `json:"data"`
}

// readMetadata fetches all metadata blocks in native order.
// A failing block fails the whole list, partial results are discarded.
func readMetadata(lib Library, h HandleRef) ([]Metadata, error) {
	ids := lib.ImageHandleGetMetadataBlockIDs(h)
	if len(ids) == 0 {
		return nil, nil
	}

	metadata := make([]Metadata, 0, len(ids))

	for _, id := range ids {
		m := Metadata{
			Type: lib.ImageHandleGetMetadataType(h, id),
		}

		if m.Type == MetadataTypeMime {
			m.ContentType = lib.ImageHandleGetMetadataContentType(h, id)
		}

		data := make([]byte, lib.ImageHandleGetMetadataSize(h, id))
		if err := lib.ImageHandleGetMetadata(h, id, data).Err(); err != nil {
			return nil, fmt.Errorf("metadata block %d: %w", id, err)
		}

		if m.Type == MetadataTypeExif {
			// Skip the TIFF header offset.
			if len(data) < exifHeaderSize {
				data = data[len(data):]
			} else {
				data = data[exifHeaderSize:]
			}
		}

		m.Data = data
		metadata = append(metadata, m)
	}

	return metadata, nil
}

// Exif decodes the first Exif block.
func (h *Header) Exif() (*exif.Exif, error) {
	for _, m := range h.Metadata {
		if m.Type == MetadataTypeExif {
			return exif.Decode(bytes.NewReader(m.Data))
		}
	}

	return nil, ErrNoExif
}

// XMP returns the first XMP packet or nil.
func (h *Header) XMP() []byte {
	for _, m := range h.Metadata {
		if m.Type == MetadataTypeMime && m.ContentType == ContentTypeXMP {
			return m.Data
		}
	}

	return nil
}
