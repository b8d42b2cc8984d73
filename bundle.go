package heif

// Bundle is a JSON snapshot of image attributes and metadata.
// Byte fields are base64-encoded in JSON.
type Bundle struct {
	Format           string        `json:"format"`
	Width            int           `json:"width"`
	Height           int           `json:"height"`
	HasAlpha         bool          `json:"has_alpha"`
	Mode             string        `json:"mode"`
	BitDepth         int           `json:"bit_depth"`
	Metadata         []Metadata    `json:"metadata,omitempty"`
	ColorProfileType string        `json:"color_profile_type,omitempty"`
	ColorProfile     *ColorProfile `json:"color_profile,omitempty"`
}

// NewBundle captures h.
func NewBundle(h *Header) *Bundle {
	b := &Bundle{
		Format:   bundleFormat,
		Width:    h.Width,
		Height:   h.Height,
		HasAlpha: h.HasAlpha,
		Mode:     h.Mode,
		BitDepth: h.BitDepth,
		Metadata: h.Metadata,
	}

	if h.ColorProfile.Present() {
		cp := h.ColorProfile
		b.ColorProfileType = cp.Type.String()
		b.ColorProfile = &cp
	}

	return b
}
