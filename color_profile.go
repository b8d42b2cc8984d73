package heif

import (
	"bytes"
	"fmt"
)

// NCLX is a color description by code points of ITU-T H.273.
type NCLX struct {
	ColorPrimaries          int  `json:"color_primaries"`
	TransferCharacteristics int  `json:"transfer_characteristics"`
	MatrixCoefficients      int  `json:"matrix_coefficients"`
	FullRange               bool `json:"full_range"`
}

// ColorProfile is the color profile of an image, exactly one of its forms is set:
// NCLX for ColorProfileNCLX, ICC for rICC and prof, neither for ColorProfileNotPresent.
type ColorProfile struct {
	Type ColorProfileType `json:"-"`
	NCLX *NCLX            `json:"nclx,omitempty"`
	ICC  []byte           `json:"icc,omitempty"`
}

// Present reports whether the image carries a color profile.
func (p ColorProfile) Present() bool {
	return p.Type != ColorProfileNotPresent
}

// H.273 code points.
const (
	primariesBT709    = 1
	primariesBT2020   = 9
	primariesSMPTE432 = 12

	transferBT709    = 1
	transferBT601    = 6
	transferLinear   = 8
	transferSRGB     = 13
	transferBT2020   = 14
	transferBT2020HI = 15
	transferPQ       = 16
	transferHLG      = 18
)

// Gamut classifies the profile primaries.
func (p ColorProfile) Gamut() ColorGamut {
	switch {
	case p.NCLX != nil:
		switch p.NCLX.ColorPrimaries {
		case primariesBT709:
			return GamutBT709
		case primariesSMPTE432:
			return GamutDisplayP3
		case primariesBT2020:
			return GamutBT2100
		}

		return GamutUnspecified
	case len(p.ICC) > 0:
		return iccGamut(p.ICC)
	default:
		return GamutUnspecified
	}
}

// Transfer classifies the profile transfer function.
func (p ColorProfile) Transfer() ColorTransfer {
	switch {
	case p.NCLX != nil:
		switch p.NCLX.TransferCharacteristics {
		case transferSRGB, transferBT709, transferBT601, transferBT2020, transferBT2020HI:
			return TransferSRGB
		case transferLinear:
			return TransferLinear
		case transferPQ:
			return TransferPQ
		case transferHLG:
			return TransferHLG
		}

		return TransferUnspecified
	case len(p.ICC) > 0:
		if iccGamut(p.ICC) == GamutAdobeRGB {
			return TransferGamma22
		}

		return TransferSRGB
	default:
		return TransferUnspecified
	}
}

// iccGamut guesses the gamut from the profile description text.
func iccGamut(profile []byte) ColorGamut {
	lower := bytes.ToLower(profile)

	// Matches well-known profile descriptions.
	switch {
	case bytes.Contains(lower, []byte("display p3")) || bytes.Contains(lower, []byte("dci-p3")):
		return GamutDisplayP3
	case bytes.Contains(lower, []byte("adobe rgb")) || bytes.Contains(lower, []byte("adobergb")):
		return GamutAdobeRGB
	case bytes.Contains(lower, []byte("2020")) || bytes.Contains(lower, []byte("2100")):
		return GamutBT2100
	default:
		return GamutBT709
	}
}

// readColorProfile fetches the single color profile attached to h.
func readColorProfile(lib Library, h HandleRef) (ColorProfile, error) {
	t := lib.ImageHandleGetColorProfileType(h)

	switch t {
	case ColorProfileNotPresent:
		return ColorProfile{}, nil
	case ColorProfileNCLX:
		ref, st := lib.ImageHandleGetNCLXColorProfile(h)
		g := newGuard(ref, lib.NCLXColorProfileFree)
		defer g.Close()

		if err := st.Err(); err != nil {
			return ColorProfile{}, fmt.Errorf("nclx color profile: %w", err)
		}

		nclx := lib.NCLXColorProfile(ref)

		return ColorProfile{Type: t, NCLX: &nclx}, nil
	default:
		// rICC and prof, unknown types are fetched the same way and keep the reported type.
		icc := make([]byte, lib.ImageHandleGetRawColorProfileSize(h))
		if err := lib.ImageHandleGetRawColorProfile(h, icc).Err(); err != nil {
			return ColorProfile{}, fmt.Errorf("%s color profile: %w", t, err)
		}

		return ColorProfile{Type: t, ICC: icc}, nil
	}
}
