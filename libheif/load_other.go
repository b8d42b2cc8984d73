//go:build !((linux || darwin) && (amd64 || arm64)) || nodynamic

package libheif

func load() error {
	return ErrUnavailable
}
