//go:build (linux || darwin) && (amd64 || arm64) && !nodynamic

package libheif

import (
	"errors"
	"fmt"

	"github.com/ebitengine/purego"
)

// binding ties a function variable to its exported symbol.
type binding struct {
	fn   any
	name string
}

func bindings() []binding {
	return []binding{
		{&_heifGetVersion, "heif_get_version"},
		{&_heifCheckFiletype, "heif_check_filetype"},
		{&_heifContextAlloc, "heif_context_alloc"},
		{&_heifContextFree, "heif_context_free"},
		{&_heifContextReadFromMemoryWithoutCopy, "heif_context_read_from_memory_without_copy"},
		{&_heifContextGetPrimaryImageHandle, "heif_context_get_primary_image_handle"},
		{&_heifImageHandleRelease, "heif_image_handle_release"},
		{&_heifImageHandleGetWidth, "heif_image_handle_get_width"},
		{&_heifImageHandleGetHeight, "heif_image_handle_get_height"},
		{&_heifImageHandleHasAlphaChannel, "heif_image_handle_has_alpha_channel"},
		{&_heifImageHandleGetLumaBitsPerPixel, "heif_image_handle_get_luma_bits_per_pixel"},
		{&_heifImageHandleGetNumberOfMetadataBlks, "heif_image_handle_get_number_of_metadata_blocks"},
		{&_heifImageHandleGetListOfMetadataBlkIDs, "heif_image_handle_get_list_of_metadata_block_IDs"},
		{&_heifImageHandleGetMetadataType, "heif_image_handle_get_metadata_type"},
		{&_heifImageHandleGetMetadataContentType, "heif_image_handle_get_metadata_content_type"},
		{&_heifImageHandleGetMetadataSize, "heif_image_handle_get_metadata_size"},
		{&_heifImageHandleGetMetadata, "heif_image_handle_get_metadata"},
		{&_heifImageHandleGetColorProfileType, "heif_image_handle_get_color_profile_type"},
		{&_heifImageHandleGetNCLXColorProfile, "heif_image_handle_get_nclx_color_profile"},
		{&_heifNCLXColorProfileFree, "heif_nclx_color_profile_free"},
		{&_heifImageHandleGetRawColorProfileSize, "heif_image_handle_get_raw_color_profile_size"},
		{&_heifImageHandleGetRawColorProfile, "heif_image_handle_get_raw_color_profile"},
		{&_heifDecodingOptionsAlloc, "heif_decoding_options_alloc"},
		{&_heifDecodingOptionsFree, "heif_decoding_options_free"},
		{&_heifDecodeImage, "heif_decode_image"},
		{&_heifImageGetWidth, "heif_image_get_width"},
		{&_heifImageGetHeight, "heif_image_get_height"},
		{&_heifImageGetPlaneReadonly, "heif_image_get_plane_readonly"},
		{&_heifImageRelease, "heif_image_release"},
	}
}

func load() error {
	lib, err := openLibrary()
	if err != nil {
		return err
	}

	return register(lib)
}

// register resolves every binding in lib, purego panics on missing symbols or unsupported signatures.
func register(lib uintptr) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("libheif: register symbols: %v", r)
		}
	}()

	for _, b := range bindings() {
		purego.RegisterLibFunc(b.fn, lib, b.name)
	}

	return nil
}

func openLibrary() (uintptr, error) {
	var errs []error

	for _, name := range libraryNames() {
		lib, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err == nil {
			return lib, nil
		}

		errs = append(errs, err)
	}

	return 0, fmt.Errorf("%w: %w", ErrUnavailable, errors.Join(errs...))
}
