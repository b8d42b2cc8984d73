package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/vearutop/heif"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "check":
		if err := runCheck(os.Args[2:]); err != nil {
			fail(err)
		}
	case "info":
		if err := runInfo(os.Args[2:]); err != nil {
			fail(err)
		}
	case "decode":
		if err := runDecode(os.Args[2:]); err != nil {
			fail(err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: heiftool <command> [args]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  check  -in input.heic")
	fmt.Fprintln(os.Stderr, "  info   -in input.heic [-meta-out meta.json] [-exif-out exif.tiff]")
	fmt.Fprintln(os.Stderr, "  decode -in input.heic -out output.png [-w 800 -h 600] [-no-transform] [-hdr] [-v]")
}

func logger(verbose bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

func runCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	inPath := fs.String("in", "", "input file")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" {
		return errors.New("missing required arguments")
	}
	f, err := os.Open(filepath.Clean(*inPath))
	if err != nil {
		return err
	}
	defer f.Close()
	ft, err := heif.CheckReader(f)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, ft)
	return nil
}

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	inPath := fs.String("in", "", "input HEIF/AVIF")
	metaOut := fs.String("meta-out", "", "write metadata json instead of stdout")
	exifOut := fs.String("exif-out", "", "write raw Exif (TIFF) block")
	verbose := fs.Bool("v", false, "verbose logging")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" {
		return errors.New("missing required arguments")
	}
	l, err := heif.OpenFile(*inPath, func(o *heif.Options) {
		o.Logger = logger(*verbose)
	})
	if err != nil {
		return err
	}
	defer l.Close()

	payload, err := json.MarshalIndent(heif.NewBundle(&l.Header), "", "  ")
	if err != nil {
		return err
	}
	if *metaOut != "" {
		if err := os.WriteFile(filepath.Clean(*metaOut), payload, 0o644); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(os.Stdout, string(payload))
	}

	if *exifOut != "" {
		for _, m := range l.Metadata {
			if m.Type == heif.MetadataTypeExif {
				return os.WriteFile(filepath.Clean(*exifOut), m.Data, 0o644)
			}
		}
		return heif.ErrNoExif
	}
	return nil
}

func runDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	inPath := fs.String("in", "", "input HEIF/AVIF")
	outPath := fs.String("out", "", "output PNG")
	width := fs.Uint("w", 0, "max width of a thumbnail")
	height := fs.Uint("h", 0, "max height of a thumbnail")
	noTransform := fs.Bool("no-transform", false, "ignore rotation, mirroring and cropping")
	hdr := fs.Bool("hdr", false, "keep more than 8 bits per channel")
	verbose := fs.Bool("v", false, "verbose logging")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" || *outPath == "" {
		return errors.New("missing required arguments")
	}
	if (*width == 0) != (*height == 0) {
		return errors.New("both -w and -h are required for a thumbnail")
	}

	f, err := heif.ReadFile(*inPath, func(o *heif.Options) {
		o.ApplyTransformations = !*noTransform
		o.ConvertHDRTo8Bit = !*hdr
		o.Logger = logger(*verbose)
	})
	if err != nil {
		return err
	}
	defer f.Close()

	var img image.Image
	if *width > 0 {
		img, err = f.Thumbnail(*width, *height)
	} else {
		img, err = f.Image()
	}
	if err != nil {
		return err
	}

	out, err := os.Create(filepath.Clean(*outPath))
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
