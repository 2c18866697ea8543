// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging prepares uploaded photos for the public image bucket:
// decode, auto-rotate from EXIF, bound dimensions, re-encode. The re-encode
// drops EXIF metadata, so uploads never leak GPS coordinates.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

const (
	// MaxUploadBytes bounds how much of an upload is read.
	MaxUploadBytes = 20 << 20

	defaultMaxDimension = 1920
	defaultQuality      = 90
)

// ErrUnsupportedFormat is returned for uploads that are not JPEG, PNG,
// GIF, or WebP.
var ErrUnsupportedFormat = fmt.Errorf("unsupported image format")

// Result is a processed upload ready for the storage bucket.
type Result struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
}

// Processor processes uploaded images in memory.
type Processor struct {
	maxDimension int
	quality      int
}

// Options configures a Processor. Zero values use the defaults.
type Options struct {
	// MaxDimension bounds the longest image side; larger images are
	// scaled down preserving aspect ratio.
	MaxDimension int

	// Quality is the JPEG encode quality (1-100).
	Quality int
}

// NewProcessor creates an image processor.
func NewProcessor(opts Options) *Processor {
	if opts.MaxDimension == 0 {
		opts.MaxDimension = defaultMaxDimension
	}
	if opts.Quality == 0 {
		opts.Quality = defaultQuality
	}
	return &Processor{
		maxDimension: opts.MaxDimension,
		quality:      opts.Quality,
	}
}

// Process reads an uploaded image and returns the processed bytes.
func (p *Processor) Process(reader io.Reader) (*Result, error) {
	data, err := io.ReadAll(io.LimitReader(reader, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image data: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", MaxUploadBytes)
	}

	format := detectFormat(data)
	if format == "" {
		return nil, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	bounds := img.Bounds()
	if bounds.Dx() > p.maxDimension || bounds.Dy() > p.maxDimension {
		img = imaging.Fit(img, p.maxDimension, p.maxDimension, imaging.Lanczos)
		bounds = img.Bounds()
	}

	processed, outFormat, err := encodeImage(img, format, p.quality)
	if err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	return &Result{
		Data:        processed,
		ContentType: formatToMimeType(outFormat),
		Ext:         formatToExt(outFormat),
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
	}, nil
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return orientation
}

// applyOrientation applies the EXIF orientation transform.
// Orientation values:
// 1: Normal
// 2: Flip horizontal
// 3: Rotate 180°
// 4: Flip vertical
// 5: Rotate 90° CW + flip horizontal
// 6: Rotate 90° CW
// 7: Rotate 90° CCW + flip horizontal
// 8: Rotate 90° CCW
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// encodeImage encodes the image and returns the bytes plus the format
// actually written. WebP input is re-encoded as JPEG, there is no pure Go
// WebP encoder.
func encodeImage(img image.Image, format string, quality int) ([]byte, string, error) {
	var buf bytes.Buffer

	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "png", nil
	case "gif":
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "gif", nil
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "jpeg", nil
	}
}

// detectFormat detects the image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// Explicitly reject TIFF (CVE-2023-36308 in disintegration/imaging)
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

func formatToMimeType(format string) string {
	switch format {
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

func formatToExt(format string) string {
	switch format {
	case "png":
		return ".png"
	case "gif":
		return ".gif"
	default:
		return ".jpg"
	}
}
