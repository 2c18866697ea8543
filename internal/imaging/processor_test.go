// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestProcess_PNGPreservesFormat(t *testing.T) {
	p := NewProcessor(Options{})

	got, err := p.Process(bytes.NewReader(encodePNG(t, 100, 60)))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if got.ContentType != "image/png" {
		t.Errorf("ContentType = %q, want image/png", got.ContentType)
	}
	if got.Ext != ".png" {
		t.Errorf("Ext = %q, want .png", got.Ext)
	}
	if got.Width != 100 || got.Height != 60 {
		t.Errorf("dimensions = %dx%d, want 100x60", got.Width, got.Height)
	}

	// Output must decode back to the same dimensions.
	cfg, format, err := image.DecodeConfig(bytes.NewReader(got.Data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if format != "png" || cfg.Width != 100 || cfg.Height != 60 {
		t.Errorf("output = %s %dx%d", format, cfg.Width, cfg.Height)
	}
}

func TestProcess_BoundsLargeImages(t *testing.T) {
	p := NewProcessor(Options{MaxDimension: 64})

	got, err := p.Process(bytes.NewReader(encodeJPEG(t, 200, 100)))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if got.Width != 64 {
		t.Errorf("Width = %d, want 64", got.Width)
	}
	// Aspect ratio held: 200x100 fit into 64 gives 64x32.
	if got.Height != 32 {
		t.Errorf("Height = %d, want 32", got.Height)
	}
}

func TestProcess_SmallImagesUntouched(t *testing.T) {
	p := NewProcessor(Options{MaxDimension: 1000})

	got, err := p.Process(bytes.NewReader(encodeJPEG(t, 40, 30)))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if got.Width != 40 || got.Height != 30 {
		t.Errorf("dimensions = %dx%d, want 40x30", got.Width, got.Height)
	}
	if got.ContentType != "image/jpeg" || got.Ext != ".jpg" {
		t.Errorf("type = %q ext = %q", got.ContentType, got.Ext)
	}
}

func TestProcess_RejectsNonImage(t *testing.T) {
	p := NewProcessor(Options{})

	_, err := p.Process(bytes.NewReader([]byte("definitely not an image")))
	if err != ErrUnsupportedFormat {
		t.Errorf("Process error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"png", encodePNG(t, 2, 2), "png"},
		{"jpeg", encodeJPEG(t, 2, 2), "jpeg"},
		{"garbage", []byte{0x00, 0x01, 0x02}, ""},
		{"tiff rejected", []byte("II*\x00padpadpad"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectFormat(tt.data); got != tt.want {
				t.Errorf("detectFormat = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyOrientation(t *testing.T) {
	// 3x1 so rotation changes the bounds.
	img := image.NewRGBA(image.Rect(0, 0, 3, 1))

	rotated := applyOrientation(img, 6)
	if b := rotated.Bounds(); b.Dx() != 1 || b.Dy() != 3 {
		t.Errorf("orientation 6 bounds = %dx%d, want 1x3", b.Dx(), b.Dy())
	}

	same := applyOrientation(img, 1)
	if b := same.Bounds(); b.Dx() != 3 || b.Dy() != 1 {
		t.Errorf("orientation 1 bounds = %dx%d, want 3x1", b.Dx(), b.Dy())
	}
}
