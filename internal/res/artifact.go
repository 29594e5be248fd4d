// Package res loads the opaque image artifacts placed on an invoice: the
// company logo, the seal and the signature.
package res

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Artifact is a decoded image ready for placement. Data is always PNG, JPEG
// or GIF so any renderer can embed it as is.
type Artifact struct {
	Ref       string
	Data      []byte
	ImageType string // "PNG", "JPG" or "GIF"
	Width     int    // intrinsic width in pixels
	Height    int    // intrinsic height in pixels
}

// svgRasterSize is the longest edge, in pixels, SVG artifacts are rasterized to
const svgRasterSize = 512

// Decode turns raw bytes into an Artifact, transcoding formats a PDF writer
// cannot embed (BMP, TIFF, WebP, SVG) to PNG.
func Decode(r *Resource) (*Artifact, error) {
	if len(r.Data) == 0 {
		return nil, errors.New("empty artifact data")
	}
	if isSVG(r) {
		return rasterizeSVG(r)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(r.Data))
	if err != nil {
		return nil, err
	}

	switch format {
	case "png":
		return &Artifact{Ref: r.URL, Data: r.Data, ImageType: "PNG", Width: cfg.Width, Height: cfg.Height}, nil
	case "jpeg":
		return &Artifact{Ref: r.URL, Data: r.Data, ImageType: "JPG", Width: cfg.Width, Height: cfg.Height}, nil
	case "gif":
		return &Artifact{Ref: r.URL, Data: r.Data, ImageType: "GIF", Width: cfg.Width, Height: cfg.Height}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(r.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s image: %w", format, err)
	}
	return encodePNG(r.URL, img)
}

func isSVG(r *Resource) bool {
	if r.MimeType == "image/svg+xml" {
		return true
	}
	head := strings.TrimSpace(string(r.Data[:min(len(r.Data), 256)]))
	return strings.HasPrefix(head, "<svg") || (strings.HasPrefix(head, "<?xml") && strings.Contains(head, "<svg"))
}

func rasterizeSVG(r *Resource) (*Artifact, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(r.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}

	vw, vh := icon.ViewBox.W, icon.ViewBox.H
	if vw <= 0 || vh <= 0 {
		vw, vh = svgRasterSize, svgRasterSize
	}
	scale := svgRasterSize / max(vw, vh)
	w, h := int(vw*scale), int(vh*scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)

	return encodePNG(r.URL, img)
}

func encodePNG(ref string, img image.Image) (*Artifact, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	b := img.Bounds()
	return &Artifact{Ref: ref, Data: buf.Bytes(), ImageType: "PNG", Width: b.Dx(), Height: b.Dy()}, nil
}

// Fit scales the artifact into a w x h box preserving its aspect ratio and
// returns the placed size.
func (a *Artifact) Fit(w, h float64) (float64, float64) {
	if a == nil || a.Width <= 0 || a.Height <= 0 || w <= 0 || h <= 0 {
		return 0, 0
	}
	ratio := float64(a.Width) / float64(a.Height)
	if w/h > ratio {
		return h * ratio, h
	}
	return w, w / ratio
}
