package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// Processor renders scaled-down copies of uploaded site photos. The dashboard
// lists thumbnails instead of multi-megabyte originals.
type Processor struct {
	width   int // target width in px, height follows the aspect ratio
	quality int // JPEG quality (1-100)
}

// NewProcessor creates a new image processor
func NewProcessor(width, quality int) *Processor {
	if width <= 0 {
		width = 400
	}
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Processor{
		width:   width,
		quality: quality,
	}
}

// Thumbnail decodes an image, scales it to the configured width and re-encodes
// it in the original format. Only JPEG and PNG inputs are supported.
func (p *Processor) Thumbnail(reader io.Reader) (io.Reader, error) {
	img, format, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := p.resize(img)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: p.quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
	case "png":
		if err := png.Encode(&buf, resized); err != nil {
			return nil, fmt.Errorf("failed to encode PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported image format: %s", format)
	}

	return &buf, nil
}

func (p *Processor) resize(img image.Image) image.Image {
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()

	if srcW <= p.width {
		return img
	}

	dstW := p.width
	dstH := srcH * dstW / srcW

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// ThumbnailPath derives the sibling path a thumbnail is stored under.
func ThumbnailPath(originalPath string) string {
	ext := filepath.Ext(originalPath)
	return strings.TrimSuffix(originalPath, ext) + "_thumbnail" + ext
}
