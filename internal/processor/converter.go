package processor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"

	// Decoders registered with the image package.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

var compressionLevels = map[string]png.CompressionLevel{
	"":        png.DefaultCompression,
	"default": png.DefaultCompression,
	"none":    png.NoCompression,
	"speed":   png.BestSpeed,
	"best":    png.BestCompression,
}

// pngConverter decodes any registered image format and re-encodes it as PNG.
type pngConverter struct {
	level png.CompressionLevel
}

// NewConverter creates a PNG converter.
// It returns an error if the compression level is unknown.
func NewConverter(config ConverterConfig) (*pngConverter, error) {
	level, ok := compressionLevels[strings.ToLower(config.Compression)]
	if !ok {
		return nil, fmt.Errorf("unknown png compression %q", config.Compression)
	}
	return &pngConverter{level: level}, nil
}

// Decode sniffs the content type of the image and decodes it.
// No EXIF orientation is applied, the pixels are exactly what the decoder produced.
func (c *pngConverter) Decode(ctx context.Context, from []byte) (image.Image, string, error) {
	mtype := mimetype.Detect(from)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, "", fmt.Errorf("unsupported content type %s", mtype.String())
	}

	img, _, err := image.Decode(bytes.NewReader(from))
	if err != nil {
		return nil, "", err
	}

	return img, mtype.String(), nil
}

// Encode serializes the image as PNG.
func (c *pngConverter) Encode(ctx context.Context, img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(c.level)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
