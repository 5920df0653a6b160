// Package qr encodes ticket identifiers into QR rasters and decodes them
// back out of camera frames and uploaded images.
package qr

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/makiuchi-d/gozxing"
	multiqr "github.com/makiuchi-d/gozxing/multi/qrcode"
	qrcode "github.com/skip2/go-qrcode"
)

// ErrCodeNotFound is returned when an image contains zero QR codes, or
// more than one (ambiguous — there is no way to tell which ticket was
// meant). Malformed image data maps here too; decoding never panics or
// partially decodes.
var ErrCodeNotFound = errors.New("no QR code found in image")

const defaultImageSize = 256

// Codec is a stateless encoder/decoder. Encoding is deterministic for a
// given payload; the raster is scan-equivalent across runs.
type Codec struct {
	size int
}

// NewCodec constructs a codec rendering rasters of size x size pixels.
func NewCodec(size int) *Codec {
	if size <= 0 {
		size = defaultImageSize
	}
	return &Codec{size: size}
}

// EncodePNG renders the payload as a QR PNG. Recovery level is High so a
// printed and re-photographed ticket still scans.
func (c *Codec) EncodePNG(payload string) ([]byte, error) {
	return qrcode.Encode(payload, qrcode.High, c.size)
}

// EncodeDataURL renders the payload as a PNG data URL for embedding in
// JSON responses and HTML.
func (c *Codec) EncodeDataURL(payload string) (string, error) {
	png, err := c.EncodePNG(payload)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// Decode locates exactly one QR code in the image and returns its payload.
func (c *Codec) Decode(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", ErrCodeNotFound
	}
	results, err := multiqr.NewQRCodeMultiReader().DecodeMultiple(bmp, nil)
	if err != nil || len(results) != 1 {
		return "", ErrCodeNotFound
	}
	return results[0].GetText(), nil
}

// DecodeReader decodes a single still image read from r (PNG, JPEG or GIF).
func (c *Codec) DecodeReader(r io.Reader) (string, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return "", ErrCodeNotFound
	}
	return c.Decode(img)
}

// DecodeBytes decodes a single still image held in memory.
func (c *Codec) DecodeBytes(data []byte) (string, error) {
	return c.DecodeReader(bytes.NewReader(data))
}
