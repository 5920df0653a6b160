// Package scanner normalizes the three ticket input channels (typed text,
// live camera, uploaded image) into one canonical decoded payload. The
// redemption engine never learns which channel produced a string.
package scanner

import (
	"errors"
	"io"
	"strings"

	"github.com/spec-kit/admission-service/internal/qr"
	apperrors "github.com/spec-kit/admission-service/pkg/util"
)

// ManualInput canonicalizes operator-typed or pasted text: the trimmed
// text is the payload itself.
func ManualInput(text string) string {
	return strings.TrimSpace(text)
}

// ImageSource decodes single uploaded rasters on demand.
type ImageSource struct {
	codec *qr.Codec
}

// NewImageSource constructs the adapter for the upload channel.
func NewImageSource(codec *qr.Codec) *ImageSource {
	return &ImageSource{codec: codec}
}

// DecodeUpload extracts the ticket payload from an uploaded image. A
// missing or ambiguous code surfaces as DECODE_FAILED, which the operator
// can correct by retrying with a clearer image.
func (s *ImageSource) DecodeUpload(r io.Reader) (string, error) {
	payload, err := s.codec.DecodeReader(r)
	if err != nil {
		if errors.Is(err, qr.ErrCodeNotFound) {
			return "", apperrors.NewDecodeFailure("no QR code found in image")
		}
		return "", err
	}
	return payload, nil
}
