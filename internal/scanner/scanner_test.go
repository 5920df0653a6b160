package scanner

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/admission-service/internal/qr"
	apperrors "github.com/spec-kit/admission-service/pkg/util"
)

func TestManualInputTrims(t *testing.T) {
	assert.Equal(t, "abc-123", ManualInput("  abc-123  "))
	assert.Equal(t, "abc-123", ManualInput("\tabc-123\n"))
	assert.Equal(t, "", ManualInput("   "))
	assert.Equal(t, "abc 123", ManualInput("abc 123"))
}

func TestImageSourceDecodeUpload(t *testing.T) {
	codec := qr.NewCodec(256)
	source := NewImageSource(codec)

	png, err := codec.EncodePNG("ticket-id-payload")
	require.NoError(t, err)

	payload, err := source.DecodeUpload(bytes.NewReader(png))
	require.NoError(t, err)
	assert.Equal(t, "ticket-id-payload", payload)
}

func TestImageSourceDecodeFailureIsRetryable(t *testing.T) {
	source := NewImageSource(qr.NewCodec(256))

	_, err := source.DecodeUpload(bytes.NewReader([]byte("not an image")))
	require.Error(t, err)

	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "DECODE_FAILED", de.Code)
}
