package qr

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/admission-service/internal/identifier"
)

func TestRoundTrip(t *testing.T) {
	codec := NewCodec(256)

	payloads := []string{
		"3f1f2f3c-9a1b-4c2d-8e3f-0123456789ab",
		"00000000-0000-4000-8000-000000000000",
	}
	for i := 0; i < 10; i++ {
		payloads = append(payloads, identifier.New())
	}

	for _, payload := range payloads {
		png, err := codec.EncodePNG(payload)
		require.NoError(t, err)

		decoded, err := codec.DecodeBytes(png)
		require.NoError(t, err, "payload %s", payload)
		assert.Equal(t, payload, decoded)
	}
}

func TestDecodeBlankImage(t *testing.T) {
	codec := NewCodec(0)

	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			img.Set(x, y, color.White)
		}
	}

	_, err := codec.Decode(img)
	assert.ErrorIs(t, err, ErrCodeNotFound)
}

func TestDecodeMalformedData(t *testing.T) {
	codec := NewCodec(0)

	_, err := codec.DecodeBytes([]byte("this is not an image"))
	assert.ErrorIs(t, err, ErrCodeNotFound)

	_, err = codec.DecodeBytes(nil)
	assert.ErrorIs(t, err, ErrCodeNotFound)
}

func TestEncodeDataURL(t *testing.T) {
	codec := NewCodec(256)

	url, err := codec.EncodeDataURL("ticket-payload")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	again, err := codec.EncodeDataURL("ticket-payload")
	require.NoError(t, err)
	assert.Equal(t, url, again)
}
