package scanner

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/admission-service/internal/qr"
	apperrors "github.com/spec-kit/admission-service/pkg/util"
)

type fakeFrameSource struct {
	mu       sync.Mutex
	openErr  error
	frameErr error
	frames   []image.Image
	idx      int
	opened   bool
	closed   bool
}

func (f *fakeFrameSource) Open(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return f.openErr
	}
	f.opened = true
	return nil
}

func (f *fakeFrameSource) NextFrame(ctx context.Context) (image.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.frameErr != nil {
		return nil, f.frameErr
	}
	frame := f.frames[f.idx]
	if f.idx < len(f.frames)-1 {
		f.idx++
	}
	return frame, nil
}

func (f *fakeFrameSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeFrameSource) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func blankFrame() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

func qrFrame(t *testing.T, codec *qr.Codec, payload string) image.Image {
	t.Helper()
	png, err := codec.EncodePNG(payload)
	require.NoError(t, err)
	img, _, err := image.Decode(bytes.NewReader(png))
	require.NoError(t, err)
	return img
}

func TestCameraSingleShotDecode(t *testing.T) {
	codec := qr.NewCodec(256)
	adapter := NewCameraAdapter(codec, time.Millisecond, nil)

	source := &fakeFrameSource{
		frames: []image.Image{blankFrame(), blankFrame(), qrFrame(t, codec, "gate-ticket-id")},
	}

	var decodes int64
	decoded := make(chan string, 8)
	session, err := adapter.Start(context.Background(), source, func(payload string) {
		atomic.AddInt64(&decodes, 1)
		decoded <- payload
	}, nil)
	require.NoError(t, err)

	select {
	case payload := <-decoded:
		assert.Equal(t, "gate-ticket-id", payload)
	case <-time.After(2 * time.Second):
		t.Fatal("no decode within deadline")
	}

	<-session.Done()
	assert.True(t, source.isClosed(), "device must be released after decode")

	// The fake keeps serving the QR frame; no second delivery may happen.
	time.Sleep(20 * time.Millisecond)
	assert.EqualValues(t, 1, atomic.LoadInt64(&decodes))
}

func TestCameraStopReleasesDevice(t *testing.T) {
	codec := qr.NewCodec(256)
	adapter := NewCameraAdapter(codec, time.Millisecond, nil)

	source := &fakeFrameSource{frames: []image.Image{blankFrame()}}
	session, err := adapter.Start(context.Background(), source, func(string) {
		t.Error("unexpected decode")
	}, nil)
	require.NoError(t, err)

	session.Stop()
	assert.True(t, source.isClosed())

	// Stop is idempotent.
	session.Stop()
}

func TestCameraDeviceUnavailable(t *testing.T) {
	adapter := NewCameraAdapter(qr.NewCodec(256), time.Millisecond, nil)

	source := &fakeFrameSource{openErr: errors.New("permission denied")}
	_, err := adapter.Start(context.Background(), source, nil, nil)
	require.Error(t, err)

	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "DEVICE_UNAVAILABLE", de.Code)
}

func TestCameraFrameErrorStopsSession(t *testing.T) {
	adapter := NewCameraAdapter(qr.NewCodec(256), time.Millisecond, nil)

	source := &fakeFrameSource{frameErr: errors.New("device disconnected")}
	errCh := make(chan error, 1)
	session, err := adapter.Start(context.Background(), source, nil, func(err error) {
		errCh <- err
	})
	require.NoError(t, err)

	select {
	case err := <-errCh:
		var de *apperrors.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "DEVICE_UNAVAILABLE", de.Code)
	case <-time.After(2 * time.Second):
		t.Fatal("no error within deadline")
	}

	<-session.Done()
	assert.True(t, source.isClosed())
}

func TestStartingSecondSessionTearsDownFirst(t *testing.T) {
	codec := qr.NewCodec(256)
	adapter := NewCameraAdapter(codec, time.Millisecond, nil)

	first := &fakeFrameSource{frames: []image.Image{blankFrame()}}
	_, err := adapter.Start(context.Background(), first, nil, nil)
	require.NoError(t, err)

	second := &fakeFrameSource{frames: []image.Image{blankFrame()}}
	_, err = adapter.Start(context.Background(), second, nil, nil)
	require.NoError(t, err)

	assert.True(t, first.isClosed(), "previous session must be torn down")
	assert.False(t, second.isClosed())

	adapter.Stop()
	assert.True(t, second.isClosed())
}

func TestCameraContextCancelStopsSession(t *testing.T) {
	adapter := NewCameraAdapter(qr.NewCodec(256), time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	source := &fakeFrameSource{frames: []image.Image{blankFrame()}}
	session, err := adapter.Start(ctx, source, nil, nil)
	require.NoError(t, err)

	cancel()
	select {
	case <-session.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop on context cancel")
	}
	assert.True(t, source.isClosed())
}
