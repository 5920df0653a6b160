package scanner

import (
	"context"
	"image"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/admission-service/internal/qr"
	apperrors "github.com/spec-kit/admission-service/pkg/util"
)

// FrameSource is the device boundary for live scanning. Open acquires the
// exclusive camera resource; NextFrame returns the most recent frame.
type FrameSource interface {
	Open(ctx context.Context) error
	NextFrame(ctx context.Context) (image.Image, error)
	Close() error
}

// CameraAdapter runs live scan sessions. At most one session is active per
// adapter; starting a new one first tears down the previous one.
type CameraAdapter struct {
	codec    *qr.Codec
	interval time.Duration
	logger   *zap.Logger

	mu     sync.Mutex
	active *CameraSession
}

// NewCameraAdapter constructs the adapter. interval is the probe cadence.
func NewCameraAdapter(codec *qr.Codec, interval time.Duration, logger *zap.Logger) *CameraAdapter {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CameraAdapter{codec: codec, interval: interval, logger: logger}
}

// Start acquires the device and begins sampling frames. onDecoded fires at
// most once per session, after which the device is released. A failed
// acquisition returns DEVICE_UNAVAILABLE so the caller can fall back to
// manual or image input.
func (a *CameraAdapter) Start(ctx context.Context, source FrameSource, onDecoded func(string), onError func(error)) (*CameraSession, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.active != nil {
		a.active.Stop()
		a.active = nil
	}

	if err := source.Open(ctx); err != nil {
		_ = source.Close()
		return nil, apperrors.NewDeviceUnavailable("camera unavailable: " + err.Error())
	}

	session := &CameraSession{
		codec:     a.codec,
		source:    source,
		interval:  a.interval,
		onDecoded: onDecoded,
		onError:   onError,
		logger:    a.logger,
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
	}
	a.active = session
	go session.run(ctx)
	return session, nil
}

// Stop tears down the active session, if any.
func (a *CameraAdapter) Stop() {
	a.mu.Lock()
	session := a.active
	a.active = nil
	a.mu.Unlock()
	if session != nil {
		session.Stop()
	}
}

// CameraSession is a cancellable single-shot scan subscription.
type CameraSession struct {
	codec     *qr.Codec
	source    FrameSource
	interval  time.Duration
	onDecoded func(string)
	onError   func(error)
	logger    *zap.Logger

	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Stop halts sampling and blocks until the device is released. Safe to
// call multiple times and after the session finished on its own.
func (s *CameraSession) Stop() {
	s.halt()
	<-s.done
}

// Done is closed once the session has stopped and released the device.
func (s *CameraSession) Done() <-chan struct{} {
	return s.done
}

func (s *CameraSession) halt() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

func (s *CameraSession) run(ctx context.Context) {
	defer close(s.done)
	defer func() {
		if err := s.source.Close(); err != nil {
			s.logger.Warn("camera close failed", zap.Error(err))
		}
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			frame, err := s.source.NextFrame(ctx)
			if err != nil {
				// Lost the device mid-session; report once and shut down.
				if s.onError != nil {
					s.onError(apperrors.NewDeviceUnavailable("camera frame read failed: " + err.Error()))
				}
				s.halt()
				return
			}
			payload, err := s.codec.Decode(frame)
			if err != nil {
				// No code in this frame; keep sampling.
				continue
			}
			s.halt()
			if s.onDecoded != nil {
				s.onDecoded(payload)
			}
			return
		}
	}
}
