package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"sync"

	"github.com/nikolayk812/happycart-demo/internal/domain"
	"github.com/nikolayk812/happycart-demo/internal/port"
	"go.uber.org/zap"
)

// Device is a camera that can be opened for live capture.
type Device interface {
	Open(ctx context.Context) (Stream, error)
}

// Stream is a live camera feed. Stop releases the device.
type Stream interface {
	Frame(ctx context.Context) (image.Image, error)
	Stop()
}

// LocalProvider captures frames from a device owned by this process. Photos never leave memory,
// so there is nothing to delete afterwards.
type LocalProvider struct {
	device  Device
	quality int
	logger  *zap.Logger
}

func NewLocalProvider(device Device, logger *zap.Logger) *LocalProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalProvider{
		device:  device,
		quality: 85,
		logger:  logger,
	}
}

var _ port.CaptureProvider = (*LocalProvider)(nil)

func (p *LocalProvider) Kind() domain.ProviderKind {
	return domain.ProviderLocal
}

func (p *LocalProvider) CheckStatus(context.Context) domain.CameraStatus {
	if p.device == nil {
		return domain.CameraStatus{Available: false, Error: "No local camera configured"}
	}
	return domain.CameraStatus{Available: true, Message: "Local camera is available"}
}

func (p *LocalProvider) Open(ctx context.Context) (port.CaptureSession, error) {
	if p.device == nil {
		return nil, ErrCaptureUnavailable
	}

	stream, err := p.device.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("device.Open: %w", err)
	}
	p.logger.Debug("local camera stream started")

	return &localSession{
		stream:  stream,
		quality: p.quality,
		logger:  p.logger,
	}, nil
}

type localSession struct {
	mu      sync.Mutex
	stream  Stream
	closed  bool
	quality int
	logger  *zap.Logger
}

func (s *localSession) Capture(ctx context.Context, filename string) (domain.CapturedPhoto, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.CapturedPhoto{}, ErrSessionClosed
	}
	stream := s.stream
	s.mu.Unlock()

	frame, err := stream.Frame(ctx)
	if err != nil {
		return domain.CapturedPhoto{}, fmt.Errorf("stream.Frame: %w: %w", ErrCaptureFailed, err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: s.quality}); err != nil {
		return domain.CapturedPhoto{}, fmt.Errorf("jpeg.Encode: %w: %w", ErrCaptureFailed, err)
	}

	return domain.CapturedPhoto{
		Filename:  filename,
		DataURI:   EncodeDataURI("image/jpeg", buf.Bytes()),
		Persisted: false,
	}, nil
}

func (s *localSession) Delete(context.Context, string) error {
	return nil
}

func (s *localSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.stream.Stop()
	s.logger.Debug("local camera stream stopped")
	return nil
}
