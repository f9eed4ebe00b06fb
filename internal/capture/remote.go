package capture

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/nikolayk812/happycart-demo/internal/domain"
	"github.com/nikolayk812/happycart-demo/internal/port"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// RemoteProvider captures photos on the device attached to the camera service.
type RemoteProvider struct {
	client *Client
	logger *zap.Logger
	sfg    singleflight.Group
}

func NewRemoteProvider(client *Client, logger *zap.Logger) *RemoteProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemoteProvider{
		client: client,
		logger: logger,
	}
}

var (
	_ port.CaptureProvider = (*RemoteProvider)(nil)
	_ port.PhotoGallery    = (*RemoteProvider)(nil)
)

func (p *RemoteProvider) Kind() domain.ProviderKind {
	return domain.ProviderRemote
}

func (p *RemoteProvider) CheckStatus(ctx context.Context) domain.CameraStatus {
	// concurrent status checks share one round trip; a cancelled caller gives up alone
	shared := context.WithoutCancel(ctx)
	ch := p.sfg.DoChan("status", func() (interface{}, error) {
		return p.fetchStatus(shared), nil
	})

	select {
	case res := <-ch:
		return res.Val.(domain.CameraStatus)
	case <-ctx.Done():
		return unreachableStatus()
	}
}

func (p *RemoteProvider) fetchStatus(ctx context.Context) domain.CameraStatus {
	resp, err := p.client.Status(ctx)
	if err != nil {
		p.logger.Warn("camera status check failed", zap.Error(err))
		return unreachableStatus()
	}

	return domain.CameraStatus{
		Available: resp.Available,
		Message:   resp.Message,
		Error:     resp.Error,
	}
}

func unreachableStatus() domain.CameraStatus {
	return domain.CameraStatus{
		Available: false,
		Error:     "Failed to connect to camera service",
	}
}

func (p *RemoteProvider) Open(context.Context) (port.CaptureSession, error) {
	return remoteSession{p: p}, nil
}

func (p *RemoteProvider) ListPhotos(ctx context.Context) ([]domain.Photo, error) {
	resp, err := p.client.ListPhotos(ctx)
	if err != nil {
		return nil, fmt.Errorf("client.ListPhotos: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("list photos: %s", resp.Error)
	}

	photos := make([]domain.Photo, 0, len(resp.Photos))
	for _, dto := range resp.Photos {
		photos = append(photos, domain.Photo{
			Filename: dto.Filename,
			URL:      dto.URL,
			Path:     dto.Path,
		})
	}

	// filenames embed the capture time, so descending order is newest first
	slices.SortFunc(photos, func(a, b domain.Photo) int {
		return strings.Compare(b.Filename, a.Filename)
	})

	return photos, nil
}

func (p *RemoteProvider) DeletePhoto(ctx context.Context, filename string) error {
	if err := p.client.DeletePhoto(ctx, filename); err != nil {
		return fmt.Errorf("client.DeletePhoto: %w", err)
	}
	return nil
}

// remoteSession holds no device resources; every call is an independent request.
type remoteSession struct {
	p *RemoteProvider
}

func (s remoteSession) Capture(ctx context.Context, filename string) (domain.CapturedPhoto, error) {
	resp, err := s.p.client.Capture(ctx, filename)
	if err != nil {
		return domain.CapturedPhoto{}, fmt.Errorf("client.Capture: %w: %w", ErrCaptureFailed, err)
	}
	if !resp.Success || resp.PhotoURL == "" {
		reason := resp.Error
		if reason == "" {
			reason = "no photo url returned"
		}
		return domain.CapturedPhoto{}, fmt.Errorf("%w: %s", ErrCaptureFailed, reason)
	}

	name := path.Base(resp.PhotoURL)

	data, contentType, err := s.p.client.FetchPhoto(ctx, resp.PhotoURL)
	if err != nil {
		// the file exists on the service but the caller never learns about it; remove it here
		if delErr := s.p.client.DeletePhoto(context.WithoutCancel(ctx), name); delErr != nil {
			s.p.logger.Warn("failed to delete unfetched photo", zap.String("filename", name), zap.Error(delErr))
		}
		return domain.CapturedPhoto{}, fmt.Errorf("client.FetchPhoto: %w: %w", ErrCaptureFailed, err)
	}

	return domain.CapturedPhoto{
		Filename:  name,
		DataURI:   EncodeDataURI(contentType, data),
		Persisted: true,
	}, nil
}

func (s remoteSession) Delete(ctx context.Context, filename string) error {
	return s.p.DeletePhoto(ctx, filename)
}

func (s remoteSession) Close() error {
	return nil
}
