package capture

import (
	"context"

	"github.com/nikolayk812/happycart-demo/internal/domain"
	"github.com/nikolayk812/happycart-demo/internal/port"
	"go.uber.org/zap"
)

// Selector prefers the remote device and silently degrades to the local camera.
type Selector struct {
	remote port.CaptureProvider
	local  port.CaptureProvider
	logger *zap.Logger
}

// NewSelector accepts nil for either provider.
func NewSelector(remote, local port.CaptureProvider, logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{
		remote: remote,
		local:  local,
		logger: logger,
	}
}

func (s *Selector) Resolve(ctx context.Context) (port.CaptureProvider, domain.CameraStatus, error) {
	var remoteStatus domain.CameraStatus

	if s.remote != nil {
		remoteStatus = s.remote.CheckStatus(ctx)
		if remoteStatus.Available {
			return s.remote, remoteStatus, nil
		}
		s.logger.Info("remote camera unavailable",
			zap.String("message", remoteStatus.Message),
			zap.String("error", remoteStatus.Error))
	}

	if s.local != nil {
		localStatus := s.local.CheckStatus(ctx)
		if localStatus.Available {
			if s.remote != nil {
				s.logger.Info("falling back to local camera")
			}
			return s.local, localStatus, nil
		}
	}

	if remoteStatus.Error == "" {
		remoteStatus.Error = "Camera not detected"
	}
	return nil, remoteStatus, ErrCaptureUnavailable
}

// Fallback returns the local provider when the flow is currently using another one.
func (s *Selector) Fallback(ctx context.Context, current domain.ProviderKind) (port.CaptureProvider, domain.CameraStatus, bool) {
	if s.local == nil || current == s.local.Kind() {
		return nil, domain.CameraStatus{}, false
	}

	status := s.local.CheckStatus(ctx)
	if !status.Available {
		return nil, status, false
	}

	s.logger.Info("falling back to local camera", zap.String("from", string(current)))
	return s.local, status, true
}
