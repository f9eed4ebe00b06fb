package port

import (
	"context"

	"github.com/nikolayk812/happycart-demo/internal/domain"
)

// CaptureProvider is one way of taking a customer photo.
type CaptureProvider interface {
	Kind() domain.ProviderKind
	// CheckStatus never fails; an unreachable device reports Available=false.
	CheckStatus(ctx context.Context) domain.CameraStatus
	// Open acquires whatever the provider needs for a capture flow. The caller owns the session
	// and must Close it on every exit path.
	Open(ctx context.Context) (CaptureSession, error)
}

type CaptureSession interface {
	Capture(ctx context.Context, filename string) (domain.CapturedPhoto, error)
	Delete(ctx context.Context, filename string) error
	// Close is idempotent.
	Close() error
}

type PhotoGallery interface {
	ListPhotos(ctx context.Context) ([]domain.Photo, error)
	DeletePhoto(ctx context.Context, filename string) error
}
