package capture

import "errors"

var (
	ErrCaptureFailed      = errors.New("capture failed")
	ErrCaptureUnavailable = errors.New("no capture provider available")
	ErrServiceUnavailable = errors.New("camera service unavailable")
	ErrPhotoNotFound      = errors.New("photo not found")
	ErrSessionClosed      = errors.New("capture session closed")
)
