package capture

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"sync/atomic"
	"time"
)

// TestPatternDevice renders a moving colour gradient. It stands in for the in-browser camera when
// the storefront runs headless.
type TestPatternDevice struct {
	Width  int
	Height int
	Now    func() time.Time

	active atomic.Int32
}

func NewTestPatternDevice(width, height int) *TestPatternDevice {
	return &TestPatternDevice{Width: width, Height: height, Now: time.Now}
}

// Active reports how many streams are currently open.
func (d *TestPatternDevice) Active() int {
	return int(d.active.Load())
}

func (d *TestPatternDevice) Open(ctx context.Context) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.Width <= 0 || d.Height <= 0 {
		return nil, errors.New("test pattern size must be positive")
	}

	d.active.Add(1)
	return &testPatternStream{device: d}, nil
}

type testPatternStream struct {
	device *TestPatternDevice
	once   sync.Once
	done   atomic.Bool
}

func (s *testPatternStream) Frame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.done.Load() {
		return nil, ErrSessionClosed
	}

	now := time.Now
	if s.device.Now != nil {
		now = s.device.Now
	}
	shift := uint8(now().UnixMilli() / 10)

	w, h := s.device.Width, s.device.Height
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(x*255/w) + shift,
				G: uint8(y*255/h) + shift,
				B: 160,
				A: 255,
			})
		}
	}
	return img, nil
}

func (s *testPatternStream) Stop() {
	s.once.Do(func() {
		s.done.Store(true)
		s.device.active.Add(-1)
	})
}
