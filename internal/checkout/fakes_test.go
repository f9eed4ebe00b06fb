package checkout_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nikolayk812/happycart-demo/internal/capture"
	"github.com/nikolayk812/happycart-demo/internal/cart"
	"github.com/nikolayk812/happycart-demo/internal/checkout"
	"github.com/nikolayk812/happycart-demo/internal/domain"
	"github.com/nikolayk812/happycart-demo/internal/port"
	"github.com/nikolayk812/happycart-demo/internal/repository"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"golang.org/x/text/currency"
)

var errDevice = errors.New("device error")

// fakeProvider records every session call so tests can count deletes and closes.
type fakeProvider struct {
	kind        domain.ProviderKind
	available   bool
	persisted   bool
	failCapture bool
	openErr     error
	deleteErr   error

	// when set, Capture signals started and waits for release
	started chan struct{}
	release chan struct{}

	mu      sync.Mutex
	deletes []string
	opened  int
	closed  int
}

func newRemoteFake() *fakeProvider {
	return &fakeProvider{kind: domain.ProviderRemote, available: true, persisted: true}
}

func newLocalFake() *fakeProvider {
	return &fakeProvider{kind: domain.ProviderLocal, available: true}
}

func (p *fakeProvider) Kind() domain.ProviderKind {
	return p.kind
}

func (p *fakeProvider) CheckStatus(context.Context) domain.CameraStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.available {
		return domain.CameraStatus{Available: false, Error: "Camera not detected"}
	}
	return domain.CameraStatus{Available: true, Message: "Camera is ready"}
}

func (p *fakeProvider) Open(context.Context) (port.CaptureSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.openErr != nil {
		return nil, p.openErr
	}
	p.opened++
	return &fakeSession{provider: p}, nil
}

func (p *fakeProvider) setFailCapture(fail bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failCapture = fail
}

func (p *fakeProvider) deleted() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.deletes...)
}

// open reports sessions opened and not yet closed.
func (p *fakeProvider) open() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opened - p.closed
}

type fakeSession struct {
	provider *fakeProvider
	once     sync.Once
}

func (s *fakeSession) Capture(ctx context.Context, filename string) (domain.CapturedPhoto, error) {
	p := s.provider
	if p.started != nil {
		p.started <- struct{}{}
		select {
		case <-p.release:
		case <-ctx.Done():
			return domain.CapturedPhoto{}, ctx.Err()
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failCapture {
		return domain.CapturedPhoto{}, fmt.Errorf("fake capture: %w: %w", capture.ErrCaptureFailed, errDevice)
	}
	return domain.CapturedPhoto{
		Filename:  filename,
		DataURI:   "data:image/jpeg;base64,AAAA",
		Persisted: p.persisted,
	}, nil
}

func (s *fakeSession) Delete(_ context.Context, filename string) error {
	p := s.provider
	p.mu.Lock()
	defer p.mu.Unlock()

	p.deletes = append(p.deletes, filename)
	return p.deleteErr
}

func (s *fakeSession) Close() error {
	s.once.Do(func() {
		p := s.provider
		p.mu.Lock()
		p.closed++
		p.mu.Unlock()
	})
	return nil
}

type failingReceipts struct {
	port.ReceiptRepository
}

func (failingReceipts) SaveReceipt(context.Context, domain.Receipt) error {
	return errors.New("ledger is down")
}

type fixture struct {
	engine       *cart.Engine
	receipts     port.ReceiptRepository
	orchestrator *checkout.Orchestrator
}

// newFixture wants a literal nil for a missing provider; a typed nil pointer is not a nil interface.
func newFixture(t *testing.T, remote, local port.CaptureProvider, opts ...checkout.Option) fixture {
	t.Helper()

	logger := zaptest.NewLogger(t)
	return newFixtureWithLogger(t, logger, remote, local, opts...)
}

func newFixtureWithLogger(t *testing.T, logger *zap.Logger, remote, local port.CaptureProvider, opts ...checkout.Option) fixture {
	t.Helper()

	engine := cart.NewEngine(currency.USD, logger)
	receipts := repository.NewMemory()

	opts = append([]checkout.Option{checkout.WithClock(tickingClock())}, opts...)
	return fixture{
		engine:       engine,
		receipts:     receipts,
		orchestrator: checkout.New(engine, capture.NewSelector(remote, local, logger), receipts, logger, opts...),
	}
}

// tickingClock advances one second per call so photo filenames never collide.
func tickingClock() func() time.Time {
	var (
		mu  sync.Mutex
		now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

func (f fixture) fillCart() {
	f.engine.AddItem(item("pet-1", "Premium Dog Treats", 5, domain.VariantPetStore))
	f.engine.AddItem(item("bk-1", "Whopper", 7, domain.VariantBurgerKing))
	f.engine.AddItem(item("bk-1", "Whopper", 7, domain.VariantBurgerKing))
}

func item(id, name string, price int64, variant domain.Variant) domain.ItemCandidate {
	return domain.ItemCandidate{
		ID:       id,
		Name:     name,
		Price:    domain.NewMoney(price, currency.USD),
		Business: string(variant),
		Variant:  variant,
	}
}

// testingContext is used by table cases that build closures before t exists.
var testingContext = context.Background()
