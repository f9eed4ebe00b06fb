package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/nikolayk812/happycart-demo/internal/capture"
	"github.com/nikolayk812/happycart-demo/internal/domain"
	"github.com/nikolayk812/happycart-demo/internal/port"
	"go.uber.org/zap"
)

// Cart is the part of the cart engine the orchestrator finalizes.
type Cart interface {
	Snapshot() domain.Cart
	Drain() domain.Cart
}

type ProviderSelector interface {
	Resolve(ctx context.Context) (port.CaptureProvider, domain.CameraStatus, error)
	Fallback(ctx context.Context, current domain.ProviderKind) (port.CaptureProvider, domain.CameraStatus, bool)
}

type Option func(*Orchestrator)

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// WithCleanupRetries retries a failed photo delete up to retries more times with exponential backoff.
func WithCleanupRetries(retries uint64, interval time.Duration) Option {
	return func(o *Orchestrator) {
		o.cleanupRetries = retries
		o.cleanupInterval = interval
	}
}

type flow struct {
	id         uuid.UUID
	generation uint64
	state      State
	provider   port.CaptureProvider
	session    port.CaptureSession
	status     domain.CameraStatus
	photo      *domain.CapturedPhoto
	capturing  bool
}

// release holds what a detached flow still owns; it is settled outside the lock.
type release struct {
	session port.CaptureSession
	discard *domain.CapturedPhoto
	receipt *domain.Receipt
}

// Orchestrator runs at most one checkout flow at a time.
// Camera I/O happens outside the lock; results that come back for a flow that is no longer
// current are discarded.
type Orchestrator struct {
	mu       sync.Mutex
	cart     Cart
	selector ProviderSelector
	receipts port.ReceiptRepository
	logger   *zap.Logger
	now      func() time.Time

	cleanupRetries  uint64
	cleanupInterval time.Duration

	generation uint64
	flow       *flow
	outcome    *Outcome
}

// New accepts a nil receipts repository, in which case sales are not recorded.
func New(cart Cart, selector ProviderSelector, receipts port.ReceiptRepository, logger *zap.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}

	o := &Orchestrator{
		cart:            cart,
		selector:        selector,
		receipts:        receipts,
		logger:          logger,
		now:             time.Now,
		cleanupInterval: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.snapshotLocked(nil)
}

// Review opens the cart for review, abandoning any unfinished flow.
func (o *Orchestrator) Review(ctx context.Context) Snapshot {
	o.mu.Lock()
	prev := o.startLocked(StateCartReview)
	snap := o.snapshotLocked(nil)
	o.mu.Unlock()

	o.finish(ctx, prev)
	return snap
}

// Checkout completes the sale without a photo. The capture gateway is not touched.
func (o *Orchestrator) Checkout(ctx context.Context) (Snapshot, error) {
	o.mu.Lock()
	prev, err := o.acceptCheckoutLocked()
	if err != nil {
		snap := o.snapshotLocked(noticeFor(err))
		o.mu.Unlock()
		o.finish(ctx, prev)
		return snap, err
	}

	outcome, rel := o.finalizeLocked(StateConfirmed, ReasonCheckout, nil, nil)
	snap := o.snapshotLocked(outcome.Notice)
	o.mu.Unlock()

	o.finish(ctx, prev)
	o.finish(ctx, rel)
	return snap, nil
}

// BeginPhotoCheckout picks a capture provider and opens its session. When no provider is usable
// the sale completes without a photo.
func (o *Orchestrator) BeginPhotoCheckout(ctx context.Context) (Snapshot, error) {
	o.mu.Lock()
	prev, err := o.acceptCheckoutLocked()
	if err != nil {
		snap := o.snapshotLocked(noticeFor(err))
		o.mu.Unlock()
		o.finish(ctx, prev)
		return snap, err
	}
	fl := o.flow
	fl.state = StateCapturePrompt
	gen := fl.generation
	o.mu.Unlock()

	// the previous camera session is stopped before a new one is opened
	o.finish(ctx, prev)

	provider, status, err := o.selector.Resolve(ctx)
	var session port.CaptureSession
	if err == nil {
		session, err = provider.Open(ctx)
		if err != nil {
			o.logger.Warn("capture session not opened",
				zap.String("provider", string(provider.Kind())),
				zap.Error(err))
			err = fmt.Errorf("provider.Open: %w", err)
		}
	}

	o.mu.Lock()
	if !o.currentLocked(fl, gen) {
		o.mu.Unlock()
		o.logger.Info("discarding stale capture session", zap.Uint64("generation", gen))
		o.closeSession(session)
		return o.Snapshot(), ErrFlowAbandoned
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		fl.state = StateCartReview
		snap := o.snapshotLocked(nil)
		o.mu.Unlock()
		o.closeSession(session)
		return snap, ctxErr
	}

	if err != nil {
		o.logger.Info("no camera available, completing checkout without photo",
			zap.String("flow_id", fl.id.String()),
			zap.Error(err))
		outcome, rel := o.finalizeLocked(StateConfirmed, ReasonCaptureUnavailable, nil,
			fmt.Errorf("%w: %w", ErrCaptureUnavailable, err))
		snap := o.snapshotLocked(outcome.Notice)
		o.mu.Unlock()

		o.finish(ctx, rel)
		return snap, nil
	}

	fl.provider = provider
	fl.session = session
	fl.status = status
	fl.state = StateCapturing
	o.logger.Info("capture started",
		zap.String("flow_id", fl.id.String()),
		zap.String("provider", string(provider.Kind())))
	snap := o.snapshotLocked(nil)
	o.mu.Unlock()

	return snap, nil
}

// Capture takes one photo. A failing remote camera is swapped for the local one when possible;
// otherwise the sale completes and the flow is cancelled with ReasonCaptureFailed.
func (o *Orchestrator) Capture(ctx context.Context) (Snapshot, error) {
	o.mu.Lock()
	fl := o.flow
	if fl == nil || fl.state != StateCapturing {
		err := &TransitionError{From: o.stateLocked(), Op: "capture"}
		snap := o.snapshotLocked(nil)
		o.mu.Unlock()
		return snap, err
	}
	if fl.capturing {
		snap := o.snapshotLocked(nil)
		o.mu.Unlock()
		return snap, ErrCaptureInProgress
	}
	fl.capturing = true
	gen, session, kind := fl.generation, fl.session, fl.provider.Kind()
	filename := capture.PhotoFilename(o.now())
	o.mu.Unlock()

	photo, err := session.Capture(ctx, filename)

	// a remote camera may have written the file even when the request was cancelled
	var orphan string
	switch {
	case err == nil && photo.Persisted:
		orphan = photo.Filename
	case err != nil && ctx.Err() != nil && kind == domain.ProviderRemote:
		orphan = filename
	}

	var (
		next        port.CaptureProvider
		nextStatus  domain.CameraStatus
		nextSession port.CaptureSession
	)
	if err != nil && ctx.Err() == nil {
		o.logger.Warn("photo capture failed",
			zap.String("provider", string(kind)),
			zap.String("filename", filename),
			zap.Error(err))

		if provider, status, ok := o.selector.Fallback(ctx, kind); ok {
			s, openErr := provider.Open(ctx)
			if openErr != nil {
				o.logger.Warn("fallback session not opened", zap.Error(openErr))
			} else {
				next, nextStatus, nextSession = provider, status, s
			}
		}
	}

	o.mu.Lock()
	if !o.currentLocked(fl, gen) {
		o.mu.Unlock()
		o.logger.Info("discarding stale capture",
			zap.Uint64("generation", gen),
			zap.String("filename", filename))
		if orphan != "" {
			o.deletePhoto(context.WithoutCancel(ctx), session, orphan)
		}
		o.closeSession(nextSession)
		return o.Snapshot(), ErrFlowAbandoned
	}
	fl.capturing = false

	switch {
	case err == nil:
		fl.photo = &photo
		fl.state = StateReviewing
		notice := photoCapturedNotice()
		snap := o.snapshotLocked(&notice)
		o.mu.Unlock()
		return snap, nil

	case ctx.Err() != nil:
		snap := o.snapshotLocked(nil)
		o.mu.Unlock()
		if orphan != "" {
			o.deletePhoto(context.WithoutCancel(ctx), session, orphan)
		}
		return snap, fmt.Errorf("session.Capture: %w", err)

	case nextSession != nil:
		prev := fl.session
		fl.provider = next
		fl.session = nextSession
		fl.status = nextStatus
		snap := o.snapshotLocked(nil)
		o.mu.Unlock()
		o.closeSession(prev)
		return snap, nil

	default:
		outcome, rel := o.finalizeLocked(StateCancelled, ReasonCaptureFailed, nil,
			fmt.Errorf("%w: %w", ErrCaptureFailed, err))
		snap := o.snapshotLocked(outcome.Notice)
		o.mu.Unlock()

		o.finish(ctx, rel)
		return snap, nil
	}
}

// Retake discards the photo under review and goes back to capturing.
func (o *Orchestrator) Retake(ctx context.Context) (Snapshot, error) {
	o.mu.Lock()
	fl := o.flow
	if fl == nil || fl.state != StateReviewing {
		err := &TransitionError{From: o.stateLocked(), Op: "retake"}
		snap := o.snapshotLocked(nil)
		o.mu.Unlock()
		return snap, err
	}
	photo, session := fl.photo, fl.session
	fl.photo = nil
	fl.state = StateCapturing
	snap := o.snapshotLocked(nil)
	o.mu.Unlock()

	if photo != nil && photo.Persisted {
		o.deletePhoto(context.WithoutCancel(ctx), session, photo.Filename)
	}
	return snap, nil
}

// Save completes the sale and hands the reviewed photo to the caller in the outcome.
func (o *Orchestrator) Save(ctx context.Context) (Snapshot, error) {
	o.mu.Lock()
	fl := o.flow
	if fl == nil || fl.state != StateReviewing || fl.photo == nil {
		err := &TransitionError{From: o.stateLocked(), Op: "save"}
		snap := o.snapshotLocked(nil)
		o.mu.Unlock()
		return snap, err
	}

	outcome, rel := o.finalizeLocked(StateConfirmed, ReasonPhotoSaved, fl.photo, nil)
	snap := o.snapshotLocked(outcome.Notice)
	o.mu.Unlock()

	o.finish(ctx, rel)
	return snap, nil
}

// SkipPhoto completes the sale without a photo from anywhere in the photo sub-flow.
func (o *Orchestrator) SkipPhoto(ctx context.Context) (Snapshot, error) {
	o.mu.Lock()
	fl := o.flow
	if fl == nil || !fl.state.inPhotoFlow() {
		err := &TransitionError{From: o.stateLocked(), Op: "skip photo"}
		snap := o.snapshotLocked(nil)
		o.mu.Unlock()
		return snap, err
	}

	outcome, rel := o.finalizeLocked(StateConfirmed, ReasonPhotoSkipped, nil, nil)
	snap := o.snapshotLocked(outcome.Notice)
	o.mu.Unlock()

	o.finish(ctx, rel)
	return snap, nil
}

// Close abandons the current flow. The cart is kept; any photo and camera stream are released.
func (o *Orchestrator) Close(ctx context.Context) Snapshot {
	o.mu.Lock()
	fl := o.flow
	if fl == nil {
		snap := o.snapshotLocked(nil)
		o.mu.Unlock()
		return snap
	}

	o.logger.Info("checkout flow closed",
		zap.String("flow_id", fl.id.String()),
		zap.Stringer("state", fl.state))
	rel := o.detachLocked()
	o.outcome = &Outcome{State: StateCancelled, Reason: ReasonAbandoned}
	snap := o.snapshotLocked(nil)
	o.mu.Unlock()

	o.finish(ctx, rel)
	return snap
}

func (s State) inPhotoFlow() bool {
	return s == StateCapturePrompt || s == StateCapturing || s == StateReviewing
}

func (o *Orchestrator) stateLocked() State {
	if o.flow == nil {
		return StateIdle
	}
	return o.flow.state
}

func (o *Orchestrator) currentLocked(fl *flow, gen uint64) bool {
	return o.flow == fl && fl.generation == gen
}

// acceptCheckoutLocked enters CartReview, abandoning an unfinished photo flow. An empty cart keeps
// the flow in CartReview. The returned release belongs to the abandoned flow.
func (o *Orchestrator) acceptCheckoutLocked() (release, error) {
	var prev release
	switch fl := o.flow; {
	case fl == nil:
		o.startLocked(StateCartReview)
	case fl.state.inPhotoFlow():
		o.logger.Info("abandoning unfinished checkout flow",
			zap.String("flow_id", fl.id.String()),
			zap.Stringer("state", fl.state))
		prev = o.startLocked(StateCartReview)
	}

	if o.cart.Snapshot().IsEmpty() {
		return prev, ErrEmptyCart
	}
	return prev, nil
}

func (o *Orchestrator) startLocked(state State) release {
	prev := o.detachLocked()

	o.generation++
	o.flow = &flow{
		id:         uuid.New(),
		generation: o.generation,
		state:      state,
	}
	o.outcome = nil
	return prev
}

func (o *Orchestrator) detachLocked() release {
	fl := o.flow
	if fl == nil {
		return release{}
	}
	o.flow = nil

	return release{
		session: fl.session,
		discard: fl.photo,
	}
}

// finalizeLocked clears the cart into a receipt and ends the flow. A non-nil photo is handed off
// instead of being discarded. A cart emptied in the meantime ends the flow as abandoned, with no
// receipt.
func (o *Orchestrator) finalizeLocked(state State, reason Reason, photo *domain.CapturedPhoto, cause error) (*Outcome, release) {
	flowID := o.flow.id
	rel := o.detachLocked()

	sold := o.cart.Drain()
	if sold.IsEmpty() {
		// the cart was cleared while the photo flow was open; a photo under review is discarded
		o.logger.Info("cart emptied during checkout, nothing sold",
			zap.String("flow_id", flowID.String()),
			zap.String("reason", string(reason)))
		notice := emptyCartNotice()
		o.outcome = &Outcome{
			State:  StateCancelled,
			Reason: ReasonAbandoned,
			Notice: &notice,
			Err:    ErrEmptyCart,
		}
		return o.outcome, rel
	}
	if photo != nil {
		rel.discard = nil
	}
	receipt := domain.Receipt{
		ID:        uuid.New(),
		Items:     sold.Items,
		Total:     sold.Total,
		ItemCount: sold.ItemCount,
		CreatedAt: o.now(),
	}
	if photo != nil && photo.Persisted {
		receipt.PhotoFilename = photo.Filename
	}
	rel.receipt = &receipt

	var notice Notice
	switch reason {
	case ReasonPhotoSaved:
		notice = checkoutCompleteNotice(sold.Total, true)
	case ReasonCaptureFailed:
		notice = captureFailedNotice(sold.Total)
	case ReasonCaptureUnavailable:
		notice = cameraUnavailableNotice()
	default:
		notice = checkoutCompleteNotice(sold.Total, false)
	}

	o.outcome = &Outcome{
		State:   state,
		Reason:  reason,
		Receipt: &receipt,
		Photo:   photo,
		Notice:  &notice,
		Err:     cause,
	}

	o.logger.Info("checkout completed",
		zap.String("flow_id", flowID.String()),
		zap.String("receipt_id", receipt.ID.String()),
		zap.String("reason", string(reason)),
		zap.Stringer("total", sold.Total),
		zap.Int("item_count", sold.ItemCount))

	return o.outcome, rel
}

// finish settles a detached flow: discard its photo, stop its camera, record the sale.
func (o *Orchestrator) finish(ctx context.Context, rel release) {
	ctx = context.WithoutCancel(ctx)

	if rel.discard != nil && rel.discard.Persisted && rel.session != nil {
		o.deletePhoto(ctx, rel.session, rel.discard.Filename)
	}
	o.closeSession(rel.session)

	if rel.receipt != nil && o.receipts != nil {
		if err := o.receipts.SaveReceipt(ctx, *rel.receipt); err != nil {
			o.logger.Error("receipt not recorded",
				zap.String("receipt_id", rel.receipt.ID.String()),
				zap.Error(err))
		}
	}
}

func (o *Orchestrator) closeSession(session port.CaptureSession) {
	if session == nil {
		return
	}
	if err := session.Close(); err != nil {
		o.logger.Warn("capture session close failed", zap.Error(err))
	}
}

// deletePhoto is best-effort: failures are logged as ErrCleanupFailed and never returned.
func (o *Orchestrator) deletePhoto(ctx context.Context, session port.CaptureSession, filename string) {
	policy := backoff.WithContext(backoff.WithMaxRetries(o.newBackOff(), o.cleanupRetries), ctx)

	attempts := 0
	err := backoff.Retry(func() error {
		attempts++
		err := session.Delete(ctx, filename)
		if errors.Is(err, capture.ErrPhotoNotFound) {
			return backoff.Permanent(err)
		}
		return err
	}, policy)

	switch {
	case err == nil:
		o.logger.Debug("photo deleted", zap.String("filename", filename))
	case errors.Is(err, capture.ErrPhotoNotFound):
		o.logger.Info("photo already gone", zap.String("filename", filename))
	default:
		o.logger.Warn("photo cleanup failed",
			zap.String("filename", filename),
			zap.Int("attempts", attempts),
			zap.Error(fmt.Errorf("%w: %w", ErrCleanupFailed, err)))
	}
}

func (o *Orchestrator) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = o.cleanupInterval
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

func (o *Orchestrator) snapshotLocked(notice *Notice) Snapshot {
	snap := Snapshot{
		Generation: o.generation,
		State:      StateIdle,
		Cart:       o.cart.Snapshot(),
		Notice:     notice,
	}
	if o.outcome != nil {
		outcome := *o.outcome
		snap.Outcome = &outcome
	}

	if fl := o.flow; fl != nil {
		snap.FlowID = fl.id
		snap.Generation = fl.generation
		snap.State = fl.state
		snap.Status = fl.status
		if fl.provider != nil {
			snap.Provider = fl.provider.Kind()
		}
		if fl.photo != nil {
			photo := *fl.photo
			snap.Photo = &photo
		}
	}
	return snap
}

func noticeFor(err error) *Notice {
	if n, ok := NoticeFor(err); ok {
		return &n
	}
	return nil
}
