package checkout

import (
	"github.com/google/uuid"
	"github.com/nikolayk812/happycart-demo/internal/domain"
)

type State int

const (
	StateIdle State = iota
	StateCartReview
	StateCapturePrompt
	StateCapturing
	StateReviewing
	StateConfirmed
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCartReview:
		return "cart_review"
	case StateCapturePrompt:
		return "capture_prompt"
	case StateCapturing:
		return "capturing"
	case StateReviewing:
		return "reviewing"
	case StateConfirmed:
		return "confirmed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Reason explains how a flow reached its terminal state.
type Reason string

const (
	ReasonCheckout           Reason = "checkout"
	ReasonPhotoSaved         Reason = "photo_saved"
	ReasonPhotoSkipped       Reason = "photo_skipped"
	ReasonCaptureFailed      Reason = "capture_failed"
	ReasonCaptureUnavailable Reason = "capture_unavailable"
	ReasonAbandoned          Reason = "abandoned"
)

// Outcome is the terminal result of the last flow. It stays readable until the next flow starts.
type Outcome struct {
	State   State
	Reason  Reason
	Receipt *domain.Receipt
	Photo   *domain.CapturedPhoto
	Notice  *Notice
	Err     error
}

// SaleConfirmed reports whether the cart was finalized, which also happens when the photo step failed.
func (o Outcome) SaleConfirmed() bool {
	return o.Receipt != nil
}

type Snapshot struct {
	FlowID     uuid.UUID
	Generation uint64
	State      State
	Provider   domain.ProviderKind
	Status     domain.CameraStatus
	Photo      *domain.CapturedPhoto
	Cart       domain.Cart
	Outcome    *Outcome
	// Notice is the transient message produced by the call that returned this snapshot.
	Notice *Notice
}
