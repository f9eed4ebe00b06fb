package checkout

import (
	"errors"

	"github.com/nikolayk812/happycart-demo/internal/domain"
)

// Notice is a short user-facing message, rendered as a toast by the storefront.
type Notice struct {
	Title       string
	Description string
	Destructive bool
}

// NoticeFor returns the notice shown for a rejected checkout.
func NoticeFor(err error) (Notice, bool) {
	if errors.Is(err, ErrEmptyCart) {
		return emptyCartNotice(), true
	}
	return Notice{}, false
}

func emptyCartNotice() Notice {
	return Notice{
		Title:       "Cart is empty!",
		Description: "Add some items before checking out.",
		Destructive: true,
	}
}

func checkoutCompleteNotice(total domain.Money, withPhoto bool) Notice {
	description := "Thank you for your pretend purchase of " + total.Display() + "!"
	if withPhoto {
		description += " Your happy customer photo has been saved!"
	}
	return Notice{
		Title:       "🎉 Checkout Complete!",
		Description: description,
	}
}

func cameraUnavailableNotice() Notice {
	return Notice{
		Title:       "Camera Unavailable",
		Description: "Proceeding with checkout without photo. You can always take a photo later!",
		Destructive: true,
	}
}

func captureFailedNotice(total domain.Money) Notice {
	return Notice{
		Title:       "Photo Capture Failed",
		Description: "Failed to capture photo. Thank you for your pretend purchase of " + total.Display() + "!",
		Destructive: true,
	}
}

func photoCapturedNotice() Notice {
	return Notice{
		Title:       "Photo Captured! 📸",
		Description: "Your happy customer photo has been saved!",
	}
}
