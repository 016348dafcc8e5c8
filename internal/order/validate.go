package order

import (
	"errors"

	"github.com/sportline-pos/api/internal/enum"
)

// Errors that block submission. All client state is preserved so the
// user can correct the draft; nothing is sent anywhere.
var (
	ErrNoItems           = errors.New("cannot submit an empty order")
	ErrNegativeRemaining = errors.New("deposit plus paid exceeds the order total")
	ErrProviderRequired  = errors.New("a payment provider is required for digital payments")
	ErrUnknownProvider   = errors.New("unknown payment provider")
)

// CheckoutInput is the payment selection made at submission time.
type CheckoutInput struct {
	PaymentMethod   string
	PaymentProvider string
}

// ValidateSubmission is the submission gate. It blocks on an empty
// registry, on a negative raw remaining amount (the display clamp does
// not apply here) and on a digital payment without a provider.
func (d *Draft) ValidateSubmission(in CheckoutInput) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.keys) == 0 {
		return ErrNoItems
	}
	if d.summary.RawRemaining < 0 {
		return ErrNegativeRemaining
	}
	if in.PaymentMethod == enum.PaymentMethodDigital {
		switch in.PaymentProvider {
		case "":
			return ErrProviderRequired
		case enum.PaymentProviderNequi, enum.PaymentProviderDaviplata:
		default:
			return ErrUnknownProvider
		}
	}
	return nil
}
