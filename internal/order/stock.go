package order

import "fmt"

// StockError reports an admission that would exceed available stock.
// Available is surfaced so the caller can build a user-facing message.
type StockError struct {
	Requested int32
	Available int32
}

func (e *StockError) Error() string {
	return fmt.Sprintf("requested quantity %d exceeds available stock %d", e.Requested, e.Available)
}

// CheckStock validates a requested quantity against known stock. A nil
// available (stock unknown) always passes. It must run before the
// registry is mutated; a failure leaves all draft state untouched.
func CheckStock(requested int32, available *int32) error {
	if available == nil {
		return nil
	}
	if requested > *available {
		return &StockError{Requested: requested, Available: *available}
	}
	return nil
}
