package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sportline-pos/api/internal/enum"
	"github.com/sportline-pos/api/internal/money"
)

// Minimum deposit, as a percentage of the pre-discount subtotal, that
// extends a reservation to the long validity window. Deliberately
// evaluated against the subtotal before discount.
const minDepositPercent = 20

var oneHundred = decimal.NewFromInt(100)

// Summary is the settlement state derived from the current line items
// and payment inputs. Remaining is clamped for display; RawRemaining is
// kept unclamped because a negative value blocks submission.
type Summary struct {
	Subtotal        int64
	DiscountPercent int64
	DiscountAmount  int64
	Deposit         int64
	Total           int64 // subtotal minus discount, floored at 0
	Paid            int64
	Remaining       int64
	RawRemaining    int64
	MinDeposit      int64
	Validity        string
	Message         string
}

// Compute derives the settlement summary. The stage order is
// load-bearing: subtotal, then discount, then total, then remaining.
// When derivePaid is set the paid amount is not taken from the caller
// but forced to max(0, total - deposit), preempting direct edits.
func Compute(items []LineItem, discountPercent, deposit, paid int64, derivePaid bool) Summary {
	var subtotal int64
	for _, li := range items {
		subtotal += li.Subtotal()
	}

	if discountPercent < 0 {
		discountPercent = 0
	} else if discountPercent > 100 {
		discountPercent = 100
	}

	sub := decimal.NewFromInt(subtotal)
	discountAmount := sub.Mul(decimal.NewFromInt(discountPercent)).Div(oneHundred).Round(0).IntPart()

	total := subtotal - discountAmount
	if total < 0 {
		total = 0
	}

	if derivePaid {
		paid = total - deposit
		if paid < 0 {
			paid = 0
		}
	}

	rawRemaining := total - deposit - paid
	remaining := rawRemaining
	if remaining < 0 {
		remaining = 0
	}

	minDeposit := sub.Mul(decimal.NewFromInt(minDepositPercent)).Div(oneHundred).Round(0).IntPart()

	s := Summary{
		Subtotal:        subtotal,
		DiscountPercent: discountPercent,
		DiscountAmount:  discountAmount,
		Deposit:         deposit,
		Total:           total,
		Paid:            paid,
		Remaining:       remaining,
		RawRemaining:    rawRemaining,
		MinDeposit:      minDeposit,
	}
	s.Validity, s.Message = classifyValidity(subtotal, deposit, minDeposit)
	return s
}

func classifyValidity(subtotal, deposit, minDeposit int64) (string, string) {
	switch {
	case subtotal == 0:
		return enum.ValidityNone, "no items selected"
	case deposit >= minDeposit:
		return enum.ValidityLong, "deposit covers the minimum: valid for 30 business days"
	default:
		return enum.ValidityShort, "deposit below the " + money.Format(minDeposit) + " minimum: valid for 3 business days"
	}
}

// DueDate returns the reservation deadline implied by the validity
// window, counting business days from now. ok is false when there is
// nothing to reserve.
func (s Summary) DueDate(now time.Time) (due time.Time, ok bool) {
	switch s.Validity {
	case enum.ValidityLong:
		return AddBusinessDays(now, enum.ValidityLongDays), true
	case enum.ValidityShort:
		return AddBusinessDays(now, enum.ValidityShortDays), true
	}
	return time.Time{}, false
}

// AddBusinessDays advances a date by the given number of weekdays,
// skipping Saturdays and Sundays.
func AddBusinessDays(start time.Time, days int) time.Time {
	current := start
	for added := 0; added < days; {
		current = current.AddDate(0, 0, 1)
		if wd := current.Weekday(); wd != time.Saturday && wd != time.Sunday {
			added++
		}
	}
	return current
}
