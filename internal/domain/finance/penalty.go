package finance

import (
	"time"

	"github.com/Robi000/CMS/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Overdue penalty rate schedule. The daily rate escalates with the number
// of days an invoice has been overdue:
//
//	days 1-10:  2% of the invoice amount per day
//	days 11-30: 4% per day for every day past the tenth
//	days 31+:   5% per day for every day past the thirtieth
var (
	tierOneRate   = decimal.NewFromFloat(0.02)
	tierTwoRate   = decimal.NewFromFloat(0.04)
	tierThreeRate = decimal.NewFromFloat(0.05)
)

const (
	tierOneDays = 10
	tierTwoDays = 30
)

// OverduePenalty computes the penalty for an invoice that is overdue as of
// today. It returns zero for paid invoices and invoices not yet past due.
// The result is rounded half away from zero to 2 decimal places.
//
// This function is pure and idempotent; it is the only path through which
// an invoice penalty may be derived. It never touches the ledger - the
// ledger is credited at payment time only.
func OverduePenalty(amount decimal.Decimal, dueDate, today time.Time, isPaid bool) decimal.Decimal {
	if isPaid {
		return decimal.Zero
	}

	days := shared.DaysBetween(dueDate, today)
	if days <= 0 {
		return decimal.Zero
	}

	var penalty decimal.Decimal
	switch {
	case days <= tierOneDays:
		penalty = amount.Mul(tierOneRate).Mul(decimal.NewFromInt(int64(days)))
	case days <= tierTwoDays:
		penalty = amount.Mul(tierOneRate).Mul(decimal.NewFromInt(tierOneDays)).
			Add(amount.Mul(tierTwoRate).Mul(decimal.NewFromInt(int64(days - tierOneDays))))
	default:
		penalty = amount.Mul(tierOneRate).Mul(decimal.NewFromInt(tierOneDays)).
			Add(amount.Mul(tierTwoRate).Mul(decimal.NewFromInt(tierTwoDays - tierOneDays))).
			Add(amount.Mul(tierThreeRate).Mul(decimal.NewFromInt(int64(days - tierTwoDays))))
	}

	return penalty.Round(2)
}
