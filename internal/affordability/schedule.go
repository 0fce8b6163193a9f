package affordability

import (
	"errors"
	"fmt"
	"math"

	"movecalc/internal/model"
)

// ScheduleRow is one month of the amortization schedule.
type ScheduleRow struct {
	Month              int     `json:"month"`
	Payment            float64 `json:"payment"`
	Interest           float64 `json:"interest"`
	Principal          float64 `json:"principal"`
	Balance            float64 `json:"balance"`
	CumulativeInterest float64 `json:"cumulative_interest"`
}

// MaxScheduleMonths bounds how many rows Schedule will expand.
const MaxScheduleMonths = 12000

var ErrScheduleTooLong = errors.New("schedule too long")

// Schedule expands a calculation into month-by-month repayments.
// It uses the payment from res so the rows agree with the headline figures.
// The final row absorbs rounding drift so the balance ends at exactly 0.
// Terms longer than MaxScheduleMonths return ErrScheduleTooLong; the
// headline figures for such terms are still available from Recalculate.
func Schedule(in model.Inputs, res model.Results) ([]ScheduleRow, error) {
	in = in.Sanitize()
	n := NumPayments(in.MortgageTerm)
	if res.LoanAmount <= 0 {
		return nil, nil
	}
	if n > MaxScheduleMonths {
		return nil, fmt.Errorf("%w: %d months (limit %d)", ErrScheduleTooLong, n, MaxScheduleMonths)
	}

	rate := MonthlyRate(in.InterestRate)
	if n <= 0 {
		// Straight-line fallback repays everything in one month, interest free,
		// matching MonthlyPayment.
		n, rate = 1, 0
	}
	rows := make([]ScheduleRow, 0, n)
	balance := res.LoanAmount
	cum := 0.0

	for m := 1; m <= n; m++ {
		interest := balance * rate
		payment := res.MonthlyPayment
		principal := payment - interest
		if m == n || principal > balance {
			principal = balance
			payment = principal + interest
		}
		balance = math.Max(0, balance-principal)
		cum += interest

		rows = append(rows, ScheduleRow{
			Month:              m,
			Payment:            payment,
			Interest:           interest,
			Principal:          principal,
			Balance:            balance,
			CumulativeInterest: cum,
		})
	}
	return rows, nil
}
