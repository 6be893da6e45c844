package calculation

import (
	"github.com/rpgo/lifeplan-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// LoanAmortizer derives annual repayments from amortization terms.
//
// The linear method divides the principal evenly over the term without
// interest, which is what every stored bundle has been projected with. The
// annuity method is the compound-interest equal-payment installment and has
// to be requested explicitly.
type LoanAmortizer struct {
	// Precision bounds the scale of intermediate compounding factors.
	Precision int32
}

// NewLoanAmortizer creates a loan amortizer.
func NewLoanAmortizer() *LoanAmortizer {
	return &LoanAmortizer{Precision: 18}
}

// AnnualPayment returns the yearly repayment of a loan.
func (la *LoanAmortizer) AnnualPayment(principal, ratePercent decimal.Decimal, termYears int, method domain.AmortizationMethod) decimal.Decimal {
	if !principal.IsPositive() || termYears <= 0 {
		return decimal.Zero
	}
	if method != domain.MethodAnnuity || !ratePercent.IsPositive() {
		return principal.Div(decimal.NewFromInt(int64(termYears)))
	}
	return la.MonthlyInstallment(principal, ratePercent, termYears).Mul(decimal.NewFromInt(12))
}

// MonthlyInstallment returns P·r / (1 − (1+r)^−n) for a monthly rate r and
// n monthly periods.
func (la *LoanAmortizer) MonthlyInstallment(principal, ratePercent decimal.Decimal, termYears int) decimal.Decimal {
	n := termYears * 12
	if n <= 0 {
		return decimal.Zero
	}
	r := ratePercent.Div(decimal.NewFromInt(1200))
	if r.IsZero() {
		return principal.Div(decimal.NewFromInt(int64(n)))
	}
	one := decimal.NewFromInt(1)
	step := one.Add(r)
	factor := one
	for i := 0; i < n; i++ {
		factor = factor.Mul(step).Round(la.Precision)
	}
	discount := one.Sub(one.Div(factor))
	return principal.Mul(r).Div(discount)
}

// Schedule returns the annual repayments of one loan for each year from its
// start through start+term−1 that lies within [firstYear, lastYear].
func (la *LoanAmortizer) Schedule(principal, ratePercent decimal.Decimal, startYear, termYears int, method domain.AmortizationMethod, firstYear, lastYear int) domain.YearAmounts {
	schedule := domain.YearAmounts{}
	payment := la.AnnualPayment(principal, ratePercent, termYears, method)
	if payment.IsZero() {
		return schedule
	}
	for i := 0; i < termYears; i++ {
		year := startYear + i
		if year < firstYear || year > lastYear {
			continue
		}
		schedule[year] = payment
	}
	return schedule
}

// SectionRepayments sums the schedules of every auto-calculated liability.
func (la *LoanAmortizer) SectionRepayments(items []domain.LiabilityItem, firstYear, lastYear int) domain.YearAmounts {
	total := domain.YearAmounts{}
	for _, item := range items {
		a := item.Amortization
		if !a.Schedulable() {
			continue
		}
		for year, amount := range la.Schedule(a.OriginalAmount, a.InterestRate, a.StartYear, a.TermYears, a.Method, firstYear, lastYear) {
			total[year] = total.Get(year).Add(amount)
		}
	}
	return total
}
