package calculation

import (
	"github.com/rpgo/lifeplan-simulator/pkg/money"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. All figures are annual and in man-yen (10,000 yen).
// 2. Employment income deduction: income x 30% + 8, clamped to [55, 195] up to
//    an income of 850; flat 195 above that.
// 3. Social insurance premium: 15% of income below 850, 7.7% from 850.
// 4. National income tax uses the quick-calculation table (rate and
//    subtracted constant per bracket); brackets are not indexed.
// 5. Local (resident) tax: flat 10% of taxable income.

// TaxBracket is one row of the quick-calculation table. Max is the inclusive
// upper bound of taxable income; a zero Max marks the open-ended top bracket.
type TaxBracket struct {
	Max       decimal.Decimal
	Rate      decimal.Decimal
	Deduction decimal.Decimal
}

// TaxBreakdown holds every intermediate of a gross to net conversion.
type TaxBreakdown struct {
	Gross               decimal.Decimal `json:"gross"`
	EmploymentDeduction decimal.Decimal `json:"employment_deduction"`
	SocialInsurance     decimal.Decimal `json:"social_insurance"`
	Taxable             decimal.Decimal `json:"taxable"`
	NationalTax         decimal.Decimal `json:"national_tax"`
	LocalTax            decimal.Decimal `json:"local_tax"`
	Net                 decimal.Decimal `json:"net"`
}

// TaxCalculator converts gross employment income to net income.
type TaxCalculator struct {
	Brackets []TaxBracket
	// PremiumThreshold switches the social insurance rate.
	PremiumThreshold decimal.Decimal
	PremiumRateLow   decimal.Decimal
	PremiumRateHigh  decimal.Decimal
	LocalTaxRate     decimal.Decimal
}

// DefaultTaxBrackets returns the seven national income tax brackets.
func DefaultTaxBrackets() []TaxBracket {
	return []TaxBracket{
		{decimal.NewFromInt(195), decimal.NewFromFloat(0.05), decimal.Zero},
		{decimal.NewFromInt(330), decimal.NewFromFloat(0.10), decimal.NewFromFloat(9.75)},
		{decimal.NewFromInt(695), decimal.NewFromFloat(0.20), decimal.NewFromFloat(42.75)},
		{decimal.NewFromInt(900), decimal.NewFromFloat(0.23), decimal.NewFromFloat(63.6)},
		{decimal.NewFromInt(1800), decimal.NewFromFloat(0.33), decimal.NewFromFloat(153.6)},
		{decimal.NewFromInt(4000), decimal.NewFromFloat(0.40), decimal.NewFromFloat(279.6)},
		{decimal.Zero, decimal.NewFromFloat(0.45), decimal.NewFromFloat(479.6)},
	}
}

// NewTaxCalculator creates a tax calculator with the default tables.
func NewTaxCalculator() *TaxCalculator {
	return &TaxCalculator{
		Brackets:         DefaultTaxBrackets(),
		PremiumThreshold: decimal.NewFromInt(850),
		PremiumRateLow:   decimal.NewFromFloat(0.15),
		PremiumRateHigh:  decimal.NewFromFloat(0.077),
		LocalTaxRate:     decimal.NewFromFloat(0.10),
	}
}

// EmploymentDeduction returns the employment income deduction for gross.
func (tc *TaxCalculator) EmploymentDeduction(gross decimal.Decimal) decimal.Decimal {
	upper := decimal.NewFromInt(195)
	if gross.GreaterThan(tc.PremiumThreshold) {
		return upper
	}
	ded := gross.Mul(decimal.NewFromFloat(0.3)).Add(decimal.NewFromInt(8))
	return money.Clamp(ded, decimal.NewFromInt(55), upper)
}

// SocialInsurance returns the social insurance premium for gross.
func (tc *TaxCalculator) SocialInsurance(gross decimal.Decimal) decimal.Decimal {
	if gross.LessThan(tc.PremiumThreshold) {
		return gross.Mul(tc.PremiumRateLow)
	}
	return gross.Mul(tc.PremiumRateHigh)
}

// NationalTax applies the first bracket whose upper bound covers taxable.
func (tc *TaxCalculator) NationalTax(taxable decimal.Decimal) decimal.Decimal {
	if !taxable.IsPositive() || len(tc.Brackets) == 0 {
		return decimal.Zero
	}
	bracket := tc.Brackets[len(tc.Brackets)-1]
	for _, b := range tc.Brackets {
		if b.Max.IsZero() || taxable.LessThanOrEqual(b.Max) {
			bracket = b
			break
		}
	}
	tax := taxable.Mul(bracket.Rate).Sub(bracket.Deduction)
	if tax.IsNegative() {
		return decimal.Zero
	}
	return tax
}

// Breakdown computes every step of the gross to net conversion. Gross of
// zero or less yields an all-zero breakdown.
func (tc *TaxCalculator) Breakdown(gross decimal.Decimal) TaxBreakdown {
	if !gross.IsPositive() {
		return TaxBreakdown{}
	}
	deduction := tc.EmploymentDeduction(gross)
	premium := tc.SocialInsurance(gross)
	taxable := gross.Sub(deduction).Sub(premium)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	national := tc.NationalTax(taxable)
	local := taxable.Mul(tc.LocalTaxRate)
	return TaxBreakdown{
		Gross:               gross,
		EmploymentDeduction: deduction,
		SocialInsurance:     premium,
		Taxable:             taxable,
		NationalTax:         national,
		LocalTax:            local,
		Net:                 gross.Sub(premium).Sub(national).Sub(local),
	}
}

// NetIncome returns the annual net income for gross employment income.
func (tc *TaxCalculator) NetIncome(gross decimal.Decimal) decimal.Decimal {
	return tc.Breakdown(gross).Net
}
