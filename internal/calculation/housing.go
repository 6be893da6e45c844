package calculation

import (
	"github.com/rpgo/lifeplan-simulator/internal/domain"
	"github.com/rpgo/lifeplan-simulator/pkg/dateutil"
	"github.com/rpgo/lifeplan-simulator/pkg/money"
	"github.com/shopspring/decimal"
)

// HousingCostModel computes the annual cost of the housing arrangement.
type HousingCostModel struct {
	Loans *LoanAmortizer
	// PropertyTaxRate is the fixed asset tax rate in percent of the price.
	PropertyTaxRate decimal.Decimal
}

// NewHousingCostModel creates a housing model sharing the loan amortizer.
func NewHousingCostModel(loans *LoanAmortizer) *HousingCostModel {
	if loans == nil {
		loans = NewLoanAmortizer()
	}
	return &HousingCostModel{Loans: loans, PropertyTaxRate: decimal.NewFromFloat(1.4)}
}

// RentCost returns (monthly rent × 12 + renewal fee in renewal years)
// escalated by the rent increase rate. Renewal years are the positive
// multiples of the interval counted from the start year.
func (hm *HousingCostModel) RentCost(terms *domain.RentTerms, yearsSinceStart int) decimal.Decimal {
	if terms == nil || yearsSinceStart < 0 {
		return decimal.Zero
	}
	annual := terms.MonthlyRent.Mul(decimal.NewFromInt(12))
	if terms.RenewalInterval > 0 && yearsSinceStart > 0 && yearsSinceStart%terms.RenewalInterval == 0 {
		annual = annual.Add(terms.RenewalFee)
	}
	return annual.Mul(money.Growth(terms.AnnualIncreaseRate, yearsSinceStart))
}

// OwnCost returns the mortgage installment plus inflated property tax and
// maintenance for a purchased home. Years before the purchase cost nothing.
func (hm *HousingCostModel) OwnCost(terms *domain.OwnTerms, year, yearsSinceStart int, inflationRate decimal.Decimal) decimal.Decimal {
	if terms == nil || year < terms.PurchaseYear {
		return decimal.Zero
	}
	total := decimal.Zero
	if year <= terms.PurchaseYear+terms.LoanTermYears-1 {
		total = hm.Loans.AnnualPayment(terms.LoanAmount, terms.InterestRate, terms.LoanTermYears, terms.LoanMethod)
	}

	factor := decimal.NewFromInt(1)
	if terms.PropertyTaxReductionYears > 0 && year-terms.PurchaseYear < terms.PropertyTaxReductionYears {
		factor = factor.Sub(money.Rate(terms.PropertyTaxReductionRate))
	}
	tax := money.Percent(terms.PurchasePrice, hm.PropertyTaxRate).Mul(factor)
	maintenance := money.Percent(terms.PurchasePrice, terms.MaintenanceCostRate)
	upkeep := tax.Add(maintenance).Mul(money.Growth(inflationRate, yearsSinceStart))
	return total.Add(upkeep)
}

// AnnualCost returns the housing cost for year, unrounded.
func (hm *HousingCostModel) AnnualCost(p *domain.Profile, params domain.Parameters, year int) decimal.Decimal {
	ys := dateutil.YearsSince(p.StartYear, year)
	switch p.Housing.Type {
	case domain.HousingRent:
		return hm.RentCost(p.Housing.Rent, ys)
	case domain.HousingOwn:
		return hm.OwnCost(p.Housing.Own, year, ys, params.InflationRate)
	}
	return decimal.Zero
}

// Schedule returns the rounded housing cost for every year of the horizon.
func (hm *HousingCostModel) Schedule(p *domain.Profile, params domain.Parameters, years []int) domain.YearAmounts {
	out := make(domain.YearAmounts, len(years))
	for _, y := range years {
		out[y] = money.Round1(hm.AnnualCost(p, params, y))
	}
	return out
}
