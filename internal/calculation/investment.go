package calculation

import (
	"github.com/rpgo/lifeplan-simulator/internal/domain"
	"github.com/rpgo/lifeplan-simulator/pkg/money"
	"github.com/shopspring/decimal"
)

// Contribution returns min(amount × ratio/100, cap). It is zero unless both
// the ratio and the amount are positive.
func Contribution(amount, ratioPercent, maxAmount decimal.Decimal) decimal.Decimal {
	if !ratioPercent.IsPositive() || !amount.IsPositive() {
		return decimal.Zero
	}
	return decimal.Min(money.Percent(amount, ratioPercent), maxAmount)
}

// SectionContribution sums the contributions of every income item in year.
func SectionContribution(items []domain.IncomeItem, year int) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(Contribution(it.Amounts.Get(year), it.InvestmentRatio, it.MaxInvestmentAmount))
	}
	return total
}

// AssetStep is the outcome of rolling one asset forward by a year.
type AssetStep struct {
	Balance decimal.Decimal
	Growth  decimal.Decimal
}

// RollAsset advances an asset from its prior-year balance. input is the
// value entered for the year and supplied reports whether it is non-zero.
//
// Investment assets with a positive prior balance earn rate percent and add
// the input as a top-up. A first appearance is taken verbatim. Everything
// else keeps the input when supplied and carries the prior balance
// otherwise.
func RollAsset(prior, input decimal.Decimal, supplied, isInvestment bool, ratePercent decimal.Decimal) AssetStep {
	if isInvestment && prior.IsPositive() {
		growth := money.Percent(prior, ratePercent)
		return AssetStep{Balance: prior.Add(growth).Add(input), Growth: growth}
	}
	if supplied {
		return AssetStep{Balance: input, Growth: decimal.Zero}
	}
	return AssetStep{Balance: prior, Growth: decimal.Zero}
}

// AssetRate returns the asset's own return or the global default.
func AssetRate(a *domain.AssetItem, defaultRate decimal.Decimal) decimal.Decimal {
	if a.InvestmentReturn != nil {
		return *a.InvestmentReturn
	}
	return defaultRate
}

// InvestmentPool is the running balance funded from income contributions.
type InvestmentPool struct {
	Balance decimal.Decimal
}

// Growth returns the return the pool earns on its current balance.
func (p InvestmentPool) Growth(ratePercent decimal.Decimal) decimal.Decimal {
	if !p.Balance.IsPositive() {
		return decimal.Zero
	}
	return money.Percent(p.Balance, ratePercent)
}

// Next returns the pool after a year's contribution, growth and
// investment-sourced life events.
func (p InvestmentPool) Next(contribution, growth, eventIncome, eventExpense decimal.Decimal) InvestmentPool {
	return InvestmentPool{Balance: p.Balance.Add(contribution).Add(growth).Add(eventIncome).Sub(eventExpense)}
}
