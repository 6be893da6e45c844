package calculation

import (
	"github.com/rpgo/lifeplan-simulator/internal/domain"
	"github.com/rpgo/lifeplan-simulator/pkg/dateutil"
	"github.com/rpgo/lifeplan-simulator/pkg/money"
	"github.com/shopspring/decimal"
)

const (
	defaultWorkStartAge = 22
	defaultClaimAge     = 65
)

// preparedRun is the immutable input of the fold: the materialized snapshot
// plus every schedule computed ahead of the year loop.
type preparedRun struct {
	snapshot *domain.Bundle
	params   domain.Parameters
	years    []int
	// derivedCost holds the unrounded business cost per year; the snapshot
	// carries the floored value.
	derivedCost    domain.YearAmounts
	personalLoans  domain.YearAmounts
	corporateLoans domain.YearAmounts
}

// prepare clones b and fills in every computed field.
func (ce *CalculationEngine) prepare(b *domain.Bundle) *preparedRun {
	s := b.Clone()
	normalizeSections(s)
	p := s.Profile
	params := s.Params()
	years := dateutil.Horizon(p.StartYear, p.CurrentAge, p.EndAge)

	run := &preparedRun{snapshot: s, params: params, years: years}

	ce.applyGrossToNet(s)
	ce.applyPensions(s, years)
	ce.applyAutoExpenses(s, params, years)
	applyRawInflation(s, params)
	run.derivedCost = deriveBusinessCosts(s, years)

	first, last := p.StartYear, p.LastYear()
	run.personalLoans = ce.Loans.SectionRepayments(s.Liabilities.Personal, first, last)
	run.corporateLoans = ce.Loans.SectionRepayments(s.Liabilities.Corporate, first, last)
	return run
}

func normalizeSections(s *domain.Bundle) {
	if s.Income == nil {
		s.Income = &domain.IncomeData{}
	}
	if s.Expenses == nil {
		s.Expenses = &domain.ExpenseData{}
	}
	if s.Assets == nil {
		s.Assets = &domain.AssetData{}
	}
	if s.Liabilities == nil {
		s.Liabilities = &domain.LiabilityData{}
	}
}

func withPensionDefaults(pp domain.PensionProfile) domain.PensionProfile {
	if pp.WorkStartAge == 0 {
		pp.WorkStartAge = defaultWorkStartAge
	}
	if pp.ClaimAge == 0 {
		pp.ClaimAge = defaultClaimAge
	}
	return pp
}

// earnerOccupation returns the occupation of whoever earns items of role.
func earnerOccupation(p *domain.Profile, role domain.IncomeRole) (domain.Occupation, bool) {
	switch role {
	case domain.IncomeSalary:
		return p.Occupation, true
	case domain.IncomeSpouse:
		if p.Spouse == nil {
			return "", false
		}
		return p.Spouse.Occupation, true
	}
	return "", false
}

// applyGrossToNet converts gross employment income to net amounts.
func (ce *CalculationEngine) applyGrossToNet(s *domain.Bundle) {
	for i := range s.Income.Personal {
		it := &s.Income.Personal[i]
		if len(it.GrossAmounts) == 0 {
			continue
		}
		occ, ok := earnerOccupation(s.Profile, it.Role)
		if !ok {
			continue
		}
		if it.Amounts == nil {
			it.Amounts = domain.YearAmounts{}
		}
		for year, gross := range it.GrossAmounts {
			if occ.IsEmployed() {
				it.Amounts[year] = money.Round1(ce.TaxCalc.NetIncome(gross))
			} else {
				it.Amounts[year] = gross
			}
		}
	}
}

// grossSalary returns the gross annual salary of role in year, falling back
// to the entered amount when no gross figure exists.
func grossSalary(items []domain.IncomeItem, role domain.IncomeRole, year int) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		if it.Role != role {
			continue
		}
		if it.GrossAmounts.Supplied(year) {
			total = total.Add(it.GrossAmounts.Get(year))
		} else {
			total = total.Add(it.Amounts.Get(year))
		}
	}
	return total
}

// averageRemuneration returns the banded average monthly salary over the
// years before the claim age in which a salary was earned.
func (ce *CalculationEngine) averageRemuneration(s *domain.Bundle, role domain.IncomeRole, pp domain.PensionProfile, ageIn func(year int) (int, bool), years []int) decimal.Decimal {
	if pp.AverageMonthlyRemuneration.IsPositive() {
		return ce.PensionCalc.StandardRemuneration(pp.AverageMonthlyRemuneration)
	}
	sum := decimal.Zero
	n := 0
	for _, y := range years {
		age, ok := ageIn(y)
		if !ok || age >= pp.ClaimAge {
			continue
		}
		salary := grossSalary(s.Income.Personal, role, y)
		if !salary.IsPositive() {
			continue
		}
		sum = sum.Add(salary)
		n++
	}
	if n == 0 {
		return decimal.Zero
	}
	monthly := sum.Div(decimal.NewFromInt(int64(n) * 12))
	return ce.PensionCalc.StandardRemuneration(monthly)
}

// applyPensions materializes auto-calculated pension items for every year.
func (ce *CalculationEngine) applyPensions(s *domain.Bundle, years []int) {
	p := s.Profile
	primaryAge := func(year int) (int, bool) {
		return dateutil.AgeInYear(p.CurrentAge, p.StartYear, year), true
	}

	for i := range s.Income.Personal {
		it := &s.Income.Personal[i]
		if !it.AutoCalculated {
			continue
		}
		switch it.Role {
		case domain.IncomePension:
			pp := withPensionDefaults(p.Pension)
			in := PensionInput{
				Occupation:          p.Occupation,
				Profile:             pp,
				AverageRemuneration: ce.averageRemuneration(s, domain.IncomeSalary, pp, primaryAge, years),
			}
			it.Amounts = ce.pensionSchedule(s, in, domain.IncomeSalary, primaryAge, years)
		case domain.IncomeSpousePension:
			if p.Spouse == nil || p.MaritalStatus == domain.MaritalSingle || p.MaritalStatus == "" {
				it.Amounts = zeroSchedule(years)
				continue
			}
			pp := withPensionDefaults(p.Spouse.Pension)
			in := PensionInput{
				Occupation:          p.Spouse.Occupation,
				Profile:             pp,
				AverageRemuneration: ce.averageRemuneration(s, domain.IncomeSpouse, pp, p.SpouseAge, years),
			}
			it.Amounts = ce.pensionSchedule(s, in, domain.IncomeSpouse, p.SpouseAge, years)
		}
	}
}

func (ce *CalculationEngine) pensionSchedule(s *domain.Bundle, in PensionInput, salaryRole domain.IncomeRole, ageIn func(int) (int, bool), years []int) domain.YearAmounts {
	out := make(domain.YearAmounts, len(years))
	for _, y := range years {
		age, ok := ageIn(y)
		if !ok {
			out[y] = decimal.Zero
			continue
		}
		salary := grossSalary(s.Income.Personal, salaryRole, y)
		out[y] = money.Round1(ce.PensionCalc.AnnualBenefit(in, age, salary))
	}
	return out
}

func zeroSchedule(years []int) domain.YearAmounts {
	out := make(domain.YearAmounts, len(years))
	for _, y := range years {
		out[y] = decimal.Zero
	}
	return out
}

// livingCost returns the inflated annual living cost, including the
// spouse's additional expense once married.
func livingCost(p *domain.Profile, params domain.Parameters, year int) decimal.Decimal {
	ys := dateutil.YearsSince(p.StartYear, year)
	twelve := decimal.NewFromInt(12)
	monthly := p.MonthlyLivingExpense
	if p.Spouse != nil && p.Spouse.AdditionalMonthlyExpense.IsPositive() {
		if _, married := p.SpouseAge(year); married {
			monthly = monthly.Add(p.Spouse.AdditionalMonthlyExpense)
		}
	}
	return money.Round1(monthly.Mul(twelve).Mul(money.Growth(params.InflationRate, ys)))
}

// applyAutoExpenses fills auto-calculated living, housing and education
// items from the profile.
func (ce *CalculationEngine) applyAutoExpenses(s *domain.Bundle, params domain.Parameters, years []int) {
	p := s.Profile
	for i := range s.Expenses.Personal {
		it := &s.Expenses.Personal[i]
		if !it.AutoCalculated {
			continue
		}
		switch it.Role {
		case domain.ExpenseLiving:
			out := make(domain.YearAmounts, len(years))
			for _, y := range years {
				out[y] = livingCost(p, params, y)
			}
			it.Amounts = out
		case domain.ExpenseHousing:
			it.Amounts = ce.HousingCalc.Schedule(p, params, years)
		case domain.ExpenseEducation:
			it.Amounts = ce.EducationCalc.Schedule(p, params, years)
		}
	}
}

// inflationFor returns the escalation rate applied to raw amounts of role.
func inflationFor(role domain.ExpenseRole, params domain.Parameters) decimal.Decimal {
	switch role {
	case domain.ExpenseLiving, domain.ExpenseHousing, domain.ExpenseBusinessCost:
		return params.InflationRate
	case domain.ExpenseEducation:
		return params.EducationCostIncreaseRate
	}
	return decimal.Zero
}

// applyRawInflation re-escalates items carrying pre-inflation amounts.
func applyRawInflation(s *domain.Bundle, params domain.Parameters) {
	start := s.Profile.StartYear
	apply := func(items []domain.ExpenseItem) {
		for i := range items {
			it := &items[i]
			if it.AutoCalculated || it.DerivesCost() || len(it.RawAmounts) == 0 {
				continue
			}
			if it.Amounts == nil {
				it.Amounts = domain.YearAmounts{}
			}
			rate := inflationFor(it.Role, params)
			for year, raw := range it.RawAmounts {
				it.Amounts[year] = money.Round1(raw.Mul(money.Growth(rate, year-start)))
			}
		}
	}
	apply(s.Expenses.Personal)
	apply(s.Expenses.Corporate)
}

// deriveBusinessCosts computes revenue-based costs, writes the floored value
// into each item and returns the unrounded total per year.
func deriveBusinessCosts(s *domain.Bundle, years []int) domain.YearAmounts {
	total := domain.YearAmounts{}
	start := s.Profile.StartYear
	for i := range s.Expenses.Corporate {
		it := &s.Expenses.Corporate[i]
		if !it.DerivesCost() {
			continue
		}
		if it.Amounts == nil {
			it.Amounts = domain.YearAmounts{}
		}
		cs := it.CostSettings
		for _, y := range years {
			revenue := decimal.Zero
			for _, inc := range s.Income.Corporate {
				revenue = revenue.Add(inc.Amounts.Get(y))
			}
			ratio := cs.CostRatio.Add(cs.CostIncreaseRate.Mul(decimal.NewFromInt(int64(y - start))))
			cost := money.Percent(revenue, ratio)
			if cs.MaxCostAmount.IsPositive() && cost.GreaterThan(cs.MaxCostAmount) {
				cost = cs.MaxCostAmount
			}
			it.Amounts[y] = cost.Floor()
			total[y] = total.Get(y).Add(cost)
		}
	}
	return total
}
