package calculation

import (
	"github.com/rpgo/lifeplan-simulator/internal/domain"
	"github.com/rpgo/lifeplan-simulator/pkg/money"
	"github.com/shopspring/decimal"
)

// sectionState is the part of the carried state owned by one section
// (personal or corporate).
type sectionState struct {
	totalAssets decimal.Decimal
	pool        InvestmentPool
	// balances holds each asset item's balance at the end of the prior year,
	// in section order.
	balances []decimal.Decimal
	assetSum decimal.Decimal
}

// carriedState is threaded through the fold; a year never mutates the state
// it received.
type carriedState struct {
	personal  sectionState
	corporate sectionState
}

// assetRollup is one section's asset ledger after a year.
type assetRollup struct {
	balances []decimal.Decimal
	growth   decimal.Decimal
	sum      decimal.Decimal
}

// eventTotals buckets the life events of one year by source and direction.
type eventTotals struct {
	personalIncome, personalExpense           decimal.Decimal
	corporateIncome, corporateExpense         decimal.Decimal
	personalPoolIncome, personalPoolExpense   decimal.Decimal
	corporatePoolIncome, corporatePoolExpense decimal.Decimal
}

func collectEvents(events []domain.LifeEvent, year int) eventTotals {
	var t eventTotals
	for _, ev := range events {
		if ev.Year != year {
			continue
		}
		income := ev.Type == domain.EventIncome
		switch ev.Source {
		case domain.SourcePersonal:
			if income {
				t.personalIncome = t.personalIncome.Add(ev.Amount)
			} else {
				t.personalExpense = t.personalExpense.Add(ev.Amount)
			}
		case domain.SourceCorporate:
			if income {
				t.corporateIncome = t.corporateIncome.Add(ev.Amount)
			} else {
				t.corporateExpense = t.corporateExpense.Add(ev.Amount)
			}
		case domain.SourcePersonalInvestment:
			if income {
				t.personalPoolIncome = t.personalPoolIncome.Add(ev.Amount)
			} else {
				t.personalPoolExpense = t.personalPoolExpense.Add(ev.Amount)
			}
		case domain.SourceCorporateInvestment:
			if income {
				t.corporatePoolIncome = t.corporatePoolIncome.Add(ev.Amount)
			} else {
				t.corporatePoolExpense = t.corporatePoolExpense.Add(ev.Amount)
			}
		}
	}
	return t
}

// rollAssets advances every asset of a section by one year. The first year
// seeds each balance from its start-year value without growth.
func rollAssets(items []domain.AssetItem, prev []decimal.Decimal, year int, first bool, defaultRate decimal.Decimal) assetRollup {
	out := assetRollup{balances: make([]decimal.Decimal, len(items))}
	for i := range items {
		a := &items[i]
		input := a.Amounts.Get(year)
		if first {
			out.balances[i] = input
		} else {
			step := RollAsset(prev[i], input, a.Amounts.Supplied(year), a.IsInvestment, AssetRate(a, defaultRate))
			out.balances[i] = step.Balance
			out.growth = out.growth.Add(step.Growth)
		}
		out.sum = out.sum.Add(out.balances[i])
	}
	return out
}

func liabilityTotal(items []domain.LiabilityItem, year int) decimal.Decimal {
	total := decimal.Zero
	for _, l := range items {
		total = total.Add(l.Amounts.Get(year).Abs())
	}
	return total
}

func startingAssets(items []domain.AssetItem, startYear int) decimal.Decimal {
	total := decimal.Zero
	for _, a := range items {
		total = total.Add(a.Amounts.Get(startYear))
	}
	return total
}

// personalIncome is the role-split personal income of one year.
type personalIncome struct {
	main, side, otherSide, spouse, pension, spousePension decimal.Decimal
}

func (pi personalIncome) total() decimal.Decimal {
	return pi.main.Add(pi.side).Add(pi.otherSide).Add(pi.spouse).Add(pi.pension).Add(pi.spousePension)
}

func splitPersonalIncome(items []domain.IncomeItem, year int) personalIncome {
	var pi personalIncome
	for _, it := range items {
		amount := it.Amounts.Get(year)
		switch it.Role {
		case domain.IncomeSalary:
			pi.main = pi.main.Add(amount)
		case domain.IncomeSide:
			pi.side = pi.side.Add(amount)
		case domain.IncomeSpouse:
			pi.spouse = pi.spouse.Add(amount)
		case domain.IncomePension:
			pi.pension = pi.pension.Add(amount)
		case domain.IncomeSpousePension:
			pi.spousePension = pi.spousePension.Add(amount)
		default:
			pi.otherSide = pi.otherSide.Add(amount)
		}
	}
	return pi
}

func splitCorporateIncome(items []domain.IncomeItem, year int) (revenue, other decimal.Decimal) {
	for _, it := range items {
		amount := it.Amounts.Get(year)
		if it.Role == domain.IncomeBusinessProfit {
			revenue = revenue.Add(amount)
		} else {
			other = other.Add(amount)
		}
	}
	return revenue, other
}

// personalExpense is the role-split personal expense of one year.
type personalExpense struct {
	living, housing, education, other decimal.Decimal
}

func (pe personalExpense) total() decimal.Decimal {
	return pe.living.Add(pe.housing).Add(pe.education).Add(pe.other)
}

func splitPersonalExpense(items []domain.ExpenseItem, year int) personalExpense {
	var pe personalExpense
	for _, it := range items {
		amount := it.Amounts.Get(year)
		switch it.Role {
		case domain.ExpenseLiving:
			pe.living = pe.living.Add(amount)
		case domain.ExpenseHousing:
			pe.housing = pe.housing.Add(amount)
		case domain.ExpenseEducation:
			pe.education = pe.education.Add(amount)
		default:
			pe.other = pe.other.Add(amount)
		}
	}
	return pe
}

// splitCorporateExpense excludes revenue-derived costs, which the fold takes
// unrounded from the prepared run.
func splitCorporateExpense(items []domain.ExpenseItem, year int) (expense, other decimal.Decimal) {
	for _, it := range items {
		if it.DerivesCost() {
			continue
		}
		amount := it.Amounts.Get(year)
		if it.Role == domain.ExpenseBusinessCost {
			expense = expense.Add(amount)
		} else {
			other = other.Add(amount)
		}
	}
	return expense, other
}

// fold runs the year loop over a prepared snapshot and returns the ledger
// records plus every asset's projected balances.
func (ce *CalculationEngine) fold(run *preparedRun) ([]domain.YearRecord, domain.AssetData) {
	s := run.snapshot
	p := s.Profile

	state := carriedState{
		personal:  sectionState{totalAssets: startingAssets(s.Assets.Personal, p.StartYear)},
		corporate: sectionState{totalAssets: startingAssets(s.Assets.Corporate, p.StartYear)},
	}
	projected := domain.AssetData{
		Personal:  projectedAssets(s.Assets.Personal),
		Corporate: projectedAssets(s.Assets.Corporate),
	}

	records := make([]domain.YearRecord, 0, len(run.years))
	for index, year := range run.years {
		var rec domain.YearRecord
		rec, state = ce.step(run, state, index, year)
		records = append(records, rec)
		for i, b := range state.personal.balances {
			projected.Personal[i].Amounts[year] = b
		}
		for i, b := range state.corporate.balances {
			projected.Corporate[i].Amounts[year] = b
		}
		ce.Logger.Debugf("year %d: personal balance %s, total assets %s", year, rec.PersonalBalance, rec.PersonalTotalAssets)
	}
	return records, projected
}

func projectedAssets(items []domain.AssetItem) []domain.AssetItem {
	out := make([]domain.AssetItem, len(items))
	for i, a := range items {
		a.Amounts = domain.YearAmounts{}
		if a.InvestmentReturn != nil {
			r := *a.InvestmentReturn
			a.InvestmentReturn = &r
		}
		out[i] = a
	}
	return out
}

// step computes one year from the carried state and returns the record
// together with the state for the next year.
func (ce *CalculationEngine) step(run *preparedRun, prev carriedState, index, year int) (domain.YearRecord, carriedState) {
	s := run.snapshot
	p := s.Profile
	params := run.params
	first := index == 0

	// income
	pInc := splitPersonalIncome(s.Income.Personal, year)
	cRevenue, cOther := splitCorporateIncome(s.Income.Corporate, year)

	// contributions
	pContribution := SectionContribution(s.Income.Personal, year)
	cContribution := SectionContribution(s.Income.Corporate, year)

	// asset ledger and investment income
	pAssets := rollAssets(s.Assets.Personal, prev.personal.balances, year, first, params.InvestmentReturn)
	cAssets := rollAssets(s.Assets.Corporate, prev.corporate.balances, year, first, params.InvestmentReturn)
	pPoolGrowth, cPoolGrowth := decimal.Zero, decimal.Zero
	if !first {
		pPoolGrowth = prev.personal.pool.Growth(params.IncomeInvestmentReturn)
		cPoolGrowth = prev.corporate.pool.Growth(params.IncomeInvestmentReturn)
	}
	pInvestmentIncome := pAssets.growth.Add(pPoolGrowth)
	cInvestmentIncome := cAssets.growth.Add(cPoolGrowth)

	// expenses
	pExp := splitPersonalExpense(s.Expenses.Personal, year)
	cExpense, cOtherExpense := splitCorporateExpense(s.Expenses.Corporate, year)
	cCost := run.derivedCost.Get(year)

	events := collectEvents(s.LifeEvents, year)

	pLoan := run.personalLoans.Get(year)
	cLoan := run.corporateLoans.Get(year)
	pLiability := liabilityTotal(s.Liabilities.Personal, year)
	cLiability := liabilityTotal(s.Liabilities.Corporate, year)

	pBalance := pInc.total().Add(pInvestmentIncome).Add(events.personalIncome).
		Sub(pExp.total()).Sub(pContribution).Sub(events.personalExpense).Sub(pLoan)
	cBalance := cRevenue.Add(cOther).Add(cInvestmentIncome).Add(events.corporateIncome).
		Sub(cExpense).Sub(cOtherExpense).Sub(cCost).Sub(cContribution).Sub(events.corporateExpense).Sub(cLoan)

	next := carriedState{
		personal: sectionState{
			totalAssets: prev.personal.totalAssets.Add(pBalance),
			pool:        prev.personal.pool.Next(pContribution, pPoolGrowth, events.personalPoolIncome, events.personalPoolExpense),
			balances:    pAssets.balances,
			assetSum:    pAssets.sum,
		},
		corporate: sectionState{
			totalAssets: prev.corporate.totalAssets.Add(cBalance),
			pool:        prev.corporate.pool.Next(cContribution, cPoolGrowth, events.corporatePoolIncome, events.corporatePoolExpense),
			balances:    cAssets.balances,
			assetSum:    cAssets.sum,
		},
	}
	if !first {
		next.personal.totalAssets = next.personal.totalAssets.Add(pAssets.sum.Sub(prev.personal.assetSum))
		next.corporate.totalAssets = next.corporate.totalAssets.Add(cAssets.sum.Sub(prev.corporate.assetSum))
	}

	r := money.Round1
	rec := domain.YearRecord{
		Year: year,
		Age:  p.CurrentAge + (year - p.StartYear),

		MainIncome:          r(pInc.main),
		SideIncome:          r(pInc.side.Add(pInc.otherSide)),
		SpouseIncome:        r(pInc.spouse),
		PensionIncome:       r(pInc.pension),
		SpousePensionIncome: r(pInc.spousePension),
		InvestmentIncome:    r(pInvestmentIncome),

		LivingExpense:    r(pExp.living),
		HousingExpense:   r(pExp.housing),
		EducationExpense: r(pExp.education),
		OtherExpense:     r(pExp.other),
		LoanRepayment:    r(pLoan),

		PersonalAssets:         r(next.personal.totalAssets),
		InvestmentAmount:       r(pContribution),
		TotalInvestmentAssets:  r(next.personal.pool.Balance),
		PersonalBalance:        r(pBalance),
		PersonalTotalAssets:    r(next.personal.totalAssets),
		PersonalLiabilityTotal: r(pLiability),
		PersonalNetAssets:      r(next.personal.totalAssets.Sub(pLiability)),

		CorporateIncome:                r(cRevenue),
		CorporateOtherIncome:           r(cOther),
		CorporateExpense:               r(cExpense.Add(cCost)),
		CorporateOtherExpense:          r(cOtherExpense),
		CorporateLoanRepayment:         r(cLoan),
		CorporateBalance:               r(cBalance),
		CorporateTotalAssets:           r(next.corporate.totalAssets),
		CorporateLiabilityTotal:        r(cLiability),
		CorporateNetAssets:             r(next.corporate.totalAssets.Sub(cLiability)),
		CorporateInvestmentAmount:      r(cContribution),
		CorporateInvestmentIncome:      r(cInvestmentIncome),
		CorporateTotalInvestmentAssets: r(next.corporate.pool.Balance),
	}
	return rec, next
}
