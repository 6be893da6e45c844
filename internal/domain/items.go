package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// YearAmounts maps a calendar year to an amount in man-yen.
type YearAmounts map[int]decimal.Decimal

// Get returns the amount for year, or zero when absent.
func (ya YearAmounts) Get(year int) decimal.Decimal {
	if ya == nil {
		return decimal.Zero
	}
	return ya[year]
}

// Supplied reports whether a non-zero value was entered for year.
func (ya YearAmounts) Supplied(year int) bool {
	v, ok := ya[year]
	return ok && !v.IsZero()
}

// Years returns the keys in ascending order.
func (ya YearAmounts) Years() []int {
	years := make([]int, 0, len(ya))
	for y := range ya {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Clone returns an independent copy. A nil map stays nil.
func (ya YearAmounts) Clone() YearAmounts {
	if ya == nil {
		return nil
	}
	c := make(YearAmounts, len(ya))
	for y, v := range ya {
		c[y] = v
	}
	return c
}

// IncomeRole is the stable tag the engine dispatches income items on.
type IncomeRole string

const (
	IncomeSalary         IncomeRole = "salary"
	IncomeBusinessProfit IncomeRole = "business_profit"
	IncomeSide           IncomeRole = "side"
	IncomeSpouse         IncomeRole = "spouse"
	IncomePension        IncomeRole = "pension"
	IncomeSpousePension  IncomeRole = "spouse_pension"
	IncomeOther          IncomeRole = "other"
)

// Valid reports whether r is a known income role.
func (r IncomeRole) Valid() bool {
	switch r {
	case IncomeSalary, IncomeBusinessProfit, IncomeSide, IncomeSpouse, IncomePension, IncomeSpousePension, IncomeOther:
		return true
	}
	return false
}

// ExpenseRole is the stable tag the engine dispatches expense items on.
type ExpenseRole string

const (
	ExpenseLiving       ExpenseRole = "living"
	ExpenseHousing      ExpenseRole = "housing"
	ExpenseEducation    ExpenseRole = "education"
	ExpenseBusinessCost ExpenseRole = "business_cost"
	ExpenseOther        ExpenseRole = "other"
)

// Valid reports whether r is a known expense role.
func (r ExpenseRole) Valid() bool {
	switch r {
	case ExpenseLiving, ExpenseHousing, ExpenseEducation, ExpenseBusinessCost, ExpenseOther:
		return true
	}
	return false
}

// AssetKind labels an asset item.
type AssetKind string

const (
	AssetCash       AssetKind = "cash"
	AssetInvestment AssetKind = "investment"
	AssetProperty   AssetKind = "property"
	AssetOther      AssetKind = "other"
)

// LiabilityKind labels a liability item.
type LiabilityKind string

const (
	LiabilityLoan   LiabilityKind = "loan"
	LiabilityCredit LiabilityKind = "credit"
	LiabilityOther  LiabilityKind = "other"
)

// RepaymentType is the declared repayment style of a loan. It is stored and
// exported but the schedule is selected by AmortizationMethod.
type RepaymentType string

const (
	RepaymentEqualPrincipal RepaymentType = "equal_principal"
	RepaymentEqualPayment   RepaymentType = "equal_payment"
)

// AmortizationMethod selects how the annual repayment is computed.
type AmortizationMethod string

const (
	// MethodLinear divides the principal evenly over the term, ignoring interest.
	MethodLinear AmortizationMethod = "linear"
	// MethodAnnuity is the compound-interest equal-payment installment.
	MethodAnnuity AmortizationMethod = "annuity"
)

// IncomeItem is one income source with per-year amounts.
type IncomeItem struct {
	ID   string     `yaml:"id" json:"id"`
	Name string     `yaml:"name" json:"name"`
	Role IncomeRole `yaml:"role" json:"role"`
	// Amounts are the net amounts the engine consumes.
	Amounts YearAmounts `yaml:"amounts" json:"amounts"`
	// GrossAmounts, when present on employment income, are converted to
	// Amounts by the tax model.
	GrossAmounts        YearAmounts     `yaml:"gross_amounts,omitempty" json:"gross_amounts,omitempty"`
	InvestmentRatio     decimal.Decimal `yaml:"investment_ratio" json:"investment_ratio"`
	MaxInvestmentAmount decimal.Decimal `yaml:"max_investment_amount" json:"max_investment_amount"`
	AutoCalculated      bool            `yaml:"auto_calculated,omitempty" json:"auto_calculated,omitempty"`
}

// CostSettings derive a business cost from same-year corporate revenue.
type CostSettings struct {
	CostRatio        decimal.Decimal `yaml:"cost_ratio" json:"cost_ratio"`
	CostIncreaseRate decimal.Decimal `yaml:"cost_increase_rate" json:"cost_increase_rate"`
	// MaxCostAmount caps the derived cost when positive.
	MaxCostAmount decimal.Decimal `yaml:"max_cost_amount,omitempty" json:"max_cost_amount,omitempty"`
}

// ExpenseItem is one expense with per-year amounts.
type ExpenseItem struct {
	ID      string      `yaml:"id" json:"id"`
	Name    string      `yaml:"name" json:"name"`
	Role    ExpenseRole `yaml:"role" json:"role"`
	Amounts YearAmounts `yaml:"amounts" json:"amounts"`
	// RawAmounts are pre-inflation values re-escalated on every run.
	RawAmounts     YearAmounts   `yaml:"raw_amounts,omitempty" json:"raw_amounts,omitempty"`
	CostSettings   *CostSettings `yaml:"cost_settings,omitempty" json:"cost_settings,omitempty"`
	AutoCalculated bool          `yaml:"auto_calculated,omitempty" json:"auto_calculated,omitempty"`
}

// DerivesCost reports whether the item's amounts are computed from revenue.
func (e *ExpenseItem) DerivesCost() bool {
	return e.Role == ExpenseBusinessCost && e.CostSettings != nil
}

// AssetItem is one asset ledger entry.
type AssetItem struct {
	ID           string      `yaml:"id" json:"id"`
	Name         string      `yaml:"name" json:"name"`
	Kind         AssetKind   `yaml:"kind" json:"kind"`
	Amounts      YearAmounts `yaml:"amounts" json:"amounts"`
	IsInvestment bool        `yaml:"is_investment,omitempty" json:"is_investment,omitempty"`
	// InvestmentReturn overrides the global default return when set.
	InvestmentReturn *decimal.Decimal `yaml:"investment_return,omitempty" json:"investment_return,omitempty"`
}

// Amortization terms of a liability.
type Amortization struct {
	InterestRate   decimal.Decimal    `yaml:"interest_rate" json:"interest_rate"`
	TermYears      int                `yaml:"term_years" json:"term_years"`
	StartYear      int                `yaml:"start_year" json:"start_year"`
	RepaymentType  RepaymentType      `yaml:"repayment_type,omitempty" json:"repayment_type,omitempty"`
	OriginalAmount decimal.Decimal    `yaml:"original_amount" json:"original_amount"`
	AutoCalculate  bool               `yaml:"auto_calculate" json:"auto_calculate"`
	Method         AmortizationMethod `yaml:"method,omitempty" json:"method,omitempty"`
}

// Schedulable reports whether a repayment schedule can be derived.
func (a *Amortization) Schedulable() bool {
	return a != nil && a.AutoCalculate && a.OriginalAmount.IsPositive() && a.TermYears > 0 && a.StartYear > 0
}

// LiabilityItem is one liability ledger entry. Amounts are outstanding
// balances stored as magnitudes.
type LiabilityItem struct {
	ID           string        `yaml:"id" json:"id"`
	Name         string        `yaml:"name" json:"name"`
	Kind         LiabilityKind `yaml:"kind" json:"kind"`
	Amounts      YearAmounts   `yaml:"amounts" json:"amounts"`
	Amortization *Amortization `yaml:"amortization,omitempty" json:"amortization,omitempty"`
}

// EventType is the direction of a life event.
type EventType string

const (
	EventIncome  EventType = "income"
	EventExpense EventType = "expense"
)

// EventSource selects which running total a life event affects.
type EventSource string

const (
	SourcePersonal            EventSource = "personal"
	SourceCorporate           EventSource = "corporate"
	SourcePersonalInvestment  EventSource = "personal_investment"
	SourceCorporateInvestment EventSource = "corporate_investment"
)

// Valid reports whether s is a known source.
func (s EventSource) Valid() bool {
	switch s {
	case SourcePersonal, SourceCorporate, SourcePersonalInvestment, SourceCorporateInvestment:
		return true
	}
	return false
}

// LifeEvent is a one-off income or expense in a given year.
type LifeEvent struct {
	Year        int             `yaml:"year" json:"year"`
	Description string          `yaml:"description" json:"description"`
	Type        EventType       `yaml:"type" json:"type"`
	Category    string          `yaml:"category,omitempty" json:"category,omitempty"`
	Amount      decimal.Decimal `yaml:"amount" json:"amount"`
	Source      EventSource     `yaml:"source" json:"source"`
}

// IncomeData holds the personal and corporate income sections.
type IncomeData struct {
	Personal  []IncomeItem `yaml:"personal" json:"personal"`
	Corporate []IncomeItem `yaml:"corporate" json:"corporate"`
}

// ExpenseData holds the personal and corporate expense sections.
type ExpenseData struct {
	Personal  []ExpenseItem `yaml:"personal" json:"personal"`
	Corporate []ExpenseItem `yaml:"corporate" json:"corporate"`
}

// AssetData holds the personal and corporate asset sections.
type AssetData struct {
	Personal  []AssetItem `yaml:"personal" json:"personal"`
	Corporate []AssetItem `yaml:"corporate" json:"corporate"`
}

// LiabilityData holds the personal and corporate liability sections.
type LiabilityData struct {
	Personal  []LiabilityItem `yaml:"personal" json:"personal"`
	Corporate []LiabilityItem `yaml:"corporate" json:"corporate"`
}

func cloneIncome(items []IncomeItem) []IncomeItem {
	if items == nil {
		return nil
	}
	out := make([]IncomeItem, len(items))
	for i, it := range items {
		it.Amounts = it.Amounts.Clone()
		it.GrossAmounts = it.GrossAmounts.Clone()
		out[i] = it
	}
	return out
}

func cloneExpenses(items []ExpenseItem) []ExpenseItem {
	if items == nil {
		return nil
	}
	out := make([]ExpenseItem, len(items))
	for i, it := range items {
		it.Amounts = it.Amounts.Clone()
		it.RawAmounts = it.RawAmounts.Clone()
		if it.CostSettings != nil {
			cs := *it.CostSettings
			it.CostSettings = &cs
		}
		out[i] = it
	}
	return out
}

func cloneAssets(items []AssetItem) []AssetItem {
	if items == nil {
		return nil
	}
	out := make([]AssetItem, len(items))
	for i, it := range items {
		it.Amounts = it.Amounts.Clone()
		if it.InvestmentReturn != nil {
			r := *it.InvestmentReturn
			it.InvestmentReturn = &r
		}
		out[i] = it
	}
	return out
}

func cloneLiabilities(items []LiabilityItem) []LiabilityItem {
	if items == nil {
		return nil
	}
	out := make([]LiabilityItem, len(items))
	for i, it := range items {
		it.Amounts = it.Amounts.Clone()
		if it.Amortization != nil {
			a := *it.Amortization
			it.Amortization = &a
		}
		out[i] = it
	}
	return out
}
