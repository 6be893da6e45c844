package domain

import "github.com/shopspring/decimal"

// Parameters are the global rates of a projection, all in percent.
type Parameters struct {
	InflationRate             decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate"`
	EducationCostIncreaseRate decimal.Decimal `yaml:"education_cost_increase_rate" json:"education_cost_increase_rate"`
	InvestmentReturn          decimal.Decimal `yaml:"investment_return" json:"investment_return"`
	InvestmentRatio           decimal.Decimal `yaml:"investment_ratio" json:"investment_ratio"`
	MaxInvestmentAmount       decimal.Decimal `yaml:"max_investment_amount" json:"max_investment_amount"`
	IncomeInvestmentReturn    decimal.Decimal `yaml:"income_investment_return" json:"income_investment_return"`
}

// DefaultParameters returns the parameters applied when a bundle has none.
func DefaultParameters() Parameters {
	return Parameters{
		InflationRate:             decimal.NewFromInt(1),
		EducationCostIncreaseRate: decimal.NewFromInt(1),
		InvestmentReturn:          decimal.NewFromInt(1),
		InvestmentRatio:           decimal.NewFromInt(10),
		MaxInvestmentAmount:       decimal.NewFromInt(100),
		IncomeInvestmentReturn:    decimal.NewFromInt(1),
	}
}

// Bundle is the complete engine input. Profile, Income and Expenses are
// required; the remaining sections are defaulted on import.
type Bundle struct {
	Profile     *Profile       `yaml:"profile" json:"profile"`
	Parameters  *Parameters    `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Income      *IncomeData    `yaml:"income" json:"income"`
	Expenses    *ExpenseData   `yaml:"expenses" json:"expenses"`
	Assets      *AssetData     `yaml:"assets,omitempty" json:"assets,omitempty"`
	Liabilities *LiabilityData `yaml:"liabilities,omitempty" json:"liabilities,omitempty"`
	LifeEvents  []LifeEvent    `yaml:"life_events,omitempty" json:"life_events,omitempty"`
}

// Params returns the bundle parameters or the defaults.
func (b *Bundle) Params() Parameters {
	if b.Parameters == nil {
		return DefaultParameters()
	}
	return *b.Parameters
}

// Clone returns a structured deep copy that shares no mutable state with b.
func (b *Bundle) Clone() *Bundle {
	if b == nil {
		return nil
	}
	c := &Bundle{Profile: b.Profile.Clone()}
	if b.Parameters != nil {
		p := *b.Parameters
		c.Parameters = &p
	}
	if b.Income != nil {
		c.Income = &IncomeData{
			Personal:  cloneIncome(b.Income.Personal),
			Corporate: cloneIncome(b.Income.Corporate),
		}
	}
	if b.Expenses != nil {
		c.Expenses = &ExpenseData{
			Personal:  cloneExpenses(b.Expenses.Personal),
			Corporate: cloneExpenses(b.Expenses.Corporate),
		}
	}
	if b.Assets != nil {
		c.Assets = &AssetData{
			Personal:  cloneAssets(b.Assets.Personal),
			Corporate: cloneAssets(b.Assets.Corporate),
		}
	}
	if b.Liabilities != nil {
		c.Liabilities = &LiabilityData{
			Personal:  cloneLiabilities(b.Liabilities.Personal),
			Corporate: cloneLiabilities(b.Liabilities.Corporate),
		}
	}
	if b.LifeEvents != nil {
		c.LifeEvents = append([]LifeEvent(nil), b.LifeEvents...)
	}
	return c
}
