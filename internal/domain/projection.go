package domain

import (
	"fmt"
	"sort"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// YearRecord is the ledger entry for one projected calendar year. Every
// figure is rounded half-up to one decimal place.
type YearRecord struct {
	Year int `yaml:"year" json:"year"`
	Age  int `yaml:"age" json:"age"`

	// Personal income
	MainIncome          decimal.Decimal `yaml:"main_income" json:"main_income"`
	SideIncome          decimal.Decimal `yaml:"side_income" json:"side_income"`
	SpouseIncome        decimal.Decimal `yaml:"spouse_income" json:"spouse_income"`
	PensionIncome       decimal.Decimal `yaml:"pension_income" json:"pension_income"`
	SpousePensionIncome decimal.Decimal `yaml:"spouse_pension_income" json:"spouse_pension_income"`
	InvestmentIncome    decimal.Decimal `yaml:"investment_income" json:"investment_income"`

	// Personal expenses
	LivingExpense    decimal.Decimal `yaml:"living_expense" json:"living_expense"`
	HousingExpense   decimal.Decimal `yaml:"housing_expense" json:"housing_expense"`
	EducationExpense decimal.Decimal `yaml:"education_expense" json:"education_expense"`
	OtherExpense     decimal.Decimal `yaml:"other_expense" json:"other_expense"`
	LoanRepayment    decimal.Decimal `yaml:"loan_repayment" json:"loan_repayment"`

	// Personal balances
	PersonalAssets         decimal.Decimal `yaml:"personal_assets" json:"personal_assets"`
	InvestmentAmount       decimal.Decimal `yaml:"investment_amount" json:"investment_amount"`
	TotalInvestmentAssets  decimal.Decimal `yaml:"total_investment_assets" json:"total_investment_assets"`
	PersonalBalance        decimal.Decimal `yaml:"personal_balance" json:"personal_balance"`
	PersonalTotalAssets    decimal.Decimal `yaml:"personal_total_assets" json:"personal_total_assets"`
	PersonalLiabilityTotal decimal.Decimal `yaml:"personal_liability_total" json:"personal_liability_total"`
	PersonalNetAssets      decimal.Decimal `yaml:"personal_net_assets" json:"personal_net_assets"`

	// Corporate
	CorporateIncome                decimal.Decimal `yaml:"corporate_income" json:"corporate_income"`
	CorporateOtherIncome           decimal.Decimal `yaml:"corporate_other_income" json:"corporate_other_income"`
	CorporateExpense               decimal.Decimal `yaml:"corporate_expense" json:"corporate_expense"`
	CorporateOtherExpense          decimal.Decimal `yaml:"corporate_other_expense" json:"corporate_other_expense"`
	CorporateLoanRepayment         decimal.Decimal `yaml:"corporate_loan_repayment" json:"corporate_loan_repayment"`
	CorporateBalance               decimal.Decimal `yaml:"corporate_balance" json:"corporate_balance"`
	CorporateTotalAssets           decimal.Decimal `yaml:"corporate_total_assets" json:"corporate_total_assets"`
	CorporateLiabilityTotal        decimal.Decimal `yaml:"corporate_liability_total" json:"corporate_liability_total"`
	CorporateNetAssets             decimal.Decimal `yaml:"corporate_net_assets" json:"corporate_net_assets"`
	CorporateInvestmentAmount      decimal.Decimal `yaml:"corporate_investment_amount" json:"corporate_investment_amount"`
	CorporateInvestmentIncome      decimal.Decimal `yaml:"corporate_investment_income" json:"corporate_investment_income"`
	CorporateTotalInvestmentAssets decimal.Decimal `yaml:"corporate_total_investment_assets" json:"corporate_total_investment_assets"`
}

// Ledger is the immutable, year-ordered result of one projection run.
// It serializes as a mapping from year to record.
type Ledger struct {
	records []YearRecord
	index   map[int]int
}

// NewLedger builds a ledger from records. Records are copied and sorted by
// year; a duplicate year is an error.
func NewLedger(records []YearRecord) (*Ledger, error) {
	sorted := append([]YearRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })
	index := make(map[int]int, len(sorted))
	for i, r := range sorted {
		if _, dup := index[r.Year]; dup {
			return nil, fmt.Errorf("duplicate ledger year %d", r.Year)
		}
		index[r.Year] = i
	}
	return &Ledger{records: sorted, index: index}, nil
}

// Len returns the number of projected years.
func (l *Ledger) Len() int {
	if l == nil {
		return 0
	}
	return len(l.records)
}

// Record returns the entry for year.
func (l *Ledger) Record(year int) (YearRecord, bool) {
	if l == nil {
		return YearRecord{}, false
	}
	i, ok := l.index[year]
	if !ok {
		return YearRecord{}, false
	}
	return l.records[i], true
}

// Records returns a copy of all entries in year order.
func (l *Ledger) Records() []YearRecord {
	if l == nil {
		return nil
	}
	return append([]YearRecord(nil), l.records...)
}

// Years returns the projected years in ascending order.
func (l *Ledger) Years() []int {
	if l == nil {
		return nil
	}
	years := make([]int, len(l.records))
	for i, r := range l.records {
		years[i] = r.Year
	}
	return years
}

// Equal reports whether both ledgers hold identical records.
func (l *Ledger) Equal(other *Ledger) bool {
	if l.Len() != other.Len() {
		return false
	}
	for i := 0; i < l.Len(); i++ {
		if !recordsEqual(l.records[i], other.records[i]) {
			return false
		}
	}
	return true
}

func recordsEqual(a, b YearRecord) bool {
	if a.Year != b.Year || a.Age != b.Age {
		return false
	}
	fa, fb := a.Figures(), b.Figures()
	for i := range fa {
		if !fa[i].Value.Equal(fb[i].Value) {
			return false
		}
	}
	return true
}

// Figure is a named ledger value.
type Figure struct {
	Name  string
	Value decimal.Decimal
}

// Figures lists the record's subtotals in ledger column order.
func (r YearRecord) Figures() []Figure {
	return []Figure{
		{"main_income", r.MainIncome},
		{"side_income", r.SideIncome},
		{"spouse_income", r.SpouseIncome},
		{"pension_income", r.PensionIncome},
		{"spouse_pension_income", r.SpousePensionIncome},
		{"investment_income", r.InvestmentIncome},
		{"living_expense", r.LivingExpense},
		{"housing_expense", r.HousingExpense},
		{"education_expense", r.EducationExpense},
		{"other_expense", r.OtherExpense},
		{"loan_repayment", r.LoanRepayment},
		{"personal_assets", r.PersonalAssets},
		{"investment_amount", r.InvestmentAmount},
		{"total_investment_assets", r.TotalInvestmentAssets},
		{"personal_balance", r.PersonalBalance},
		{"personal_total_assets", r.PersonalTotalAssets},
		{"personal_liability_total", r.PersonalLiabilityTotal},
		{"personal_net_assets", r.PersonalNetAssets},
		{"corporate_income", r.CorporateIncome},
		{"corporate_other_income", r.CorporateOtherIncome},
		{"corporate_expense", r.CorporateExpense},
		{"corporate_other_expense", r.CorporateOtherExpense},
		{"corporate_loan_repayment", r.CorporateLoanRepayment},
		{"corporate_balance", r.CorporateBalance},
		{"corporate_total_assets", r.CorporateTotalAssets},
		{"corporate_liability_total", r.CorporateLiabilityTotal},
		{"corporate_net_assets", r.CorporateNetAssets},
		{"corporate_investment_amount", r.CorporateInvestmentAmount},
		{"corporate_investment_income", r.CorporateInvestmentIncome},
		{"corporate_total_investment_assets", r.CorporateTotalInvestmentAssets},
	}
}

func (l *Ledger) asMap() map[int]YearRecord {
	m := make(map[int]YearRecord, len(l.records))
	for _, r := range l.records {
		m[r.Year] = r
	}
	return m
}

func ledgerFromMap(m map[int]YearRecord) (*Ledger, error) {
	records := make([]YearRecord, 0, len(m))
	for year, r := range m {
		if r.Year == 0 {
			r.Year = year
		}
		if r.Year != year {
			return nil, fmt.Errorf("ledger key %d holds record for year %d", year, r.Year)
		}
		records = append(records, r)
	}
	return NewLedger(records)
}

// MarshalJSON encodes the ledger as a year-keyed object.
func (l *Ledger) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.asMap())
}

// UnmarshalJSON decodes a year-keyed object.
func (l *Ledger) UnmarshalJSON(data []byte) error {
	var m map[int]YearRecord
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("failed to decode ledger: %w", err)
	}
	parsed, err := ledgerFromMap(m)
	if err != nil {
		return err
	}
	*l = *parsed
	return nil
}

// MarshalYAML encodes the ledger as a year-keyed mapping.
func (l *Ledger) MarshalYAML() (interface{}, error) {
	return l.asMap(), nil
}

// UnmarshalYAML decodes a year-keyed mapping.
func (l *Ledger) UnmarshalYAML(value *yaml.Node) error {
	var m map[int]YearRecord
	if err := value.Decode(&m); err != nil {
		return fmt.Errorf("failed to decode ledger: %w", err)
	}
	parsed, err := ledgerFromMap(m)
	if err != nil {
		return err
	}
	*l = *parsed
	return nil
}

// Result is the output of a successful projection run.
type Result struct {
	Ledger *Ledger
	// Snapshot is the working copy of the input with computed pension,
	// derived business costs and auto-calculated expenses filled in.
	Snapshot *Bundle
	// Assets holds each asset item with its projected per-year balance.
	Assets AssetData
}

// Document is the export shape: the bundle fields plus the ledger.
type Document struct {
	Bundle `yaml:",inline"`
	Ledger *Ledger `yaml:"ledger,omitempty" json:"ledger,omitempty"`
}

// documentJSON is the flat JSON layout of a Document. goccy/go-json cannot
// encode the embedded Bundle next to the *Ledger marshaler.
type documentJSON struct {
	Profile     *Profile       `json:"profile"`
	Parameters  *Parameters    `json:"parameters,omitempty"`
	Income      *IncomeData    `json:"income"`
	Expenses    *ExpenseData   `json:"expenses"`
	Assets      *AssetData     `json:"assets,omitempty"`
	Liabilities *LiabilityData `json:"liabilities,omitempty"`
	LifeEvents  []LifeEvent    `json:"life_events,omitempty"`
	Ledger      *Ledger        `json:"ledger,omitempty"`
}

// MarshalJSON encodes the bundle fields and the ledger side by side.
func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(documentJSON{
		Profile:     d.Profile,
		Parameters:  d.Parameters,
		Income:      d.Income,
		Expenses:    d.Expenses,
		Assets:      d.Assets,
		Liabilities: d.Liabilities,
		LifeEvents:  d.LifeEvents,
		Ledger:      d.Ledger,
	})
}

// UnmarshalJSON decodes the flat layout written by MarshalJSON.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw documentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.Bundle = Bundle{
		Profile:     raw.Profile,
		Parameters:  raw.Parameters,
		Income:      raw.Income,
		Expenses:    raw.Expenses,
		Assets:      raw.Assets,
		Liabilities: raw.Liabilities,
		LifeEvents:  raw.LifeEvents,
	}
	d.Ledger = raw.Ledger
	return nil
}
