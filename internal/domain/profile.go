package domain

import (
	"github.com/rpgo/lifeplan-simulator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Occupation classifies how employment income is taxed and which public
// pension tiers the earner accrues.
type Occupation string

const (
	OccupationCompanyEmployee        Occupation = "company_employee"
	OccupationPartTimeWithPension    Occupation = "part_time_with_pension"
	OccupationPartTimeWithoutPension Occupation = "part_time_without_pension"
	OccupationSelfEmployed           Occupation = "self_employed"
	OccupationHomemaker              Occupation = "homemaker"
)

// Valid reports whether o is a known occupation. The empty value is accepted
// and treated as a company employee.
func (o Occupation) Valid() bool {
	switch o {
	case "", OccupationCompanyEmployee, OccupationPartTimeWithPension, OccupationPartTimeWithoutPension,
		OccupationSelfEmployed, OccupationHomemaker:
		return true
	}
	return false
}

// IsEmployed reports whether income is employment income subject to the
// withholding tax model.
func (o Occupation) IsEmployed() bool {
	switch o {
	case "", OccupationCompanyEmployee, OccupationPartTimeWithPension, OccupationPartTimeWithoutPension:
		return true
	}
	return false
}

// HasEmployeesPension reports whether the earner accrues the earnings-related
// pension tier on top of the basic pension.
func (o Occupation) HasEmployeesPension() bool {
	return o == "" || o == OccupationCompanyEmployee || o == OccupationPartTimeWithPension
}

// MaritalStatus of the primary person.
type MaritalStatus string

const (
	MaritalSingle   MaritalStatus = "single"
	MaritalMarried  MaritalStatus = "married"
	MaritalPlanning MaritalStatus = "planning"
)

// HousingType selects the rent or ownership cost path.
type HousingType string

const (
	HousingRent HousingType = "rent"
	HousingOwn  HousingType = "own"
)

// Profile describes the household. It is read-only for a projection run.
type Profile struct {
	CurrentAge           int             `yaml:"current_age" json:"current_age"`
	StartYear            int             `yaml:"start_year" json:"start_year"`
	EndAge               int             `yaml:"end_age" json:"end_age"`
	Gender               string          `yaml:"gender,omitempty" json:"gender,omitempty"`
	Occupation           Occupation      `yaml:"occupation" json:"occupation"`
	MonthlyLivingExpense decimal.Decimal `yaml:"monthly_living_expense" json:"monthly_living_expense"`
	MaritalStatus        MaritalStatus   `yaml:"marital_status" json:"marital_status"`
	Housing              Housing         `yaml:"housing" json:"housing"`
	Spouse               *SpouseProfile  `yaml:"spouse,omitempty" json:"spouse,omitempty"`
	Children             []Child         `yaml:"children,omitempty" json:"children,omitempty"`
	PlannedChildren      []PlannedChild  `yaml:"planned_children,omitempty" json:"planned_children,omitempty"`
	Pension              PensionProfile  `yaml:"pension" json:"pension"`
}

// PensionProfile carries the inputs of the public pension model.
type PensionProfile struct {
	WorkStartAge   int  `yaml:"work_start_age" json:"work_start_age"`
	ClaimAge       int  `yaml:"claim_age" json:"claim_age"`
	WorkAfterClaim bool `yaml:"work_after_claim" json:"work_after_claim"`
	// AverageMonthlyRemuneration overrides the value derived from salary
	// items when positive (man-yen per month).
	AverageMonthlyRemuneration decimal.Decimal `yaml:"average_monthly_remuneration,omitempty" json:"average_monthly_remuneration,omitempty"`
}

// SpouseProfile describes a current or planned spouse.
type SpouseProfile struct {
	CurrentAge int `yaml:"current_age,omitempty" json:"current_age,omitempty"`
	// AgeAtMarriage is the spouse's age in the marriage year (planning only).
	AgeAtMarriage int `yaml:"age_at_marriage,omitempty" json:"age_at_marriage,omitempty"`
	// MarriageAge is the primary person's age in the marriage year.
	MarriageAge              int             `yaml:"marriage_age,omitempty" json:"marriage_age,omitempty"`
	Occupation               Occupation      `yaml:"occupation,omitempty" json:"occupation,omitempty"`
	AdditionalMonthlyExpense decimal.Decimal `yaml:"additional_monthly_expense,omitempty" json:"additional_monthly_expense,omitempty"`
	Pension                  PensionProfile  `yaml:"pension" json:"pension"`
}

// Housing holds the terms of the active housing arrangement.
type Housing struct {
	Type HousingType `yaml:"type" json:"type"`
	Rent *RentTerms  `yaml:"rent,omitempty" json:"rent,omitempty"`
	Own  *OwnTerms   `yaml:"own,omitempty" json:"own,omitempty"`
}

// RentTerms of a rental contract.
type RentTerms struct {
	MonthlyRent        decimal.Decimal `yaml:"monthly_rent" json:"monthly_rent"`
	AnnualIncreaseRate decimal.Decimal `yaml:"annual_increase_rate" json:"annual_increase_rate"`
	RenewalFee         decimal.Decimal `yaml:"renewal_fee" json:"renewal_fee"`
	RenewalInterval    int             `yaml:"renewal_interval" json:"renewal_interval"`
}

// OwnTerms of a home purchase.
type OwnTerms struct {
	PurchaseYear        int                `yaml:"purchase_year" json:"purchase_year"`
	PurchasePrice       decimal.Decimal    `yaml:"purchase_price" json:"purchase_price"`
	LoanAmount          decimal.Decimal    `yaml:"loan_amount" json:"loan_amount"`
	InterestRate        decimal.Decimal    `yaml:"interest_rate" json:"interest_rate"`
	LoanTermYears       int                `yaml:"loan_term_years" json:"loan_term_years"`
	LoanMethod          AmortizationMethod `yaml:"loan_method,omitempty" json:"loan_method,omitempty"`
	MaintenanceCostRate decimal.Decimal    `yaml:"maintenance_cost_rate" json:"maintenance_cost_rate"`
	// PropertyTaxReductionRate is the percentage knocked off the property tax
	// during the first PropertyTaxReductionYears after purchase.
	PropertyTaxReductionRate  decimal.Decimal `yaml:"property_tax_reduction_rate,omitempty" json:"property_tax_reduction_rate,omitempty"`
	PropertyTaxReductionYears int             `yaml:"property_tax_reduction_years,omitempty" json:"property_tax_reduction_years,omitempty"`
}

// SchoolTier selects a row of the education cost table.
type SchoolTier string

const (
	TierNone              SchoolTier = "none"
	TierPublic            SchoolTier = "public"
	TierPrivate           SchoolTier = "private"
	TierNational          SchoolTier = "national"
	TierPrivateHumanities SchoolTier = "private_humanities"
	TierPrivateScience    SchoolTier = "private_science"
)

// EducationPlan picks one tier per schooling stage.
type EducationPlan struct {
	Nursery    SchoolTier `yaml:"nursery" json:"nursery"`
	Preschool  SchoolTier `yaml:"preschool" json:"preschool"`
	Elementary SchoolTier `yaml:"elementary" json:"elementary"`
	JuniorHigh SchoolTier `yaml:"junior_high" json:"junior_high"`
	HighSchool SchoolTier `yaml:"high_school" json:"high_school"`
	University SchoolTier `yaml:"university" json:"university"`
}

// Child already born.
type Child struct {
	CurrentAge    int           `yaml:"current_age" json:"current_age"`
	EducationPlan EducationPlan `yaml:"education_plan" json:"education_plan"`
}

// PlannedChild born YearsFromNow years after the start year.
type PlannedChild struct {
	YearsFromNow  int           `yaml:"years_from_now" json:"years_from_now"`
	EducationPlan EducationPlan `yaml:"education_plan" json:"education_plan"`
}

// LastYear is the final calendar year of the projection.
func (p *Profile) LastYear() int {
	return dateutil.LastYear(p.StartYear, p.CurrentAge, p.EndAge)
}

// MarriageYear returns the calendar year of a planned marriage.
func (p *Profile) MarriageYear() int {
	if p.Spouse == nil {
		return p.StartYear
	}
	return p.StartYear + (p.Spouse.MarriageAge - p.CurrentAge)
}

// SpouseAge returns the spouse's age in year. ok is false when there is no
// spouse in that year (single, or before a planned marriage).
func (p *Profile) SpouseAge(year int) (age int, ok bool) {
	if p.Spouse == nil {
		return 0, false
	}
	switch p.MaritalStatus {
	case MaritalMarried:
		return p.Spouse.CurrentAge + (year - p.StartYear), true
	case MaritalPlanning:
		marriageYear := p.MarriageYear()
		if year < marriageYear {
			return 0, false
		}
		return p.Spouse.AgeAtMarriage + (year - marriageYear), true
	}
	return 0, false
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	if p.Spouse != nil {
		s := *p.Spouse
		c.Spouse = &s
	}
	if p.Housing.Rent != nil {
		r := *p.Housing.Rent
		c.Housing.Rent = &r
	}
	if p.Housing.Own != nil {
		o := *p.Housing.Own
		c.Housing.Own = &o
	}
	if p.Children != nil {
		c.Children = append([]Child(nil), p.Children...)
	}
	if p.PlannedChildren != nil {
		c.PlannedChildren = append([]PlannedChild(nil), p.PlannedChildren...)
	}
	return &c
}
