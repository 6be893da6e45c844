package calculation

import (
	"github.com/rpgo/lifeplan-simulator/internal/domain"
	"github.com/rpgo/lifeplan-simulator/pkg/money"
	"github.com/shopspring/decimal"
)

// PUBLIC PENSION ASSUMPTIONS:
//
// 1. Basic pension: full entitlement of 780,900 yen/year for 480 contribution
//    months, scaled linearly for fewer months.
// 2. Earnings-related pension: average standardized monthly remuneration x
//    5.481/1000 x contribution months. Only occupations insured in the
//    employees' pension accrue it.
// 3. Earnings test while working past the claim age: monthly threshold 47
//    before 65 and 51 from 65; half of the excess is withheld from the
//    earnings-related part only.
// 4. Contribution months run from the work start age to the claim age.

// RemunerationGrade is one band of the standardized monthly remuneration
// table. A salary at or above From maps to Amount (man-yen per month).
type RemunerationGrade struct {
	From   decimal.Decimal
	Amount decimal.Decimal
}

// DefaultRemunerationGrades returns the 32-grade table.
func DefaultRemunerationGrades() []RemunerationGrade {
	bounds := []string{"0", "9.3", "10.1", "10.7", "11.4", "12.2", "13.0", "13.8", "14.6", "15.5", "16.5",
		"17.5", "18.5", "19.5", "21", "23", "25", "27", "29", "31", "33", "35", "37", "39.5", "42.5",
		"45.5", "48.5", "51.5", "54.5", "57.5", "60.5", "63.5"}
	amounts := []string{"8.8", "9.8", "10.4", "11.0", "11.8", "12.6", "13.4", "14.2", "15.0", "16.0", "17.0",
		"18.0", "19.0", "20.0", "22", "24", "26", "28", "30", "32", "34", "36", "38", "41", "44",
		"47", "50", "53", "56", "59", "62", "65"}
	grades := make([]RemunerationGrade, len(bounds))
	for i := range bounds {
		grades[i] = RemunerationGrade{
			From:   decimal.RequireFromString(bounds[i]),
			Amount: decimal.RequireFromString(amounts[i]),
		}
	}
	return grades
}

// PensionCalculator computes annual public pension benefits in man-yen.
type PensionCalculator struct {
	FullBasicYen     decimal.Decimal
	AccrualRate      decimal.Decimal
	MaxMonths        int
	EarlyThreshold   decimal.Decimal
	LateThreshold    decimal.Decimal
	LateThresholdAge int
	Grades           []RemunerationGrade
}

// NewPensionCalculator creates a pension calculator with the current rules.
func NewPensionCalculator() *PensionCalculator {
	return &PensionCalculator{
		FullBasicYen:     decimal.NewFromInt(780900),
		AccrualRate:      decimal.RequireFromString("0.005481"),
		MaxMonths:        480,
		EarlyThreshold:   decimal.NewFromInt(47),
		LateThreshold:    decimal.NewFromInt(51),
		LateThresholdAge: 65,
		Grades:           DefaultRemunerationGrades(),
	}
}

// PensionInput describes one earner for the pension model.
type PensionInput struct {
	Occupation domain.Occupation
	Profile    domain.PensionProfile
	// AverageRemuneration is the standardized monthly remuneration used for
	// the earnings-related part.
	AverageRemuneration decimal.Decimal
}

// ContributionMonths returns the months enrolled between work start and
// claim age, capped at the full-entitlement maximum.
func (pc *PensionCalculator) ContributionMonths(workStartAge, claimAge int) int {
	months := (claimAge - workStartAge) * 12
	if months < 0 {
		return 0
	}
	if months > pc.MaxMonths {
		return pc.MaxMonths
	}
	return months
}

// BasicAnnualYen returns the annual basic pension in yen.
func (pc *PensionCalculator) BasicAnnualYen(months int) decimal.Decimal {
	if months <= 0 || pc.MaxMonths <= 0 {
		return decimal.Zero
	}
	return pc.FullBasicYen.Mul(decimal.NewFromInt(int64(months))).Div(decimal.NewFromInt(int64(pc.MaxMonths)))
}

// BasicAnnual returns the annual basic pension in man-yen.
func (pc *PensionCalculator) BasicAnnual(months int) decimal.Decimal {
	return money.FromYen(pc.BasicAnnualYen(months))
}

// EarningsRelatedAnnual returns the annual earnings-related pension in man-yen.
func (pc *PensionCalculator) EarningsRelatedAnnual(averageRemuneration decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 || !averageRemuneration.IsPositive() {
		return decimal.Zero
	}
	return averageRemuneration.Mul(pc.AccrualRate).Mul(decimal.NewFromInt(int64(months)))
}

// StandardRemuneration maps a monthly salary onto the remuneration grades.
func (pc *PensionCalculator) StandardRemuneration(monthly decimal.Decimal) decimal.Decimal {
	if !monthly.IsPositive() || len(pc.Grades) == 0 {
		return decimal.Zero
	}
	grade := pc.Grades[0].Amount
	for _, g := range pc.Grades {
		if monthly.LessThan(g.From) {
			break
		}
		grade = g.Amount
	}
	return grade
}

// Threshold returns the monthly earnings test threshold at age.
func (pc *PensionCalculator) Threshold(age int) decimal.Decimal {
	if age >= pc.LateThresholdAge {
		return pc.LateThreshold
	}
	return pc.EarlyThreshold
}

// EarningsTest returns the monthly amount of the earnings-related pension
// withheld for a pensioner still earning monthlySalary.
func (pc *PensionCalculator) EarningsTest(monthlySalary, monthlyEarningsRelated decimal.Decimal, age int) decimal.Decimal {
	combined := monthlySalary.Add(monthlyEarningsRelated)
	excess := money.NonNegative(combined.Sub(pc.Threshold(age)))
	return decimal.Min(monthlyEarningsRelated, excess.Div(decimal.NewFromInt(2)))
}

// AnnualBenefit returns the pension paid at age given that year's annual
// salary. It is exactly zero before the claim age.
func (pc *PensionCalculator) AnnualBenefit(in PensionInput, age int, annualSalary decimal.Decimal) decimal.Decimal {
	if age < in.Profile.ClaimAge {
		return decimal.Zero
	}
	months := pc.ContributionMonths(in.Profile.WorkStartAge, in.Profile.ClaimAge)
	basic := pc.BasicAnnual(months)

	earnings := decimal.Zero
	if in.Occupation.HasEmployeesPension() {
		earnings = pc.EarningsRelatedAnnual(in.AverageRemuneration, months)
	}
	if earnings.IsZero() {
		return basic
	}
	if !in.Profile.WorkAfterClaim || !annualSalary.IsPositive() {
		return basic.Add(earnings)
	}

	twelve := decimal.NewFromInt(12)
	monthly := earnings.Div(twelve)
	withheld := pc.EarningsTest(annualSalary.Div(twelve), monthly, age)
	return basic.Add(monthly.Sub(withheld).Mul(twelve))
}
