package calculation

import (
	"github.com/rpgo/lifeplan-simulator/internal/domain"
	"github.com/rpgo/lifeplan-simulator/pkg/dateutil"
	"github.com/rpgo/lifeplan-simulator/pkg/money"
	"github.com/shopspring/decimal"
)

// SchoolStage is an age band of the education cost table.
type SchoolStage struct {
	Name   string
	MinAge int
	MaxAge int
	Costs  map[domain.SchoolTier]decimal.Decimal
	tier   func(domain.EducationPlan) domain.SchoolTier
}

// DefaultSchoolStages returns the annual base costs per stage in man-yen.
func DefaultSchoolStages() []SchoolStage {
	tiers := func(public, private string) map[domain.SchoolTier]decimal.Decimal {
		return map[domain.SchoolTier]decimal.Decimal{
			domain.TierPublic:  decimal.RequireFromString(public),
			domain.TierPrivate: decimal.RequireFromString(private),
		}
	}
	return []SchoolStage{
		{Name: "nursery", MinAge: 0, MaxAge: 2, Costs: tiers("29.9", "35.3"),
			tier: func(p domain.EducationPlan) domain.SchoolTier { return p.Nursery }},
		{Name: "preschool", MinAge: 3, MaxAge: 5, Costs: tiers("18.4", "34.7"),
			tier: func(p domain.EducationPlan) domain.SchoolTier { return p.Preschool }},
		{Name: "elementary", MinAge: 6, MaxAge: 11, Costs: tiers("33.6", "182.8"),
			tier: func(p domain.EducationPlan) domain.SchoolTier { return p.Elementary }},
		{Name: "junior_high", MinAge: 12, MaxAge: 14, Costs: tiers("54.2", "156"),
			tier: func(p domain.EducationPlan) domain.SchoolTier { return p.JuniorHigh }},
		{Name: "high_school", MinAge: 15, MaxAge: 17, Costs: tiers("59.7", "103"),
			tier: func(p domain.EducationPlan) domain.SchoolTier { return p.HighSchool }},
		{Name: "university", MinAge: 18, MaxAge: 21, Costs: map[domain.SchoolTier]decimal.Decimal{
			domain.TierNational:          decimal.RequireFromString("60.6"),
			domain.TierPrivateHumanities: decimal.RequireFromString("102.6"),
			domain.TierPrivateScience:    decimal.RequireFromString("135.4"),
		}, tier: func(p domain.EducationPlan) domain.SchoolTier { return p.University }},
	}
}

// EducationCostModel computes per-child schooling costs by age band.
type EducationCostModel struct {
	Stages []SchoolStage
}

// NewEducationCostModel creates an education model with the default table.
func NewEducationCostModel() *EducationCostModel {
	return &EducationCostModel{Stages: DefaultSchoolStages()}
}

// ChildCost returns the base annual cost for a child of age following plan.
// Ages outside every band and unknown or "none" tiers cost nothing.
func (em *EducationCostModel) ChildCost(plan domain.EducationPlan, age int) decimal.Decimal {
	for _, s := range em.Stages {
		if age < s.MinAge || age > s.MaxAge {
			continue
		}
		tier := s.tier(plan)
		if cost, ok := s.Costs[tier]; ok {
			return cost
		}
		// public and national name the same tier
		switch tier {
		case domain.TierPublic:
			return s.Costs[domain.TierNational]
		case domain.TierNational:
			return s.Costs[domain.TierPublic]
		}
		return decimal.Zero
	}
	return decimal.Zero
}

// AnnualCost sums every child's cost for year, escalated by the education
// inflation rate and rounded to 0.1.
func (em *EducationCostModel) AnnualCost(p *domain.Profile, params domain.Parameters, year int) decimal.Decimal {
	ys := dateutil.YearsSince(p.StartYear, year)
	total := decimal.Zero
	for _, c := range p.Children {
		total = total.Add(em.ChildCost(c.EducationPlan, c.CurrentAge+ys))
	}
	for _, c := range p.PlannedChildren {
		if ys < c.YearsFromNow {
			continue
		}
		total = total.Add(em.ChildCost(c.EducationPlan, ys-c.YearsFromNow))
	}
	return money.Round1(total.Mul(money.Growth(params.EducationCostIncreaseRate, ys)))
}

// Schedule returns the education cost for every year of the horizon.
func (em *EducationCostModel) Schedule(p *domain.Profile, params domain.Parameters, years []int) domain.YearAmounts {
	out := make(domain.YearAmounts, len(years))
	for _, y := range years {
		out[y] = em.AnnualCost(p, params, y)
	}
	return out
}
