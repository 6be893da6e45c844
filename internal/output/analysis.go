package output

import (
	"github.com/rpgo/lifeplan-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// YearValue pairs a calendar year with a figure.
type YearValue struct {
	Year  int
	Value decimal.Decimal
}

// Summary condenses a ledger into the milestones shown by the report
// formatters.
type Summary struct {
	FirstYear, LastYear int
	StartNetAssets      decimal.Decimal
	FinalNetAssets      decimal.Decimal
	PeakNetAssets       YearValue
	LowestNetAssets     YearValue
	FinalInvestments    decimal.Decimal
	FinalCorporateNet   decimal.Decimal
	// DeficitYears counts years with a negative personal balance.
	DeficitYears int
	// FirstDepletion is the first year personal net assets turn negative;
	// zero when they never do.
	FirstDepletion int
}

// Summarize computes the report milestones of a ledger.
// Extracted from the formatters for testability.
func Summarize(l *domain.Ledger) Summary {
	records := l.Records()
	if len(records) == 0 {
		return Summary{}
	}
	first, last := records[0], records[len(records)-1]
	s := Summary{
		FirstYear:         first.Year,
		LastYear:          last.Year,
		StartNetAssets:    first.PersonalNetAssets,
		FinalNetAssets:    last.PersonalNetAssets,
		PeakNetAssets:     YearValue{first.Year, first.PersonalNetAssets},
		LowestNetAssets:   YearValue{first.Year, first.PersonalNetAssets},
		FinalInvestments:  last.TotalInvestmentAssets,
		FinalCorporateNet: last.CorporateNetAssets,
	}
	for _, r := range records {
		if r.PersonalNetAssets.GreaterThan(s.PeakNetAssets.Value) {
			s.PeakNetAssets = YearValue{r.Year, r.PersonalNetAssets}
		}
		if r.PersonalNetAssets.LessThan(s.LowestNetAssets.Value) {
			s.LowestNetAssets = YearValue{r.Year, r.PersonalNetAssets}
		}
		if r.PersonalBalance.IsNegative() {
			s.DeficitYears++
		}
		if s.FirstDepletion == 0 && r.PersonalNetAssets.IsNegative() {
			s.FirstDepletion = r.Year
		}
	}
	return s
}
