package output

import (
	"fmt"

	"github.com/rpgo/lifeplan-simulator/internal/domain"
)

// GenerateAssumptions lists the rates a projection ran with.
func GenerateAssumptions(p domain.Parameters) []string {
	return []string{
		fmt.Sprintf("Inflation: %s annually", FormatPercentage(p.InflationRate)),
		fmt.Sprintf("Education cost increase: %s annually", FormatPercentage(p.EducationCostIncreaseRate)),
		fmt.Sprintf("Default asset return: %s annually", FormatPercentage(p.InvestmentReturn)),
		fmt.Sprintf("Income-investment pool return: %s annually", FormatPercentage(p.IncomeInvestmentReturn)),
		"Amounts in man-yen (10,000 yen), rounded half-up to 0.1",
		"Income tax and pension tables held constant over the horizon",
	}
}
